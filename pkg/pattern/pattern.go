// Package pattern defines the semantic data types for skipif's output.
// Patterns are pure data — renderers decide presentation.
package pattern

// PatternType identifies the kind of visualization pattern.
type PatternType string

const (
	PatternTypeSummary        PatternType = "summary"
	PatternTypeConditionTable PatternType = "condition-table"
	PatternTypeSkipTable      PatternType = "skip-table"
)

// Pattern is the interface all visualization patterns implement.
// Patterns hold data; renderers decide how to present it.
type Pattern interface {
	Type() PatternType
}
