package pattern

// SummaryKind identifies the source surface for renderer dispatch.
type SummaryKind string

const (
	SummaryKindEval  SummaryKind = "eval"
	SummaryKindAudit SummaryKind = "audit"
	SummaryKindVet   SummaryKind = "vet"
	SummaryKindList  SummaryKind = "list"
)

// Summary represents high-level metrics and counts.
type Summary struct {
	Label   string
	Kind    SummaryKind // dispatch key for renderers
	Metrics []SummaryItem
}

// SummaryItem is a single metric in a summary.
type SummaryItem struct {
	Label string // e.g., "Skipped", "Unexplained"
	Value string // formatted value
	Kind  string // "success", "error", "warning", "info" — affects coloring
}

func (s *Summary) Type() PatternType { return PatternTypeSummary }
