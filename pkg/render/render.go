// Package render provides output renderers for skipif's visualization
// patterns.
package render

import "github.com/dkoosis/skipif/pkg/pattern"

// Renderer converts patterns to formatted output.
type Renderer interface {
	Render(patterns []pattern.Pattern) string
}
