package skip

import (
	"fmt"
	"sort"
	"sync"
)

// Registry is a named set of conditions. It is safe for concurrent use,
// so parallel tests and TestMain setup can share one instance.
type Registry struct {
	mu    sync.RWMutex
	conds map[string]Condition
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{conds: make(map[string]Condition)}
}

// Register adds c to the registry. Re-registering the same name
// replaces the previous condition; an empty name is rejected.
func (r *Registry) Register(c Condition) error {
	if c.Name == "" {
		return fmt.Errorf("register condition: name is empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conds[c.Name] = c
	return nil
}

// Lookup returns the condition registered under name.
func (r *Registry) Lookup(name string) (Condition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.conds[name]
	return c, ok
}

// Conditions returns all registered conditions sorted by name.
func (r *Registry) Conditions() []Condition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Condition, 0, len(r.conds))
	for _, c := range r.conds {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of registered conditions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conds)
}

// Default is the process-wide registry used by the package-level
// helpers. It starts empty; call RegisterBuiltins (typically from
// TestMain) to populate it with the shipped conditions.
var Default = NewRegistry()

// RegisterBuiltins registers every builtin condition into r. With no
// argument it targets Default. Registration is explicit rather than an
// import side effect so that which conditions are active is visible at
// the call site.
func RegisterBuiltins(r *Registry) {
	if r == nil {
		r = Default
	}
	for _, c := range Builtins() {
		// Builtin names are non-empty by construction.
		_ = r.Register(c)
	}
}

// Lookup returns the condition registered under name in Default.
func Lookup(name string) (Condition, bool) {
	return Default.Lookup(name)
}
