package skip

import (
	"sync"
	"testing"

	"github.com/dkoosis/skipif/pkg/platform"
)

func TestRegistry_Register_And_Lookup(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	c := Condition{Name: "linux-only", Reason: "linux only", Match: OnOS("linux")}
	if err := r.Register(c); err != nil {
		t.Fatalf("register: %v", err)
	}

	got, ok := r.Lookup("linux-only")
	if !ok {
		t.Fatal("condition not found after register")
	}
	if got.Reason != c.Reason {
		t.Errorf("reason = %q, want %q", got.Reason, c.Reason)
	}
	if _, ok := r.Lookup("missing"); ok {
		t.Error("lookup of unregistered name succeeded")
	}
}

func TestRegistry_Register_Rejects_Empty_Name(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	if err := r.Register(Condition{Reason: "nameless"}); err == nil {
		t.Fatal("expected error for empty name")
	}
	if r.Len() != 0 {
		t.Errorf("len = %d after rejected register, want 0", r.Len())
	}
}

func TestRegistry_Register_Replaces_Existing(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	_ = r.Register(Condition{Name: "c", Reason: "old"})
	_ = r.Register(Condition{Name: "c", Reason: "new"})

	got, _ := r.Lookup("c")
	if got.Reason != "new" {
		t.Errorf("reason = %q, want replacement to win", got.Reason)
	}
	if r.Len() != 1 {
		t.Errorf("len = %d, want 1", r.Len())
	}
}

func TestRegistry_Conditions_Sorted_By_Name(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		_ = r.Register(Condition{Name: name, Reason: name})
	}

	conds := r.Conditions()
	want := []string{"alpha", "mid", "zeta"}
	if len(conds) != len(want) {
		t.Fatalf("got %d conditions, want %d", len(conds), len(want))
	}
	for i, c := range conds {
		if c.Name != want[i] {
			t.Errorf("conditions[%d] = %q, want %q", i, c.Name, want[i])
		}
	}
}

func TestRegistry_Concurrent_Access(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	d := platform.Descriptor{OS: "darwin", Arch: "arm64"}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = r.Register(MacOSArm64JITExceptions)
		}()
		go func() {
			defer wg.Done()
			if c, ok := r.Lookup(MacOSArm64JITExceptions.Name); ok {
				_ = c.Eval(d)
			}
			_ = r.Conditions()
		}()
	}
	wg.Wait()
}

func TestRegisterBuiltins_Populates_Registry(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	RegisterBuiltins(r)

	if r.Len() != len(Builtins()) {
		t.Fatalf("len = %d, want %d", r.Len(), len(Builtins()))
	}
	if _, ok := r.Lookup("macos-arm64-jit-exceptions"); !ok {
		t.Error("builtin condition not registered")
	}
}
