// Package testutil provides shared test doubles for probe evaluation.
// The doubles count their invocations so tests can assert that cached
// results never reach out to the system again.
package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/tsukumogami/texprobe/internal/probe"
)

// FakeLookup is a probe.Lookup double backed by a fixed command table.
type FakeLookup struct {
	mu sync.Mutex

	// Commands maps command names to the paths they resolve to.
	Commands map[string]string

	// Calls counts LookPath invocations.
	Calls int
}

// LookPath implements probe.Lookup.
func (f *FakeLookup) LookPath(command string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	if path, ok := f.Commands[command]; ok {
		return path, nil
	}
	return "", fmt.Errorf("executable file not found in $PATH")
}

// FakeResolver is a probe.Resolver double backed by a fixed file table.
type FakeResolver struct {
	mu sync.Mutex

	// ToolName is reported as the resolver tool; defaults to
	// "kpsewhich" when empty.
	ToolName string

	// Files maps file names to resolved absolute paths.
	Files map[string]string

	// Calls counts Resolve invocations.
	Calls int
}

// Tool implements probe.Resolver.
func (f *FakeResolver) Tool() string {
	if f.ToolName == "" {
		return "kpsewhich"
	}
	return f.ToolName
}

// Resolve implements probe.Resolver.
func (f *FakeResolver) Resolve(_ context.Context, filename string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	if path, ok := f.Files[filename]; ok {
		return path, nil
	}
	return "", fmt.Errorf("exit status 1")
}

// ResolveCalls returns the number of Resolve invocations so far.
func (f *FakeResolver) ResolveCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Calls
}

var _ probe.Lookup = (*FakeLookup)(nil)
var _ probe.Resolver = (*FakeResolver)(nil)
