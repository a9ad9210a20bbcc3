package probe

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"
)

// Lookup locates a command on the process's search path.
// The default implementation is exec.LookPath; tests inject doubles.
type Lookup interface {
	LookPath(command string) (string, error)
}

// LookupFunc adapts a function to the Lookup interface.
type LookupFunc func(command string) (string, error)

// LookPath implements Lookup.
func (f LookupFunc) LookPath(command string) (string, error) {
	return f(command)
}

// PathLookup resolves commands against the real PATH.
var PathLookup Lookup = LookupFunc(exec.LookPath)

// Resolver maps a logical file name to an absolute path according to a
// search convention this package does not itself implement. The real
// implementation shells out to a resolver tool; tests return canned
// results without spawning processes.
type Resolver interface {
	// Tool is the name of the resolver command, used in reason text
	// and as the executable dependency of file probes.
	Tool() string

	// Resolve returns the absolute path for filename, or an error if
	// the resolver could not find it. Any error means not found; no
	// distinction is made between a clean nonzero exit and a crash.
	Resolve(ctx context.Context, filename string) (string, error)
}

// ToolResolver resolves file names by invoking an external tool as
// `<tool> <filename>` and capturing its standard output. Exit status
// zero means found, with the path on stdout (trailing whitespace
// stripped). Anything else, including the tool dying on a signal or
// failing to spawn, means not found.
type ToolResolver struct {
	tool    string
	timeout time.Duration
}

// NewToolResolver creates a resolver invoking the named tool.
// A timeout of zero leaves invocations unbounded.
func NewToolResolver(tool string, timeout time.Duration) *ToolResolver {
	return &ToolResolver{tool: tool, timeout: timeout}
}

// Tool implements Resolver.
func (r *ToolResolver) Tool() string {
	return r.tool
}

// Resolve implements Resolver.
func (r *ToolResolver) Resolve(ctx context.Context, filename string) (string, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	out, err := exec.CommandContext(ctx, r.tool, filename).Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// RunQuiet runs a command in dir, discarding its output, and returns
// the exit status. A non-nil error means the process could not be run
// or did not exit cleanly (spawn failure, signal death, cancellation);
// callers treat that the same as a nonzero status.
func RunQuiet(ctx context.Context, dir, command string, args ...string) (int, error) {
	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Dir = dir
	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}

// CommandOutput runs a command and returns its combined trimmed
// stdout. Used for version banners.
func CommandOutput(ctx context.Context, command string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, command, args...).Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
