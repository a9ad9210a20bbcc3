package tex

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/Masterminds/semver/v3"
	"github.com/tsukumogami/texprobe/internal/probe"
)

// sampleDocument is the minimal self-contained input used by the
// functional check. Compiling it exercises the engine end to end
// without depending on any installed package.
const sampleDocument = `\documentclass{article}
\begin{document}
$\alpha+2$
\end{document}
`

// runCommand runs a command in a directory and returns its exit
// status. It can be overridden for testing.
var runCommand = probe.RunQuiet

// commandOutput captures a command's trimmed stdout.
// It can be overridden for testing.
var commandOutput = probe.CommandOutput

// versionPattern extracts the first version-shaped token from an
// engine's --version banner, e.g. "1.40.25" out of
// "pdfTeX 3.141592653-2.6-1.40.25 (TeX Live 2023)".
var versionPattern = regexp.MustCompile(`\d+\.\d+(?:\.\d+)?`)

// engineCheck builds the functional check for a typesetting engine:
// compile the sample document in a scratch directory, and when a
// minimum version is configured, verify the engine's version banner.
func (r *Registry) engineCheck(engine string) probe.FunctionalCheck {
	return func(ctx context.Context, path string) error {
		if err := r.compileSample(ctx, engine); err != nil {
			return err
		}
		if c, ok := r.minVersions[engine]; ok {
			return r.checkVersion(ctx, engine, c)
		}
		return nil
	}
}

// boundedContext applies the registry's per-invocation timeout to ctx.
// The returned cancel function must always be called.
func (r *Registry) boundedContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout > 0 {
		return context.WithTimeout(ctx, r.timeout)
	}
	return ctx, func() {}
}

// compileSample writes the sample document to a fresh scratch
// directory, runs the engine on it non-interactively from that
// directory, and inspects only the exit status. The scratch directory
// is removed regardless of outcome.
func (r *Registry) compileSample(ctx context.Context, engine string) error {
	dir, err := os.MkdirTemp("", "texprobe-")
	if err != nil {
		return fmt.Errorf("cannot create scratch directory: %v", err)
	}
	defer func() { _ = os.RemoveAll(dir) }()

	const filename = "sample.tex"
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(sampleDocument), 0644); err != nil {
		return fmt.Errorf("cannot write sample document: %v", err)
	}

	ctx, cancel := r.boundedContext(ctx)
	defer cancel()
	status, err := runCommand(ctx, dir, engine, "-interaction=nonstopmode", filename)
	if err != nil {
		return fmt.Errorf("running %s on a sample document failed: %v", engine, err)
	}
	r.logger.Debug("sample compilation finished", "engine", engine, "status", status)
	if status != 0 {
		return fmt.Errorf("running %s on a sample document returned non-zero exit status %d", engine, status)
	}
	return nil
}

// checkVersion runs `<engine> --version` and verifies the banner
// satisfies the configured constraint.
func (r *Registry) checkVersion(ctx context.Context, engine string, c *semver.Constraints) error {
	ctx, cancel := r.boundedContext(ctx)
	defer cancel()
	banner, err := commandOutput(ctx, engine, "--version")
	if err != nil {
		return fmt.Errorf("running %s --version failed: %v", engine, err)
	}
	token := versionPattern.FindString(banner)
	if token == "" {
		return fmt.Errorf("cannot determine %s version from banner %q", engine, firstLine(banner))
	}
	v, err := semver.NewVersion(token)
	if err != nil {
		return fmt.Errorf("cannot parse %s version %q: %v", engine, token, err)
	}
	if !c.Check(v) {
		return fmt.Errorf("%s version %s does not satisfy required %s", engine, v, c)
	}
	r.logger.Debug("version constraint satisfied", "engine", engine, "version", v.String())
	return nil
}

func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[:i]
		}
	}
	return s
}
