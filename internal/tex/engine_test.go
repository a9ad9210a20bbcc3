package tex

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsukumogami/texprobe/internal/probe"
	"github.com/tsukumogami/texprobe/internal/testutil"
)

// recordedRun captures one runCommand invocation.
type recordedRun struct {
	dir     string
	command string
	args    []string
	sample  string
}

// stubRunCommand replaces the runCommand seam for the duration of the
// test, recording invocations and returning the given status.
func stubRunCommand(t *testing.T, status int, record *recordedRun) {
	t.Helper()
	orig := runCommand
	runCommand = func(ctx context.Context, dir, command string, args ...string) (int, error) {
		if record != nil {
			record.dir = dir
			record.command = command
			record.args = args
			data, err := os.ReadFile(filepath.Join(dir, "sample.tex"))
			if err == nil {
				record.sample = string(data)
			}
		}
		return status, nil
	}
	t.Cleanup(func() { runCommand = orig })
}

func stubCommandOutput(t *testing.T, banner string) {
	t.Helper()
	orig := commandOutput
	commandOutput = func(ctx context.Context, command string, args ...string) (string, error) {
		return banner, nil
	}
	t.Cleanup(func() { commandOutput = orig })
}

func TestCompileSample(t *testing.T) {
	var rec recordedRun
	stubRunCommand(t, 0, &rec)

	reg := NewRegistry(WithCache(probe.NewCache()))
	err := reg.compileSample(context.Background(), "pdflatex")
	require.NoError(t, err)

	assert.Equal(t, "pdflatex", rec.command)
	assert.Equal(t, []string{"-interaction=nonstopmode", "sample.tex"}, rec.args)
	assert.Contains(t, rec.sample, `\documentclass{article}`,
		"sample document must exist in the scratch dir while the engine runs")

	_, statErr := os.Stat(rec.dir)
	assert.True(t, os.IsNotExist(statErr), "scratch directory must be removed after the check")
}

func TestCompileSampleNonZeroExit(t *testing.T) {
	var rec recordedRun
	stubRunCommand(t, 2, &rec)

	reg := NewRegistry(WithCache(probe.NewCache()))
	err := reg.compileSample(context.Background(), "xelatex")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-zero exit status 2")

	_, statErr := os.Stat(rec.dir)
	assert.True(t, os.IsNotExist(statErr), "scratch directory must be removed on failure too")
}

func TestEngineFunctionalDowngrade(t *testing.T) {
	stubRunCommand(t, 1, nil)

	lookup := &testutil.FakeLookup{Commands: map[string]string{"latex": "/usr/bin/latex"}}
	reg := NewRegistry(WithCache(probe.NewCache()), WithLookup(lookup))
	engine := reg.Engine("latex")

	require.True(t, engine.Present(context.Background()).Present)

	got := engine.Functional(context.Background())
	require.False(t, got.Present)
	assert.Contains(t, got.Reason, "non-zero exit status 1")
	assert.NotContains(t, got.Reason, "not found",
		"functional failure must be distinguishable from a missing executable")
}

func TestTimeoutBoundsFunctionalSubprocesses(t *testing.T) {
	origRun := runCommand
	origOutput := commandOutput
	var runHasDeadline, versionHasDeadline bool
	runCommand = func(ctx context.Context, dir, command string, args ...string) (int, error) {
		_, runHasDeadline = ctx.Deadline()
		return 0, nil
	}
	commandOutput = func(ctx context.Context, command string, args ...string) (string, error) {
		_, versionHasDeadline = ctx.Deadline()
		return "pdfTeX 1.40.25", nil
	}
	t.Cleanup(func() {
		runCommand = origRun
		commandOutput = origOutput
	})

	reg := NewRegistry(
		WithCache(probe.NewCache()),
		WithTimeout(5*time.Second),
		WithMinVersions(map[string]string{"pdflatex": ">= 1.40"}),
	)
	check := reg.engineCheck("pdflatex")
	require.NoError(t, check(context.Background(), "/usr/bin/pdflatex"))

	assert.True(t, runHasDeadline, "sample compilation must run under the configured deadline")
	assert.True(t, versionHasDeadline, "version banner lookup must run under the configured deadline")
}

func TestNoTimeoutLeavesContextUnbounded(t *testing.T) {
	var hasDeadline bool
	orig := runCommand
	runCommand = func(ctx context.Context, dir, command string, args ...string) (int, error) {
		_, hasDeadline = ctx.Deadline()
		return 0, nil
	}
	t.Cleanup(func() { runCommand = orig })

	reg := NewRegistry(WithCache(probe.NewCache()))
	require.NoError(t, reg.compileSample(context.Background(), "pdflatex"))
	assert.False(t, hasDeadline, "zero timeout must not impose a deadline")
}

func TestVersionGate(t *testing.T) {
	tests := []struct {
		name       string
		banner     string
		constraint string
		wantErr    string
	}{
		{
			name:       "satisfied",
			banner:     "pdfTeX 1.40.25 (TeX Live 2023)",
			constraint: ">= 1.40",
		},
		{
			name:       "too old",
			banner:     "pdfTeX 1.12.0",
			constraint: ">= 1.40",
			wantErr:    "does not satisfy",
		},
		{
			name:       "unparseable banner",
			banner:     "no version here",
			constraint: ">= 1.40",
			wantErr:    "cannot determine",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubRunCommand(t, 0, nil)
			stubCommandOutput(t, tt.banner)

			reg := NewRegistry(
				WithCache(probe.NewCache()),
				WithMinVersions(map[string]string{"pdflatex": tt.constraint}),
			)
			check := reg.engineCheck("pdflatex")
			err := check(context.Background(), "/usr/bin/pdflatex")
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestVersionGateSkippedWithoutConstraint(t *testing.T) {
	stubRunCommand(t, 0, nil)
	orig := commandOutput
	called := false
	commandOutput = func(ctx context.Context, command string, args ...string) (string, error) {
		called = true
		return "", nil
	}
	t.Cleanup(func() { commandOutput = orig })

	reg := NewRegistry(WithCache(probe.NewCache()))
	check := reg.engineCheck("pdflatex")
	require.NoError(t, check(context.Background(), "/usr/bin/pdflatex"))
	assert.False(t, called, "--version must not run without a configured constraint")
}

func TestInvalidConstraintIgnored(t *testing.T) {
	stubRunCommand(t, 0, nil)

	reg := NewRegistry(
		WithCache(probe.NewCache()),
		WithMinVersions(map[string]string{"pdflatex": "not-a-constraint"}),
	)
	assert.Empty(t, reg.minVersions, "invalid constraints are dropped at construction")

	check := reg.engineCheck("pdflatex")
	assert.NoError(t, check(context.Background(), "/usr/bin/pdflatex"))
}
