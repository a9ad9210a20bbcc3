// Package probe answers whether optional external functionality is
// available on this machine, and whether it actually works, without
// hard-failing when it is absent.
//
// A Probe is a named capability check. Three kinds exist: an
// executable on the search path, a file locatable through an external
// resolver tool, and a composite that is present only when all of its
// members are. Verdicts are memoized process-wide in a [Cache], so
// repeated queries never re-invoke external processes.
package probe

import (
	"context"
	"fmt"
	"strings"

	"github.com/tsukumogami/texprobe/internal/log"
)

// Kind identifies the variant of a probe.
type Kind int

const (
	// KindExecutable checks that a command is on the search path.
	KindExecutable Kind = iota

	// KindStaticFile checks that a file resolves via an external tool.
	KindStaticFile

	// KindComposite checks that every member probe is present.
	KindComposite
)

func (k Kind) String() string {
	switch k {
	case KindExecutable:
		return "executable"
	case KindStaticFile:
		return "static file"
	case KindComposite:
		return "composite"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Metadata is an opaque installation hint attached to a probe. It is
// carried through for user-facing messages only; probing never acts
// on it.
type Metadata struct {
	// Package names the distribution package that provides the
	// capability (e.g. "texlive").
	Package string

	// URL points at upstream documentation.
	URL string
}

// FunctionalCheck determines whether a located executable actually
// works, typically by invoking it against a minimal input. path is the
// resolved location of the executable. A non-nil error downgrades the
// verdict to absent, with the error text as the reason.
type FunctionalCheck func(ctx context.Context, path string) error

// Probe is a named, evaluable capability check.
//
// A probe's name is stable for the lifetime of the process and is the
// cache key for its results: two probes with the same name and kind
// are interchangeable. Names must not contain '#', which is reserved
// for derived cache keys such as the functional verdict; constructors
// panic on such names. Probes are constructed once and never mutated
// afterwards; all state lives in the [Cache].
type Probe struct {
	name   string
	kind   Kind
	meta   Metadata
	cache  *Cache
	logger log.Logger

	// KindExecutable
	command    string
	functional FunctionalCheck
	lookup     Lookup

	// KindStaticFile
	filename string
	resolver Resolver

	// Resolver dependencies for KindStaticFile, members for
	// KindComposite. Evaluated in order with first-failure
	// short-circuit either way.
	deps []*Probe
}

// Option configures a probe at construction time.
type Option func(*Probe)

// WithMetadata attaches an installation hint.
func WithMetadata(m Metadata) Option {
	return func(p *Probe) { p.meta = m }
}

// WithCache stores results in c instead of the process-wide default.
func WithCache(c *Cache) Option {
	return func(p *Probe) { p.cache = c }
}

// WithLogger sets the logger for probe evaluation.
func WithLogger(l log.Logger) Option {
	return func(p *Probe) { p.logger = l }
}

// WithFunctionalCheck registers a functional check on an executable
// probe. Ignored for other kinds.
func WithFunctionalCheck(fc FunctionalCheck) Option {
	return func(p *Probe) { p.functional = fc }
}

// WithLookup overrides the search-path lookup. Tests use this to avoid
// depending on the real PATH.
func WithLookup(l Lookup) Option {
	return func(p *Probe) { p.lookup = l }
}

// WithDependency declares a probe that must be present before this one
// is evaluated. A static-file probe declares its resolver tool this
// way; if the dependency is absent, resolution is skipped entirely and
// the dependency's reason becomes this probe's reason.
func WithDependency(deps ...*Probe) Option {
	return func(p *Probe) { p.deps = append(p.deps, deps...) }
}

func newProbe(name string, kind Kind, opts []Option) *Probe {
	if strings.ContainsRune(name, '#') {
		panic(fmt.Sprintf("probe: name %q contains reserved character '#'", name))
	}
	p := &Probe{
		name:   name,
		kind:   kind,
		cache:  DefaultCache(),
		logger: log.Default(),
		lookup: PathLookup,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewExecutable creates a probe that is present iff command is
// discoverable on the search path. Presence performs no process
// execution; register a [FunctionalCheck] for the stronger verdict.
func NewExecutable(name, command string, opts ...Option) *Probe {
	p := newProbe(name, KindExecutable, opts)
	p.command = command
	return p
}

// NewStaticFile creates a probe that is present iff filename resolves
// through resolver. Callers normally also declare the resolver tool's
// own executable probe via [WithDependency].
func NewStaticFile(name, filename string, resolver Resolver, opts ...Option) *Probe {
	p := newProbe(name, KindStaticFile, opts)
	p.filename = filename
	p.resolver = resolver
	return p
}

// NewComposite creates a probe that is present iff every member is.
// Members are evaluated in declaration order and evaluation stops at
// the first absent member, whose reason becomes the composite's
// reason, unmodified.
func NewComposite(name string, members []*Probe, opts ...Option) *Probe {
	p := newProbe(name, KindComposite, opts)
	p.deps = append(p.deps, members...)
	return p
}

// Name returns the probe's unique name.
func (p *Probe) Name() string { return p.name }

// Kind returns the probe's variant.
func (p *Probe) Kind() Kind { return p.kind }

// Metadata returns the probe's installation hint.
func (p *Probe) Metadata() Metadata { return p.meta }

// Present reports whether the capability exists, consulting the cache
// first. Absence is a normal outcome: the returned Result carries a
// display-ready reason and no error is ever raised.
func (p *Probe) Present(ctx context.Context) Result {
	return p.cache.GetOrCompute(p.name, func() Result {
		p.logger.Debug("evaluating probe", "capability", p.name, "kind", p.kind.String())
		switch p.kind {
		case KindExecutable:
			return p.executablePresent()
		case KindStaticFile:
			return p.staticFilePresent(ctx)
		case KindComposite:
			return p.compositePresent(ctx)
		default:
			return Result{Name: p.name, Reason: fmt.Sprintf("unknown probe kind %s", p.kind)}
		}
	})
}

// Functional reports whether the capability exists and operates
// correctly. Only executable probes with a registered check perform
// extra work; every other probe falls back to Present. A functional
// failure downgrades the verdict to absent with a reason distinct
// from not-found. Functional verdicts are cached separately from
// presence so presence queries stay cheap.
func (p *Probe) Functional(ctx context.Context) Result {
	if p.kind != KindExecutable || p.functional == nil {
		return p.Present(ctx)
	}
	return p.cache.GetOrCompute(p.name+"#functional", func() Result {
		pres := p.Present(ctx)
		if !pres.Present {
			return pres
		}
		path, err := p.lookup.LookPath(p.command)
		if err != nil {
			// PATH changed between checks; report as not found.
			return Result{Name: p.name, Reason: p.notFoundReason()}
		}
		p.logger.Info("running functional check", "capability", p.name, "path", path)
		if err := p.functional(ctx, path); err != nil {
			return Result{Name: p.name, Reason: err.Error()}
		}
		return Result{Name: p.name, Present: true}
	})
}

// AbsolutePath returns the resolved path of a static-file probe's
// file, or a *[NotPresentError] carrying the same reason a negative
// Result would. The contract promises a path, not a boolean, so
// absence is a raised failure here and nowhere else.
func (p *Probe) AbsolutePath(ctx context.Context) (string, error) {
	if p.kind != KindStaticFile {
		return "", fmt.Errorf("probe %q (%s) does not resolve to a file path", p.name, p.kind)
	}
	if absent := p.firstAbsentDep(ctx); absent != nil {
		return "", &NotPresentError{Name: p.name, Reason: absent.Reason}
	}
	path, err := p.resolver.Resolve(ctx, p.filename)
	if err != nil {
		return "", &NotPresentError{Name: p.name, Reason: p.notFoundReason()}
	}
	return path, nil
}

func (p *Probe) executablePresent() Result {
	path, err := p.lookup.LookPath(p.command)
	if err != nil {
		return Result{Name: p.name, Reason: p.notFoundReason()}
	}
	p.logger.Debug("executable located", "capability", p.name, "path", path)
	return Result{Name: p.name, Present: true}
}

func (p *Probe) staticFilePresent(ctx context.Context) Result {
	if absent := p.firstAbsentDep(ctx); absent != nil {
		return Result{Name: p.name, Reason: absent.Reason}
	}
	path, err := p.resolver.Resolve(ctx, p.filename)
	if err != nil {
		p.logger.Debug("resolver reported not found", "capability", p.name, "file", p.filename, "err", err)
		return Result{Name: p.name, Reason: p.notFoundReason()}
	}
	p.logger.Debug("file resolved", "capability", p.name, "path", path)
	return Result{Name: p.name, Present: true}
}

func (p *Probe) compositePresent(ctx context.Context) Result {
	if absent := p.firstAbsentDep(ctx); absent != nil {
		return Result{Name: p.name, Reason: absent.Reason}
	}
	return Result{Name: p.name, Present: true}
}

// firstAbsentDep evaluates dependencies in declaration order and
// returns the first absent result, or nil when all are present.
func (p *Probe) firstAbsentDep(ctx context.Context) *Result {
	for _, dep := range p.deps {
		if r := dep.Present(ctx); !r.Present {
			return &r
		}
	}
	return nil
}

func (p *Probe) notFoundReason() string {
	switch p.kind {
	case KindExecutable:
		return fmt.Sprintf("executable %q not found on the search path", p.command)
	case KindStaticFile:
		return fmt.Sprintf("%q not found by %s", p.filename, p.resolver.Tool())
	default:
		return fmt.Sprintf("capability %q not found", p.name)
	}
}
