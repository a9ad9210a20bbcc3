// Package tex catalogues the capability probes for a local TeX
// installation: the typesetting engines, files resolvable through
// kpsewhich, and LaTeX packages.
package tex

import (
	"strings"
	"sync"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/tsukumogami/texprobe/internal/log"
	"github.com/tsukumogami/texprobe/internal/probe"
)

// DefaultResolverTool is the tool used to resolve TeX file names to
// absolute paths.
const DefaultResolverTool = "kpsewhich"

// Engines are the typesetting engines the registry knows about, in
// enumeration order.
var Engines = []string{"latex", "pdflatex", "xelatex", "lualatex"}

// metadata is the installation hint attached to every TeX probe.
var metadata = probe.Metadata{
	Package: "texlive",
	URL:     "https://www.latex-project.org/",
}

// PackageProbeName derives the probe name for a LaTeX package. The
// derivation is deterministic so that constructing the same package
// probe twice yields interchangeable instances.
func PackageProbeName(pkg string) string {
	return "latex_package_" + strings.ReplaceAll(pkg, "-", "_")
}

// Registry is an enumerable catalogue of TeX capability probes.
//
// Probes are constructed once per name and reused: asking for the same
// engine or package twice returns the same instance, sharing one
// result cache. The zero-configuration registry probes the real
// system; tests inject a resolver, lookup, and cache of their own.
type Registry struct {
	cache          *probe.Cache
	resolver       probe.Resolver
	lookup         probe.Lookup
	logger         log.Logger
	timeout        time.Duration
	rawMinVersions map[string]string
	minVersions    map[string]*semver.Constraints
	extra          []string

	mu     sync.Mutex
	probes map[string]*probe.Probe
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithCache stores probe results in c instead of the process default.
func WithCache(c *probe.Cache) RegistryOption {
	return func(r *Registry) { r.cache = c }
}

// WithResolver replaces the file-name resolver. Tests use this to
// return canned paths without spawning processes.
func WithResolver(res probe.Resolver) RegistryOption {
	return func(r *Registry) { r.resolver = res }
}

// WithLookup replaces the search-path lookup.
func WithLookup(l probe.Lookup) RegistryOption {
	return func(r *Registry) { r.lookup = l }
}

// WithLogger sets the logger passed to every probe.
func WithLogger(l log.Logger) RegistryOption {
	return func(r *Registry) { r.logger = l }
}

// WithTimeout bounds each external invocation made during functional
// checks (sample compilation, version banners). Zero leaves
// invocations unbounded. The resolver carries its own bound; see
// probe.NewToolResolver.
func WithTimeout(d time.Duration) RegistryOption {
	return func(r *Registry) { r.timeout = d }
}

// WithMinVersions declares minimum engine versions, keyed by engine
// name, as semver constraint strings (e.g. ">= 1.40"). Engines with a
// constraint additionally verify their version banner during the
// functional check. Invalid constraints are logged and skipped.
func WithMinVersions(constraints map[string]string) RegistryOption {
	return func(r *Registry) {
		for engine, raw := range constraints {
			r.rawMinVersions[engine] = raw
		}
	}
}

// WithExtraPackages adds LaTeX packages to the registry enumeration
// beyond the built-in set.
func WithExtraPackages(pkgs ...string) RegistryOption {
	return func(r *Registry) { r.extra = append(r.extra, pkgs...) }
}

// NewRegistry creates a registry. Without options it probes the real
// system through kpsewhich and PATH, caching in the process-wide
// default cache.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		cache:          probe.DefaultCache(),
		resolver:       probe.NewToolResolver(DefaultResolverTool, 0),
		lookup:         probe.PathLookup,
		logger:         log.Default(),
		rawMinVersions: make(map[string]string),
		minVersions:    make(map[string]*semver.Constraints),
		probes:         make(map[string]*probe.Probe),
	}
	for _, opt := range opts {
		opt(r)
	}
	for engine, raw := range r.rawMinVersions {
		c, err := semver.NewConstraint(raw)
		if err != nil {
			r.logger.Warn("ignoring invalid version constraint",
				"engine", engine, "constraint", raw, "err", err)
			continue
		}
		r.minVersions[engine] = c
	}
	return r
}

// construct returns the memoized probe for name, building it with
// build on first use.
func (r *Registry) construct(name string, build func() *probe.Probe) *probe.Probe {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.probes[name]; ok {
		return p
	}
	p := build()
	r.probes[name] = p
	return p
}

// Engine returns the probe for a typesetting engine such as
// "pdflatex". Presence means the engine is on the search path; the
// functional check compiles a minimal document with it.
func (r *Registry) Engine(name string) *probe.Probe {
	return r.construct(name, func() *probe.Probe {
		return probe.NewExecutable(name, name,
			probe.WithMetadata(metadata),
			probe.WithCache(r.cache),
			probe.WithLogger(r.logger),
			probe.WithLookup(r.lookup),
			probe.WithFunctionalCheck(r.engineCheck(name)),
		)
	})
}

// resolverProbe is the executable probe for the resolver tool itself.
// File probes depend on it: when the tool is absent, resolution is
// skipped entirely and its absence surfaces as the reason.
func (r *Registry) resolverProbe() *probe.Probe {
	tool := r.resolver.Tool()
	return r.construct(tool, func() *probe.Probe {
		return probe.NewExecutable(tool, tool,
			probe.WithMetadata(metadata),
			probe.WithCache(r.cache),
			probe.WithLogger(r.logger),
			probe.WithLookup(r.lookup),
		)
	})
}

// File returns a probe for a TeX file resolvable through the resolver
// tool, e.g. File("latex_class_article", "article.cls").
func (r *Registry) File(name, filename string) *probe.Probe {
	dep := r.resolverProbe()
	return r.construct(name, func() *probe.Probe {
		return probe.NewStaticFile(name, filename, r.resolver,
			probe.WithMetadata(metadata),
			probe.WithCache(r.cache),
			probe.WithLogger(r.logger),
			probe.WithDependency(dep),
		)
	})
}

// Package returns the probe for a LaTeX package (.sty file). The probe
// name is derived from the package identifier, so repeated calls with
// the same identifier return the same instance.
func (r *Registry) Package(pkg string) *probe.Probe {
	return r.File(PackageProbeName(pkg), pkg+".sty")
}

// AllProbes enumerates every capability this registry cares about, in
// stable order: the engines, the built-in package probe, and any extra
// packages configured. Callers use it to pre-warm or report on the
// whole toolchain.
func (r *Registry) AllProbes() []*probe.Probe {
	probes := make([]*probe.Probe, 0, len(Engines)+1+len(r.extra))
	for _, e := range Engines {
		probes = append(probes, r.Engine(e))
	}
	probes = append(probes, r.Package("tkz-graph"))
	for _, pkg := range r.extra {
		probes = append(probes, r.Package(pkg))
	}
	return probes
}

// Find returns the registry probe with the given name, if any.
func (r *Registry) Find(name string) (*probe.Probe, bool) {
	for _, p := range r.AllProbes() {
		if p.Name() == name {
			return p, true
		}
	}
	return nil, false
}
