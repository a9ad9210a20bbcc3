package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/tsukumogami/texprobe/internal/config"
	"github.com/tsukumogami/texprobe/internal/log"
	"github.com/tsukumogami/texprobe/internal/probe"
	"github.com/tsukumogami/texprobe/internal/tex"
)

// Version is the current version of texprobe
var Version = "0.1.0"

var (
	flagQuiet   bool
	flagVerbose bool
	flagDebug   bool
)

var rootCmd = &cobra.Command{
	Use:   "texprobe",
	Short: "Probe a local TeX installation for optional capabilities",
	Long: `texprobe answers whether optional TeX functionality is available on
this machine, and whether it actually works, without failing hard when
it is absent.

It checks typesetting engines on the PATH, resolves TeX files through
kpsewhich, and caches every verdict for the lifetime of the process,
so bulk scans never invoke the same external process twice.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		switch {
		case flagDebug:
			level = slog.LevelDebug
		case flagVerbose:
			level = slog.LevelInfo
		case flagQuiet:
			level = slog.LevelError
		}
		log.SetDefault(log.NewLeveled(os.Stderr, level))
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Only print errors")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Print operational context")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Print internal probing details")
}

// newRegistry builds the TeX probe registry from the user's config.
func newRegistry() (*tex.Registry, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return tex.NewRegistry(
		tex.WithLogger(log.Default()),
		tex.WithResolver(probe.NewToolResolver(cfg.Resolver, cfg.Timeout())),
		tex.WithTimeout(cfg.Timeout()),
		tex.WithMinVersions(cfg.MinVersions),
		tex.WithExtraPackages(cfg.ExtraPackages...),
	), nil
}

func main() {
	// Subcommands exit directly with a specific code on operational
	// failures, so an error surfacing from Execute means cobra rejected
	// the invocation: unknown subcommand, bad flag, wrong argument count.
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitWithCode(ExitUsage)
	}
	exitWithCode(ExitSuccess)
}
