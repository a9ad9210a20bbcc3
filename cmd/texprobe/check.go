package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tsukumogami/texprobe/internal/probe"
	"github.com/tsukumogami/texprobe/internal/tex"
	"golang.org/x/term"
)

// ANSI color codes for terminal output
const (
	colorReset = "\033[0m"
	colorGreen = "\033[32m"
	colorRed   = "\033[31m"
	colorCyan  = "\033[36m"
)

// IsTerminalFunc is the function used to check if a file descriptor is
// a terminal. It can be overridden for testing.
var IsTerminalFunc = term.IsTerminal

// CheckOutput represents the JSON output structure
type CheckOutput struct {
	Capabilities []probe.Result `json:"capabilities"`
	AllPresent   bool           `json:"all_present"`
}

var checkCmd = &cobra.Command{
	Use:   "check [capability...]",
	Short: "Check which TeX capabilities are available",
	Long: `Probe TeX capabilities and report which are available. With no
arguments, every capability in the registry is checked: the latex,
pdflatex, xelatex, and lualatex engines plus known LaTeX packages.

Arguments can be capability names from 'texprobe list' or bare LaTeX
package identifiers such as tkz-graph.

By default only presence is checked (is the engine on the PATH, does
the file resolve). With --functional, engines are additionally run
against a minimal sample document and must exit cleanly.

Exits with a non-zero status if anything is missing, making it
suitable as a gate in scripts and CI:

  texprobe check pdflatex || exit 1`,
	Run: runCheck,
}

func init() {
	checkCmd.Flags().Bool("json", false, "Output in JSON format")
	checkCmd.Flags().Bool("functional", false, "Also verify that present engines work")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	functional, _ := cmd.Flags().GetBool("functional")

	reg, err := newRegistry()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitWithCode(ExitGeneral)
	}

	probes, err := selectProbes(reg, args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitWithCode(ExitUnknownCapability)
	}

	ctx := cmd.Context()
	var results []probe.Result
	for _, p := range probes {
		if functional {
			results = append(results, p.Functional(ctx))
		} else {
			results = append(results, p.Present(ctx))
		}
	}

	allPresent := true
	for _, r := range results {
		if !r.Present {
			allPresent = false
			break
		}
	}

	if jsonOutput {
		out := CheckOutput{Capabilities: results, AllPresent: allPresent}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitWithCode(ExitGeneral)
		}
		fmt.Println(string(data))
	} else {
		printResults(probes, results)
	}

	if !allPresent {
		exitWithCode(ExitNotPresent)
	}
}

// selectProbes maps command arguments to registry probes. An argument
// matches a registry capability by name, or is treated as a LaTeX
// package identifier when it looks like one.
func selectProbes(reg *tex.Registry, args []string) ([]*probe.Probe, error) {
	if len(args) == 0 {
		return reg.AllProbes(), nil
	}

	var probes []*probe.Probe
	for _, arg := range args {
		if p, ok := reg.Find(arg); ok {
			probes = append(probes, p)
			continue
		}
		if strings.ContainsAny(arg, "/.#") {
			return nil, fmt.Errorf("unknown capability %q (see 'texprobe list')", arg)
		}
		probes = append(probes, reg.Package(arg))
	}
	return probes, nil
}

func printResults(probes []*probe.Probe, results []probe.Result) {
	useColor := IsTerminalFunc(int(os.Stdout.Fd()))
	ok, fail := "ok", "FAIL"
	if useColor {
		ok = colorGreen + ok + colorReset
		fail = colorRed + fail + colorReset
	}

	fmt.Println("Checking TeX capabilities...")
	anyMissing := false
	for i, r := range results {
		if r.Present {
			fmt.Printf("  %s ... %s\n", r.Name, ok)
			continue
		}
		anyMissing = true
		fmt.Printf("  %s ... %s\n", r.Name, fail)
		fmt.Fprintf(os.Stderr, "    %s\n", r.Reason)
		if meta := probes[i].Metadata(); meta.Package != "" {
			hint := fmt.Sprintf("install %q to provide it", meta.Package)
			if meta.URL != "" {
				hint += " (" + meta.URL + ")"
			}
			if useColor {
				hint = colorCyan + hint + colorReset
			}
			fmt.Fprintf(os.Stderr, "    %s\n", hint)
		}
	}

	fmt.Println()
	if anyMissing {
		fmt.Println("Some capabilities are missing.")
	} else {
		fmt.Println("Everything looks good!")
	}
}
