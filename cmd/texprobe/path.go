package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tsukumogami/texprobe/internal/probe"
)

var pathCmd = &cobra.Command{
	Use:   "path <filename>",
	Short: "Resolve a TeX file to its absolute path",
	Long: `Resolve a TeX file name (such as article.cls or graphicx.sty) to an
absolute path through the resolver tool.

Unlike 'check', this command promises a path: if the file cannot be
resolved, or the resolver tool itself is missing, it fails with the
same reason a capability check would report.

Examples:
  texprobe path article.cls
  texprobe path tkz-graph.sty`,
	Args: cobra.ExactArgs(1),
	Run:  runPath,
}

func init() {
	rootCmd.AddCommand(pathCmd)
}

// fileProbeName derives a stable probe name for an ad-hoc file lookup,
// e.g. "tex_file_article_cls" for article.cls.
func fileProbeName(filename string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, filename)
	return "tex_file_" + mapped
}

func runPath(cmd *cobra.Command, args []string) {
	filename := args[0]

	reg, err := newRegistry()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitWithCode(ExitGeneral)
	}

	p := reg.File(fileProbeName(filename), filename)
	path, err := p.AbsolutePath(cmd.Context())
	if err != nil {
		var notPresent *probe.NotPresentError
		if errors.As(err, &notPresent) {
			fmt.Fprintf(os.Stderr, "%s\n", notPresent.Reason)
			exitWithCode(ExitNotPresent)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitWithCode(ExitGeneral)
	}

	fmt.Println(path)
}
