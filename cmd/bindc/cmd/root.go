package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "bindc",
	Short: "Type-binding engine harness",
	Long: `bindc drives the Program Graph type-binding engine over a YAML
program-graph fixture.

It is a harness for the binder library, not a compiler front end: there is
no lexer, parser, or project loader here. A real front end is expected to
construct a *graph.Graph directly and call binder.Bind; "check" exists so
the binder can be exercised and its diagnostics inspected without one.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))
}
