package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"stylint/internal/version"
)

// Exit statuses.
const (
	exitClean    = 0
	exitProblems = 1
	exitUsage    = 2
)

// exitError carries a non-zero status out of RunE without an extra message.
type exitError struct{ code int }

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "stylint",
		Short:         "Style-rule linter for JavaScript",
		Long:          `stylint checks JavaScript sources against a catalog of style conventions and reports every violation with its location.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Глобальные флаги
	root.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	root.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	root.PersistentFlags().Bool("timings", false, "show timing information")
	root.PersistentFlags().Int("max-diagnostics", 0, "maximum number of diagnostics per file (0 = config or unlimited)")
	root.PersistentFlags().String("config", "", "path to stylint.toml or .stylint.yaml (default: discovered)")
	addTraceFlags(root)
	addProfileFlags(root)

	root.AddCommand(newCheckCmd(), newRulesCmd(), newInitCmd(), newVersionCmd())
	return root
}

func main() {
	os.Exit(run(newRootCmd(), os.Args[1:]))
}

// run executes root with args and maps the outcome onto an exit status.
func run(root *cobra.Command, args []string) int {
	root.SetArgs(args)
	err := root.Execute()
	if err == nil {
		return exitClean
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	fmt.Fprintf(root.ErrOrStderr(), "stylint: %v\n", err)
	return exitUsage
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func useColor(cmd *cobra.Command) (bool, error) {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch colorFlag {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto":
		return cmd.OutOrStdout() == os.Stdout && isTerminal(os.Stdout), nil
	}
	return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorFlag)
}
