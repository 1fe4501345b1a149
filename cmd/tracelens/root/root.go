package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crimson-sun/tracelens/cmd/tracelens/analyze"
)

var rootCmd = &cobra.Command{
	Use:   "tracelens",
	Short: "Process-improvement analysis for XES event logs",
	Long: `Tracelens scans XES event logs for optimization opportunities:
redundant activity repetitions, merge candidates, recurring sequences,
trace-length outliers, and out-of-gas failures.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(analyze.Cmd)
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetVersionTemplate(fmt.Sprintf("tracelens version %s\n", rootCmd.Version))
}
