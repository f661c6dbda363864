package cmd

import (
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "linop",
	Short: "Lazy linear operator toolkit",
	Long: `linop is a command line companion for the Linop library.

Commands:
  backends - list available compute backends
  bench    - benchmark operator primitives
  version  - print version information`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
