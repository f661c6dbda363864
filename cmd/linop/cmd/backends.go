package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/born-ml/linop/backend/cpu"
)

var backendsCmd = &cobra.Command{
	Use:   "backends",
	Short: "List available compute backends",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Compute backends:")
		fmt.Println("-----------------")

		b := cpu.New()
		fmt.Printf("  %-8s available (%s)\n", "CPU", b.Name())
		fmt.Printf("  %-8s %s\n", "WebGPU", gpuStatus())
	},
}

func init() {
	rootCmd.AddCommand(backendsCmd)
}
