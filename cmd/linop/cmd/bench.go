package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/born-ml/linop/backend/cpu"
	"github.com/born-ml/linop/linop"
	"github.com/born-ml/linop/tensor"
)

var (
	benchSize  int
	benchIters int
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Benchmark operator primitives",
	Long: `Benchmark the core operator primitives on the CPU backend:
dense matrix-vector multiply, diagonal extraction, and the lazy
diagonal shortcut.`,
	RunE: runBench,
}

func init() {
	benchCmd.Flags().IntVar(&benchSize, "size", 1024, "matrix dimension n")
	benchCmd.Flags().IntVar(&benchIters, "iters", 10, "iterations per primitive")
	rootCmd.AddCommand(benchCmd)
}

func runBench(cmd *cobra.Command, args []string) error {
	backend := cpu.New()
	n := benchSize

	mat := tensor.Randn[float32](tensor.Shape{n, n}, backend)
	vec := tensor.Randn[float32](tensor.Shape{n}, backend)
	diagVec := tensor.Randn[float32](tensor.Shape{n}, backend)

	dense, err := linop.AsOperator(mat.Raw(), backend)
	if err != nil {
		return err
	}
	diag, err := linop.NewDiag(diagVec.Raw(), backend)
	if err != nil {
		return err
	}

	fmt.Printf("n=%d, %d iterations each\n\n", n, benchIters)

	benchOp("dense matvec", func() {
		defer vec.Raw().ForceNonUnique()()
		dense.MatMul(vec.Raw())
	})
	benchOp("dense diagonal", func() {
		dense.Diagonal()
	})
	benchOp("diag matvec", func() {
		defer vec.Raw().ForceNonUnique()()
		diag.MatMul(vec.Raw())
	})
	benchOp("diag realize", func() {
		diag.Realize()
	})

	return nil
}

func benchOp(name string, f func()) {
	start := time.Now()
	for i := 0; i < benchIters; i++ {
		f()
	}
	elapsed := time.Since(start)
	fmt.Printf("  %-16s %12v/op\n", name, elapsed/time.Duration(benchIters))
}
