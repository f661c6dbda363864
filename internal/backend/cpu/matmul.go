package cpu

import (
	"fmt"

	"github.com/born-ml/linop/internal/parallel"
	"github.com/born-ml/linop/internal/tensor"
)

// matmulMinRows is the row-chunk floor for parallel matmul: a single row
// already costs K*N multiply-adds, so small chunks amortize fine.
const matmulMinRows = 8

// MatMul performs matrix multiplication.
// For 2D tensors: (M, K) @ (K, N) -> (M, N)
// Rows of the output are computed in parallel.
func (cpu *CPUBackend) MatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	aShape := a.Shape()
	bShape := b.Shape()

	// Validate dimensions
	if len(aShape) != 2 || len(bShape) != 2 {
		panic(fmt.Sprintf("matmul: only 2D tensors supported, got %dD and %dD", len(aShape), len(bShape)))
	}

	m, k := aShape[0], aShape[1]
	kAlt, n := bShape[0], bShape[1]

	if k != kAlt {
		panic(fmt.Sprintf("matmul: shape mismatch [%d,%d] @ [%d,%d]", m, k, kAlt, n))
	}
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("matmul: dtype mismatch: %s vs %s", a.DType(), b.DType()))
	}

	result := newResult(tensor.Shape{m, n}, a.DType(), cpu.device, "matmul")

	switch a.DType() {
	case tensor.Float32:
		matmulRows(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), m, k, n, cpu.par)
	case tensor.Float64:
		matmulRows(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), m, k, n, cpu.par)
	case tensor.Int32:
		matmulRows(result.AsInt32(), a.AsInt32(), b.AsInt32(), m, k, n, cpu.par)
	case tensor.Int64:
		matmulRows(result.AsInt64(), a.AsInt64(), b.AsInt64(), m, k, n, cpu.par)
	default:
		panic(fmt.Sprintf("matmul: unsupported dtype %s", a.DType()))
	}

	return result
}

// matmulRows computes C = A @ B, parallelized over the rows of C.
func matmulRows[T tensor.DType](c, a, b []T, m, k, n int, cfg parallel.Config) {
	parallel.ForRows(m, matmulMinRows, func(i int) {
		matmulRow(c, a, b, i, k, n)
	}, cfg)
}

// matmulRow computes row i of C: C[i,j] = sum_k A[i,k] * B[k,j].
// The k-outer loop keeps the B accesses sequential per iteration.
func matmulRow[T tensor.DType](c, a, b []T, i, k, n int) {
	rowC := c[i*n : (i+1)*n]
	for j := range rowC {
		rowC[j] = 0
	}
	for kIdx := 0; kIdx < k; kIdx++ {
		aik := a[i*k+kIdx]
		if aik == 0 {
			continue
		}
		rowB := b[kIdx*n : (kIdx+1)*n]
		for j, bv := range rowB {
			rowC[j] += aik * bv
		}
	}
}
