package cpu

import (
	"fmt"

	"github.com/born-ml/linop/internal/parallel"
	"github.com/born-ml/linop/internal/tensor"
)

// BatchMatMul performs batched matrix multiplication.
// Supports 3D and higher tensors with leading batch dimensions.
//
// For 3D: [B, M, K] @ [B, K, N] -> [B, M, N]
// For 4D: [B, H, M, K] @ [B, H, K, N] -> [B, H, M, N]
//
// The last two dimensions are treated as matrix dimensions.
// All leading dimensions must match (batch dimensions).
// (batch, row) pairs of the output are computed in parallel.
func (cpu *CPUBackend) BatchMatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	aShape := a.Shape()
	bShape := b.Shape()
	ndim := len(aShape)

	// Validate dimensions
	if ndim < 3 {
		panic(fmt.Sprintf("batchmatmul: inputs must be at least 3D, got %dD", ndim))
	}
	if len(bShape) != ndim {
		panic(fmt.Sprintf("batchmatmul: dimension mismatch, got %dD and %dD", ndim, len(bShape)))
	}
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("batchmatmul: dtype mismatch: %s vs %s", a.DType(), b.DType()))
	}

	// Validate batch dimensions match
	for i := 0; i < ndim-2; i++ {
		if aShape[i] != bShape[i] {
			panic(fmt.Sprintf("batchmatmul: batch dimension mismatch at dim %d: %d vs %d", i, aShape[i], bShape[i]))
		}
	}

	// Extract matrix dimensions
	m := aShape[ndim-2]
	k1 := aShape[ndim-1]
	k2 := bShape[ndim-2]
	n := bShape[ndim-1]

	if k1 != k2 {
		panic(fmt.Sprintf("batchmatmul: inner dimension mismatch: %d vs %d", k1, k2))
	}

	// Compute batch size (product of all batch dims)
	batchSize := 1
	for i := 0; i < ndim-2; i++ {
		batchSize *= aShape[i]
	}

	// Output shape = batch dims + [M, N]
	outShape := make(tensor.Shape, ndim)
	copy(outShape, aShape[:ndim-2])
	outShape[ndim-2] = m
	outShape[ndim-1] = n

	result := newResult(outShape, a.DType(), cpu.device, "batchmatmul")

	switch a.DType() {
	case tensor.Float32:
		batchMatmul(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), batchSize, m, k1, n, cpu.par)
	case tensor.Float64:
		batchMatmul(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), batchSize, m, k1, n, cpu.par)
	case tensor.Int32:
		batchMatmul(result.AsInt32(), a.AsInt32(), b.AsInt32(), batchSize, m, k1, n, cpu.par)
	case tensor.Int64:
		batchMatmul(result.AsInt64(), a.AsInt64(), b.AsInt64(), batchSize, m, k1, n, cpu.par)
	default:
		panic(fmt.Sprintf("batchmatmul: unsupported dtype %s", a.DType()))
	}

	return result
}

// batchMatmul computes one independent matmul per batch element,
// parallelized over (batch, row) pairs.
func batchMatmul[T tensor.DType](c, a, b []T, batchSize, m, k, n int, cfg parallel.Config) {
	matrixSizeA := m * k
	matrixSizeB := k * n
	matrixSizeC := m * n

	parallel.ForBatch(batchSize, m, func(batch, i int) {
		aMat := a[batch*matrixSizeA : (batch+1)*matrixSizeA]
		bMat := b[batch*matrixSizeB : (batch+1)*matrixSizeB]
		cMat := c[batch*matrixSizeC : (batch+1)*matrixSizeC]
		matmulRow(cMat, aMat, bMat, i, k, n)
	}, cfg)
}
