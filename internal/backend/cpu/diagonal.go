package cpu

import (
	"fmt"

	"github.com/born-ml/linop/internal/tensor"
)

// Diagonal extracts the diagonal of the last two dimensions.
// For [.., M, N] input the result is [.., min(M, N)]; non-square
// matrices yield the main diagonal starting at the top-left corner.
func (cpu *CPUBackend) Diagonal(x *tensor.RawTensor) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)
	if ndim < 2 {
		panic(fmt.Sprintf("diagonal: input must be at least 2D, got %dD", ndim))
	}

	m := shape[ndim-2]
	n := shape[ndim-1]
	diagLen := m
	if n < m {
		diagLen = n
	}

	batchSize := 1
	for i := 0; i < ndim-2; i++ {
		batchSize *= shape[i]
	}

	outShape := make(tensor.Shape, ndim-1)
	copy(outShape, shape[:ndim-2])
	outShape[ndim-2] = diagLen

	result := newResult(outShape, x.DType(), cpu.device, "diagonal")

	switch x.DType() {
	case tensor.Float32:
		diagonalKernel(result.AsFloat32(), x.AsFloat32(), batchSize, m, n, diagLen)
	case tensor.Float64:
		diagonalKernel(result.AsFloat64(), x.AsFloat64(), batchSize, m, n, diagLen)
	case tensor.Int32:
		diagonalKernel(result.AsInt32(), x.AsInt32(), batchSize, m, n, diagLen)
	case tensor.Int64:
		diagonalKernel(result.AsInt64(), x.AsInt64(), batchSize, m, n, diagLen)
	default:
		panic(fmt.Sprintf("diagonal: unsupported dtype %s", x.DType()))
	}

	return result
}

// diagonalKernel copies dst[b, i] = src[b, i, i] for each batch element.
func diagonalKernel[T tensor.DType](dst, src []T, batchSize, m, n, diagLen int) {
	matrixSize := m * n
	for batch := 0; batch < batchSize; batch++ {
		srcMat := src[batch*matrixSize : (batch+1)*matrixSize]
		dstVec := dst[batch*diagLen : (batch+1)*diagLen]
		for i := range dstVec {
			dstVec[i] = srcMat[i*n+i]
		}
	}
}
