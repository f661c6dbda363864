package cpu

import (
	"fmt"

	"github.com/born-ml/linop/internal/tensor"
)

// Sum computes the total sum over all elements, returning a 0-D tensor.
func (cpu *CPUBackend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	result := newResult(tensor.Shape{}, x.DType(), cpu.device, "sum")

	switch x.DType() {
	case tensor.Float32:
		result.AsFloat32()[0] = sumKernel(x.AsFloat32())
	case tensor.Float64:
		result.AsFloat64()[0] = sumKernel(x.AsFloat64())
	case tensor.Int32:
		result.AsInt32()[0] = sumKernel(x.AsInt32())
	case tensor.Int64:
		result.AsInt64()[0] = sumKernel(x.AsInt64())
	default:
		panic(fmt.Sprintf("sum: unsupported dtype %s", x.DType()))
	}

	return result
}

func sumKernel[T tensor.DType](src []T) T {
	var total T
	for _, v := range src {
		total += v
	}
	return total
}

// SumDim sums along the given dimension.
// Supports negative dim indexing; keepDim retains a size-1 dimension.
func (cpu *CPUBackend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)

	if dim < 0 {
		dim += ndim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("sumdim: invalid dim %d for %dD tensor", dim, ndim))
	}

	outShape := make(tensor.Shape, 0, ndim)
	outShape = append(outShape, shape[:dim]...)
	if keepDim {
		outShape = append(outShape, 1)
	}
	outShape = append(outShape, shape[dim+1:]...)

	result := newResult(outShape, x.DType(), cpu.device, "sumdim")

	// Decompose the index space into outer × reduced × inner.
	outer := 1
	for d := 0; d < dim; d++ {
		outer *= shape[d]
	}
	reduced := shape[dim]
	inner := 1
	for d := dim + 1; d < ndim; d++ {
		inner *= shape[d]
	}

	switch x.DType() {
	case tensor.Float32:
		sumDimKernel(result.AsFloat32(), x.AsFloat32(), outer, reduced, inner)
	case tensor.Float64:
		sumDimKernel(result.AsFloat64(), x.AsFloat64(), outer, reduced, inner)
	case tensor.Int32:
		sumDimKernel(result.AsInt32(), x.AsInt32(), outer, reduced, inner)
	case tensor.Int64:
		sumDimKernel(result.AsInt64(), x.AsInt64(), outer, reduced, inner)
	default:
		panic(fmt.Sprintf("sumdim: unsupported dtype %s", x.DType()))
	}

	return result
}

// sumDimKernel accumulates dst[o, i] = sum_r src[o, r, i].
func sumDimKernel[T tensor.DType](dst, src []T, outer, reduced, inner int) {
	for o := 0; o < outer; o++ {
		dstBlock := dst[o*inner : (o+1)*inner]
		for i := range dstBlock {
			dstBlock[i] = 0
		}
		for r := 0; r < reduced; r++ {
			srcBlock := src[(o*reduced+r)*inner : (o*reduced+r+1)*inner]
			for i, v := range srcBlock {
				dstBlock[i] += v
			}
		}
	}
}
