package cpu

import (
	"fmt"

	"github.com/born-ml/linop/internal/tensor"
)

// Take selects elements of x by flat index.
// The index tensor must have dtype int32; the result has the index
// tensor's shape and x's dtype.
//
// Example:
//
//	x: [2, 3] with values [1 2 3; 4 5 6]
//	indices: [3] = {0, 4, 5}
//	output: [3] = {1, 5, 6}
func (cpu *CPUBackend) Take(x, indices *tensor.RawTensor) *tensor.RawTensor {
	if indices.DType() != tensor.Int32 {
		panic(fmt.Sprintf("take: index tensor must have dtype int32, got %s", indices.DType()))
	}

	result := newResult(indices.Shape(), x.DType(), cpu.device, "take")

	idx := indices.AsInt32()
	limit := x.NumElements()

	switch x.DType() {
	case tensor.Float32:
		takeKernel(result.AsFloat32(), x.AsFloat32(), idx, limit)
	case tensor.Float64:
		takeKernel(result.AsFloat64(), x.AsFloat64(), idx, limit)
	case tensor.Int32:
		takeKernel(result.AsInt32(), x.AsInt32(), idx, limit)
	case tensor.Int64:
		takeKernel(result.AsInt64(), x.AsInt64(), idx, limit)
	default:
		panic(fmt.Sprintf("take: unsupported dtype %s", x.DType()))
	}

	return result
}

// takeKernel copies dst[i] = src[indices[i]] with bounds checking.
func takeKernel[T tensor.DType](dst, src []T, indices []int32, limit int) {
	for i, idxVal := range indices {
		if idxVal < 0 || int(idxVal) >= limit {
			panic(fmt.Sprintf("take: index %d out of bounds [0, %d) at position %d", idxVal, limit, i))
		}
		dst[i] = src[idxVal]
	}
}

// Gather selects elements along dim using an index tensor.
// Similar to torch.gather(input, dim, index).
//
// The index tensor must have dtype int32 and its shape must match input
// shape except at the gather dimension, where it can differ.
//
// Example:
//
//	input: [3, 4, 5] with values
//	index: [3, 4, 2] (int32 indices)
//	dim: 2
//	output: [3, 4, 2] where output[i,j,k] = input[i,j,index[i,j,k]]
func (cpu *CPUBackend) Gather(x *tensor.RawTensor, dim int, index *tensor.RawTensor) *tensor.RawTensor {
	// Validate index dtype
	if index.DType() != tensor.Int32 {
		panic(fmt.Sprintf("gather: index tensor must have dtype int32, got %s", index.DType()))
	}

	// Normalize dimension
	ndim := len(x.Shape())
	if dim < 0 {
		dim += ndim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("gather: invalid dim %d for %dD tensor", dim, ndim))
	}

	// Validate index shape (must match input except at gather dim)
	indexShape := index.Shape()
	if len(indexShape) != ndim {
		panic(fmt.Sprintf("gather: index rank %d != input rank %d", len(indexShape), ndim))
	}
	for i := 0; i < ndim; i++ {
		if i != dim && indexShape[i] != x.Shape()[i] {
			panic(fmt.Sprintf("gather: index shape mismatch at dim %d: %d != %d",
				i, indexShape[i], x.Shape()[i]))
		}
	}

	// Create output tensor (same shape as index)
	result := newResult(indexShape, x.DType(), cpu.device, "gather")

	indices := index.AsInt32()
	switch x.DType() {
	case tensor.Float32:
		gatherKernel(result.AsFloat32(), x.AsFloat32(), indices, x.Shape(), indexShape, dim)
	case tensor.Float64:
		gatherKernel(result.AsFloat64(), x.AsFloat64(), indices, x.Shape(), indexShape, dim)
	case tensor.Int32:
		gatherKernel(result.AsInt32(), x.AsInt32(), indices, x.Shape(), indexShape, dim)
	case tensor.Int64:
		gatherKernel(result.AsInt64(), x.AsInt64(), indices, x.Shape(), indexShape, dim)
	default:
		panic(fmt.Sprintf("gather: unsupported dtype %s", x.DType()))
	}

	return result
}

// gatherKernel walks the output index space; at the gather dimension the
// coordinate is replaced by the index tensor's value.
func gatherKernel[T tensor.DType](dst, src []T, indices []int32, srcShape, dstShape tensor.Shape, dim int) {
	ndim := len(srcShape)
	dstStrides := dstShape.ComputeStrides()
	srcStrides := srcShape.ComputeStrides()

	multiIdx := make([]int, ndim)
	for i := range dst {
		// Convert flat index to multi-dimensional index
		remaining := i
		for d := 0; d < ndim; d++ {
			multiIdx[d] = remaining / dstStrides[d]
			remaining %= dstStrides[d]
		}

		// Get the index value at the gather dimension
		indexVal := int(indices[i])
		if indexVal < 0 || indexVal >= srcShape[dim] {
			panic(fmt.Sprintf("gather: index %d out of bounds [0, %d) at position %d",
				indexVal, srcShape[dim], i))
		}

		// Compute source flat index
		srcIdx := 0
		for d := 0; d < ndim; d++ {
			coord := multiIdx[d]
			if d == dim {
				coord = indexVal
			}
			srcIdx += coord * srcStrides[d]
		}

		dst[i] = src[srcIdx]
	}
}
