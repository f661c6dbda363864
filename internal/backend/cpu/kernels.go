package cpu

import (
	"fmt"

	"github.com/born-ml/linop/internal/tensor"
)

// binOp identifies an element-wise binary operation.
type binOp int

const (
	opAdd binOp = iota
	opSub
	opMul
	opDiv
)

// binaryVectorized computes dst = a op b for same-shaped tensors.
func binaryVectorized(dst, a, b *tensor.RawTensor, op binOp, name string) {
	switch a.DType() {
	case tensor.Float32:
		binaryKernel(dst.AsFloat32(), a.AsFloat32(), b.AsFloat32(), op)
	case tensor.Float64:
		binaryKernel(dst.AsFloat64(), a.AsFloat64(), b.AsFloat64(), op)
	case tensor.Int32:
		binaryKernel(dst.AsInt32(), a.AsInt32(), b.AsInt32(), op)
	case tensor.Int64:
		binaryKernel(dst.AsInt64(), a.AsInt64(), b.AsInt64(), op)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", name, a.DType()))
	}
}

// binaryInplace computes a = a op b for same-shaped tensors.
func binaryInplace(a, b *tensor.RawTensor, op binOp, name string) {
	binaryVectorized(a, a, b, op, name)
}

// binaryKernel is the typed element-wise loop.
func binaryKernel[T tensor.DType](dst, a, b []T, op binOp) {
	switch op {
	case opAdd:
		for i := range dst {
			dst[i] = a[i] + b[i]
		}
	case opSub:
		for i := range dst {
			dst[i] = a[i] - b[i]
		}
	case opMul:
		for i := range dst {
			dst[i] = a[i] * b[i]
		}
	case opDiv:
		for i := range dst {
			dst[i] = a[i] / b[i]
		}
	}
}

// binaryBroadcast computes dst = a op b where a and b broadcast to outShape.
func binaryBroadcast(dst, a, b *tensor.RawTensor, outShape tensor.Shape, op binOp, name string) {
	switch a.DType() {
	case tensor.Float32:
		broadcastKernel(dst.AsFloat32(), a.AsFloat32(), b.AsFloat32(), outShape, a.Shape(), b.Shape(), op)
	case tensor.Float64:
		broadcastKernel(dst.AsFloat64(), a.AsFloat64(), b.AsFloat64(), outShape, a.Shape(), b.Shape(), op)
	case tensor.Int32:
		broadcastKernel(dst.AsInt32(), a.AsInt32(), b.AsInt32(), outShape, a.Shape(), b.Shape(), op)
	case tensor.Int64:
		broadcastKernel(dst.AsInt64(), a.AsInt64(), b.AsInt64(), outShape, a.Shape(), b.Shape(), op)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", name, a.DType()))
	}
}

// broadcastKernel walks the output index space and maps each coordinate
// back into the (possibly smaller) input index spaces, treating size-1
// dimensions as pinned to index 0.
func broadcastKernel[T tensor.DType](dst, a, b []T, outShape, aShape, bShape tensor.Shape, op binOp) {
	outStrides := outShape.ComputeStrides()
	aStrides := aShape.ComputeStrides()
	bStrides := bShape.ComputeStrides()
	aOffset := len(outShape) - len(aShape)
	bOffset := len(outShape) - len(bShape)

	coords := make([]int, len(outShape))
	for outIdx := range dst {
		remaining := outIdx
		for i := range coords {
			coords[i] = remaining / outStrides[i]
			remaining %= outStrides[i]
		}

		aIdx := broadcastIndex(coords, aShape, aStrides, aOffset)
		bIdx := broadcastIndex(coords, bShape, bStrides, bOffset)

		var v T
		switch op {
		case opAdd:
			v = a[aIdx] + b[bIdx]
		case opSub:
			v = a[aIdx] - b[bIdx]
		case opMul:
			v = a[aIdx] * b[bIdx]
		case opDiv:
			v = a[aIdx] / b[bIdx]
		}
		dst[outIdx] = v
	}
}

// broadcastIndex maps output coordinates to a flat input index.
func broadcastIndex(coords []int, shape tensor.Shape, strides []int, offset int) int {
	idx := 0
	for i := 0; i < len(shape); i++ {
		coord := coords[offset+i]
		if shape[i] == 1 {
			coord = 0 // Broadcast dimension
		}
		idx += coord * strides[i]
	}
	return idx
}

// transposeData permutes t's dimensions into dst according to axes.
func transposeData(dst, t *tensor.RawTensor, axes []int) {
	switch t.DType() {
	case tensor.Float32:
		transposeKernel(dst.AsFloat32(), t.AsFloat32(), dst.Shape(), t.Shape(), axes)
	case tensor.Float64:
		transposeKernel(dst.AsFloat64(), t.AsFloat64(), dst.Shape(), t.Shape(), axes)
	case tensor.Int32:
		transposeKernel(dst.AsInt32(), t.AsInt32(), dst.Shape(), t.Shape(), axes)
	case tensor.Int64:
		transposeKernel(dst.AsInt64(), t.AsInt64(), dst.Shape(), t.Shape(), axes)
	default:
		panic(fmt.Sprintf("transpose: unsupported dtype %s", t.DType()))
	}
}

// transposeKernel copies src into dst with permuted dimensions.
// dst[i0, i1, ...] = src[i_axes[0], i_axes[1], ...]
func transposeKernel[T tensor.DType](dst, src []T, dstShape, srcShape tensor.Shape, axes []int) {
	dstStrides := dstShape.ComputeStrides()
	srcStrides := srcShape.ComputeStrides()

	coords := make([]int, len(dstShape))
	for dstIdx := range dst {
		remaining := dstIdx
		for i := range coords {
			coords[i] = remaining / dstStrides[i]
			remaining %= dstStrides[i]
		}

		srcIdx := 0
		for i, ax := range axes {
			srcIdx += coords[i] * srcStrides[ax]
		}
		dst[dstIdx] = src[srcIdx]
	}
}
