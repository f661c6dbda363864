package cpu

import (
	"fmt"

	"github.com/born-ml/linop/internal/tensor"
)

// Expand broadcasts the tensor to a new shape.
// Each input dimension must equal the target dimension or be 1;
// leading target dimensions may be added.
func (cpu *CPUBackend) Expand(x *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	xShape := x.Shape()

	if len(newShape) < len(xShape) {
		panic(fmt.Sprintf("expand: new shape %v has fewer dimensions than input shape %v",
			newShape, xShape))
	}

	// Align shapes from the right (last dimension)
	offset := len(newShape) - len(xShape)
	for i := 0; i < len(xShape); i++ {
		xDim := xShape[i]
		newDim := newShape[offset+i]
		if xDim != 1 && xDim != newDim {
			panic(fmt.Sprintf("expand: cannot expand dimension %d from %d to %d",
				i, xDim, newDim))
		}
	}

	result := newResult(newShape, x.DType(), cpu.device, "expand")

	switch x.DType() {
	case tensor.Float32:
		expandKernel(result.AsFloat32(), x.AsFloat32(), newShape, xShape, offset)
	case tensor.Float64:
		expandKernel(result.AsFloat64(), x.AsFloat64(), newShape, xShape, offset)
	case tensor.Int32:
		expandKernel(result.AsInt32(), x.AsInt32(), newShape, xShape, offset)
	case tensor.Int64:
		expandKernel(result.AsInt64(), x.AsInt64(), newShape, xShape, offset)
	default:
		panic(fmt.Sprintf("expand: unsupported dtype %s", x.DType()))
	}

	return result
}

// expandKernel replicates src values across broadcast dimensions.
func expandKernel[T tensor.DType](dst, src []T, outShape, srcShape tensor.Shape, offset int) {
	outStrides := outShape.ComputeStrides()
	srcStrides := srcShape.ComputeStrides()

	coords := make([]int, len(outShape))
	for outIdx := range dst {
		remaining := outIdx
		for i := range coords {
			coords[i] = remaining / outStrides[i]
			remaining %= outStrides[i]
		}

		dst[outIdx] = src[broadcastIndex(coords, srcShape, srcStrides, offset)]
	}
}
