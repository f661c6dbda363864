package cpu

import (
	"fmt"

	"github.com/born-ml/linop/internal/tensor"
)

// Cat concatenates tensors along the specified dimension.
// All tensors must have the same shape except along dim.
// Supports negative dim indexing.
func (cpu *CPUBackend) Cat(tensors []*tensor.RawTensor, dim int) *tensor.RawTensor {
	if len(tensors) == 0 {
		panic("cat: at least one tensor required")
	}

	first := tensors[0]
	ndim := len(first.Shape())

	if dim < 0 {
		dim += ndim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("cat: invalid dim %d for %dD tensor", dim, ndim))
	}

	// Validate shapes and accumulate the concat dimension
	catDimSize := 0
	for i, t := range tensors {
		shape := t.Shape()
		if len(shape) != ndim {
			panic(fmt.Sprintf("cat: tensor %d has rank %d, expected %d", i, len(shape), ndim))
		}
		if t.DType() != first.DType() {
			panic(fmt.Sprintf("cat: tensor %d has dtype %s, expected %s", i, t.DType(), first.DType()))
		}
		for d := 0; d < ndim; d++ {
			if d != dim && shape[d] != first.Shape()[d] {
				panic(fmt.Sprintf("cat: shape mismatch at dim %d: %d vs %d", d, shape[d], first.Shape()[d]))
			}
		}
		catDimSize += shape[dim]
	}

	outShape := first.Shape().Clone()
	outShape[dim] = catDimSize

	result := newResult(outShape, first.DType(), cpu.device, "cat")

	// Copy is dtype-agnostic: row-major layout means each tensor
	// contributes contiguous byte blocks per outer index.
	elemSize := first.DType().Size()
	outer := 1
	for d := 0; d < dim; d++ {
		outer *= outShape[d]
	}
	inner := 1
	for d := dim + 1; d < ndim; d++ {
		inner *= outShape[d]
	}

	dst := result.Data()
	dstBlock := catDimSize * inner * elemSize
	dstOffset := 0
	for o := 0; o < outer; o++ {
		dstOffset = o * dstBlock
		for _, t := range tensors {
			block := t.Shape()[dim] * inner * elemSize
			src := t.Data()[o*block : (o+1)*block]
			copy(dst[dstOffset:dstOffset+block], src)
			dstOffset += block
		}
	}

	return result
}

// Unsqueeze adds a dimension of size 1 at the specified position.
// Supports negative dim indexing.
func (cpu *CPUBackend) Unsqueeze(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)

	if dim < 0 {
		dim += ndim + 1
	}
	if dim < 0 || dim > ndim {
		panic(fmt.Sprintf("unsqueeze: invalid dim %d for %dD tensor", dim, ndim))
	}

	newShape := make(tensor.Shape, 0, ndim+1)
	newShape = append(newShape, shape[:dim]...)
	newShape = append(newShape, 1)
	newShape = append(newShape, shape[dim:]...)

	result := newResult(newShape, x.DType(), cpu.device, "unsqueeze")
	copy(result.Data(), x.Data())
	return result
}

// Squeeze removes a dimension of size 1 at the specified position.
// Panics if the dimension size is not 1.
// Supports negative dim indexing.
func (cpu *CPUBackend) Squeeze(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)

	if dim < 0 {
		dim += ndim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("squeeze: invalid dim %d for %dD tensor", dim, ndim))
	}
	if shape[dim] != 1 {
		panic(fmt.Sprintf("squeeze: dimension %d has size %d, expected 1", dim, shape[dim]))
	}

	newShape := make(tensor.Shape, 0, ndim-1)
	newShape = append(newShape, shape[:dim]...)
	newShape = append(newShape, shape[dim+1:]...)

	result := newResult(newShape, x.DType(), cpu.device, "squeeze")
	copy(result.Data(), x.Data())
	return result
}
