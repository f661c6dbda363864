//go:build windows

package webgpu

import (
	"github.com/born-ml/linop/internal/tensor"
)

// shaderEligible reports whether a binary op can run the shader path:
// float32 only, identical shapes (broadcast stays on host).
func shaderEligible(a, b *tensor.RawTensor) bool {
	return a.DType() == tensor.Float32 &&
		b.DType() == tensor.Float32 &&
		a.Shape().Equal(b.Shape())
}

// binaryOp runs the shader when eligible, otherwise the host fallback.
func (b *Backend) binaryOp(x, y *tensor.RawTensor, name, code string,
	host func(a, b *tensor.RawTensor) *tensor.RawTensor,
) *tensor.RawTensor {
	if !shaderEligible(x, y) {
		return host(x, y)
	}
	result, err := b.runBinaryOp(x, y, name, code)
	if err != nil {
		panic("webgpu: " + name + ": " + err.Error())
	}
	return result
}

// Add performs element-wise addition.
func (b *Backend) Add(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.binaryOp(x, y, "add", addShader, b.fallback.Add)
}

// Sub performs element-wise subtraction.
func (b *Backend) Sub(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.binaryOp(x, y, "sub", subShader, b.fallback.Sub)
}

// Mul performs element-wise multiplication.
func (b *Backend) Mul(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.binaryOp(x, y, "mul", mulShader, b.fallback.Mul)
}

// Div performs element-wise division.
func (b *Backend) Div(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.binaryOp(x, y, "div", divShader, b.fallback.Div)
}

// MatMul performs 2D matrix multiplication on GPU for float32 inputs.
func (b *Backend) MatMul(x, y *tensor.RawTensor) *tensor.RawTensor {
	if x.DType() != tensor.Float32 || y.DType() != tensor.Float32 ||
		len(x.Shape()) != 2 || len(y.Shape()) != 2 ||
		x.Shape()[1] != y.Shape()[0] {
		// Host path validates and panics with the precise reason.
		return b.fallback.MatMul(x, y)
	}
	result, err := b.runMatMul(x, y)
	if err != nil {
		panic("webgpu: matmul: " + err.Error())
	}
	return result
}

// BatchMatMul performs batched matrix multiplication on the host.
func (b *Backend) BatchMatMul(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.fallback.BatchMatMul(x, y)
}

// Diagonal extracts the diagonal of the last two dimensions on GPU
// for float32 inputs.
func (b *Backend) Diagonal(x *tensor.RawTensor) *tensor.RawTensor {
	if x.DType() != tensor.Float32 || len(x.Shape()) < 2 {
		return b.fallback.Diagonal(x)
	}
	result, err := b.runDiagonal(x)
	if err != nil {
		panic("webgpu: diagonal: " + err.Error())
	}
	return result
}

// Reshape returns a tensor with the given shape and the same data.
func (b *Backend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	return b.fallback.Reshape(t, newShape)
}

// Transpose transposes the tensor by permuting its dimensions.
func (b *Backend) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	return b.fallback.Transpose(t, axes...)
}

// MulScalar multiplies every element by a scalar.
func (b *Backend) MulScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return b.fallback.MulScalar(x, scalar)
}

// AddScalar adds a scalar to every element.
func (b *Backend) AddScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return b.fallback.AddScalar(x, scalar)
}

// SubScalar subtracts a scalar from every element.
func (b *Backend) SubScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return b.fallback.SubScalar(x, scalar)
}

// DivScalar divides every element by a scalar.
func (b *Backend) DivScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return b.fallback.DivScalar(x, scalar)
}

// Sum computes the total sum of all elements.
func (b *Backend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	return b.fallback.Sum(x)
}

// SumDim sums along the given dimension.
func (b *Backend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return b.fallback.SumDim(x, dim, keepDim)
}

// Cat concatenates tensors along a dimension.
func (b *Backend) Cat(tensors []*tensor.RawTensor, dim int) *tensor.RawTensor {
	return b.fallback.Cat(tensors, dim)
}

// Unsqueeze inserts a dimension of size 1.
func (b *Backend) Unsqueeze(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	return b.fallback.Unsqueeze(x, dim)
}

// Squeeze removes a dimension of size 1.
func (b *Backend) Squeeze(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	return b.fallback.Squeeze(x, dim)
}

// Take selects elements by flat index.
func (b *Backend) Take(x, indices *tensor.RawTensor) *tensor.RawTensor {
	return b.fallback.Take(x, indices)
}

// Gather selects elements along dim using an index tensor.
func (b *Backend) Gather(x *tensor.RawTensor, dim int, index *tensor.RawTensor) *tensor.RawTensor {
	return b.fallback.Gather(x, dim, index)
}

// Expand broadcasts the tensor to the given shape.
func (b *Backend) Expand(x *tensor.RawTensor, shape tensor.Shape) *tensor.RawTensor {
	return b.fallback.Expand(x, shape)
}

// Cast converts the tensor to a different data type.
func (b *Backend) Cast(x *tensor.RawTensor, dtype tensor.DataType) *tensor.RawTensor {
	return b.fallback.Cast(x, dtype)
}
