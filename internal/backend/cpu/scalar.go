package cpu

import (
	"fmt"

	"github.com/born-ml/linop/internal/tensor"
)

// Scalar operations - element-wise operations with a scalar value.
// The scalar's concrete type must match the tensor's dtype.

// MulScalar multiplies each element of the tensor by a scalar value.
func (cpu *CPUBackend) MulScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return cpu.scalarOp(x, scalar, opMul, "mulscalar")
}

// AddScalar adds a scalar value to each element of the tensor.
func (cpu *CPUBackend) AddScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return cpu.scalarOp(x, scalar, opAdd, "addscalar")
}

// SubScalar subtracts a scalar value from each element of the tensor.
func (cpu *CPUBackend) SubScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return cpu.scalarOp(x, scalar, opSub, "subscalar")
}

// DivScalar divides each element of the tensor by a scalar value.
func (cpu *CPUBackend) DivScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return cpu.scalarOp(x, scalar, opDiv, "divscalar")
}

func (cpu *CPUBackend) scalarOp(x *tensor.RawTensor, scalar any, op binOp, name string) *tensor.RawTensor {
	result := newResult(x.Shape(), x.DType(), cpu.device, name)

	switch x.DType() {
	case tensor.Float32:
		v, ok := scalar.(float32)
		if !ok {
			panic(fmt.Sprintf("%s: scalar type %T does not match dtype %s", name, scalar, x.DType()))
		}
		scalarKernel(result.AsFloat32(), x.AsFloat32(), v, op)
	case tensor.Float64:
		v, ok := scalar.(float64)
		if !ok {
			panic(fmt.Sprintf("%s: scalar type %T does not match dtype %s", name, scalar, x.DType()))
		}
		scalarKernel(result.AsFloat64(), x.AsFloat64(), v, op)
	case tensor.Int32:
		v, ok := scalar.(int32)
		if !ok {
			panic(fmt.Sprintf("%s: scalar type %T does not match dtype %s", name, scalar, x.DType()))
		}
		scalarKernel(result.AsInt32(), x.AsInt32(), v, op)
	case tensor.Int64:
		v, ok := scalar.(int64)
		if !ok {
			panic(fmt.Sprintf("%s: scalar type %T does not match dtype %s", name, scalar, x.DType()))
		}
		scalarKernel(result.AsInt64(), x.AsInt64(), v, op)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", name, x.DType()))
	}

	return result
}

// scalarKernel computes dst[i] = src[i] op scalar.
func scalarKernel[T tensor.DType](dst, src []T, scalar T, op binOp) {
	switch op {
	case opAdd:
		for i := range dst {
			dst[i] = src[i] + scalar
		}
	case opSub:
		for i := range dst {
			dst[i] = src[i] - scalar
		}
	case opMul:
		for i := range dst {
			dst[i] = src[i] * scalar
		}
	case opDiv:
		for i := range dst {
			dst[i] = src[i] / scalar
		}
	}
}
