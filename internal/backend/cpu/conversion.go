package cpu

import (
	"fmt"

	"github.com/born-ml/linop/internal/tensor"
)

// Cast converts the tensor to a different data type.
// Casting to the same dtype returns a cheap clone.
func (cpu *CPUBackend) Cast(x *tensor.RawTensor, dtype tensor.DataType) *tensor.RawTensor {
	if x.DType() == dtype {
		return x.Clone()
	}

	result := newResult(x.Shape(), dtype, cpu.device, "cast")

	switch x.DType() {
	case tensor.Float32:
		castFrom(result, x.AsFloat32())
	case tensor.Float64:
		castFrom(result, x.AsFloat64())
	case tensor.Int32:
		castFrom(result, x.AsInt32())
	case tensor.Int64:
		castFrom(result, x.AsInt64())
	default:
		panic(fmt.Sprintf("cast: unsupported source dtype %s", x.DType()))
	}

	return result
}

// castFrom dispatches on the destination dtype.
func castFrom[S tensor.DType](dst *tensor.RawTensor, src []S) {
	switch dst.DType() {
	case tensor.Float32:
		convertSlice(dst.AsFloat32(), src)
	case tensor.Float64:
		convertSlice(dst.AsFloat64(), src)
	case tensor.Int32:
		convertSlice(dst.AsInt32(), src)
	case tensor.Int64:
		convertSlice(dst.AsInt64(), src)
	default:
		panic(fmt.Sprintf("cast: unsupported target dtype %s", dst.DType()))
	}
}

// convertSlice converts element-wise between numeric types.
func convertSlice[D, S tensor.DType](dst []D, src []S) {
	for i, v := range src {
		dst[i] = D(v)
	}
}
