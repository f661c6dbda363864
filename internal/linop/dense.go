package linop

import (
	"fmt"

	"github.com/born-ml/linop/internal/tensor"
)

// Dense adapts a fully materialized tensor to the Operator contract.
// It owns no state beyond the wrapped tensor; every operation delegates
// to the backend's dense primitives, so the operator abstraction costs
// nothing when the matrix is already in memory.
type Dense struct {
	t *tensor.RawTensor
	b tensor.Backend
}

// NewDense wraps t as an Operator. The tensor is not copied.
// t must have at least two dimensions (rows and columns); anything
// below that cannot represent a matrix.
func NewDense(t *tensor.RawTensor, b tensor.Backend) (*Dense, error) {
	if t == nil {
		return nil, fmt.Errorf("linop: dense operator requires a tensor, got nil")
	}
	if len(t.Shape()) < 2 {
		return nil, fmt.Errorf("linop: dense operator requires at least 2 dimensions, got shape %v", t.Shape())
	}
	if b == nil {
		return nil, fmt.Errorf("linop: dense operator requires a backend, got nil")
	}
	return &Dense{t: t, b: b}, nil
}

// Size returns the wrapped tensor's shape.
func (d *Dense) Size() tensor.Shape {
	return d.t.Shape().Clone()
}

// MatMul delegates to the backend's matrix multiply.
func (d *Dense) MatMul(rhs *tensor.RawTensor) *tensor.RawTensor {
	return matmulRaw(d.b, d.t, rhs)
}

// TMatMul multiplies the transposed matrix with rhs.
func (d *Dense) TMatMul(rhs *tensor.RawTensor) *tensor.RawTensor {
	return matmulRaw(d.b, transposeLastTwo(d.b, d.t), rhs)
}

// Transpose returns a dense operator over the transposed tensor.
func (d *Dense) Transpose() Operator {
	return &Dense{t: transposeLastTwo(d.b, d.t), b: d.b}
}

// Diagonal delegates to the backend's diagonal extraction.
func (d *Dense) Diagonal() *tensor.RawTensor {
	return d.b.Diagonal(d.t)
}

// At gathers entries by computing flat positions into the wrapped
// tensor and delegating to the backend's Take.
func (d *Dense) At(rows, cols *tensor.RawTensor, batch ...*tensor.RawTensor) *tensor.RawTensor {
	shape := d.t.Shape()
	ndim := len(shape)
	if len(batch) != ndim-2 {
		panic(fmt.Sprintf("at: got %d batch index tensors for operator with %d batch dimensions",
			len(batch), ndim-2))
	}
	checkIndexTensor("at", "row", rows)
	checkIndexTensor("at", "col", cols)
	if !rows.Shape().Equal(cols.Shape()) {
		panic(fmt.Sprintf("at: row and col index shapes must match, got %v and %v",
			rows.Shape(), cols.Shape()))
	}
	for i, bt := range batch {
		checkIndexTensor("at", fmt.Sprintf("batch %d", i), bt)
		if !bt.Shape().Equal(rows.Shape()) {
			panic(fmt.Sprintf("at: batch index %d shape %v does not match row index shape %v",
				i, bt.Shape(), rows.Shape()))
		}
	}

	r := rows.AsInt32()
	c := cols.AsInt32()
	checkIndexRange("at", "row", r, shape.Rows())
	checkIndexRange("at", "col", c, shape.Cols())

	strides := shape.ComputeStrides()
	flat, err := tensor.NewRaw(rows.Shape().Clone(), tensor.Int32, rows.Device())
	if err != nil {
		panic(fmt.Sprintf("at: %v", err))
	}
	out := flat.AsInt32()
	for i := range out {
		idx := int(r[i])*strides[ndim-2] + int(c[i])*strides[ndim-1]
		for dim, bt := range batch {
			bv := bt.AsInt32()
			checkIndexRange("at", fmt.Sprintf("batch %d", dim), bv[i:i+1], shape[dim])
			idx += int(bv[i]) * strides[dim]
		}
		out[i] = int32(idx)
	}
	return d.b.Take(d.t, flat)
}

// QuadFormDerivative computes d(leftᵀ M right)/dM = left @ rightᵀ,
// the single gradient of a dense representation.
func (d *Dense) QuadFormDerivative(leftVecs, rightVecs *tensor.RawTensor) []*tensor.RawTensor {
	l := asColumns(d.b, leftVecs)
	r := asColumns(d.b, rightVecs)
	return []*tensor.RawTensor{matmulRaw(d.b, l, transposeLastTwo(d.b, r))}
}

// Realize returns the wrapped tensor without copying.
func (d *Dense) Realize() *tensor.RawTensor {
	return d.t
}

// Backend returns the backend d delegates to.
func (d *Dense) Backend() tensor.Backend {
	return d.b
}

// Submatrix returns a dense operator over the contiguous block
// [r0, r1) × [c0, c1) of the matrix dimensions. Batch dimensions
// are preserved. The block is copied out of the wrapped tensor.
func (d *Dense) Submatrix(r0, r1, c0, c1 int) (*Dense, error) {
	shape := d.t.Shape()
	m, n := shape.Rows(), shape.Cols()
	if r0 < 0 || r1 > m || r0 >= r1 {
		return nil, fmt.Errorf("linop: row range [%d, %d) invalid for %d rows", r0, r1, m)
	}
	if c0 < 0 || c1 > n || c0 >= c1 {
		return nil, fmt.Errorf("linop: col range [%d, %d) invalid for %d cols", c0, c1, n)
	}

	outShape := append(shape.Batch(), r1-r0, c1-c0)
	out, err := tensor.NewRaw(outShape, d.t.DType(), d.t.Device())
	if err != nil {
		return nil, fmt.Errorf("linop: %w", err)
	}

	elemSize := d.t.DType().Size()
	src := d.t.Data()
	dst := out.Data()
	rowsOut, colsOut := r1-r0, c1-c0
	for b := 0; b < shape.BatchNumElements(); b++ {
		srcBase := b * m * n
		dstBase := b * rowsOut * colsOut
		for i := 0; i < rowsOut; i++ {
			srcOff := (srcBase + (r0+i)*n + c0) * elemSize
			dstOff := (dstBase + i*colsOut) * elemSize
			copy(dst[dstOff:dstOff+colsOut*elemSize], src[srcOff:srcOff+colsOut*elemSize])
		}
	}
	return &Dense{t: out, b: d.b}, nil
}
