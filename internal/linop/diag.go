package linop

import (
	"fmt"

	"github.com/born-ml/linop/internal/tensor"
)

// Diag is a square operator defined entirely by its diagonal vector.
// The n² off-diagonal zeros are never stored; matmuls reduce to
// row-wise scaling. The diagonal tensor has shape batch… × n.
type Diag struct {
	d *tensor.RawTensor
	b tensor.Backend
}

// NewDiag wraps the diagonal vector d as an n × n operator.
func NewDiag(d *tensor.RawTensor, b tensor.Backend) (*Diag, error) {
	if d == nil {
		return nil, fmt.Errorf("linop: diagonal operator requires a tensor, got nil")
	}
	if len(d.Shape()) < 1 {
		return nil, fmt.Errorf("linop: diagonal operator requires at least 1 dimension, got shape %v", d.Shape())
	}
	if b == nil {
		return nil, fmt.Errorf("linop: diagonal operator requires a backend, got nil")
	}
	return &Diag{d: d, b: b}, nil
}

// Size returns batch… × n × n for a diagonal of length n.
func (dg *Diag) Size() tensor.Shape {
	ds := dg.d.Shape()
	n := ds[len(ds)-1]
	return append(ds.Clone(), n)
}

// MatMul scales the rows of rhs by the diagonal. This is an
// elementwise broadcast, never a full matrix multiply.
func (dg *Diag) MatMul(rhs *tensor.RawTensor) *tensor.RawTensor {
	dg.checkMatMulShape(rhs)
	if len(rhs.Shape()) == 1 {
		return dg.b.Mul(rhs, dg.d)
	}
	col := dg.b.Unsqueeze(dg.d, -1)
	return dg.b.Mul(rhs, col)
}

// checkMatMulShape rejects operands the broadcast multiply would
// silently accept: rhs must be batch… × n × k with batch dims matching
// the diagonal's, or an n-vector for an unbatched diagonal.
func (dg *Diag) checkMatMulShape(rhs *tensor.RawTensor) {
	ds := dg.d.Shape()
	n := ds[len(ds)-1]
	rs := rhs.Shape()
	if len(rs) == 1 {
		if len(ds) > 1 {
			panic(fmt.Sprintf("matmul: 1D rhs for batched operator with shape %v", dg.Size()))
		}
		if rs[0] != n {
			panic(fmt.Sprintf("matmul: inner dimension mismatch: %d vs %d", n, rs[0]))
		}
		return
	}
	if len(rs) != len(ds)+1 {
		panic(fmt.Sprintf("matmul: dimension mismatch, got %dD operator and %dD rhs", len(ds)+1, len(rs)))
	}
	for i := 0; i < len(ds)-1; i++ {
		if rs[i] != ds[i] {
			panic(fmt.Sprintf("matmul: batch dimension mismatch at dim %d: %d vs %d", i, ds[i], rs[i]))
		}
	}
	if rs[len(rs)-2] != n {
		panic(fmt.Sprintf("matmul: inner dimension mismatch: %d vs %d", n, rs[len(rs)-2]))
	}
}

// TMatMul equals MatMul: a diagonal matrix is symmetric.
func (dg *Diag) TMatMul(rhs *tensor.RawTensor) *tensor.RawTensor {
	return dg.MatMul(rhs)
}

// Transpose returns the operator itself.
func (dg *Diag) Transpose() Operator {
	return dg
}

// Diagonal returns the wrapped diagonal vector without copying.
func (dg *Diag) Diagonal() *tensor.RawTensor {
	return dg.d
}

// At reads diagonal entries where the row and column indices agree
// and zeros elsewhere, without materializing the matrix.
func (dg *Diag) At(rows, cols *tensor.RawTensor, batch ...*tensor.RawTensor) *tensor.RawTensor {
	ds := dg.d.Shape()
	ndim := len(ds)
	if len(batch) != ndim-1 {
		panic(fmt.Sprintf("at: got %d batch index tensors for operator with %d batch dimensions",
			len(batch), ndim-1))
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
		checkIndexRange("at", fmt.Sprintf("batch %d", i), bt.AsInt32(), ds[i])
	}

	n := ds[ndim-1]
	r := rows.AsInt32()
	c := cols.AsInt32()
	checkIndexRange("at", "row", r, n)
	checkIndexRange("at", "col", c, n)

	strides := ds.ComputeStrides()
	take, err := tensor.NewRaw(rows.Shape().Clone(), tensor.Int32, rows.Device())
	if err != nil {
		panic(fmt.Sprintf("at: %v", err))
	}
	mask, err := tensor.NewRaw(rows.Shape().Clone(), tensor.Int32, rows.Device())
	if err != nil {
		panic(fmt.Sprintf("at: %v", err))
	}
	takeIdx := take.AsInt32()
	maskVal := mask.AsInt32()
	for i := range takeIdx {
		idx := int(r[i]) * strides[ndim-1]
		for dim, bt := range batch {
			idx += int(bt.AsInt32()[i]) * strides[dim]
		}
		takeIdx[i] = int32(idx)
		if r[i] == c[i] {
			maskVal[i] = 1
		}
	}

	vals := dg.b.Take(dg.d, take)
	return dg.b.Mul(vals, dg.b.Cast(mask, dg.d.DType()))
}

// QuadFormDerivative computes the gradient with respect to the
// diagonal vector: the row-wise inner products of left and right.
func (dg *Diag) QuadFormDerivative(leftVecs, rightVecs *tensor.RawTensor) []*tensor.RawTensor {
	l := asColumns(dg.b, leftVecs)
	r := asColumns(dg.b, rightVecs)
	// l may alias the caller's storage; keep Mul off the inplace path.
	defer l.ForceNonUnique()()
	prod := dg.b.Mul(l, r)
	return []*tensor.RawTensor{dg.b.SumDim(prod, -1, false)}
}

// Realize embeds the diagonal into a zero-filled dense tensor.
func (dg *Diag) Realize() *tensor.RawTensor {
	ds := dg.d.Shape()
	n := ds[len(ds)-1]
	out, err := tensor.NewRaw(dg.Size(), dg.d.DType(), dg.d.Device())
	if err != nil {
		panic(fmt.Sprintf("realize: %v", err))
	}

	elemSize := dg.d.DType().Size()
	src := dg.d.Data()
	dst := out.Data()
	batchSize := ds.NumElements() / n
	for b := 0; b < batchSize; b++ {
		for i := 0; i < n; i++ {
			srcOff := (b*n + i) * elemSize
			dstOff := (b*n*n + i*n + i) * elemSize
			copy(dst[dstOff:dstOff+elemSize], src[srcOff:srcOff+elemSize])
		}
	}
	return out
}

// Backend returns the backend dg delegates to.
func (dg *Diag) Backend() tensor.Backend {
	return dg.b
}
