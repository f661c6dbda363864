// Package linop implements lazy linear operators over dense tensors.
//
// An Operator represents a (possibly batched) matrix whose entries and
// operations may be computed on demand rather than materialized. The
// package provides:
//   - Dense: adapter wrapping a fully materialized tensor
//   - Diag: operator defined by its diagonal vector
//   - Sum: lazy sum of same-shaped operators
//   - AsOperator: factory normalizing values into the abstraction
//
// Operators work at the RawTensor level so any tensor.Backend (CPU,
// WebGPU) can drive the delegated primitives.
package linop

import (
	"fmt"

	"github.com/born-ml/linop/internal/tensor"
)

// Operator is the lazy-matrix contract.
//
// The shape of an operator is batch… × rows × cols: the last two
// dimensions are the matrix dimensions, leading dimensions are batch
// dimensions. Methods that take index tensors expect dtype int32,
// matching the backend indexing convention.
type Operator interface {
	// Size returns the operator's full shape including batch dimensions.
	Size() tensor.Shape

	// MatMul computes operator @ rhs. rhs may be a vector (1D), a
	// matrix (2D), or carry batch dimensions matching the operator's.
	MatMul(rhs *tensor.RawTensor) *tensor.RawTensor

	// TMatMul computes operatorᵀ @ rhs, transposing only the matrix
	// dimensions.
	TMatMul(rhs *tensor.RawTensor) *tensor.RawTensor

	// Transpose returns the operator with its matrix dimensions
	// swapped. Batch dimensions are untouched. The result stays lazy.
	Transpose() Operator

	// Diagonal returns the diagonal of the matrix dimensions with
	// shape batch… × min(rows, cols).
	Diagonal() *tensor.RawTensor

	// At selects individual entries. rows and cols are int32 index
	// tensors of equal shape; a batched operator additionally needs
	// one index tensor per batch dimension. The result is a plain
	// tensor shaped like the index tensors.
	At(rows, cols *tensor.RawTensor, batch ...*tensor.RawTensor) *tensor.RawTensor

	// QuadFormDerivative computes the gradient contribution of the
	// bilinear form leftᵀ · Op · right with respect to the operator's
	// representation, one tensor per representation tensor.
	QuadFormDerivative(leftVecs, rightVecs *tensor.RawTensor) []*tensor.RawTensor

	// Realize materializes the operator as a dense tensor.
	Realize() *tensor.RawTensor

	// Backend returns the backend the delegations run on.
	Backend() tensor.Backend
}

// matmulRaw dispatches lhs @ rhs to the right backend primitive.
// A 1D rhs is promoted to a column matrix and the result squeezed back.
func matmulRaw(b tensor.Backend, lhs, rhs *tensor.RawTensor) *tensor.RawTensor {
	if len(rhs.Shape()) == 1 {
		col := b.Unsqueeze(rhs, -1)
		res := matmulRaw(b, lhs, col)
		return b.Squeeze(res, -1)
	}
	if len(lhs.Shape()) == 2 && len(rhs.Shape()) == 2 {
		return b.MatMul(lhs, rhs)
	}
	return b.BatchMatMul(lhs, rhs)
}

// transposeLastTwo swaps the matrix dimensions of t.
func transposeLastTwo(b tensor.Backend, t *tensor.RawTensor) *tensor.RawTensor {
	ndim := len(t.Shape())
	axes := make([]int, ndim)
	for i := range axes {
		axes[i] = i
	}
	axes[ndim-2], axes[ndim-1] = axes[ndim-1], axes[ndim-2]
	return b.Transpose(t, axes...)
}

// asColumns promotes 1D probe vectors to n×1 matrices so the matrix
// dimensions are always present for derivative computations.
func asColumns(b tensor.Backend, v *tensor.RawTensor) *tensor.RawTensor {
	if len(v.Shape()) == 1 {
		return b.Unsqueeze(v, -1)
	}
	return v
}

// checkIndexTensor validates an index tensor argument.
func checkIndexTensor(op, name string, idx *tensor.RawTensor) {
	if idx == nil {
		panic(fmt.Sprintf("%s: %s index tensor is nil", op, name))
	}
	if idx.DType() != tensor.Int32 {
		panic(fmt.Sprintf("%s: %s index tensor must have dtype int32, got %s", op, name, idx.DType()))
	}
}

// checkIndexRange validates that all indices fall in [0, limit).
func checkIndexRange(op, name string, idx []int32, limit int) {
	for i, v := range idx {
		if v < 0 || int(v) >= limit {
			panic(fmt.Sprintf("%s: %s index %d out of bounds [0, %d) at position %d", op, name, v, limit, i))
		}
	}
}
