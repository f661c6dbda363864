// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package linop provides lazy linear operators over dense tensors.
//
// # Overview
//
// An Operator represents a (possibly batched) matrix without committing
// to a dense representation. Structured operators avoid the O(n²) cost
// of materialization wherever their structure allows:
//   - Dense wraps an existing tensor; every operation delegates to the
//     backend's dense primitives at zero wrapping cost.
//   - Diag stores only the diagonal; matmuls reduce to row scaling.
//   - Sum combines same-shaped operators; operations distribute over
//     the terms.
//
// AsOperator normalizes "operator or tensor" arguments:
//
//	op, err := linop.AsOperator(raw, backend)   // wraps in Dense
//	op, err := linop.AsOperator(diag, backend)  // passes through
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/linop/backend/cpu"
//	    "github.com/born-ml/linop/linop"
//	    "github.com/born-ml/linop/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    k := tensor.Randn[float32](tensor.Shape{100, 100}, backend)
//
//	    op, _ := linop.AsOperator(k.Raw(), backend)
//	    diag := op.Diagonal()       // backed by a single kernel call
//	    y := op.MatMul(rhs)         // delegated matmul
//	    dense := op.Realize()       // the wrapped tensor, no copy
//	}
package linop

import (
	internallinop "github.com/born-ml/linop/internal/linop"
	"github.com/born-ml/linop/tensor"
)

// Operator is the lazy-matrix contract. See the internal package for
// the full method set: Size, MatMul, TMatMul, Transpose, Diagonal, At,
// QuadFormDerivative, Realize and Backend.
type Operator = internallinop.Operator

// Dense adapts a fully materialized tensor to the Operator contract.
type Dense = internallinop.Dense

// Diag is a square operator defined by its diagonal vector.
type Diag = internallinop.Diag

// Sum is the lazy sum of two or more same-shaped operators.
type Sum = internallinop.Sum

// NewDense wraps a tensor of at least two dimensions as an Operator.
// The tensor is not copied.
func NewDense(t *tensor.RawTensor, b tensor.Backend) (*Dense, error) {
	return internallinop.NewDense(t, b)
}

// NewDiag wraps a diagonal vector (batch… × n) as an n × n Operator.
func NewDiag(d *tensor.RawTensor, b tensor.Backend) (*Diag, error) {
	return internallinop.NewDiag(d, b)
}

// NewSum combines two or more same-shaped operators into a lazy sum.
func NewSum(terms ...Operator) (*Sum, error) {
	return internallinop.NewSum(terms...)
}

// AsOperator normalizes v into an Operator: operators pass through,
// raw tensors are wrapped in a Dense adapter, anything else errors.
func AsOperator(v any, b tensor.Backend) (Operator, error) {
	return internallinop.AsOperator(v, b)
}

// MustOperator is AsOperator for values known to be convertible.
// It panics on conversion failure.
func MustOperator(v any, b tensor.Backend) Operator {
	return internallinop.MustOperator(v, b)
}
