package linop

import (
	"fmt"

	"github.com/born-ml/linop/internal/tensor"
)

// Sum is the lazy sum of two or more same-shaped operators.
// Delegated operations distribute over the terms, so the summed
// matrix itself is never formed unless Realize is called.
type Sum struct {
	terms []Operator
	b     tensor.Backend
}

// NewSum combines the given operators into one. All terms must share
// a shape; the first term's backend drives the accumulation.
func NewSum(terms ...Operator) (*Sum, error) {
	if len(terms) < 2 {
		return nil, fmt.Errorf("linop: sum operator requires at least 2 terms, got %d", len(terms))
	}
	size := terms[0].Size()
	for i, t := range terms[1:] {
		if !t.Size().Equal(size) {
			return nil, fmt.Errorf("linop: sum term %d has shape %v, want %v", i+1, t.Size(), size)
		}
	}
	return &Sum{terms: append([]Operator(nil), terms...), b: terms[0].Backend()}, nil
}

// Size returns the common shape of the terms.
func (s *Sum) Size() tensor.Shape {
	return s.terms[0].Size()
}

// fold accumulates each(term) across all terms with backend Add.
// Terms may hand out their internal storage (Dense.Realize, the
// diagonal of a Diag), so both operands are pinned non-unique to keep
// Add off the inplace path.
func (s *Sum) fold(each func(Operator) *tensor.RawTensor) *tensor.RawTensor {
	acc := each(s.terms[0])
	for _, term := range s.terms[1:] {
		next := each(term)
		releaseAcc := acc.ForceNonUnique()
		releaseNext := next.ForceNonUnique()
		acc = s.b.Add(acc, next)
		releaseAcc()
		releaseNext()
	}
	return acc
}

// MatMul distributes the multiply over the terms and sums the results.
// rhs is pinned non-unique because every term receives it.
func (s *Sum) MatMul(rhs *tensor.RawTensor) *tensor.RawTensor {
	defer rhs.ForceNonUnique()()
	return s.fold(func(op Operator) *tensor.RawTensor { return op.MatMul(rhs) })
}

// TMatMul distributes the transposed multiply over the terms.
func (s *Sum) TMatMul(rhs *tensor.RawTensor) *tensor.RawTensor {
	defer rhs.ForceNonUnique()()
	return s.fold(func(op Operator) *tensor.RawTensor { return op.TMatMul(rhs) })
}

// Transpose returns the sum of the transposed terms.
func (s *Sum) Transpose() Operator {
	terms := make([]Operator, len(s.terms))
	for i, t := range s.terms {
		terms[i] = t.Transpose()
	}
	return &Sum{terms: terms, b: s.b}
}

// Diagonal sums the diagonals of the terms.
func (s *Sum) Diagonal() *tensor.RawTensor {
	return s.fold(func(op Operator) *tensor.RawTensor { return op.Diagonal() })
}

// At sums the selected entries of the terms.
func (s *Sum) At(rows, cols *tensor.RawTensor, batch ...*tensor.RawTensor) *tensor.RawTensor {
	return s.fold(func(op Operator) *tensor.RawTensor { return op.At(rows, cols, batch...) })
}

// QuadFormDerivative concatenates the per-term gradients: each term
// keeps its own representation, so the gradients stay separate.
// Both vectors are pinned non-unique because every term receives them.
func (s *Sum) QuadFormDerivative(leftVecs, rightVecs *tensor.RawTensor) []*tensor.RawTensor {
	defer leftVecs.ForceNonUnique()()
	defer rightVecs.ForceNonUnique()()
	var grads []*tensor.RawTensor
	for _, t := range s.terms {
		grads = append(grads, t.QuadFormDerivative(leftVecs, rightVecs)...)
	}
	return grads
}

// Realize materializes every term and sums the results.
func (s *Sum) Realize() *tensor.RawTensor {
	return s.fold(func(op Operator) *tensor.RawTensor { return op.Realize() })
}

// Backend returns the backend the accumulation runs on.
func (s *Sum) Backend() tensor.Backend {
	return s.b
}
