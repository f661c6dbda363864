package linop

import (
	"fmt"

	"github.com/born-ml/linop/internal/tensor"
)

// AsOperator normalizes v into an Operator on backend b.
// Existing operators pass through unchanged; raw tensors are wrapped
// in a Dense adapter. Anything else is rejected with an error so
// callers can accept "operator or tensor" arguments uniformly.
func AsOperator(v any, b tensor.Backend) (Operator, error) {
	switch x := v.(type) {
	case Operator:
		return x, nil
	case *tensor.RawTensor:
		return NewDense(x, b)
	default:
		return nil, fmt.Errorf("linop: value of type %T cannot be made into an Operator", v)
	}
}

// MustOperator is AsOperator for values known to be convertible.
// It panics on conversion failure.
func MustOperator(v any, b tensor.Backend) Operator {
	op, err := AsOperator(v, b)
	if err != nil {
		panic(err)
	}
	return op
}
