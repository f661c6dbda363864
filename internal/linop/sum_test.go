package linop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/linop/internal/backend/cpu"
	"github.com/born-ml/linop/internal/tensor"
)

// denseAndDiag builds [[1,2],[3,4]] + diag(10, 20).
func denseAndDiag(t *testing.T) (*Sum, *tensor.RawTensor, *tensor.RawTensor) {
	t.Helper()
	b := cpu.New()
	a := rawF32(t, tensor.Shape{2, 2}, []float32{1, 2, 3, 4})
	dense, err := NewDense(a, b)
	require.NoError(t, err)
	d := rawF32(t, tensor.Shape{2}, []float32{10, 20})
	diag, err := NewDiag(d, b)
	require.NoError(t, err)
	sum, err := NewSum(dense, diag)
	require.NoError(t, err)
	return sum, a, d
}

func TestNewSum(t *testing.T) {
	b := cpu.New()
	a := rawF32(t, tensor.Shape{2, 2}, []float32{1, 2, 3, 4})
	dense, err := NewDense(a, b)
	require.NoError(t, err)

	_, err = NewSum(dense)
	assert.Error(t, err)

	other := rawF32(t, tensor.Shape{3, 3}, make([]float32, 9))
	mismatched, err := NewDense(other, b)
	require.NoError(t, err)
	_, err = NewSum(dense, mismatched)
	assert.Error(t, err)
}

func TestSumSize(t *testing.T) {
	sum, _, _ := denseAndDiag(t)
	assert.Equal(t, tensor.Shape{2, 2}, sum.Size())
}

func TestSumMatMul(t *testing.T) {
	sum, _, _ := denseAndDiag(t)

	v := rawF32(t, tensor.Shape{2}, []float32{1, 1})
	res := sum.MatMul(v)
	assert.Equal(t, []float32{13, 27}, res.AsFloat32())
	// rhs must survive being handed to every term.
	assert.Equal(t, []float32{1, 1}, v.AsFloat32())
}

func TestSumTMatMul(t *testing.T) {
	sum, _, _ := denseAndDiag(t)

	v := rawF32(t, tensor.Shape{2}, []float32{1, 1})
	res := sum.TMatMul(v)
	assert.Equal(t, []float32{14, 26}, res.AsFloat32())
}

func TestSumDiagonal(t *testing.T) {
	sum, _, d := denseAndDiag(t)

	res := sum.Diagonal()
	assert.Equal(t, []float32{11, 24}, res.AsFloat32())
	// Term-owned storage must stay intact.
	assert.Equal(t, []float32{10, 20}, d.AsFloat32())
}

func TestSumAt(t *testing.T) {
	sum, _, _ := denseAndDiag(t)

	rows := rawI32(t, tensor.Shape{2}, []int32{0, 1})
	cols := rawI32(t, tensor.Shape{2}, []int32{1, 1})
	res := sum.At(rows, cols)
	assert.Equal(t, []float32{2, 24}, res.AsFloat32())
}

func TestSumTranspose(t *testing.T) {
	sum, _, _ := denseAndDiag(t)

	res := sum.Transpose().Realize()
	assert.Equal(t, []float32{11, 3, 2, 24}, res.AsFloat32())
}

func TestSumQuadFormDerivative(t *testing.T) {
	sum, _, _ := denseAndDiag(t)

	left := rawF32(t, tensor.Shape{2, 1}, []float32{1, 2})
	right := rawF32(t, tensor.Shape{2, 1}, []float32{3, 4})
	grads := sum.QuadFormDerivative(left, right)
	require.Len(t, grads, 2)
	assert.Equal(t, tensor.Shape{2, 2}, grads[0].Shape())
	assert.Equal(t, []float32{3, 4, 6, 8}, grads[0].AsFloat32())
	assert.Equal(t, tensor.Shape{2}, grads[1].Shape())
	assert.Equal(t, []float32{3, 8}, grads[1].AsFloat32())
}

func TestSumQuadFormDerivativeDiagTermFirst(t *testing.T) {
	b := cpu.New()
	d := rawF32(t, tensor.Shape{2}, []float32{10, 20})
	diag, err := NewDiag(d, b)
	require.NoError(t, err)
	a := rawF32(t, tensor.Shape{2, 2}, []float32{1, 2, 3, 4})
	dense, err := NewDense(a, b)
	require.NoError(t, err)
	sum, err := NewSum(diag, dense)
	require.NoError(t, err)

	left := rawF32(t, tensor.Shape{2, 1}, []float32{1, 2})
	right := rawF32(t, tensor.Shape{2, 1}, []float32{3, 4})
	grads := sum.QuadFormDerivative(left, right)
	require.Len(t, grads, 2)
	assert.Equal(t, []float32{3, 8}, grads[0].AsFloat32())
	assert.Equal(t, []float32{3, 4, 6, 8}, grads[1].AsFloat32())
	// The shared vectors must survive every term.
	assert.Equal(t, []float32{1, 2}, left.AsFloat32())
	assert.Equal(t, []float32{3, 4}, right.AsFloat32())
}

func TestSumRealize(t *testing.T) {
	sum, a, _ := denseAndDiag(t)

	res := sum.Realize()
	assert.Equal(t, []float32{11, 2, 3, 24}, res.AsFloat32())
	// Realize must not fold into the dense term's storage.
	assert.Equal(t, []float32{1, 2, 3, 4}, a.AsFloat32())
}

func TestSumNested(t *testing.T) {
	sum, _, _ := denseAndDiag(t)
	b := sum.Backend()

	d := rawF32(t, tensor.Shape{2}, []float32{1, 1})
	jitter, err := NewDiag(d, b)
	require.NoError(t, err)
	nested, err := NewSum(sum, jitter)
	require.NoError(t, err)

	assert.Equal(t, []float32{12, 25}, nested.Diagonal().AsFloat32())
}
