package linop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/linop/internal/backend/cpu"
	"github.com/born-ml/linop/internal/tensor"
)

func rawF32(t *testing.T, shape tensor.Shape, data []float32) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(shape, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	copy(raw.AsFloat32(), data)
	return raw
}

func rawI32(t *testing.T, shape tensor.Shape, data []int32) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(shape, tensor.Int32, tensor.CPU)
	require.NoError(t, err)
	copy(raw.AsInt32(), data)
	return raw
}

func TestNewDense(t *testing.T) {
	b := cpu.New()

	_, err := NewDense(nil, b)
	assert.Error(t, err)

	vec := rawF32(t, tensor.Shape{3}, []float32{1, 2, 3})
	_, err = NewDense(vec, b)
	assert.Error(t, err)

	mat := rawF32(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})
	_, err = NewDense(mat, nil)
	assert.Error(t, err)

	op, err := NewDense(mat, b)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 3}, op.Size())
}

func TestDenseMatMul(t *testing.T) {
	b := cpu.New()
	a := rawF32(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})
	op, err := NewDense(a, b)
	require.NoError(t, err)

	rhs := rawF32(t, tensor.Shape{3, 2}, []float32{7, 8, 9, 10, 11, 12})
	res := op.MatMul(rhs)
	assert.Equal(t, tensor.Shape{2, 2}, res.Shape())
	assert.Equal(t, []float32{58, 64, 139, 154}, res.AsFloat32())
}

func TestDenseMatMulVector(t *testing.T) {
	b := cpu.New()
	a := rawF32(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})
	op, err := NewDense(a, b)
	require.NoError(t, err)

	v := rawF32(t, tensor.Shape{3}, []float32{1, 1, 1})
	res := op.MatMul(v)
	assert.Equal(t, tensor.Shape{2}, res.Shape())
	assert.Equal(t, []float32{6, 15}, res.AsFloat32())
}

func TestDenseMatMulBatched(t *testing.T) {
	b := cpu.New()
	a := rawF32(t, tensor.Shape{2, 2, 2}, []float32{
		1, 0, 0, 1, // identity
		2, 0, 0, 2, // 2*identity
	})
	op, err := NewDense(a, b)
	require.NoError(t, err)

	rhs := rawF32(t, tensor.Shape{2, 2, 1}, []float32{3, 4, 3, 4})
	res := op.MatMul(rhs)
	assert.Equal(t, tensor.Shape{2, 2, 1}, res.Shape())
	assert.Equal(t, []float32{3, 4, 6, 8}, res.AsFloat32())
}

func TestDenseTMatMul(t *testing.T) {
	b := cpu.New()
	a := rawF32(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})
	op, err := NewDense(a, b)
	require.NoError(t, err)

	w := rawF32(t, tensor.Shape{2}, []float32{1, 1})
	res := op.TMatMul(w)
	assert.Equal(t, tensor.Shape{3}, res.Shape())
	assert.Equal(t, []float32{5, 7, 9}, res.AsFloat32())
}

func TestDenseTranspose(t *testing.T) {
	b := cpu.New()
	a := rawF32(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})
	op, err := NewDense(a, b)
	require.NoError(t, err)

	tr := op.Transpose()
	assert.Equal(t, tensor.Shape{3, 2}, tr.Size())
	assert.Equal(t, []float32{1, 4, 2, 5, 3, 6}, tr.Realize().AsFloat32())
}

func TestDenseDiagonal(t *testing.T) {
	b := cpu.New()

	sq := rawF32(t, tensor.Shape{2, 2}, []float32{1, 2, 3, 4})
	op, err := NewDense(sq, b)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 4}, op.Diagonal().AsFloat32())

	wide := rawF32(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})
	op, err = NewDense(wide, b)
	require.NoError(t, err)
	diag := op.Diagonal()
	assert.Equal(t, tensor.Shape{2}, diag.Shape())
	assert.Equal(t, []float32{1, 5}, diag.AsFloat32())
}

func TestDenseAt(t *testing.T) {
	b := cpu.New()
	a := rawF32(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})
	op, err := NewDense(a, b)
	require.NoError(t, err)

	rows := rawI32(t, tensor.Shape{3}, []int32{0, 1, 1})
	cols := rawI32(t, tensor.Shape{3}, []int32{0, 2, 0})
	res := op.At(rows, cols)
	assert.Equal(t, tensor.Shape{3}, res.Shape())
	assert.Equal(t, []float32{1, 6, 4}, res.AsFloat32())
}

func TestDenseAtBatched(t *testing.T) {
	b := cpu.New()
	a := rawF32(t, tensor.Shape{2, 2, 2}, []float32{1, 2, 3, 4, 5, 6, 7, 8})
	op, err := NewDense(a, b)
	require.NoError(t, err)

	rows := rawI32(t, tensor.Shape{2}, []int32{0, 1})
	cols := rawI32(t, tensor.Shape{2}, []int32{1, 0})
	batch := rawI32(t, tensor.Shape{2}, []int32{0, 1})
	res := op.At(rows, cols, batch)
	assert.Equal(t, []float32{2, 7}, res.AsFloat32())
}

func TestDenseAtValidation(t *testing.T) {
	b := cpu.New()
	a := rawF32(t, tensor.Shape{2, 2}, []float32{1, 2, 3, 4})
	op, err := NewDense(a, b)
	require.NoError(t, err)

	rows := rawI32(t, tensor.Shape{1}, []int32{0})
	cols := rawI32(t, tensor.Shape{1}, []int32{5})
	assert.Panics(t, func() { op.At(rows, cols) })

	badDType := rawF32(t, tensor.Shape{1}, []float32{0})
	assert.Panics(t, func() { op.At(badDType, rows) })

	assert.Panics(t, func() { op.At(rows, rows, rows) })
}

func TestDenseQuadFormDerivative(t *testing.T) {
	b := cpu.New()
	a := rawF32(t, tensor.Shape{2, 2}, []float32{0, 0, 0, 0})
	op, err := NewDense(a, b)
	require.NoError(t, err)

	left := rawF32(t, tensor.Shape{2, 1}, []float32{1, 2})
	right := rawF32(t, tensor.Shape{2, 1}, []float32{3, 4})
	grads := op.QuadFormDerivative(left, right)
	require.Len(t, grads, 1)
	assert.Equal(t, tensor.Shape{2, 2}, grads[0].Shape())
	assert.Equal(t, []float32{3, 4, 6, 8}, grads[0].AsFloat32())
}

func TestDenseQuadFormDerivativeVectors(t *testing.T) {
	b := cpu.New()
	a := rawF32(t, tensor.Shape{2, 2}, []float32{0, 0, 0, 0})
	op, err := NewDense(a, b)
	require.NoError(t, err)

	left := rawF32(t, tensor.Shape{2}, []float32{1, 2})
	right := rawF32(t, tensor.Shape{2}, []float32{3, 4})
	grads := op.QuadFormDerivative(left, right)
	require.Len(t, grads, 1)
	assert.Equal(t, []float32{3, 4, 6, 8}, grads[0].AsFloat32())
}

func TestDenseRealizeNoCopy(t *testing.T) {
	b := cpu.New()
	a := rawF32(t, tensor.Shape{2, 2}, []float32{1, 2, 3, 4})
	op, err := NewDense(a, b)
	require.NoError(t, err)

	assert.Same(t, a, op.Realize())
}

func TestDenseSubmatrix(t *testing.T) {
	b := cpu.New()
	a := rawF32(t, tensor.Shape{3, 3}, []float32{1, 2, 3, 4, 5, 6, 7, 8, 9})
	op, err := NewDense(a, b)
	require.NoError(t, err)

	sub, err := op.Submatrix(1, 3, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 2}, sub.Size())
	assert.Equal(t, []float32{4, 5, 7, 8}, sub.Realize().AsFloat32())

	_, err = op.Submatrix(2, 1, 0, 2)
	assert.Error(t, err)
	_, err = op.Submatrix(0, 2, 0, 4)
	assert.Error(t, err)
}
