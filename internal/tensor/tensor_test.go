package tensor

import (
	"math"
	"testing"
)

// Test helpers

func assertEqualFloat32(t *testing.T, expected, actual float32, msg string) {
	t.Helper()
	if math.Abs(float64(expected-actual)) > 1e-6 {
		t.Errorf("%s: expected %v, got %v", msg, expected, actual)
	}
}

// DType tests

func TestDataTypeSize(t *testing.T) {
	tests := []struct {
		dtype DataType
		size  int
	}{
		{Float32, 4},
		{Float64, 8},
		{Int32, 4},
		{Int64, 8},
	}

	for _, tt := range tests {
		if got := tt.dtype.Size(); got != tt.size {
			t.Errorf("%s.Size() = %d, want %d", tt.dtype, got, tt.size)
		}
	}
}

func TestDataTypeIsFloat(t *testing.T) {
	if !Float32.IsFloat() || !Float64.IsFloat() {
		t.Error("float types should report IsFloat")
	}
	if Int32.IsFloat() || Int64.IsFloat() {
		t.Error("integer types should not report IsFloat")
	}
}

// Tensor tests

func TestFromSlice(t *testing.T) {
	backend := NewMockBackend()

	x, err := FromSlice([]float32{1, 2, 3, 4, 5, 6}, Shape{2, 3}, backend)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}

	assertEqualShape(t, Shape{2, 3}, x.Shape(), "shape")
	if x.DType() != Float32 {
		t.Errorf("DType() = %s, want float32", x.DType())
	}
	assertEqualFloat32(t, 6, x.At(1, 2), "At(1,2)")
}

func TestFromSliceSizeMismatch(t *testing.T) {
	backend := NewMockBackend()
	if _, err := FromSlice([]float32{1, 2, 3}, Shape{2, 3}, backend); err == nil {
		t.Error("size mismatch accepted")
	}
}

func TestTensorAtSet(t *testing.T) {
	backend := NewMockBackend()
	x := Zeros[float32](Shape{2, 2}, backend)

	x.Set(7, 1, 0)
	assertEqualFloat32(t, 7, x.At(1, 0), "At after Set")
	assertEqualFloat32(t, 0, x.At(0, 0), "untouched element")
}

func TestTensorAddThroughBackend(t *testing.T) {
	backend := NewMockBackend()
	x, _ := FromSlice([]float32{1, 2}, Shape{2}, backend)
	y, _ := FromSlice([]float32{10, 20}, Shape{2}, backend)

	z := x.Add(y)
	assertEqualFloat32(t, 11, z.At(0), "Add[0]")
	assertEqualFloat32(t, 22, z.At(1), "Add[1]")
}

func TestTensorMatMulThroughBackend(t *testing.T) {
	backend := NewMockBackend()
	a, _ := FromSlice([]float32{1, 2, 3, 4, 5, 6}, Shape{2, 3}, backend)
	b, _ := FromSlice([]float32{7, 8, 9, 10, 11, 12}, Shape{3, 2}, backend)

	c := a.MatMul(b)
	assertEqualShape(t, Shape{2, 2}, c.Shape(), "MatMul shape")
	assertEqualFloat32(t, 58, c.At(0, 0), "MatMul[0,0]")
	assertEqualFloat32(t, 154, c.At(1, 1), "MatMul[1,1]")
}

func TestTensorDiagonalThroughBackend(t *testing.T) {
	backend := NewMockBackend()
	a, _ := FromSlice([]float32{1, 2, 3, 4}, Shape{2, 2}, backend)

	d := a.Diagonal()
	assertEqualShape(t, Shape{2}, d.Shape(), "Diagonal shape")
	assertEqualFloat32(t, 1, d.At(0), "Diagonal[0]")
	assertEqualFloat32(t, 4, d.At(1), "Diagonal[1]")
}

func TestTensorClone(t *testing.T) {
	backend := NewMockBackend()
	x, _ := FromSlice([]float32{1, 2}, Shape{2}, backend)

	c := x.Clone()
	assertEqualFloat32(t, 1, c.At(0), "clone shares data")
	if x.Raw().IsUnique() {
		t.Error("buffer should be shared after Clone")
	}
}

// Creation tests

func TestZerosOnes(t *testing.T) {
	backend := NewMockBackend()

	z := Zeros[float32](Shape{2, 3}, backend)
	for i, v := range z.Data() {
		if v != 0 {
			t.Errorf("Zeros[%d] = %v, want 0", i, v)
		}
	}

	o := Ones[float64](Shape{4}, backend)
	for i, v := range o.Data() {
		if v != 1 {
			t.Errorf("Ones[%d] = %v, want 1", i, v)
		}
	}
}

func TestFull(t *testing.T) {
	backend := NewMockBackend()
	f := Full[int32](Shape{3}, 9, backend)
	for i, v := range f.Data() {
		if v != 9 {
			t.Errorf("Full[%d] = %v, want 9", i, v)
		}
	}
}

func TestArange(t *testing.T) {
	backend := NewMockBackend()
	a := Arange[float32](0, 5, backend)
	assertEqualShape(t, Shape{5}, a.Shape(), "Arange shape")
	for i, v := range a.Data() {
		assertEqualFloat32(t, float32(i), v, "Arange value")
	}
}

func TestEye(t *testing.T) {
	backend := NewMockBackend()
	e := Eye[float32](3, backend)
	assertEqualShape(t, Shape{3, 3}, e.Shape(), "Eye shape")
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := float32(0)
			if i == j {
				want = 1
			}
			assertEqualFloat32(t, want, e.At(i, j), "Eye entry")
		}
	}
}

func TestRandnRange(t *testing.T) {
	backend := NewMockBackend()
	r := Randn[float64](Shape{1000}, backend)

	var sum float64
	for _, v := range r.Data() {
		sum += v
	}
	mean := sum / 1000
	if math.Abs(mean) > 0.2 {
		t.Errorf("Randn mean %v too far from 0", mean)
	}
}

func TestRandRange(t *testing.T) {
	backend := NewMockBackend()
	r := Rand[float32](Shape{100}, backend)
	for i, v := range r.Data() {
		if v < 0 || v >= 1 {
			t.Errorf("Rand[%d] = %v outside [0, 1)", i, v)
		}
	}
}
