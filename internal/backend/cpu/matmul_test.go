package cpu

import (
	"testing"

	"github.com/born-ml/linop/internal/tensor"
)

// TestCPUBackend_MatMul tests 2D matrix multiplication.
func TestCPUBackend_MatMul(t *testing.T) {
	backend := newTestBackend()

	t.Run("Simple", func(t *testing.T) {
		// [[1, 2],     [[5, 6],      [[19, 22],
		//  [3, 4]]  @   [7, 8]]   =   [43, 50]]
		a := rawFloat32(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
		b := rawFloat32(t, []float32{5, 6, 7, 8}, tensor.Shape{2, 2})

		result := backend.MatMul(a, b)

		expected := []float32{19, 22, 43, 50}
		if !float32SliceEqual(result.AsFloat32(), expected) {
			t.Errorf("MatMul result = %v, want %v", result.AsFloat32(), expected)
		}
	})

	t.Run("Rectangular", func(t *testing.T) {
		a := rawFloat32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
		b := rawFloat32(t, []float32{7, 8, 9, 10, 11, 12}, tensor.Shape{3, 2})

		result := backend.MatMul(a, b)

		if !result.Shape().Equal(tensor.Shape{2, 2}) {
			t.Fatalf("MatMul shape = %v, want [2, 2]", result.Shape())
		}
		expected := []float32{58, 64, 139, 154}
		if !float32SliceEqual(result.AsFloat32(), expected) {
			t.Errorf("MatMul result = %v, want %v", result.AsFloat32(), expected)
		}
	})

	t.Run("Identity", func(t *testing.T) {
		a := rawFloat32(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
		eye := rawFloat32(t, []float32{1, 0, 0, 1}, tensor.Shape{2, 2})

		result := backend.MatMul(a, eye)

		if !float32SliceEqual(result.AsFloat32(), a.AsFloat32()) {
			t.Errorf("A @ I = %v, want %v", result.AsFloat32(), a.AsFloat32())
		}
	})

	t.Run("ShapeMismatchPanics", func(t *testing.T) {
		a := rawFloat32(t, make([]float32, 6), tensor.Shape{2, 3})
		b := rawFloat32(t, make([]float32, 4), tensor.Shape{2, 2})

		defer func() {
			if recover() == nil {
				t.Error("expected panic for shape mismatch")
			}
		}()
		backend.MatMul(a, b)
	})
}

// TestCPUBackend_MatMul_Large exercises the parallel row path.
func TestCPUBackend_MatMul_Large(t *testing.T) {
	backend := newTestBackend()

	const n = 64
	a := rawFloat32(t, make([]float32, n*n), tensor.Shape{n, n})
	// A = I
	for i := 0; i < n; i++ {
		a.AsFloat32()[i*n+i] = 1
	}
	b := rawFloat32(t, make([]float32, n*n), tensor.Shape{n, n})
	for i := range b.AsFloat32() {
		b.AsFloat32()[i] = float32(i % 7)
	}

	result := backend.MatMul(a, b)

	if !float32SliceEqual(result.AsFloat32(), b.AsFloat32()) {
		t.Error("I @ B != B on parallel path")
	}
}

// TestCPUBackend_BatchMatMul tests batched matrix multiplication.
func TestCPUBackend_BatchMatMul(t *testing.T) {
	backend := newTestBackend()

	t.Run("3D", func(t *testing.T) {
		// Batch 0: [[1,2],[3,4]] @ [[1,0],[0,1]] = [[1,2],[3,4]]
		// Batch 1: [[5,6],[7,8]] @ [[2,0],[0,2]] = [[10,12],[14,16]]
		a := rawFloat32(t, []float32{1, 2, 3, 4, 5, 6, 7, 8}, tensor.Shape{2, 2, 2})
		b := rawFloat32(t, []float32{1, 0, 0, 1, 2, 0, 0, 2}, tensor.Shape{2, 2, 2})

		result := backend.BatchMatMul(a, b)

		if !result.Shape().Equal(tensor.Shape{2, 2, 2}) {
			t.Fatalf("BatchMatMul shape = %v", result.Shape())
		}
		expected := []float32{1, 2, 3, 4, 10, 12, 14, 16}
		if !float32SliceEqual(result.AsFloat32(), expected) {
			t.Errorf("BatchMatMul result = %v, want %v", result.AsFloat32(), expected)
		}
	})

	t.Run("BatchMismatchPanics", func(t *testing.T) {
		a := rawFloat32(t, make([]float32, 8), tensor.Shape{2, 2, 2})
		b := rawFloat32(t, make([]float32, 12), tensor.Shape{3, 2, 2})

		defer func() {
			if recover() == nil {
				t.Error("expected panic for batch mismatch")
			}
		}()
		backend.BatchMatMul(a, b)
	})

	t.Run("2DInputPanics", func(t *testing.T) {
		a := rawFloat32(t, make([]float32, 4), tensor.Shape{2, 2})
		b := rawFloat32(t, make([]float32, 4), tensor.Shape{2, 2})

		defer func() {
			if recover() == nil {
				t.Error("expected panic for 2D input")
			}
		}()
		backend.BatchMatMul(a, b)
	})
}
