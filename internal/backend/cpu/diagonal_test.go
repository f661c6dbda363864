package cpu

import (
	"testing"

	"github.com/born-ml/linop/internal/tensor"
)

// TestCPUBackend_Diagonal tests diagonal extraction.
func TestCPUBackend_Diagonal(t *testing.T) {
	backend := newTestBackend()

	t.Run("Square", func(t *testing.T) {
		// [[1, 2],
		//  [3, 4]]
		a := rawFloat32(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})

		result := backend.Diagonal(a)

		if !result.Shape().Equal(tensor.Shape{2}) {
			t.Fatalf("Diagonal shape = %v, want [2]", result.Shape())
		}
		if !float32SliceEqual(result.AsFloat32(), []float32{1, 4}) {
			t.Errorf("Diagonal result = %v, want [1, 4]", result.AsFloat32())
		}
	})

	t.Run("WideMatrix", func(t *testing.T) {
		// [[1, 2, 3],
		//  [4, 5, 6]]
		a := rawFloat32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

		result := backend.Diagonal(a)

		if !result.Shape().Equal(tensor.Shape{2}) {
			t.Fatalf("Diagonal shape = %v, want [2]", result.Shape())
		}
		if !float32SliceEqual(result.AsFloat32(), []float32{1, 5}) {
			t.Errorf("Diagonal result = %v, want [1, 5]", result.AsFloat32())
		}
	})

	t.Run("TallMatrix", func(t *testing.T) {
		a := rawFloat32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{3, 2})

		result := backend.Diagonal(a)

		if !float32SliceEqual(result.AsFloat32(), []float32{1, 4}) {
			t.Errorf("Diagonal result = %v, want [1, 4]", result.AsFloat32())
		}
	})

	t.Run("Batched", func(t *testing.T) {
		a := rawFloat32(t, []float32{1, 2, 3, 4, 5, 6, 7, 8}, tensor.Shape{2, 2, 2})

		result := backend.Diagonal(a)

		if !result.Shape().Equal(tensor.Shape{2, 2}) {
			t.Fatalf("Diagonal shape = %v, want [2, 2]", result.Shape())
		}
		if !float32SliceEqual(result.AsFloat32(), []float32{1, 4, 5, 8}) {
			t.Errorf("Diagonal result = %v, want [1, 4, 5, 8]", result.AsFloat32())
		}
	})

	t.Run("1DPanics", func(t *testing.T) {
		a := rawFloat32(t, []float32{1, 2, 3}, tensor.Shape{3})

		defer func() {
			if recover() == nil {
				t.Error("expected panic for 1D input")
			}
		}()
		backend.Diagonal(a)
	})
}
