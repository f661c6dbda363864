package tensor

import "testing"

func TestNewRaw(t *testing.T) {
	raw, err := NewRaw(Shape{2, 3}, Float32, CPU)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}

	assertEqualShape(t, Shape{2, 3}, raw.Shape(), "shape")
	if raw.DType() != Float32 {
		t.Errorf("DType() = %s, want float32", raw.DType())
	}
	if raw.Device() != CPU {
		t.Errorf("Device() = %s, want CPU", raw.Device())
	}
	if raw.NumElements() != 6 {
		t.Errorf("NumElements() = %d, want 6", raw.NumElements())
	}
	if raw.ByteSize() != 24 {
		t.Errorf("ByteSize() = %d, want 24", raw.ByteSize())
	}
}

func TestNewRawInvalidShape(t *testing.T) {
	if _, err := NewRaw(Shape{2, 0}, Float32, CPU); err == nil {
		t.Error("invalid shape accepted")
	}
}

func TestRawTypedAccess(t *testing.T) {
	raw, err := NewRaw(Shape{3}, Float32, CPU)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}

	data := raw.AsFloat32()
	data[0], data[1], data[2] = 1, 2, 3

	again := raw.AsFloat32()
	if again[0] != 1 || again[1] != 2 || again[2] != 3 {
		t.Errorf("AsFloat32 view not shared: %v", again)
	}
}

func TestRawTypedAccessWrongDType(t *testing.T) {
	raw, err := NewRaw(Shape{3}, Float32, CPU)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic for wrong dtype access")
		}
	}()
	_ = raw.AsInt64()
}

func TestRawCloneSharesBuffer(t *testing.T) {
	raw, err := NewRaw(Shape{2}, Float32, CPU)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}
	raw.AsFloat32()[0] = 42

	clone := raw.Clone()

	if clone.AsFloat32()[0] != 42 {
		t.Error("clone does not share buffer")
	}
	if raw.IsUnique() {
		t.Error("IsUnique() should be false after Clone")
	}

	clone.Release()
	if !raw.IsUnique() {
		t.Error("IsUnique() should be true after the clone is released")
	}
}

func TestRawIsUnique(t *testing.T) {
	raw, err := NewRaw(Shape{2}, Float32, CPU)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}

	if !raw.IsUnique() {
		t.Error("fresh tensor should be unique")
	}

	release := raw.ForceNonUnique()
	if raw.IsUnique() {
		t.Error("pinned tensor should not be unique")
	}
	release()
	if !raw.IsUnique() {
		t.Error("tensor should be unique again after release")
	}
}
