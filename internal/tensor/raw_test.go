package tensor

import "testing"

func TestNewRaw(t *testing.T) {
	raw, err := NewRaw(Shape{2, 3}, Float32, CPU)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}

	if !raw.Shape().Equal(Shape{2, 3}) {
		t.Errorf("shape = %v, want [2 3]", raw.Shape())
	}
	if raw.DType() != Float32 {
		t.Errorf("dtype = %v, want Float32", raw.DType())
	}
	if len(raw.Data()) != 6*4 {
		t.Errorf("buffer size = %d, want 24", len(raw.Data()))
	}

	// Zero-filled on allocation.
	for i, v := range raw.AsFloat32() {
		if v != 0 {
			t.Errorf("element %d = %f, want 0", i, v)
		}
	}
}

func TestNewRawInvalidShape(t *testing.T) {
	if _, err := NewRaw(Shape{2, -1}, Float32, CPU); err == nil {
		t.Error("expected error for negative dimension")
	}
}

func TestRawAsFloat32WrongDType(t *testing.T) {
	raw, _ := NewRaw(Shape{2}, Int32, CPU)
	defer func() {
		if recover() == nil {
			t.Error("AsFloat32 on Int32 tensor should panic")
		}
	}()
	raw.AsFloat32()
}

func TestRawClone(t *testing.T) {
	raw, _ := NewRaw(Shape{4}, Float32, CPU)
	raw.AsFloat32()[0] = 1.5

	clone := raw.Clone()
	clone.AsFloat32()[0] = 7.0

	if raw.AsFloat32()[0] != 1.5 {
		t.Error("mutating the clone changed the original")
	}
}

func TestRawWithShape(t *testing.T) {
	raw, _ := NewRaw(Shape{2, 6}, Float32, CPU)
	raw.AsFloat32()[5] = 3.0

	view := raw.WithShape(Shape{3, 4})
	if !view.Shape().Equal(Shape{3, 4}) {
		t.Errorf("view shape = %v, want [3 4]", view.Shape())
	}
	if view.AsFloat32()[5] != 3.0 {
		t.Error("view must share the original buffer")
	}

	defer func() {
		if recover() == nil {
			t.Error("WithShape with mismatched element count should panic")
		}
	}()
	raw.WithShape(Shape{5})
}
