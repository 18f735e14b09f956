package cpu

import (
	"testing"

	"github.com/mosaic-ml/mosaic/internal/tensor"
)

func TestMatMul(t *testing.T) {
	backend := New()

	// [2,3] @ [3,2] -> [2,2]
	a := rawFromFloat32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	b := rawFromFloat32(t, []float32{7, 8, 9, 10, 11, 12}, tensor.Shape{3, 2})

	c := backend.MatMul(a, b)
	if !c.Shape().Equal(tensor.Shape{2, 2}) {
		t.Fatalf("shape = %v, want [2 2]", c.Shape())
	}
	// [1*7+2*9+3*11, 1*8+2*10+3*12; 4*7+5*9+6*11, 4*8+5*10+6*12]
	assertFloat32Slice(t, []float32{58, 64, 139, 154}, c.AsFloat32(), "MatMul")
}

func TestMatMulIdentity(t *testing.T) {
	backend := New()
	a := rawFromFloat32(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	eye := rawFromFloat32(t, []float32{1, 0, 0, 1}, tensor.Shape{2, 2})

	c := backend.MatMul(a, eye)
	assertFloat32Slice(t, []float32{1, 2, 3, 4}, c.AsFloat32(), "MatMul identity")
}

func TestMatMulShapeMismatch(t *testing.T) {
	backend := New()
	a := rawFromFloat32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	b := rawFromFloat32(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})

	defer func() {
		if recover() == nil {
			t.Error("MatMul with inner dimension mismatch should panic")
		}
	}()
	backend.MatMul(a, b)
}

func TestBatchMatMul(t *testing.T) {
	backend := New()

	// Batch 0: [[1,2],[3,4]] @ I = [[1,2],[3,4]]
	// Batch 1: [[5,6],[7,8]] @ 2I = [[10,12],[14,16]]
	a := rawFromFloat32(t, []float32{1, 2, 3, 4, 5, 6, 7, 8}, tensor.Shape{2, 2, 2})
	b := rawFromFloat32(t, []float32{1, 0, 0, 1, 2, 0, 0, 2}, tensor.Shape{2, 2, 2})

	c := backend.BatchMatMul(a, b)
	if !c.Shape().Equal(tensor.Shape{2, 2, 2}) {
		t.Fatalf("shape = %v, want [2 2 2]", c.Shape())
	}
	assertFloat32Slice(t, []float32{1, 2, 3, 4, 10, 12, 14, 16}, c.AsFloat32(), "BatchMatMul")
}

func TestBatchMatMulRectangular(t *testing.T) {
	backend := New()

	// [1,2,3] @ [1,3,1] -> [1,2,1]
	a := rawFromFloat32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{1, 2, 3})
	b := rawFromFloat32(t, []float32{1, 1, 1}, tensor.Shape{1, 3, 1})

	c := backend.BatchMatMul(a, b)
	if !c.Shape().Equal(tensor.Shape{1, 2, 1}) {
		t.Fatalf("shape = %v, want [1 2 1]", c.Shape())
	}
	assertFloat32Slice(t, []float32{6, 15}, c.AsFloat32(), "BatchMatMul rectangular")
}
