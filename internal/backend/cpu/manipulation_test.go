package cpu

import (
	"testing"

	"github.com/mosaic-ml/mosaic/internal/tensor"
)

func TestReshape(t *testing.T) {
	backend := New()
	x := rawFromFloat32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	out := backend.Reshape(x, tensor.Shape{3, 2})
	if !out.Shape().Equal(tensor.Shape{3, 2}) {
		t.Fatalf("shape = %v, want [3 2]", out.Shape())
	}
	assertFloat32Slice(t, []float32{1, 2, 3, 4, 5, 6}, out.AsFloat32(), "reshape keeps order")
}

func TestReshapeIsView(t *testing.T) {
	backend := New()
	x := rawFromFloat32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	out := backend.Reshape(x, tensor.Shape{6})
	x.AsFloat32()[0] = 42
	if got := out.AsFloat32()[0]; got != 42 {
		t.Errorf("out[0] = %f after writing the source, want 42; reshape must share the buffer", got)
	}
}

func TestReshapeElementCountMismatch(t *testing.T) {
	backend := New()
	x := rawFromFloat32(t, []float32{1, 2, 3, 4}, tensor.Shape{4})

	defer func() {
		if recover() == nil {
			t.Error("reshape to mismatched element count should panic")
		}
	}()
	backend.Reshape(x, tensor.Shape{3})
}

func TestTranspose2D(t *testing.T) {
	backend := New()
	x := rawFromFloat32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	out := backend.Transpose(x)
	if !out.Shape().Equal(tensor.Shape{3, 2}) {
		t.Fatalf("shape = %v, want [3 2]", out.Shape())
	}
	assertFloat32Slice(t, []float32{1, 4, 2, 5, 3, 6}, out.AsFloat32(), "2D transpose")
}

func TestTransposeAxes(t *testing.T) {
	backend := New()
	// [2,3,4] with axes (1,2,0) -> [3,4,2]
	data := make([]float32, 24)
	for i := range data {
		data[i] = float32(i)
	}
	x := rawFromFloat32(t, data, tensor.Shape{2, 3, 4})

	out := backend.Transpose(x, 1, 2, 0)
	if !out.Shape().Equal(tensor.Shape{3, 4, 2}) {
		t.Fatalf("shape = %v, want [3 4 2]", out.Shape())
	}

	// out[j,k,i] == x[i,j,k]
	got := out.AsFloat32()
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 4; k++ {
				want := data[(i*3+j)*4+k]
				if v := got[(j*4+k)*2+i]; v != want {
					t.Fatalf("out[%d,%d,%d] = %f, want %f", j, k, i, v, want)
				}
			}
		}
	}
}

func TestTransposeRoundTrip(t *testing.T) {
	backend := New()
	data := []float32{1, 2, 3, 4, 5, 6, 7, 8}
	x := rawFromFloat32(t, data, tensor.Shape{2, 4})

	back := backend.Transpose(backend.Transpose(x))
	assertFloat32Slice(t, data, back.AsFloat32(), "double transpose")
}

func TestChunkDim0(t *testing.T) {
	backend := New()
	x := rawFromFloat32(t, []float32{1, 2, 3, 4, 5, 6, 7, 8}, tensor.Shape{4, 2})

	chunks := backend.Chunk(x, 2, 0)
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}
	for _, chunk := range chunks {
		if !chunk.Shape().Equal(tensor.Shape{2, 2}) {
			t.Fatalf("chunk shape = %v, want [2 2]", chunk.Shape())
		}
	}
	assertFloat32Slice(t, []float32{1, 2, 3, 4}, chunks[0].AsFloat32(), "chunk 0")
	assertFloat32Slice(t, []float32{5, 6, 7, 8}, chunks[1].AsFloat32(), "chunk 1")
}

func TestChunkInnerDim(t *testing.T) {
	backend := New()
	x := rawFromFloat32(t, []float32{1, 2, 3, 4, 5, 6, 7, 8}, tensor.Shape{2, 4})

	chunks := backend.Chunk(x, 2, 1)
	assertFloat32Slice(t, []float32{1, 2, 5, 6}, chunks[0].AsFloat32(), "chunk 0")
	assertFloat32Slice(t, []float32{3, 4, 7, 8}, chunks[1].AsFloat32(), "chunk 1")
}

func TestChunkIndivisible(t *testing.T) {
	backend := New()
	x := rawFromFloat32(t, []float32{1, 2, 3}, tensor.Shape{3})

	defer func() {
		if recover() == nil {
			t.Error("chunk of size-3 dim into 2 parts should panic")
		}
	}()
	backend.Chunk(x, 2, 0)
}
