package cpu

import (
	"testing"

	"github.com/mosaic-ml/mosaic/internal/tensor"
)

func TestConv2DKnownValues(t *testing.T) {
	backend := New()

	// 4x4 input, single channel, values 1..16.
	input := rawFromFloat32(t, []float32{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
		13, 14, 15, 16,
	}, tensor.Shape{1, 1, 4, 4})

	// 2x2 kernel of ones: each output is the window sum.
	kernel := rawFromFloat32(t, []float32{1, 1, 1, 1}, tensor.Shape{1, 1, 2, 2})

	out := backend.Conv2D(input, kernel, 1, 0, 1, 1)
	if !out.Shape().Equal(tensor.Shape{1, 1, 3, 3}) {
		t.Fatalf("shape = %v, want [1 1 3 3]", out.Shape())
	}
	assertFloat32Slice(t, []float32{
		14, 18, 22,
		30, 34, 38,
		46, 50, 54,
	}, out.AsFloat32(), "window sums")
}

func TestConv2DStridePadding(t *testing.T) {
	backend := New()

	input := rawFromFloat32(t, make([]float32, 2*3*8*8), tensor.Shape{2, 3, 8, 8})
	kernel := rawFromFloat32(t, make([]float32, 16*3*3*3), tensor.Shape{16, 3, 3, 3})

	// H_out = (8 + 2*1 - 1*(3-1) - 1)/2 + 1 = 4
	out := backend.Conv2D(input, kernel, 2, 1, 1, 1)
	if !out.Shape().Equal(tensor.Shape{2, 16, 4, 4}) {
		t.Errorf("shape = %v, want [2 16 4 4]", out.Shape())
	}
}

func TestConv2DZeroPadding(t *testing.T) {
	backend := New()

	// 2x2 input of ones with 3x3 ones kernel and padding 1: the center
	// output sees all four inputs, corners only one quadrant.
	input := rawFromFloat32(t, []float32{1, 1, 1, 1}, tensor.Shape{1, 1, 2, 2})
	kernel := rawFromFloat32(t, []float32{1, 1, 1, 1, 1, 1, 1, 1, 1}, tensor.Shape{1, 1, 3, 3})

	out := backend.Conv2D(input, kernel, 1, 1, 1, 1)
	if !out.Shape().Equal(tensor.Shape{1, 1, 2, 2}) {
		t.Fatalf("shape = %v, want [1 1 2 2]", out.Shape())
	}
	assertFloat32Slice(t, []float32{4, 4, 4, 4}, out.AsFloat32(), "padded conv")
}

func TestConv2DDepthwise(t *testing.T) {
	backend := New()

	// groups = channels with per-channel 1x1 kernels: pure channel scaling.
	input := rawFromFloat32(t, []float32{
		1, 2, 3, 4, // channel 0
		5, 6, 7, 8, // channel 1
	}, tensor.Shape{1, 2, 2, 2})
	kernel := rawFromFloat32(t, []float32{2, 10}, tensor.Shape{2, 1, 1, 1})

	out := backend.Conv2D(input, kernel, 1, 0, 1, 2)
	assertFloat32Slice(t, []float32{2, 4, 6, 8, 50, 60, 70, 80}, out.AsFloat32(), "depthwise scaling")
}

func TestConv2DDilation(t *testing.T) {
	backend := New()

	// Dilated 3x3 kernel covers a 5x5 receptive field:
	// H_out = (5 + 0 - 2*(3-1) - 1)/1 + 1 = 1.
	input := rawFromFloat32(t, make([]float32, 5*5), tensor.Shape{1, 1, 5, 5})
	input.AsFloat32()[0] = 1  // (0,0)
	input.AsFloat32()[12] = 1 // (2,2)
	input.AsFloat32()[24] = 1 // (4,4)

	kernel := rawFromFloat32(t, []float32{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}, tensor.Shape{1, 1, 3, 3})

	out := backend.Conv2D(input, kernel, 1, 0, 2, 1)
	if !out.Shape().Equal(tensor.Shape{1, 1, 1, 1}) {
		t.Fatalf("shape = %v, want [1 1 1 1]", out.Shape())
	}
	// Kernel taps land on (0,0), (2,2), (4,4): all three ones.
	assertFloat32Slice(t, []float32{3}, out.AsFloat32(), "dilated conv")
}

func TestConv2DGroupMismatch(t *testing.T) {
	backend := New()
	input := rawFromFloat32(t, make([]float32, 3*4), tensor.Shape{1, 3, 2, 2})
	kernel := rawFromFloat32(t, make([]float32, 4), tensor.Shape{4, 1, 1, 1})

	defer func() {
		if recover() == nil {
			t.Error("channels not divisible by groups should panic")
		}
	}()
	backend.Conv2D(input, kernel, 1, 0, 1, 2)
}
