package vision

import (
	"testing"

	"github.com/mosaic-ml/mosaic/internal/backend/cpu"
	"github.com/mosaic-ml/mosaic/internal/nn"
	"github.com/mosaic-ml/mosaic/internal/tensor"
)

func TestSeparableConv2dShape(t *testing.T) {
	backend := cpu.New()
	block := NewSeparableConv2d(SeparableConv2dConfig[*cpu.CPUBackend]{
		Kernel:    3,
		InPlanes:  8,
		OutPlanes: 16,
		Padding:   1,
		Depthwise: StageConfig{Norm: true},
		Pointwise: StageConfig{Norm: true},
		Act:       ReLUActivation[*cpu.CPUBackend],
	}, backend)

	input := tensor.Randn[float32](tensor.Shape{2, 8, 10, 10}, backend)
	output := block.Forward(input)

	if !output.Shape().Equal(tensor.Shape{2, 16, 10, 10}) {
		t.Errorf("output shape = %v, want [2 16 10 10]", output.Shape())
	}
}

func TestSeparableConv2dStride(t *testing.T) {
	backend := cpu.New()
	block := NewSeparableConv2d(SeparableConv2dConfig[*cpu.CPUBackend]{
		Kernel:    3,
		InPlanes:  4,
		OutPlanes: 8,
		Stride:    2,
		Padding:   1,
	}, backend)

	input := tensor.Zeros[float32](tensor.Shape{1, 4, 12, 12}, backend)
	output := block.Forward(input)

	// Only the depthwise stage strides; the pointwise conv is 1x1.
	if !output.Shape().Equal(tensor.Shape{1, 8, 6, 6}) {
		t.Errorf("output shape = %v, want [1 8 6 6]", output.Shape())
	}
}

func TestSeparableConv2dStageLayout(t *testing.T) {
	backend := cpu.New()

	// With norms: conv, norm, act, conv, norm, act.
	withNorm := NewSeparableConv2d(SeparableConv2dConfig[*cpu.CPUBackend]{
		Kernel:    3,
		InPlanes:  4,
		OutPlanes: 4,
		Padding:   1,
		Depthwise: StageConfig{Norm: true},
		Pointwise: StageConfig{Norm: true},
	}, backend)
	if withNorm.Len() != 6 {
		t.Errorf("normalized block has %d stages, want 6", withNorm.Len())
	}

	// Without norms the norm stages are omitted entirely.
	plain := NewSeparableConv2d(SeparableConv2dConfig[*cpu.CPUBackend]{
		Kernel:    3,
		InPlanes:  4,
		OutPlanes: 4,
		Padding:   1,
	}, backend)
	if plain.Len() != 4 {
		t.Errorf("plain block has %d stages, want 4", plain.Len())
	}

	depthwise, ok := withNorm.Module(0).(*nn.Conv2d[*cpu.CPUBackend])
	if !ok {
		t.Fatalf("stage 0 = %T, want *nn.Conv2d", withNorm.Module(0))
	}
	if cfg := depthwise.Config(); cfg.Groups != 4 {
		t.Errorf("depthwise groups = %d, want 4", cfg.Groups)
	}
}

func TestSeparableConv2dBiasDefaults(t *testing.T) {
	backend := cpu.New()

	// Norm stage: conv bias defaults off.
	normed := NewSeparableConv2d(SeparableConv2dConfig[*cpu.CPUBackend]{
		Kernel:    3,
		InPlanes:  2,
		OutPlanes: 2,
		Padding:   1,
		Depthwise: StageConfig{Norm: true},
	}, backend)
	if cfg := normed.Module(0).(*nn.Conv2d[*cpu.CPUBackend]).Config(); cfg.Bias {
		t.Error("depthwise bias should default to false when the stage has a norm")
	}

	// No norm: bias defaults on; an explicit override wins either way.
	off := false
	overridden := NewSeparableConv2d(SeparableConv2dConfig[*cpu.CPUBackend]{
		Kernel:    3,
		InPlanes:  2,
		OutPlanes: 2,
		Padding:   1,
		Depthwise: StageConfig{Bias: &off},
	}, backend)
	if cfg := overridden.Module(0).(*nn.Conv2d[*cpu.CPUBackend]).Config(); cfg.Bias {
		t.Error("explicit Bias=false should override the no-norm default")
	}

	plain := NewSeparableConv2d(SeparableConv2dConfig[*cpu.CPUBackend]{
		Kernel:    3,
		InPlanes:  2,
		OutPlanes: 2,
		Padding:   1,
	}, backend)
	if cfg := plain.Module(0).(*nn.Conv2d[*cpu.CPUBackend]).Config(); !cfg.Bias {
		t.Error("depthwise bias should default to true without a norm")
	}
}

func TestSeparableConv2dNilActIsIdentity(t *testing.T) {
	backend := cpu.New()
	block := NewSeparableConv2d(SeparableConv2dConfig[*cpu.CPUBackend]{
		Kernel:    3,
		InPlanes:  2,
		OutPlanes: 2,
		Padding:   1,
	}, backend)

	if _, ok := block.Module(1).(*nn.Identity[*cpu.CPUBackend]); !ok {
		t.Errorf("stage 1 = %T, want *nn.Identity for nil Act", block.Module(1))
	}
}

func TestSeparableConv2dInvalidPlanes(t *testing.T) {
	backend := cpu.New()

	defer func() {
		if recover() == nil {
			t.Error("zero InPlanes should panic")
		}
	}()
	NewSeparableConv2d(SeparableConv2dConfig[*cpu.CPUBackend]{Kernel: 3, OutPlanes: 4}, backend)
}
