package vision

import (
	"fmt"

	"github.com/mosaic-ml/mosaic/internal/nn"
	"github.com/mosaic-ml/mosaic/internal/tensor"
)

// StageConfig controls the normalization and bias of one convolution stage.
//
// Bias defaults (nil) to the negation of Norm: a normalization layer
// recenters its input, which makes a conv bias redundant.
type StageConfig struct {
	Norm bool
	Bias *bool
}

func (s StageConfig) bias() bool {
	if s.Bias != nil {
		return *s.Bias
	}
	return !s.Norm
}

// SeparableConv2dConfig describes a depthwise separable convolution stack.
type SeparableConv2dConfig[B tensor.Backend] struct {
	Kernel    int
	InPlanes  int
	OutPlanes int
	Stride    int // default 1
	Padding   int
	Dilation  int // default 1

	Depthwise StageConfig
	Pointwise StageConfig

	// Act is applied after each stage (after the norm when the stage has
	// one, directly on the conv output otherwise). nil means identity.
	Act ActivationFactory[B]

	// Norm builds the per-stage normalization layer; nil selects
	// BatchNorm2d.
	Norm NormFactory[B]
}

// NewSeparableConv2d builds a depthwise separable convolution block:
// a depthwise convolution (groups = input channels) followed by a 1x1
// pointwise convolution to the output channel count, each stage optionally
// normalized and always activated.
//
// The returned chain maps [N, InPlanes, H, W] to [N, OutPlanes, H', W'].
func NewSeparableConv2d[B tensor.Backend](cfg SeparableConv2dConfig[B], backend B) *nn.Sequential[B] {
	if cfg.Stride == 0 {
		cfg.Stride = 1
	}
	if cfg.Dilation == 0 {
		cfg.Dilation = 1
	}
	if cfg.InPlanes <= 0 || cfg.OutPlanes <= 0 {
		panic(fmt.Sprintf("separable: invalid planes in=%d, out=%d", cfg.InPlanes, cfg.OutPlanes))
	}

	norm := normFactory(cfg.Norm, 0, backend)
	chain := nn.NewSequential[B]()

	// Depthwise: per-channel spatial filtering.
	chain.Add(nn.NewConv2d(nn.Conv2dConfig{
		InChannels:  cfg.InPlanes,
		OutChannels: cfg.InPlanes,
		Kernel:      cfg.Kernel,
		Stride:      cfg.Stride,
		Padding:     cfg.Padding,
		Dilation:    cfg.Dilation,
		Groups:      cfg.InPlanes,
		Bias:        cfg.Depthwise.bias(),
	}, backend))
	if cfg.Depthwise.Norm {
		chain.Add(norm(cfg.InPlanes))
	}
	chain.Add(makeAct(cfg.Act))

	// Pointwise: 1x1 channel mixing.
	chain.Add(nn.NewConv2d(nn.Conv2dConfig{
		InChannels:  cfg.InPlanes,
		OutChannels: cfg.OutPlanes,
		Kernel:      1,
		Bias:        cfg.Pointwise.bias(),
	}, backend))
	if cfg.Pointwise.Norm {
		chain.Add(norm(cfg.OutPlanes))
	}
	chain.Add(makeAct(cfg.Act))

	return chain
}
