package vision

import (
	"fmt"

	"github.com/mosaic-ml/mosaic/internal/nn"
	"github.com/mosaic-ml/mosaic/internal/tensor"
)

// MBConvConfig describes an inverted residual (MBConv) block.
type MBConvConfig[B tensor.Backend] struct {
	Kernel    int
	InPlanes  int
	Planes    int // expanded ("hidden") channel count
	OutPlanes int
	Stride    int // 1 or 2, set explicitly
	Dilation  int // default 1

	// Act is the activation used after the expansion and depthwise
	// stages. The projection stage always uses identity.
	Act ActivationFactory[B]

	// SEReduction enables a squeeze-excite gate after the depthwise
	// stage when > 0; the squeeze width is the reduction base divided by
	// this factor, rounded to a multiple of SEDivisor.
	SEReduction float64
	SEDivisor   int  // default 8
	SEFromInput bool // reduction base = InPlanes instead of Planes
	// GateAct is the squeeze-excite gate activation; nil selects Sigmoid.
	GateAct ActivationFactory[B]

	// NoSkip disables the residual connection even when shapes permit it.
	NoSkip bool

	// Norm builds normalization layers; nil selects BatchNorm2d.
	// BNMomentum overrides the running-statistics momentum and is only
	// valid with the default norm layer.
	Norm       NormFactory[B]
	BNMomentum float32
}

func (cfg *MBConvConfig[B]) fillDefaults() {
	if cfg.Dilation == 0 {
		cfg.Dilation = 1
	}
	if cfg.SEDivisor == 0 {
		cfg.SEDivisor = 8
	}
}

// NewMBConv builds an inverted residual block:
//
//  1. 1x1 expansion convolution + norm + act, only when InPlanes != Planes
//  2. depthwise convolution (same padding) + norm + act
//  3. optional squeeze-excite gate
//  4. 1x1 projection convolution + norm (identity activation)
//
// The chain is wrapped in an additive skip connection iff Stride == 1,
// InPlanes == OutPlanes, and NoSkip is false.
//
// Stride outside {1, 2} and a BNMomentum override combined with a custom
// Norm are configuration errors that panic before any layer is built.
func NewMBConv[B tensor.Backend](cfg MBConvConfig[B], backend B) nn.Module[B] {
	cfg.fillDefaults()
	checkStride("mbconv", cfg.Stride)
	if cfg.InPlanes <= 0 || cfg.Planes <= 0 || cfg.OutPlanes <= 0 {
		panic(fmt.Sprintf("mbconv: invalid planes in=%d, hidden=%d, out=%d", cfg.InPlanes, cfg.Planes, cfg.OutPlanes))
	}

	norm := normFactory(cfg.Norm, cfg.BNMomentum, backend)
	chain := nn.NewSequential[B]()

	// 1x1 expansion, skipped when the block is already at width.
	if cfg.InPlanes != cfg.Planes {
		chain.Add(nn.NewConv2d(nn.Conv2dConfig{
			InChannels:  cfg.InPlanes,
			OutChannels: cfg.Planes,
			Kernel:      1,
		}, backend))
		chain.Add(norm(cfg.Planes))
		chain.Add(makeAct(cfg.Act))
	}

	// Depthwise spatial convolution over the expanded channels.
	chain.Add(nn.NewConv2d(nn.Conv2dConfig{
		InChannels:  cfg.Planes,
		OutChannels: cfg.Planes,
		Kernel:      cfg.Kernel,
		Stride:      cfg.Stride,
		Padding:     nn.SamePadding(cfg.Kernel, cfg.Dilation),
		Dilation:    cfg.Dilation,
		Groups:      cfg.Planes,
	}, backend))
	chain.Add(norm(cfg.Planes))
	chain.Add(makeAct(cfg.Act))

	if cfg.SEReduction > 0 {
		chain.Add(squeezeExcite(cfg.Planes, seBase(cfg.Planes, cfg.InPlanes, cfg.SEFromInput),
			cfg.SEReduction, cfg.SEDivisor, cfg.Act, cfg.GateAct, backend))
	}

	// 1x1 projection with identity activation.
	chain.Add(nn.NewConv2d(nn.Conv2dConfig{
		InChannels:  cfg.Planes,
		OutChannels: cfg.OutPlanes,
		Kernel:      1,
	}, backend))
	chain.Add(norm(cfg.OutPlanes))

	if cfg.Stride == 1 && cfg.InPlanes == cfg.OutPlanes && !cfg.NoSkip {
		return nn.NewResidual[B](chain)
	}
	return chain
}

func seBase(planes, inPlanes int, fromInput bool) int {
	if fromInput {
		return inPlanes
	}
	return planes
}

// squeezeExcite builds the SE gate over channels, squeezing to
// MakeDivisible(base/reduction, divisor).
func squeezeExcite[B tensor.Backend](channels, base int, reduction float64, divisor int,
	act, gateAct ActivationFactory[B], backend B,
) nn.Module[B] {
	squeeze := nn.MakeDivisible(float64(base)/reduction, divisor)

	gate := makeAct(gateAct)
	if gateAct == nil {
		gate = nn.NewSigmoid[B]()
	}
	return nn.NewSqueezeExcite(channels, squeeze, makeAct(act), gate, backend)
}
