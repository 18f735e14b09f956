package vision

import (
	"fmt"

	"github.com/mosaic-ml/mosaic/internal/nn"
	"github.com/mosaic-ml/mosaic/internal/tensor"
)

// FusedMBConvConfig describes a fused MBConv block. Fields match
// MBConvConfig; the expansion and depthwise stages are fused into one full
// convolution.
type FusedMBConvConfig[B tensor.Backend] struct {
	Kernel    int
	InPlanes  int
	Planes    int // requested expansion channel count
	OutPlanes int
	Stride    int // 1 or 2, set explicitly
	Dilation  int // default 1

	Act ActivationFactory[B]

	SEReduction float64
	SEDivisor   int
	SEFromInput bool
	GateAct     ActivationFactory[B]

	NoSkip bool

	Norm       NormFactory[B]
	BNMomentum float32
}

func (cfg *FusedMBConvConfig[B]) fillDefaults() {
	if cfg.Dilation == 0 {
		cfg.Dilation = 1
	}
	if cfg.SEDivisor == 0 {
		cfg.SEDivisor = 8
	}
}

// NewFusedMBConv builds a fused MBConv block: the 1x1 expansion and the
// depthwise convolution of MBConv are replaced by a single full
// convolution at the given kernel size and stride.
//
// When Planes == InPlanes (no real expansion requested) the fused
// convolution goes straight to OutPlanes; otherwise it widens to Planes
// and a 1x1 projection (+ norm, identity activation) reduces to OutPlanes.
// The residual policy and the stride/momentum preconditions are the same
// as MBConv's.
func NewFusedMBConv[B tensor.Backend](cfg FusedMBConvConfig[B], backend B) nn.Module[B] {
	cfg.fillDefaults()
	checkStride("fused-mbconv", cfg.Stride)
	if cfg.InPlanes <= 0 || cfg.Planes <= 0 || cfg.OutPlanes <= 0 {
		panic(fmt.Sprintf("fused-mbconv: invalid planes in=%d, hidden=%d, out=%d", cfg.InPlanes, cfg.Planes, cfg.OutPlanes))
	}

	// Effective expansion width of the fused convolution.
	mid := cfg.Planes
	if cfg.Planes == cfg.InPlanes {
		mid = cfg.OutPlanes
	}

	norm := normFactory(cfg.Norm, cfg.BNMomentum, backend)
	chain := nn.NewSequential[B]()

	// Fused expansion + spatial convolution.
	chain.Add(nn.NewConv2d(nn.Conv2dConfig{
		InChannels:  cfg.InPlanes,
		OutChannels: mid,
		Kernel:      cfg.Kernel,
		Stride:      cfg.Stride,
		Padding:     nn.SamePadding(cfg.Kernel, cfg.Dilation),
		Dilation:    cfg.Dilation,
	}, backend))
	chain.Add(norm(mid))
	chain.Add(makeAct(cfg.Act))

	if cfg.SEReduction > 0 {
		chain.Add(squeezeExcite(mid, seBase(mid, cfg.InPlanes, cfg.SEFromInput),
			cfg.SEReduction, cfg.SEDivisor, cfg.Act, cfg.GateAct, backend))
	}

	// Projection is only needed when the fused conv actually widened.
	if mid != cfg.InPlanes {
		chain.Add(nn.NewConv2d(nn.Conv2dConfig{
			InChannels:  mid,
			OutChannels: cfg.OutPlanes,
			Kernel:      1,
		}, backend))
		chain.Add(norm(cfg.OutPlanes))
	}

	if cfg.Stride == 1 && cfg.InPlanes == cfg.OutPlanes && !cfg.NoSkip {
		return nn.NewResidual[B](chain)
	}
	return chain
}
