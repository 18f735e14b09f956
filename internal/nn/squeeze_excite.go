package nn

import (
	"fmt"
	"math"

	"github.com/mosaic-ml/mosaic/internal/tensor"
)

// MakeDivisible rounds v to the nearest multiple of divisor, never below
// one multiple. Channel counts in efficient architectures are kept
// divisor-aligned so hardware-friendly widths survive scaling.
//
// Example: MakeDivisible(128.0/8, 8) == 16.
func MakeDivisible(v float64, divisor int) int {
	if divisor <= 0 {
		panic(fmt.Sprintf("MakeDivisible: invalid divisor %d", divisor))
	}
	n := int(math.Round(v/float64(divisor))) * divisor
	if n < divisor {
		n = divisor
	}
	return n
}

// SqueezeExcite is a channel attention gate: the input is globally average
// pooled, squeezed through a 1x1 bottleneck, expanded back, and the
// sigmoid of the result rescales each channel.
//
// Input and output shape: [N, C, H, W] with C == channels.
type SqueezeExcite[B tensor.Backend] struct {
	channels int
	reduce   *Conv2d[B]
	expand   *Conv2d[B]
	act      Module[B]
	gate     Module[B]
}

// NewSqueezeExcite creates a squeeze-excite gate.
//
// channels is the gated channel count, squeezeChannels the bottleneck
// width (typically MakeDivisible(channels/reduction, 8)). act is applied
// after the reduction, gate after the expansion; gate is usually Sigmoid.
func NewSqueezeExcite[B tensor.Backend](channels, squeezeChannels int, act, gate Module[B], backend B) *SqueezeExcite[B] {
	if channels <= 0 || squeezeChannels <= 0 {
		panic(fmt.Sprintf("squeeze-excite: invalid channels %d (squeeze %d)", channels, squeezeChannels))
	}

	return &SqueezeExcite[B]{
		channels: channels,
		reduce: NewConv2d(Conv2dConfig{
			InChannels:  channels,
			OutChannels: squeezeChannels,
			Kernel:      1,
			Bias:        true,
		}, backend),
		expand: NewConv2d(Conv2dConfig{
			InChannels:  squeezeChannels,
			OutChannels: channels,
			Kernel:      1,
			Bias:        true,
		}, backend),
		act:  act,
		gate: gate,
	}
}

// Forward computes x * gate(expand(act(reduce(pool(x))))).
func (se *SqueezeExcite[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := input.Shape()
	if len(shape) != 4 {
		panic(fmt.Sprintf("squeeze-excite: expected 4D input [N,C,H,W], got %dD", len(shape)))
	}
	if shape[1] != se.channels {
		panic(fmt.Sprintf("squeeze-excite: input channels %d != expected %d", shape[1], se.channels))
	}

	// Global average pool to [N, C, 1, 1].
	pooled := input.MeanDim(3, true).MeanDim(2, true)

	scale := se.reduce.Forward(pooled)
	scale = se.act.Forward(scale)
	scale = se.expand.Forward(scale)
	scale = se.gate.Forward(scale)

	// Broadcast [N, C, 1, 1] over [N, C, H, W].
	return input.Mul(scale)
}

// Parameters returns the bottleneck conv parameters.
func (se *SqueezeExcite[B]) Parameters() []*Parameter[B] {
	params := append([]*Parameter[B]{}, se.reduce.Parameters()...)
	params = append(params, se.expand.Parameters()...)
	params = append(params, se.act.Parameters()...)
	params = append(params, se.gate.Parameters()...)
	return params
}
