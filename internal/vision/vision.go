// Package vision implements reusable vision building blocks: depthwise
// separable convolution stacks, inverted residual (MBConv) blocks, fused
// MBConv blocks, and multi-head self-attention.
//
// Each constructor returns a composed layer chain (or a residual wrapper
// around one) that a model-assembly layer stacks into full architectures.
// The blocks hold no mutable state beyond their parameters; all numeric
// work happens in the tensor backend.
//
// Convolutional blocks operate on [batch, channels, height, width]
// tensors. The attention block follows the sequence convention
// [features, sequence, batch].
package vision

import (
	"github.com/mosaic-ml/mosaic/internal/nn"
	"github.com/mosaic-ml/mosaic/internal/tensor"
)

// ActivationFactory builds a fresh activation module per use site.
// Factories are passed explicitly; a nil factory means identity.
type ActivationFactory[B tensor.Backend] func() nn.Module[B]

// NormFactory builds a normalization layer for the given channel count.
// Block configs treat a nil factory as the default BatchNorm2d.
type NormFactory[B tensor.Backend] func(channels int) nn.Module[B]

// ReLUActivation is an ActivationFactory for ReLU.
func ReLUActivation[B tensor.Backend]() nn.Module[B] { return nn.NewReLU[B]() }

// SiLUActivation is an ActivationFactory for SiLU.
func SiLUActivation[B tensor.Backend]() nn.Module[B] { return nn.NewSiLU[B]() }

// SigmoidActivation is an ActivationFactory for Sigmoid.
func SigmoidActivation[B tensor.Backend]() nn.Module[B] { return nn.NewSigmoid[B]() }

// makeAct instantiates an activation, mapping nil to identity.
func makeAct[B tensor.Backend](act ActivationFactory[B]) nn.Module[B] {
	if act == nil {
		return nn.NewIdentity[B]()
	}
	return act()
}

// normFactory resolves the effective normalization constructor.
//
// A momentum override is only meaningful for the default batch-statistics
// normalization; combining it with a custom norm layer is a configuration
// error.
func normFactory[B tensor.Backend](custom NormFactory[B], momentum float32, backend B) NormFactory[B] {
	if custom != nil {
		if momentum != 0 {
			panic("vision: normalization momentum override requires the default BatchNorm2d layer")
		}
		return custom
	}
	if momentum == 0 {
		momentum = nn.DefaultBNMomentum
	}
	return func(channels int) nn.Module[B] {
		return nn.NewBatchNorm2dMomentum(channels, momentum, backend)
	}
}

// checkStride enforces the stride precondition shared by MBConv and fused
// MBConv. Runs before any layer is constructed.
func checkStride(name string, stride int) {
	if stride != 1 && stride != 2 {
		panic(name + ": stride must be 1 or 2")
	}
}
