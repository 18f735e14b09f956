// Copyright 2025 Mosaic ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn exposes the neural network layer primitives that the vision
// building blocks are assembled from.
package nn

import (
	"github.com/mosaic-ml/mosaic/internal/nn"
	"github.com/mosaic-ml/mosaic/internal/tensor"
)

// Module is the base interface for all neural network components.
type Module[B tensor.Backend] = nn.Module[B]

// Parameter is a named, trainable tensor.
type Parameter[B tensor.Backend] = nn.Parameter[B]

// NewParameter creates a parameter from an initialized tensor.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return nn.NewParameter(name, t)
}

// Layers

// Conv2dConfig describes a 2D convolution.
type Conv2dConfig = nn.Conv2dConfig

// Conv2d is a 2D convolutional layer with optional grouping and dilation.
type Conv2d[B tensor.Backend] = nn.Conv2d[B]

// NewConv2d creates a 2D convolutional layer with Xavier initialization.
//
// Example:
//
//	backend := cpu.New()
//	conv := nn.NewConv2d(nn.Conv2dConfig{
//	    InChannels:  3,
//	    OutChannels: 16,
//	    Kernel:      3,
//	    Padding:     1,
//	}, backend)
func NewConv2d[B tensor.Backend](cfg Conv2dConfig, backend B) *Conv2d[B] {
	return nn.NewConv2d(cfg, backend)
}

// SamePadding returns the padding that preserves spatial size at stride 1.
func SamePadding(kernel, dilation int) int {
	return nn.SamePadding(kernel, dilation)
}

// BatchNorm2d applies batch normalization over [N, C, H, W] tensors.
type BatchNorm2d[B tensor.Backend] = nn.BatchNorm2d[B]

// DefaultBNMomentum is the default running-statistics momentum.
const DefaultBNMomentum = nn.DefaultBNMomentum

// NewBatchNorm2d creates a BatchNorm2d layer with the default momentum.
func NewBatchNorm2d[B tensor.Backend](channels int, backend B) *BatchNorm2d[B] {
	return nn.NewBatchNorm2d(channels, backend)
}

// NewBatchNorm2dMomentum creates a BatchNorm2d layer with an explicit
// running-statistics momentum.
func NewBatchNorm2dMomentum[B tensor.Backend](channels int, momentum float32, backend B) *BatchNorm2d[B] {
	return nn.NewBatchNorm2dMomentum(channels, momentum, backend)
}

// Linear is a fully connected layer.
type Linear[B tensor.Backend] = nn.Linear[B]

// NewLinear creates a Linear layer with Xavier initialization.
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, backend B) *Linear[B] {
	return nn.NewLinear(inFeatures, outFeatures, backend)
}

// Dropout randomly zeroes elements during training.
type Dropout[B tensor.Backend] = nn.Dropout[B]

// NewDropout creates a Dropout module with the given rate.
func NewDropout[B tensor.Backend](rate float32) *Dropout[B] {
	return nn.NewDropout[B](rate)
}

// Activations

// ReLU applies f(x) = max(0, x).
type ReLU[B tensor.Backend] = nn.ReLU[B]

// NewReLU creates a ReLU activation module.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return nn.NewReLU[B]()
}

// Sigmoid applies f(x) = 1/(1+exp(-x)).
type Sigmoid[B tensor.Backend] = nn.Sigmoid[B]

// NewSigmoid creates a Sigmoid activation module.
func NewSigmoid[B tensor.Backend]() *Sigmoid[B] {
	return nn.NewSigmoid[B]()
}

// SiLU applies f(x) = x*sigmoid(x).
type SiLU[B tensor.Backend] = nn.SiLU[B]

// NewSiLU creates a SiLU activation module.
func NewSiLU[B tensor.Backend]() *SiLU[B] {
	return nn.NewSiLU[B]()
}

// Identity passes its input through unchanged.
type Identity[B tensor.Backend] = nn.Identity[B]

// NewIdentity creates an Identity module.
func NewIdentity[B tensor.Backend]() *Identity[B] {
	return nn.NewIdentity[B]()
}

// Gating and composition

// SqueezeExcite is a channel attention gate.
type SqueezeExcite[B tensor.Backend] = nn.SqueezeExcite[B]

// NewSqueezeExcite creates a squeeze-excite gate.
//
// Example:
//
//	se := nn.NewSqueezeExcite(128, nn.MakeDivisible(128.0/8, 8),
//	    nn.NewSiLU[B](), nn.NewSigmoid[B](), backend)
func NewSqueezeExcite[B tensor.Backend](channels, squeezeChannels int, act, gate Module[B], backend B) *SqueezeExcite[B] {
	return nn.NewSqueezeExcite(channels, squeezeChannels, act, gate, backend)
}

// MakeDivisible rounds v to the nearest multiple of divisor (minimum one
// multiple).
func MakeDivisible(v float64, divisor int) int {
	return nn.MakeDivisible(v, divisor)
}

// Residual wraps a module in an additive skip connection.
type Residual[B tensor.Backend] = nn.Residual[B]

// NewResidual wraps inner in a skip connection.
func NewResidual[B tensor.Backend](inner Module[B]) *Residual[B] {
	return nn.NewResidual(inner)
}

// Sequential chains modules so each module's output feeds the next.
type Sequential[B tensor.Backend] = nn.Sequential[B]

// NewSequential creates a Sequential container.
//
// Example:
//
//	model := nn.NewSequential(
//	    nn.NewConv2d(cfg, backend),
//	    nn.NewBatchNorm2d(16, backend),
//	    nn.NewReLU[B](),
//	)
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return nn.NewSequential(modules...)
}

// Initialization

// Xavier initializes a tensor with Xavier/Glorot uniform values.
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Xavier(fanIn, fanOut, shape, backend)
}

// Zeros creates a zero-filled tensor (bias initialization).
func Zeros[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Zeros(shape, backend)
}

// Ones creates a one-filled tensor (normalization scale initialization).
func Ones[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Ones(shape, backend)
}
