package nn

import (
	"fmt"

	"github.com/mosaic-ml/mosaic/internal/tensor"
)

// DefaultBNMomentum is the running-statistics momentum used when a config
// does not override it.
const DefaultBNMomentum float32 = 0.1

// BatchNorm2d applies batch normalization over a [N, C, H, W] tensor:
//
//	y = gamma * (x - mean) / sqrt(var + eps) + beta
//
// In training mode the statistics are computed per channel over the batch
// and spatial dimensions and folded into the running estimates with the
// configured momentum. In eval mode (the default) the running estimates
// are used directly.
type BatchNorm2d[B tensor.Backend] struct {
	Gamma    *Parameter[B] // learnable scale [C]
	Beta     *Parameter[B] // learnable shift [C]
	Epsilon  float32
	Momentum float32

	runningMean *tensor.Tensor[float32, B] // [C], buffer
	runningVar  *tensor.Tensor[float32, B] // [C], buffer

	channels int
	training bool
	backend  B
}

// NewBatchNorm2d creates a BatchNorm2d layer with the default momentum.
// Gamma starts at ones, beta at zeros; running statistics start at the
// identity transform (mean 0, variance 1).
func NewBatchNorm2d[B tensor.Backend](channels int, backend B) *BatchNorm2d[B] {
	return NewBatchNorm2dMomentum(channels, DefaultBNMomentum, backend)
}

// NewBatchNorm2dMomentum creates a BatchNorm2d layer with an explicit
// running-statistics momentum.
func NewBatchNorm2dMomentum[B tensor.Backend](channels int, momentum float32, backend B) *BatchNorm2d[B] {
	if channels <= 0 {
		panic(fmt.Sprintf("batchnorm2d: invalid channels %d", channels))
	}
	if momentum < 0 || momentum > 1 {
		panic(fmt.Sprintf("batchnorm2d: invalid momentum %v", momentum))
	}

	return &BatchNorm2d[B]{
		Gamma:       NewParameter("bn.gamma", Ones(tensor.Shape{channels}, backend)),
		Beta:        NewParameter("bn.beta", Zeros(tensor.Shape{channels}, backend)),
		Epsilon:     1e-5,
		Momentum:    momentum,
		runningMean: tensor.Zeros[float32](tensor.Shape{channels}, backend),
		runningVar:  tensor.Ones[float32](tensor.Shape{channels}, backend),
		channels:    channels,
		backend:     backend,
	}
}

// SetTraining switches between batch statistics (true) and running
// statistics (false).
func (bn *BatchNorm2d[B]) SetTraining(training bool) {
	bn.training = training
}

// Forward normalizes the input per channel.
//
// Input and output shape: [N, C, H, W].
func (bn *BatchNorm2d[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := input.Shape()
	if len(shape) != 4 {
		panic(fmt.Sprintf("batchnorm2d: expected 4D input [N,C,H,W], got %dD", len(shape)))
	}
	if shape[1] != bn.channels {
		panic(fmt.Sprintf("batchnorm2d: input channels %d != expected %d", shape[1], bn.channels))
	}

	mean, variance := bn.runningMean, bn.runningVar
	if bn.training {
		mean = channelMean(input)
		centered := input.Sub(mean.Reshape(1, bn.channels, 1, 1))
		variance = channelMean(centered.Mul(centered))
		bn.updateRunning(mean, variance)
	}

	// (x - mean) * rsqrt(var + eps), broadcasting [C] as [1, C, 1, 1].
	invStd := variance.AddScalar(bn.Epsilon).Rsqrt().Reshape(1, bn.channels, 1, 1)
	normalized := input.Sub(mean.Reshape(1, bn.channels, 1, 1)).Mul(invStd)

	gamma := bn.Gamma.Tensor().Reshape(1, bn.channels, 1, 1)
	beta := bn.Beta.Tensor().Reshape(1, bn.channels, 1, 1)
	return normalized.Mul(gamma).Add(beta)
}

// channelMean reduces [N, C, H, W] to per-channel means [C].
func channelMean[B tensor.Backend](x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return x.MeanDim(3, false).MeanDim(2, false).MeanDim(0, false)
}

func (bn *BatchNorm2d[B]) updateRunning(mean, variance *tensor.Tensor[float32, B]) {
	m := float64(bn.Momentum)
	rm, rv := bn.runningMean.Data(), bn.runningVar.Data()
	bm, bv := mean.Data(), variance.Data()
	for i := range rm {
		rm[i] = float32((1-m)*float64(rm[i]) + m*float64(bm[i]))
		rv[i] = float32((1-m)*float64(rv[i]) + m*float64(bv[i]))
	}
}

// Parameters returns gamma and beta. Running statistics are buffers, not
// trainable parameters.
func (bn *BatchNorm2d[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{bn.Gamma, bn.Beta}
}

// RunningStats returns the running mean and variance buffers.
func (bn *BatchNorm2d[B]) RunningStats() (mean, variance *tensor.Tensor[float32, B]) {
	return bn.runningMean, bn.runningVar
}
