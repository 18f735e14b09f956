// Package nn implements the neural network layer primitives used by the
// Mosaic building blocks.
//
// The package provides:
//   - Module interface: base interface for all layers
//   - Parameter: trainable tensors with names
//   - Conv2d, BatchNorm2d, Linear, Dropout, activations
//   - SqueezeExcite: channel attention gate
//   - Sequential and Residual: composition containers
//
// Design follows PyTorch's nn.Module pattern adapted to Go generics: every
// layer is parameterized by the tensor backend it computes on.
package nn

import (
	"github.com/mosaic-ml/mosaic/internal/tensor"
)

// Module is the base interface for all neural network components.
//
// Modules compose into larger architectures:
//
//	block := nn.NewSequential(
//	    nn.NewConv2d(cfg, backend),
//	    nn.NewBatchNorm2d(16, backend),
//	    nn.NewReLU[B](),
//	)
//
// Type parameter B must satisfy the tensor.Backend interface.
type Module[B tensor.Backend] interface {
	// Forward computes the output of the module for the given input.
	Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

	// Parameters returns all trainable parameters of this module,
	// including nested module parameters. Modules without trainable
	// state return an empty slice.
	Parameters() []*Parameter[B]
}
