package nn

import (
	"github.com/mosaic-ml/mosaic/internal/tensor"
)

// Residual wraps an inner module in an additive skip connection:
//
//	out = inner(x) + x
//
// The wrapper assumes shape compatibility; block constructors only apply
// it when input and output shapes are guaranteed to match (stride 1 and
// equal channel counts).
type Residual[B tensor.Backend] struct {
	inner Module[B]
}

// NewResidual wraps inner in a skip connection.
func NewResidual[B tensor.Backend](inner Module[B]) *Residual[B] {
	return &Residual[B]{inner: inner}
}

// Forward computes inner(x) + x.
func (r *Residual[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return r.inner.Forward(input).Add(input)
}

// Parameters returns the inner module's parameters.
func (r *Residual[B]) Parameters() []*Parameter[B] {
	return r.inner.Parameters()
}

// Inner returns the wrapped module.
func (r *Residual[B]) Inner() Module[B] {
	return r.inner
}
