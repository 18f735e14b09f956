package nn

import (
	"github.com/mosaic-ml/mosaic/internal/tensor"
)

// ReLUBackend is the optional backend capability for ReLU.
type ReLUBackend interface {
	ReLU(*tensor.RawTensor) *tensor.RawTensor
}

// SigmoidBackend is the optional backend capability for Sigmoid.
type SigmoidBackend interface {
	Sigmoid(*tensor.RawTensor) *tensor.RawTensor
}

// SiLUBackend is the optional backend capability for SiLU.
type SiLUBackend interface {
	SiLU(*tensor.RawTensor) *tensor.RawTensor
}

// ReLU applies f(x) = max(0, x) element-wise.
type ReLU[B tensor.Backend] struct{}

// NewReLU creates a ReLU activation module.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return &ReLU[B]{}
}

// Forward applies the activation.
func (r *ReLU[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	backend := input.Backend()
	if rb, ok := any(backend).(ReLUBackend); ok {
		return tensor.New[float32, B](rb.ReLU(input.Raw()), backend)
	}
	panic("ReLU: backend must implement the ReLU operation")
}

// Parameters returns an empty slice (no trainable state).
func (r *ReLU[B]) Parameters() []*Parameter[B] {
	return nil
}

// Sigmoid applies f(x) = 1/(1+exp(-x)) element-wise. Used as the default
// gate activation in squeeze-excite.
type Sigmoid[B tensor.Backend] struct{}

// NewSigmoid creates a Sigmoid activation module.
func NewSigmoid[B tensor.Backend]() *Sigmoid[B] {
	return &Sigmoid[B]{}
}

// Forward applies the activation.
func (s *Sigmoid[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	backend := input.Backend()
	if sb, ok := any(backend).(SigmoidBackend); ok {
		return tensor.New[float32, B](sb.Sigmoid(input.Raw()), backend)
	}
	panic("Sigmoid: backend must implement the Sigmoid operation")
}

// Parameters returns an empty slice (no trainable state).
func (s *Sigmoid[B]) Parameters() []*Parameter[B] {
	return nil
}

// SiLU applies f(x) = x*sigmoid(x) element-wise (the swish activation used
// throughout the EfficientNet family).
type SiLU[B tensor.Backend] struct{}

// NewSiLU creates a SiLU activation module.
func NewSiLU[B tensor.Backend]() *SiLU[B] {
	return &SiLU[B]{}
}

// Forward applies the activation.
func (s *SiLU[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	backend := input.Backend()
	if sb, ok := any(backend).(SiLUBackend); ok {
		return tensor.New[float32, B](sb.SiLU(input.Raw()), backend)
	}
	panic("SiLU: backend must implement the SiLU operation")
}

// Parameters returns an empty slice (no trainable state).
func (s *SiLU[B]) Parameters() []*Parameter[B] {
	return nil
}

// Identity passes its input through unchanged. Projection stages use it
// where a block calls for "no activation".
type Identity[B tensor.Backend] struct{}

// NewIdentity creates an Identity module.
func NewIdentity[B tensor.Backend]() *Identity[B] {
	return &Identity[B]{}
}

// Forward returns the input unchanged.
func (i *Identity[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return input
}

// Parameters returns an empty slice (no trainable state).
func (i *Identity[B]) Parameters() []*Parameter[B] {
	return nil
}
