package nn

import (
	"fmt"

	"github.com/mosaic-ml/mosaic/internal/tensor"
)

// DropoutBackend is the optional backend capability for dropout masking.
// Random mask generation belongs to the engine, not the layer library.
type DropoutBackend interface {
	Dropout(x *tensor.RawTensor, rate float32) *tensor.RawTensor
}

// Dropout randomly zeroes elements with the configured rate during
// training and is the identity in eval mode (the default).
type Dropout[B tensor.Backend] struct {
	rate     float32
	training bool
}

// NewDropout creates a Dropout module. Rate must be in [0, 1).
func NewDropout[B tensor.Backend](rate float32) *Dropout[B] {
	if rate < 0 || rate >= 1 {
		panic(fmt.Sprintf("dropout: invalid rate %v", rate))
	}
	return &Dropout[B]{rate: rate}
}

// SetTraining enables or disables masking.
func (d *Dropout[B]) SetTraining(training bool) {
	d.training = training
}

// Rate returns the configured dropout rate.
func (d *Dropout[B]) Rate() float32 {
	return d.rate
}

// Forward applies dropout when training, otherwise returns the input.
func (d *Dropout[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	if !d.training || d.rate == 0 {
		return input
	}

	backend := input.Backend()
	if db, ok := any(backend).(DropoutBackend); ok {
		return tensor.New[float32, B](db.Dropout(input.Raw(), d.rate), backend)
	}
	panic("Dropout: backend must implement the Dropout operation")
}

// Parameters returns an empty slice (no trainable state).
func (d *Dropout[B]) Parameters() []*Parameter[B] {
	return nil
}
