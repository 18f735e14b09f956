package cpu

import (
	"math"
	"math/rand"

	"github.com/mosaic-ml/mosaic/internal/tensor"
)

// Activation and dropout support. These are optional backend capabilities;
// the nn package discovers them through interface assertions.

// ReLU applies max(0, x) element-wise.
func (c *CPUBackend) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	return c.mapElements(x, func(v float64) float64 { return math.Max(0, v) })
}

// Sigmoid applies 1/(1+exp(-x)) element-wise.
func (c *CPUBackend) Sigmoid(x *tensor.RawTensor) *tensor.RawTensor {
	return c.mapElements(x, func(v float64) float64 { return 1.0 / (1.0 + math.Exp(-v)) })
}

// SiLU applies x*sigmoid(x) element-wise.
func (c *CPUBackend) SiLU(x *tensor.RawTensor) *tensor.RawTensor {
	return c.mapElements(x, func(v float64) float64 { return v / (1.0 + math.Exp(-v)) })
}

// Dropout zeroes elements with probability rate and scales survivors by
// 1/(1-rate) (inverted dropout). Mask generation is the backend's concern;
// layers only request it.
func (c *CPUBackend) Dropout(x *tensor.RawTensor, rate float32) *tensor.RawTensor {
	if rate <= 0 {
		return x.Clone()
	}
	p := float64(rate)
	scale := 1.0 / (1.0 - p)
	return c.mapElements(x, func(v float64) float64 {
		if rand.Float64() < p {
			return 0
		}
		return v * scale
	})
}
