// Package cpu implements the reference CPU backend for Mosaic.
//
// Operations are implemented directly and naively, with dense linear
// algebra delegated to gonum. The backend exists so the layer library can
// be exercised end to end in tests and examples; it makes no performance
// claims.
package cpu

import (
	"fmt"

	"github.com/mosaic-ml/mosaic/internal/tensor"
)

// Verify that CPUBackend implements the full backend contract.
var _ tensor.Backend = (*CPUBackend)(nil)

// CPUBackend implements tensor operations on the CPU.
type CPUBackend struct {
	device tensor.Device
}

// New creates a new CPU backend.
func New() *CPUBackend {
	return &CPUBackend{device: tensor.CPU}
}

// Name returns the backend name.
func (c *CPUBackend) Name() string {
	return "cpu"
}

// Device returns the compute device.
func (c *CPUBackend) Device() tensor.Device {
	return c.device
}

// Add performs element-wise addition with broadcasting.
func (c *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return c.elementWise("add", a, b, func(x, y float64) float64 { return x + y })
}

// Sub performs element-wise subtraction with broadcasting.
func (c *CPUBackend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	return c.elementWise("sub", a, b, func(x, y float64) float64 { return x - y })
}

// Mul performs element-wise multiplication with broadcasting.
func (c *CPUBackend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return c.elementWise("mul", a, b, func(x, y float64) float64 { return x * y })
}

// Div performs element-wise division with broadcasting.
func (c *CPUBackend) Div(a, b *tensor.RawTensor) *tensor.RawTensor {
	return c.elementWise("div", a, b, func(x, y float64) float64 { return x / y })
}

func (c *CPUBackend) elementWise(name string, a, b *tensor.RawTensor, op func(float64, float64) float64) *tensor.RawTensor {
	outShape, _, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	result := newRaw(outShape, a.DType(), c.device)

	aData := toFloat64(a)
	bData := toFloat64(b)
	out := make([]float64, outShape.NumElements())

	for i := range out {
		out[i] = op(aData[broadcastIndex(i, outShape, a.Shape())], bData[broadcastIndex(i, outShape, b.Shape())])
	}

	fromFloat64(out, result)
	return result
}

// newRaw allocates a RawTensor, panicking on invalid shapes. Backend
// operations report misuse by panicking, matching the engine contract.
func newRaw(shape tensor.Shape, dtype tensor.DataType, device tensor.Device) *tensor.RawTensor {
	raw, err := tensor.NewRaw(shape, dtype, device)
	if err != nil {
		panic(err)
	}
	return raw
}

// toFloat64 widens the tensor's data to a float64 working slice.
func toFloat64(t *tensor.RawTensor) []float64 {
	switch t.DType() {
	case tensor.Float32:
		src := t.AsFloat32()
		dst := make([]float64, len(src))
		for i, v := range src {
			dst[i] = float64(v)
		}
		return dst
	case tensor.Float64:
		return t.AsFloat64()
	case tensor.Int32:
		src := t.AsInt32()
		dst := make([]float64, len(src))
		for i, v := range src {
			dst[i] = float64(v)
		}
		return dst
	default:
		panic(fmt.Sprintf("unsupported dtype: %s", t.DType()))
	}
}

// fromFloat64 narrows a float64 working slice back into the tensor.
func fromFloat64(src []float64, t *tensor.RawTensor) {
	switch t.DType() {
	case tensor.Float32:
		dst := t.AsFloat32()
		for i, v := range src {
			dst[i] = float32(v)
		}
	case tensor.Float64:
		copy(t.AsFloat64(), src)
	case tensor.Int32:
		dst := t.AsInt32()
		for i, v := range src {
			dst[i] = int32(v)
		}
	default:
		panic(fmt.Sprintf("unsupported dtype: %s", t.DType()))
	}
}

// broadcastIndex maps a flat index in the output shape to the corresponding
// flat index in a (possibly smaller) input shape.
func broadcastIndex(flatIdx int, outShape, inShape tensor.Shape) int {
	outStrides := outShape.ComputeStrides()
	indices := make([]int, len(outShape))

	temp := flatIdx
	for i := range outShape {
		indices[i] = temp / outStrides[i]
		temp %= outStrides[i]
	}

	inStrides := inShape.ComputeStrides()
	inIdx := 0
	offset := len(outShape) - len(inShape)
	for i := range inShape {
		dimIdx := indices[offset+i]
		if inShape[i] == 1 {
			dimIdx = 0
		}
		inIdx += dimIdx * inStrides[i]
	}
	return inIdx
}

func toScalar(scalar any) float64 {
	switch v := scalar.(type) {
	case float32:
		return float64(v)
	case float64:
		return v
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	default:
		panic(fmt.Sprintf("unsupported scalar type %T", scalar))
	}
}
