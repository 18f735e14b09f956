package cpu

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/mosaic-ml/mosaic/internal/tensor"
)

// MulScalar multiplies every element by a scalar.
func (c *CPUBackend) MulScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	s := toScalar(scalar)
	return c.mapElements(x, func(v float64) float64 { return v * s })
}

// AddScalar adds a scalar to every element.
func (c *CPUBackend) AddScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	s := toScalar(scalar)
	return c.mapElements(x, func(v float64) float64 { return v + s })
}

// DivScalar divides every element by a scalar.
func (c *CPUBackend) DivScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	s := toScalar(scalar)
	return c.mapElements(x, func(v float64) float64 { return v / s })
}

// Sqrt computes the element-wise square root.
func (c *CPUBackend) Sqrt(x *tensor.RawTensor) *tensor.RawTensor {
	return c.mapElements(x, math.Sqrt)
}

// Rsqrt computes the element-wise reciprocal square root.
func (c *CPUBackend) Rsqrt(x *tensor.RawTensor) *tensor.RawTensor {
	return c.mapElements(x, func(v float64) float64 { return 1.0 / math.Sqrt(v) })
}

func (c *CPUBackend) mapElements(x *tensor.RawTensor, op func(float64) float64) *tensor.RawTensor {
	result := newRaw(x.Shape(), x.DType(), c.device)
	data := toFloat64(x)
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = op(v)
	}
	fromFloat64(out, result)
	return result
}

// Softmax computes a numerically stable softmax along dim.
func (c *CPUBackend) Softmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	d := normalizeDim(dim, len(shape))

	result := newRaw(shape, x.DType(), c.device)
	data := toFloat64(x)
	out := make([]float64, len(data))

	forEachLine(shape, d, func(offset, stride, n int) {
		line := make([]float64, n)
		for i := 0; i < n; i++ {
			line[i] = data[offset+i*stride]
		}

		// Subtract the max before exponentiating for stability.
		maxVal := floats.Max(line)
		for i := range line {
			line[i] = math.Exp(line[i] - maxVal)
		}
		floats.Scale(1.0/floats.Sum(line), line)

		for i := 0; i < n; i++ {
			out[offset+i*stride] = line[i]
		}
	})

	fromFloat64(out, result)
	return result
}

// MeanDim averages along a dimension, optionally keeping it as size 1.
func (c *CPUBackend) MeanDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	shape := x.Shape()
	d := normalizeDim(dim, len(shape))

	outShape := make(tensor.Shape, 0, len(shape))
	for i, s := range shape {
		switch {
		case i != d:
			outShape = append(outShape, s)
		case keepDim:
			outShape = append(outShape, 1)
		}
	}
	if len(outShape) == 0 {
		outShape = tensor.Shape{1}
	}

	result := newRaw(outShape, x.DType(), c.device)
	data := toFloat64(x)
	out := make([]float64, outShape.NumElements())

	idx := 0
	forEachLine(shape, d, func(offset, stride, n int) {
		sum := 0.0
		for i := 0; i < n; i++ {
			sum += data[offset+i*stride]
		}
		out[idx] = sum / float64(n)
		idx++
	})

	fromFloat64(out, result)
	return result
}

// forEachLine visits every 1D line along dim of a row-major tensor,
// reporting the line's start offset, element stride, and length. Lines are
// visited in the index order of the remaining dimensions.
func forEachLine(shape tensor.Shape, dim int, visit func(offset, stride, n int)) {
	strides := shape.ComputeStrides()
	n := shape[dim]

	outer := 1
	for i := 0; i < dim; i++ {
		outer *= shape[i]
	}
	inner := strides[dim] // product of dims after dim

	for o := 0; o < outer; o++ {
		for i := 0; i < inner; i++ {
			visit(o*n*inner+i, inner, n)
		}
	}
}

func normalizeDim(dim, ndim int) int {
	orig := dim
	if dim < 0 {
		dim += ndim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("dimension %d out of range for %dD tensor", orig, ndim))
	}
	return dim
}
