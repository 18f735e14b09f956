package cpu

import (
	"fmt"

	"github.com/mosaic-ml/mosaic/internal/tensor"
)

// Reshape returns a zero-copy view of the tensor's buffer under a new
// shape. The element count must match.
func (c *CPUBackend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	if err := newShape.Validate(); err != nil {
		panic(err)
	}
	return t.WithShape(newShape)
}

// Transpose permutes tensor dimensions. With no axes, all dimensions are
// reversed.
func (c *CPUBackend) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	shape := t.Shape()

	if len(axes) == 0 {
		axes = make([]int, len(shape))
		for i := range axes {
			axes[i] = len(shape) - 1 - i
		}
	}
	if len(axes) != len(shape) {
		panic(fmt.Sprintf("transpose: axes length %d doesn't match tensor dimensions %d", len(axes), len(shape)))
	}

	newShape := make(tensor.Shape, len(shape))
	for i, axis := range axes {
		if axis < 0 || axis >= len(shape) {
			panic(fmt.Sprintf("transpose: axis %d out of bounds for %dD tensor", axis, len(shape)))
		}
		newShape[i] = shape[axis]
	}

	result := newRaw(newShape, t.DType(), c.device)

	tData := toFloat64(t)
	out := make([]float64, len(tData))

	oldStrides := shape.ComputeStrides()
	newStrides := newShape.ComputeStrides()

	indices := make([]int, len(shape))
	for i := range tData {
		temp := i
		for j := range shape {
			indices[j] = temp / oldStrides[j]
			temp %= oldStrides[j]
		}

		newIdx := 0
		for j, axis := range axes {
			newIdx += indices[axis] * newStrides[j]
		}
		out[newIdx] = tData[i]
	}

	fromFloat64(out, result)
	return result
}

// Chunk splits a tensor into n equal parts along dim.
func (c *CPUBackend) Chunk(x *tensor.RawTensor, n, dim int) []*tensor.RawTensor {
	shape := x.Shape()
	d := normalizeDim(dim, len(shape))
	if shape[d]%n != 0 {
		panic(fmt.Sprintf("chunk: dimension %d (size %d) not divisible into %d parts", d, shape[d], n))
	}

	chunkSize := shape[d] / n
	outShape := shape.Clone()
	outShape[d] = chunkSize

	strides := shape.ComputeStrides()
	outer := 1
	for i := 0; i < d; i++ {
		outer *= shape[i]
	}
	inner := strides[d]
	elemSize := x.DType().Size()

	chunks := make([]*tensor.RawTensor, n)
	for ci := 0; ci < n; ci++ {
		chunk := newRaw(outShape, x.DType(), c.device)
		src, dst := x.Data(), chunk.Data()

		rowBytes := chunkSize * inner * elemSize
		for o := 0; o < outer; o++ {
			srcOff := (o*shape[d] + ci*chunkSize) * inner * elemSize
			copy(dst[o*rowBytes:(o+1)*rowBytes], src[srcOff:srcOff+rowBytes])
		}
		chunks[ci] = chunk
	}
	return chunks
}
