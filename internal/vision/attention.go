package vision

import (
	"fmt"
	"math"

	"github.com/mosaic-ml/mosaic/internal/nn"
	"github.com/mosaic-ml/mosaic/internal/tensor"
)

// MultiHeadSelfAttention implements multi-head self-attention over
// feature-major sequences.
//
// Input and output shape: [planes, sequence, batch]. The sequence and
// batch dimensions are flattened for the projections; a combined QKV
// projection of width 3*planes feeds per-head scaled dot-product
// attention, and an output projection restores the model width.
type MultiHeadSelfAttention[B tensor.Backend] struct {
	planes   int
	numHeads int
	headDim  int

	qkvWeight  *nn.Parameter[B] // [3*planes, planes]
	qkvBias    *nn.Parameter[B] // [3*planes]
	projWeight *nn.Parameter[B] // [planes, planes]
	projBias   *nn.Parameter[B] // [planes]

	attnDrop *nn.Dropout[B] // on attention weights
	projDrop *nn.Dropout[B] // on the projected output

	backend B
}

// NewMultiHeadSelfAttention creates a self-attention block.
//
// planes must be evenly divisible by numHeads; violation is a
// configuration error that panics before any parameter is allocated.
// attnDropRate masks attention weights, projDropRate the projected output
// (both inactive until training mode is enabled).
func NewMultiHeadSelfAttention[B tensor.Backend](
	planes, numHeads int,
	attnDropRate, projDropRate float32,
	backend B,
) *MultiHeadSelfAttention[B] {
	if numHeads <= 0 {
		panic(fmt.Sprintf("attention: invalid head count %d", numHeads))
	}
	if planes%numHeads != 0 {
		panic(fmt.Sprintf("attention: planes (%d) must be divisible by heads (%d)", planes, numHeads))
	}

	return &MultiHeadSelfAttention[B]{
		planes:   planes,
		numHeads: numHeads,
		headDim:  planes / numHeads,
		qkvWeight: nn.NewParameter("attn.qkv.weight",
			nn.Xavier(planes, 3*planes, tensor.Shape{3 * planes, planes}, backend)),
		qkvBias: nn.NewParameter("attn.qkv.bias",
			nn.Zeros(tensor.Shape{3 * planes}, backend)),
		projWeight: nn.NewParameter("attn.proj.weight",
			nn.Xavier(planes, planes, tensor.Shape{planes, planes}, backend)),
		projBias: nn.NewParameter("attn.proj.bias",
			nn.Zeros(tensor.Shape{planes}, backend)),
		attnDrop: nn.NewDropout[B](attnDropRate),
		projDrop: nn.NewDropout[B](projDropRate),
		backend:  backend,
	}
}

// Forward computes self-attention.
//
// Input: [planes, seq, batch]. Output: [planes, seq, batch].
func (m *MultiHeadSelfAttention[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := input.Shape()
	if len(shape) != 3 {
		panic(fmt.Sprintf("attention: expected 3D input [features, seq, batch], got shape %v", shape))
	}
	if shape[0] != m.planes {
		panic(fmt.Sprintf("attention: input features %d != expected %d", shape[0], m.planes))
	}
	seq, batch := shape[1], shape[2]
	n := seq * batch

	// Flatten sequence and batch, project to concatenated Q/K/V.
	x := input.Reshape(m.planes, n)
	qkv := m.qkvWeight.Tensor().MatMul(x)
	qkv = qkv.Add(m.qkvBias.Tensor().Reshape(3*m.planes, 1))

	// Separate the head axis, then split into query, key, value:
	// [3*planes, n] -> [3, heads, headDim, n] -> 3 x [heads, headDim, n].
	parts := qkv.Reshape(3, m.numHeads, m.headDim, n).Chunk(3, 0)
	q := parts[0].Reshape(m.numHeads, m.headDim, n)
	k := parts[1].Reshape(m.numHeads, m.headDim, n)
	v := parts[2].Reshape(m.numHeads, m.headDim, n)

	// Scaled dot-product per head: softmax(q^T k / sqrt(headDim)) v.
	scores := q.Transpose(0, 2, 1).BatchMatMul(k) // [heads, n, n]
	scores = scores.DivScalar(float32(math.Sqrt(float64(m.headDim))))

	weights := scores.Softmax(-1) // along the key axis
	weights = m.attnDrop.Forward(weights)

	out := weights.BatchMatMul(v.Transpose(0, 2, 1)) // [heads, n, headDim]
	out = out.Transpose(0, 2, 1).Reshape(m.planes, n)

	// Output projection back to the model width.
	out = m.projWeight.Tensor().MatMul(out)
	out = out.Add(m.projBias.Tensor().Reshape(m.planes, 1))
	out = m.projDrop.Forward(out.Reshape(m.planes, seq, batch))

	return out
}

// SetTraining toggles the dropout stages.
func (m *MultiHeadSelfAttention[B]) SetTraining(training bool) {
	m.attnDrop.SetTraining(training)
	m.projDrop.SetTraining(training)
}

// NumHeads returns the head count.
func (m *MultiHeadSelfAttention[B]) NumHeads() int { return m.numHeads }

// HeadDim returns the per-head feature width.
func (m *MultiHeadSelfAttention[B]) HeadDim() int { return m.headDim }

// Parameters returns the QKV and output projection parameters.
func (m *MultiHeadSelfAttention[B]) Parameters() []*nn.Parameter[B] {
	return []*nn.Parameter[B]{m.qkvWeight, m.qkvBias, m.projWeight, m.projBias}
}
