package cpu

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/mosaic-ml/mosaic/internal/tensor"
)

// MatMul performs 2D matrix multiplication via gonum.
func (c *CPUBackend) MatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	aShape, bShape := a.Shape(), b.Shape()
	if len(aShape) != 2 || len(bShape) != 2 {
		panic(fmt.Sprintf("matmul: expected 2D tensors, got %v @ %v", aShape, bShape))
	}
	if aShape[1] != bShape[0] {
		panic(fmt.Sprintf("matmul: incompatible shapes %v @ %v", aShape, bShape))
	}

	M, K, N := aShape[0], aShape[1], bShape[1]
	result := newRaw(tensor.Shape{M, N}, a.DType(), c.device)

	var out mat.Dense
	out.Mul(
		mat.NewDense(M, K, toFloat64(a)),
		mat.NewDense(K, N, toFloat64(b)),
	)

	fromFloat64(out.RawMatrix().Data, result)
	return result
}

// BatchMatMul performs batched matrix multiplication for 3D tensors:
// [B, M, K] @ [B, K, N] -> [B, M, N]. Each batch slice is multiplied with
// gonum.
func (c *CPUBackend) BatchMatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	aShape, bShape := a.Shape(), b.Shape()
	if len(aShape) != 3 || len(bShape) != 3 {
		panic(fmt.Sprintf("batchmatmul: expected 3D tensors, got %v @ %v", aShape, bShape))
	}
	if aShape[0] != bShape[0] {
		panic(fmt.Sprintf("batchmatmul: batch dimensions differ: %v @ %v", aShape, bShape))
	}
	if aShape[2] != bShape[1] {
		panic(fmt.Sprintf("batchmatmul: incompatible shapes %v @ %v", aShape, bShape))
	}

	batch, M, K, N := aShape[0], aShape[1], aShape[2], bShape[2]
	result := newRaw(tensor.Shape{batch, M, N}, a.DType(), c.device)

	aData := toFloat64(a)
	bData := toFloat64(b)
	out := make([]float64, batch*M*N)

	for i := 0; i < batch; i++ {
		var slice mat.Dense
		slice.Mul(
			mat.NewDense(M, K, aData[i*M*K:(i+1)*M*K]),
			mat.NewDense(K, N, bData[i*K*N:(i+1)*K*N]),
		)
		copy(out[i*M*N:(i+1)*M*N], slice.RawMatrix().Data)
	}

	fromFloat64(out, result)
	return result
}
