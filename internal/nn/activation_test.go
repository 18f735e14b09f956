package nn

import (
	"math"
	"testing"

	"github.com/mosaic-ml/mosaic/internal/backend/cpu"
	"github.com/mosaic-ml/mosaic/internal/tensor"
)

func TestReLUModule(t *testing.T) {
	backend := cpu.New()
	relu := NewReLU[*cpu.CPUBackend]()

	input, _ := tensor.FromSlice([]float32{-1, 0, 1, -2.5, 2.5}, tensor.Shape{5}, backend)
	output := relu.Forward(input)

	want := []float32{0, 0, 1, 0, 2.5}
	for i, w := range want {
		if got := output.Data()[i]; got != w {
			t.Errorf("ReLU[%d] = %f, want %f", i, got, w)
		}
	}
	if relu.Parameters() != nil {
		t.Error("ReLU should have no parameters")
	}
}

func TestSigmoidModule(t *testing.T) {
	backend := cpu.New()
	sigmoid := NewSigmoid[*cpu.CPUBackend]()

	input, _ := tensor.FromSlice([]float32{0, 100, -100}, tensor.Shape{3}, backend)
	output := sigmoid.Forward(input)

	want := []float32{0.5, 1, 0}
	for i, w := range want {
		if math.Abs(float64(output.Data()[i]-w)) > 1e-4 {
			t.Errorf("Sigmoid[%d] = %f, want %f", i, output.Data()[i], w)
		}
	}
}

func TestSiLUModule(t *testing.T) {
	backend := cpu.New()
	silu := NewSiLU[*cpu.CPUBackend]()

	input, _ := tensor.FromSlice([]float32{0, 1, -1}, tensor.Shape{3}, backend)
	output := silu.Forward(input)

	want := []float32{0, 0.731059, -0.268941}
	for i, w := range want {
		if math.Abs(float64(output.Data()[i]-w)) > 1e-5 {
			t.Errorf("SiLU[%d] = %f, want %f", i, output.Data()[i], w)
		}
	}
}

func TestIdentityModule(t *testing.T) {
	backend := cpu.New()
	identity := NewIdentity[*cpu.CPUBackend]()

	input, _ := tensor.FromSlice([]float32{1, -2, 3}, tensor.Shape{3}, backend)
	if identity.Forward(input) != input {
		t.Error("Identity should return its input unchanged")
	}
}

func TestDropoutEvalIsIdentity(t *testing.T) {
	backend := cpu.New()
	dropout := NewDropout[*cpu.CPUBackend](0.9)

	input, _ := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{4}, backend)
	if dropout.Forward(input) != input {
		t.Error("eval-mode dropout should return its input unchanged")
	}
}

func TestDropoutTrainingMasks(t *testing.T) {
	backend := cpu.New()
	dropout := NewDropout[*cpu.CPUBackend](0.5)
	dropout.SetTraining(true)

	data := make([]float32, 512)
	for i := range data {
		data[i] = 1
	}
	input, _ := tensor.FromSlice(data, tensor.Shape{512}, backend)
	output := dropout.Forward(input)

	zeros := 0
	for _, v := range output.Data() {
		if v == 0 {
			zeros++
		}
	}
	if zeros == 0 || zeros == len(data) {
		t.Errorf("training dropout zeroed %d of %d elements", zeros, len(data))
	}
}

func TestDropoutInvalidRate(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("rate 1.0 should panic")
		}
	}()
	NewDropout[*cpu.CPUBackend](1.0)
}
