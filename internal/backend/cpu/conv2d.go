package cpu

import (
	"fmt"

	"github.com/mosaic-ml/mosaic/internal/tensor"
)

// Conv2D performs grouped, dilated 2D convolution with zero padding.
//
// Input shape:  [N, C_in, H, W]
// Kernel shape: [C_out, C_in/groups, KH, KW]
// Output shape: [N, C_out, H_out, W_out]
//
// where
//
//	H_out = (H + 2*padding - dilation*(KH-1) - 1) / stride + 1
//	W_out = (W + 2*padding - dilation*(KW-1) - 1) / stride + 1
//
// groups = C_in with C_out = C_in gives a depthwise convolution.
func (c *CPUBackend) Conv2D(input, kernel *tensor.RawTensor, stride, padding, dilation, groups int) *tensor.RawTensor {
	inShape, kShape := input.Shape(), kernel.Shape()
	if len(inShape) != 4 || len(kShape) != 4 {
		panic("conv2d: requires 4D tensors [N,C,H,W]")
	}

	N, cIn, H, W := inShape[0], inShape[1], inShape[2], inShape[3]
	cOut, kcIn, kH, kW := kShape[0], kShape[1], kShape[2], kShape[3]

	if groups < 1 {
		panic(fmt.Sprintf("conv2d: invalid groups %d", groups))
	}
	if cIn%groups != 0 || cOut%groups != 0 {
		panic(fmt.Sprintf("conv2d: channels (in=%d, out=%d) not divisible by groups %d", cIn, cOut, groups))
	}
	if kcIn != cIn/groups {
		panic(fmt.Sprintf("conv2d: kernel channels %d != input channels per group %d", kcIn, cIn/groups))
	}

	hOut := (H+2*padding-dilation*(kH-1)-1)/stride + 1
	wOut := (W+2*padding-dilation*(kW-1)-1)/stride + 1
	if hOut <= 0 || wOut <= 0 {
		panic(fmt.Sprintf("conv2d: non-positive output size %dx%d for input %v", hOut, wOut, inShape))
	}

	output := newRaw(tensor.Shape{N, cOut, hOut, wOut}, input.DType(), c.device)

	inData := toFloat64(input)
	kData := toFloat64(kernel)
	out := make([]float64, output.NumElements())

	chPerGroup := cOut / groups
	for n := 0; n < N; n++ {
		for co := 0; co < cOut; co++ {
			group := co / chPerGroup
			for oh := 0; oh < hOut; oh++ {
				for ow := 0; ow < wOut; ow++ {
					sum := 0.0
					for kc := 0; kc < kcIn; kc++ {
						ci := group*kcIn + kc
						for y := 0; y < kH; y++ {
							for x := 0; x < kW; x++ {
								h := oh*stride - padding + y*dilation
								w := ow*stride - padding + x*dilation
								if h < 0 || h >= H || w < 0 || w >= W {
									continue // zero padding
								}
								sum += inData[((n*cIn+ci)*H+h)*W+w] * kData[((co*kcIn+kc)*kH+y)*kW+x]
							}
						}
					}
					out[((n*cOut+co)*hOut+oh)*wOut+ow] = sum
				}
			}
		}
	}

	fromFloat64(out, output)
	return output
}
