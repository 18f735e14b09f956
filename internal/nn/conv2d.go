package nn

import (
	"fmt"

	"github.com/mosaic-ml/mosaic/internal/tensor"
)

// Conv2dConfig describes a 2D convolution. Named fields replace positional
// hyperparameter lists so call sites stay unambiguous.
//
// Zero values mean: Stride 1, Dilation 1, Groups 1, no padding, no bias.
type Conv2dConfig struct {
	InChannels  int
	OutChannels int
	Kernel      int // square kernel size
	Stride      int
	Padding     int
	Dilation    int
	Groups      int
	Bias        bool
}

func (cfg *Conv2dConfig) fillDefaults() {
	if cfg.Stride == 0 {
		cfg.Stride = 1
	}
	if cfg.Dilation == 0 {
		cfg.Dilation = 1
	}
	if cfg.Groups == 0 {
		cfg.Groups = 1
	}
}

// SamePadding returns the padding that preserves spatial size at stride 1
// for an odd kernel with the given dilation.
func SamePadding(kernel, dilation int) int {
	return (kernel - 1) / 2 * dilation
}

// Conv2d is a 2D convolutional layer with optional grouping and dilation.
//
// Input shape:  [batch, in_channels, height, width]
// Weight shape: [out_channels, in_channels/groups, kernel, kernel]
// Bias shape:   [out_channels]
// Output shape: [batch, out_channels, out_h, out_w]
//
// Setting Groups == InChannels == OutChannels yields a depthwise
// convolution; Kernel == 1 yields a pointwise convolution.
type Conv2d[B tensor.Backend] struct {
	cfg     Conv2dConfig
	weight  *Parameter[B]
	bias    *Parameter[B] // nil without bias
	backend B
}

// NewConv2d creates a 2D convolutional layer with Xavier-initialized
// weights and zero bias.
func NewConv2d[B tensor.Backend](cfg Conv2dConfig, backend B) *Conv2d[B] {
	cfg.fillDefaults()

	if cfg.InChannels <= 0 || cfg.OutChannels <= 0 {
		panic(fmt.Sprintf("conv2d: invalid channels in=%d, out=%d", cfg.InChannels, cfg.OutChannels))
	}
	if cfg.Kernel <= 0 {
		panic(fmt.Sprintf("conv2d: invalid kernel size %d", cfg.Kernel))
	}
	if cfg.Stride <= 0 {
		panic(fmt.Sprintf("conv2d: invalid stride %d", cfg.Stride))
	}
	if cfg.Padding < 0 {
		panic(fmt.Sprintf("conv2d: invalid padding %d", cfg.Padding))
	}
	if cfg.Groups <= 0 || cfg.InChannels%cfg.Groups != 0 || cfg.OutChannels%cfg.Groups != 0 {
		panic(fmt.Sprintf("conv2d: channels (in=%d, out=%d) not divisible by groups %d",
			cfg.InChannels, cfg.OutChannels, cfg.Groups))
	}

	inPerGroup := cfg.InChannels / cfg.Groups
	weightShape := tensor.Shape{cfg.OutChannels, inPerGroup, cfg.Kernel, cfg.Kernel}

	fanIn := inPerGroup * cfg.Kernel * cfg.Kernel
	fanOut := cfg.OutChannels / cfg.Groups * cfg.Kernel * cfg.Kernel
	weight := NewParameter("conv2d.weight", Xavier(fanIn, fanOut, weightShape, backend))

	var bias *Parameter[B]
	if cfg.Bias {
		bias = NewParameter("conv2d.bias", Zeros(tensor.Shape{cfg.OutChannels}, backend))
	}

	return &Conv2d[B]{
		cfg:     cfg,
		weight:  weight,
		bias:    bias,
		backend: backend,
	}
}

// Forward performs the convolution.
//
// Input: [batch, in_channels, height, width]
// Output: [batch, out_channels, out_h, out_w].
func (c *Conv2d[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	inputShape := input.Shape()
	if len(inputShape) != 4 {
		panic(fmt.Sprintf("conv2d: expected 4D input [N,C,H,W], got %dD", len(inputShape)))
	}
	if inputShape[1] != c.cfg.InChannels {
		panic(fmt.Sprintf("conv2d: input channels %d != expected %d", inputShape[1], c.cfg.InChannels))
	}

	outputRaw := c.backend.Conv2D(
		input.Raw(),
		c.weight.Tensor().Raw(),
		c.cfg.Stride,
		c.cfg.Padding,
		c.cfg.Dilation,
		c.cfg.Groups,
	)
	output := tensor.New[float32, B](outputRaw, c.backend)

	if c.bias != nil {
		// Bias [out_channels] broadcasts as [1, out_channels, 1, 1].
		biasReshaped := c.bias.Tensor().Reshape(1, c.cfg.OutChannels, 1, 1)
		output = output.Add(biasReshaped)
	}

	return output
}

// Parameters returns the trainable parameters.
func (c *Conv2d[B]) Parameters() []*Parameter[B] {
	if c.bias != nil {
		return []*Parameter[B]{c.weight, c.bias}
	}
	return []*Parameter[B]{c.weight}
}

// Config returns the layer's configuration.
func (c *Conv2d[B]) Config() Conv2dConfig {
	return c.cfg
}

// String returns a string representation of the layer.
func (c *Conv2d[B]) String() string {
	return fmt.Sprintf("Conv2d(in=%d, out=%d, kernel=%d, stride=%d, padding=%d, dilation=%d, groups=%d, bias=%v)",
		c.cfg.InChannels, c.cfg.OutChannels, c.cfg.Kernel,
		c.cfg.Stride, c.cfg.Padding, c.cfg.Dilation, c.cfg.Groups, c.bias != nil)
}
