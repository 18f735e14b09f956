// Copyright 2025 Mosaic ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package vision exposes the vision building blocks: depthwise separable
// convolution stacks, MBConv and fused MBConv blocks, and multi-head
// self-attention.
//
// Each constructor returns a composed layer chain compatible with
// nn.Sequential; a model-assembly layer stacks them into full
// architectures.
package vision

import (
	"github.com/mosaic-ml/mosaic/internal/nn"
	"github.com/mosaic-ml/mosaic/internal/tensor"
	"github.com/mosaic-ml/mosaic/internal/vision"
)

// ActivationFactory builds a fresh activation module per use site.
type ActivationFactory[B tensor.Backend] = vision.ActivationFactory[B]

// NormFactory builds a normalization layer for a channel count.
type NormFactory[B tensor.Backend] = vision.NormFactory[B]

// ReLUActivation is an ActivationFactory for ReLU.
func ReLUActivation[B tensor.Backend]() nn.Module[B] { return vision.ReLUActivation[B]() }

// SiLUActivation is an ActivationFactory for SiLU.
func SiLUActivation[B tensor.Backend]() nn.Module[B] { return vision.SiLUActivation[B]() }

// SigmoidActivation is an ActivationFactory for Sigmoid.
func SigmoidActivation[B tensor.Backend]() nn.Module[B] { return vision.SigmoidActivation[B]() }

// StageConfig controls the normalization and bias of one convolution
// stage.
type StageConfig = vision.StageConfig

// SeparableConv2dConfig describes a depthwise separable convolution stack.
type SeparableConv2dConfig[B tensor.Backend] = vision.SeparableConv2dConfig[B]

// NewSeparableConv2d builds a depthwise separable convolution block.
//
// Example:
//
//	backend := cpu.New()
//	block := vision.NewSeparableConv2d(vision.SeparableConv2dConfig[*cpu.Backend]{
//	    Kernel:    3,
//	    InPlanes:  32,
//	    OutPlanes: 64,
//	    Padding:   1,
//	    Depthwise: vision.StageConfig{Norm: true},
//	    Pointwise: vision.StageConfig{Norm: true},
//	    Act:       vision.ReLUActivation[*cpu.Backend],
//	}, backend)
func NewSeparableConv2d[B tensor.Backend](cfg SeparableConv2dConfig[B], backend B) *nn.Sequential[B] {
	return vision.NewSeparableConv2d(cfg, backend)
}

// MBConvConfig describes an inverted residual (MBConv) block.
type MBConvConfig[B tensor.Backend] = vision.MBConvConfig[B]

// NewMBConv builds an inverted residual block: optional 1x1 expansion,
// depthwise convolution, optional squeeze-excite, 1x1 projection, wrapped
// in a skip connection when stride is 1 and channel counts match.
func NewMBConv[B tensor.Backend](cfg MBConvConfig[B], backend B) nn.Module[B] {
	return vision.NewMBConv(cfg, backend)
}

// FusedMBConvConfig describes a fused MBConv block.
type FusedMBConvConfig[B tensor.Backend] = vision.FusedMBConvConfig[B]

// NewFusedMBConv builds a fused MBConv block: expansion and depthwise
// convolution fused into a single full convolution.
func NewFusedMBConv[B tensor.Backend](cfg FusedMBConvConfig[B], backend B) nn.Module[B] {
	return vision.NewFusedMBConv(cfg, backend)
}

// MultiHeadSelfAttention is a self-attention block over feature-major
// sequences [features, sequence, batch].
type MultiHeadSelfAttention[B tensor.Backend] = vision.MultiHeadSelfAttention[B]

// NewMultiHeadSelfAttention creates a self-attention block. planes must be
// divisible by numHeads.
//
// Example:
//
//	attn := vision.NewMultiHeadSelfAttention(256, 8, 0.1, 0.1, backend)
//	out := attn.Forward(x) // [256, seq, batch] -> [256, seq, batch]
func NewMultiHeadSelfAttention[B tensor.Backend](
	planes, numHeads int,
	attnDropRate, projDropRate float32,
	backend B,
) *MultiHeadSelfAttention[B] {
	return vision.NewMultiHeadSelfAttention(planes, numHeads, attnDropRate, projDropRate, backend)
}
