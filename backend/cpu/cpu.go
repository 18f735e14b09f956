// Copyright 2025 Mosaic ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the reference CPU backend.
package cpu

import (
	internalcpu "github.com/mosaic-ml/mosaic/internal/backend/cpu"
	"github.com/mosaic-ml/mosaic/tensor"
)

// Backend is the CPU backend implementation. It implements every operation
// directly, delegating dense linear algebra to gonum, and exists to let the
// layer library run in tests and examples.
type Backend = internalcpu.CPUBackend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a new CPU backend.
//
// Example:
//
//	backend := cpu.New()
//	x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
func New() *Backend {
	return internalcpu.New()
}
