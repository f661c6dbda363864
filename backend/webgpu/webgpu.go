//go:build windows

// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package webgpu provides the WebGPU backend for GPU-accelerated tensor operations.
//
// WebGPU is a cross-platform graphics and compute API that works on:
//   - Windows (via Dawn/D3D12)
//   - macOS (via Dawn/Metal)
//   - Linux (via Dawn/Vulkan)
//
// Element-wise arithmetic, matrix multiplication and diagonal extraction
// run as WGSL compute shaders for float32 tensors; the remaining backend
// operations transparently fall back to the CPU kernels.
//
// Example:
//
//	import (
//	    "github.com/born-ml/linop/backend/cpu"
//	    "github.com/born-ml/linop/backend/webgpu"
//	    "github.com/born-ml/linop/linop"
//	)
//
//	func main() {
//	    var backend tensor.Backend
//	    if webgpu.IsAvailable() {
//	        gpu, _ := webgpu.New()
//	        defer gpu.Release()
//	        backend = gpu
//	    } else {
//	        backend = cpu.New()
//	    }
//	    op, _ := linop.AsOperator(raw, backend)
//	}
package webgpu

import (
	internalwebgpu "github.com/born-ml/linop/internal/backend/webgpu"
	"github.com/born-ml/linop/tensor"
)

// Backend represents the WebGPU backend implementation for GPU-accelerated
// tensor operations.
type Backend = internalwebgpu.Backend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a new WebGPU backend.
//
// This function initializes the WebGPU device and returns a backend
// ready for tensor operations. Call Release() when done to free GPU resources.
//
// Returns an error if WebGPU initialization fails (e.g., no compatible GPU).
func New() (*Backend, error) {
	return internalwebgpu.New()
}

// IsAvailable checks if WebGPU is available on the current system.
//
// This function attempts to initialize a WebGPU adapter to verify
// that a compatible GPU and drivers are present. It's useful for
// graceful fallback to the CPU backend when no GPU is available.
func IsAvailable() bool {
	return internalwebgpu.IsAvailable()
}
