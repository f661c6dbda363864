// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for tensor operations.
//
// # Overview
//
// This package implements a CPU backend with:
//   - Pure Go implementation (no CGO)
//   - Float32, Float64, Int32 and Int64 support
//   - Batched matrix multiplication and diagonal extraction
//   - NumPy-compatible broadcasting
//   - Chunked parallelism for large matrix multiplies
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/linop/backend/cpu"
//	    "github.com/born-ml/linop/linop"
//	    "github.com/born-ml/linop/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    x := tensor.Randn[float32](tensor.Shape{64, 64}, backend)
//	    op, _ := linop.AsOperator(x.Raw(), backend)
//	    diag := op.Diagonal()
//	}
//
// # Thread Safety
//
// The CPU backend is safe for concurrent use. Each tensor operation
// is isolated and does not share mutable state.
package cpu
