//go:build windows

package cmd

import (
	"github.com/born-ml/linop/backend/webgpu"
)

// gpuStatus probes the WebGPU adapter.
func gpuStatus() string {
	if webgpu.IsAvailable() {
		gpu, err := webgpu.New()
		if err != nil {
			return "unavailable (" + err.Error() + ")"
		}
		defer gpu.Release()
		return "available (" + gpu.Name() + ")"
	}
	return "unavailable (no compatible adapter)"
}
