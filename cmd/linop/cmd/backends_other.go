//go:build !windows

package cmd

// gpuStatus reports that WebGPU is not built on this platform.
func gpuStatus() string {
	return "unavailable (not built on this platform)"
}
