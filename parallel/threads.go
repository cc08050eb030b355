package parallel

import "runtime"

import "github.com/klauspost/cpuid/v2"

// Threads reports the default number of goroutines for per-patch work.
// It prefers the logical core count detected by cpuid and falls back to
// runtime.NumCPU when detection is unavailable.
func Threads() int {
	if n := cpuid.CPU.LogicalCores; n > 0 {
		if n > runtime.NumCPU() {
			// respect affinity masks / container limits
			return runtime.NumCPU()
		}
		return n
	}
	return runtime.NumCPU()
}

// Describe returns a short human readable CPU description for run logs.
func Describe() string {
	if cpuid.CPU.BrandName == "" {
		return runtime.GOARCH
	}
	var simd = "scalar"
	switch {
	case cpuid.CPU.Supports(cpuid.AVX512F, cpuid.AVX512DQ):
		simd = "avx512"
	case cpuid.CPU.Supports(cpuid.AVX2):
		simd = "avx2"
	case cpuid.CPU.Supports(cpuid.ASIMD):
		simd = "neon"
	}
	return cpuid.CPU.BrandName + " (" + simd + ")"
}
