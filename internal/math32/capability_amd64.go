//go:build amd64

package math32

import "golang.org/x/sys/cpu"

func init() {
	// SSE2 is part of the amd64 baseline; the chunked kernels always apply.
	// AVX widens what the compiler can do with the four-lane bodies.
	if cpu.X86.HasSSE2 || cpu.X86.HasAVX {
		dotImpl = dotChunked4
		squaredL2Impl = squaredL2Chunked4
		l1Impl = l1Chunked4
	}
}
