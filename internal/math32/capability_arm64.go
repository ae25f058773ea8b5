//go:build arm64

package math32

import "golang.org/x/sys/cpu"

func init() {
	// NEON (ASIMD) is mandatory on arm64, but gate on the feature flag so the
	// selection logic stays uniform across architectures.
	if cpu.ARM64.HasASIMD {
		dotImpl = dotChunked4
		squaredL2Impl = squaredL2Chunked4
		l1Impl = l1Chunked4
	}
}
