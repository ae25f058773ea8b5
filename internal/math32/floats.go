// Package math32 provides chunked float32 vector kernels.
// This is an internal package - external users should use the distance package.
package math32

import "math"

var (
	dotImpl       = dotGeneric
	squaredL2Impl = squaredL2Generic
	l1Impl        = l1Generic
)

// Dot calculates the dot product of two vectors.
// Public for use by the distance package.
//
// SAFETY: This function assumes len(a) == len(b).
// It does NOT perform bounds checks for performance reasons.
// Callers MUST ensure lengths match before calling.
func Dot(a, b []float32) float32 {
	return dotImpl(a, b)
}

// SquaredL2 calculates the squared L2 distance.
// Public for use by the distance package.
//
// SAFETY: This function assumes len(a) == len(b).
func SquaredL2(a, b []float32) float32 {
	return squaredL2Impl(a, b)
}

// L1 calculates the L1 (Manhattan) distance.
// Public for use by the distance package.
//
// SAFETY: This function assumes len(a) == len(b).
func L1(a, b []float32) float32 {
	return l1Impl(a, b)
}

// Norm calculates the Euclidean norm of a vector.
func Norm(a []float32) float32 {
	return Sqrt(dotImpl(a, a))
}

// Sqrt returns the square root of x as float32.
func Sqrt(x float32) float32 {
	return float32(math.Sqrt(float64(x)))
}

func dotGeneric(a, b []float32) float32 {
	var ret float32
	for i := range a {
		ret += a[i] * b[i]
	}

	return ret
}

func squaredL2Generic(a, b []float32) float32 {
	var distance float32
	for i := range a {
		distance += (a[i] - b[i]) * (a[i] - b[i])
	}

	return distance
}

func l1Generic(a, b []float32) float32 {
	var distance float32
	for i := range a {
		d := a[i] - b[i]
		if d < 0 {
			d = -d
		}
		distance += d
	}

	return distance
}

// Chunked kernels process four independent accumulator lanes per iteration,
// giving the compiler straight-line code it can keep in vector registers.
// Accumulation order differs from the generic kernels, so results may differ
// from them by float rounding only.

func dotChunked4(a, b []float32) float32 {
	var s0, s1, s2, s3 float32
	i := 0
	for ; i+4 <= len(a); i += 4 {
		s0 += a[i] * b[i]
		s1 += a[i+1] * b[i+1]
		s2 += a[i+2] * b[i+2]
		s3 += a[i+3] * b[i+3]
	}
	ret := s0 + s1 + s2 + s3
	for ; i < len(a); i++ {
		ret += a[i] * b[i]
	}

	return ret
}

func squaredL2Chunked4(a, b []float32) float32 {
	var s0, s1, s2, s3 float32
	i := 0
	for ; i+4 <= len(a); i += 4 {
		d0 := a[i] - b[i]
		d1 := a[i+1] - b[i+1]
		d2 := a[i+2] - b[i+2]
		d3 := a[i+3] - b[i+3]
		s0 += d0 * d0
		s1 += d1 * d1
		s2 += d2 * d2
		s3 += d3 * d3
	}
	distance := s0 + s1 + s2 + s3
	for ; i < len(a); i++ {
		d := a[i] - b[i]
		distance += d * d
	}

	return distance
}

func l1Chunked4(a, b []float32) float32 {
	var s0, s1, s2, s3 float32
	i := 0
	for ; i+4 <= len(a); i += 4 {
		s0 += abs32(a[i] - b[i])
		s1 += abs32(a[i+1] - b[i+1])
		s2 += abs32(a[i+2] - b[i+2])
		s3 += abs32(a[i+3] - b[i+3])
	}
	distance := s0 + s1 + s2 + s3
	for ; i < len(a); i++ {
		distance += abs32(a[i] - b[i])
	}

	return distance
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
