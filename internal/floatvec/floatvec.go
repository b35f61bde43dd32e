// Package floatvec provides the double-precision vector primitives the
// LLL driver treats as its "double-vector collaborator": plain and
// Kahan-compensated dot products, and the per-row exponent-normalizing
// scale extraction used to build the appB cache.
package floatvec

import "math"

// Dot computes the plain (uncompensated) dot product of u and v over
// their first n entries. Used by the fast-double Babai flavour.
func Dot(u, v []float64, n int) float64 {
	var sum float64
	for i := 0; i < n; i++ {
		sum += u[i] * v[i]
	}
	return sum
}

// KahanDot computes the dot product of u and v with Kahan-Babuška
// (Neumaier) compensated summation, returning both the value and an
// error bound derived from the sum of absolute terms. The heuristic-double
// Babai flavour uses the error bound to decide whether catastrophic
// cancellation occurred and an exact integer dot must be substituted.
func KahanDot(u, v []float64, n int) (value, errBound float64) {
	var sum, c float64
	var absSum float64
	for i := 0; i < n; i++ {
		term := u[i] * v[i]
		absSum += math.Abs(term)
		t := sum + term
		if math.Abs(sum) >= math.Abs(term) {
			c += (sum - t) + term
		} else {
			c += (term - t) + sum
		}
		sum = t
	}
	// Error bound follows the classical Kahan-summation bound: a small
	// multiple of machine epsilon times the sum of absolute terms.
	errBound = float64(n) * 2.0 * (math.Nextafter(1, 2) - 1) * absSum
	return sum + c, errBound
}

// GetDVec2Exp normalizes src into dst by extracting a shared power-of-two
// exponent so that every entry of dst lies in [-1, 1) (the "get_d_vec_2exp"
// primitive of spec.md §6). It returns the exponent such that
// src[i] == dst[i] * 2^exp for all i (up to the caller's rounding of src
// itself, e.g. from an exact integer row).
func GetDVec2Exp(dst []float64, src []float64, n int) int {
	max := 0.0
	for i := 0; i < n; i++ {
		if a := math.Abs(src[i]); a > max {
			max = a
		}
	}
	if max == 0 {
		for i := 0; i < n; i++ {
			dst[i] = 0
		}
		return 0
	}
	_, exp := math.Frexp(max)
	scale := math.Ldexp(1, -exp)
	for i := 0; i < n; i++ {
		dst[i] = src[i] * scale
	}
	return exp
}

// EqualWithinAbsOrRel reports whether a and b are equal to within either
// an absolute or a relative tolerance, the comparison gonum's floats
// package exposes and test code across the teacher relies on.
func EqualWithinAbsOrRel(a, b, absTol, relTol float64) bool {
	if a == b {
		return true
	}
	delta := math.Abs(a - b)
	if delta <= absTol {
		return true
	}
	return delta <= relTol*math.Max(math.Abs(a), math.Abs(b))
}
