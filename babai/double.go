// Package babai implements the size-reduction sub-procedure of LLL
// ("Babai", after Babai's nearest-plane algorithm) at its three
// precision flavours: fast double (fast.go), heuristic double with
// cancellation detection (heuristic.go), and arbitrary precision
// (highprec.go). See spec.md §4.1.
//
// The fast and heuristic flavours share the same double-precision cache
// (gso.Cache) and the same control flow; they differ only in how a
// scalar product is computed and in whether a no-op pass still
// invalidates row κ's cache row. That shared control flow lives here,
// parameterized by a dotFunc — the generic trait spec.md §9 describes,
// realized in Go as a function value rather than a type parameter,
// since the two flavours share one element type (float64) and differ
// only in one operation, not in the cache's shape (contrast with the
// high-precision flavour, which uses a differently shaped *big.Float
// cache and is therefore a separate implementation in highprec.go).
package babai

import (
	"math"
	"math/big"

	"github.com/lllgo/lll/gso"
	"github.com/lllgo/lll/internal/bigmat"
	"github.com/lllgo/lll/lattice"
)

const (
	// maxPasses is the pass count of the outer "do..while(test)" loop
	// (spec.md §4.1 step C) from which on every further pass must lower
	// the largest weighted μ exponent by at least sizeRedFailureThresh,
	// or the flavour reports numerical failure. There is no unconditional
	// cap on the number of passes.
	maxPasses = 20
	// sizeRedFailureThresh bounds the allowed mantissa-exponent
	// regression between successive re-examinations (spec.md §9: "a
	// value of 5 is consistent with the comment 'never happened for
	// me'").
	sizeRedFailureThresh = 5
	// cpuSize1 is the mantissa width assumed for the machine-word
	// rounding fast path (64-bit build: spec.md §6).
	cpuSize1 = 53
	maxLong  = 1<<cpuSize1 - 1
)

var bigOne = big.NewInt(1)

// dotFunc computes the scalar product <b_kappa, b_j> in whatever
// representation the cache was built for (ZBasis/Approx uses the scaled
// appB rows; ZBasis/Exact and GramRep use the exact integer rows/Gram
// entries converted to float64).
type dotFunc func(b *lattice.Basis, c *gso.Cache, kappa, j, n int) float64

// reduceDouble is the shared double-precision Babai loop. kappa is the
// row under reduction, resume the earliest column to refresh (normally
// c.Alpha[kappa]), zeros the leading all-zero row count, kappamax the
// running high-water mark, and n the working column width. It returns
// the progressive squared GSO norms s[zeros..kappa] and true on
// success, or (nil, false) on numerical failure (spec.md §4.1 step C).
func reduceDouble(b *lattice.Basis, u *lattice.Transform, c *gso.Cache, p lattice.Params, kappa, resume, zeros, kappamax, n int, compute dotFunc, staleOnNoOpPass bool) ([]float64, bool) {
	aa := resume
	if aa < zeros {
		aa = zeros
	}

	halfplus := p.HalfPlus()
	onedothalfplus := p.OneDotHalfPlus()

	maxExpo := math.MaxInt32
	loops := 0

	for {
		test := false

		// Step A — refresh the GSO of row kappa for columns [aa, kappa).
		for j := aa; j < kappa; j++ {
			acc := compute(b, c, kappa, j, n)
			for k := zeros; k < j; k++ {
				acc -= c.Mu[j][k] * c.R[kappa][k]
			}
			c.R[kappa][j] = acc
			c.Mu[kappa][j] = c.R[kappa][j] / c.R[j][j]
		}

		if loops >= maxPasses {
			newMax := math.MinInt32
			for j := 0; j < kappa; j++ {
				_, e2 := math.Frexp(c.Mu[kappa][j])
				if v := c.Expo[kappa] - c.Expo[j] + e2; v > newMax {
					newMax = v
				}
			}
			if newMax > maxExpo-sizeRedFailureThresh {
				return nil, false
			}
			maxExpo = newMax
		}

		// Step B — iterate size reductions, j from kappa-1 down to zeros.
		for j := kappa - 1; j >= zeros; j-- {
			x := math.Abs(c.Mu[kappa][j])
			x = math.Ldexp(x, c.Expo[kappa]-c.Expo[j])
			if x <= halfplus {
				continue
			}
			test = true
			exponent := c.Expo[j] - c.Expo[kappa]

			switch {
			case x <= onedothalfplus:
				applyUnitRounding(b, u, c, kappa, j, zeros, exponent, c.Mu[kappa][j] >= 0)
			default:
				applyGeneralRounding(b, u, c, kappa, j, zeros, exponent, rowWidth(c, b, n))
			}
		}

		if test {
			if c.AppB != nil {
				c.Expo[kappa] = bigmat.RowToFloatVec(c.AppB[kappa], b.Row(kappa), n)
			}
			aa = zeros
			c.MarkRowColStale(kappa, kappamax)
		} else if staleOnNoOpPass {
			c.MarkRowColStale(kappa, kappamax)
		}
		loops++
		if !test {
			break
		}
	}

	return finishDouble(b, c, compute, kappa, zeros, n)
}

// rowWidth returns the column count a row operation on b should span:
// the Babai working width n for ZBasis (the fmpz_lll_shift
// optimization, spec.md §9), or the full b.Cols for GramRep, where a
// truncated row operation would corrupt the untouched columns of the
// symmetric Gram matrix (the trailing-zero-column optimization has no
// meaning once B is itself a Gram matrix rather than a vector basis).
func rowWidth(c *gso.Cache, b *lattice.Basis, n int) int {
	if c.Rep() == lattice.GramRep {
		return b.Cols
	}
	return n
}

// applyUnitRounding handles the common X = ±1 rounding case (spec.md
// §4.1 step B's "pure row-add/sub"). In GramRep mode the row operation
// alone only updates <b_kappa, ·>; the matching column operation (using
// the already-updated column j entry at row kappa) completes the
// congruence so <·, b_kappa> and <b_kappa, b_kappa> come out correct
// too (see bigmat.SubmulCol's doc comment for the derivation).
func applyUnitRounding(b *lattice.Basis, u *lattice.Transform, c *gso.Cache, kappa, j, zeros, exponent int, positive bool) {
	for k := zeros; k < j; k++ {
		shifted := math.Ldexp(c.Mu[j][k], exponent)
		if positive {
			c.Mu[kappa][k] -= shifted
		} else {
			c.Mu[kappa][k] += shifted
		}
	}
	if positive {
		bigmat.SubmulRow(b.Row(kappa), b.Row(j), bigOne, b.Cols)
		if u != nil {
			bigmat.SubmulRow(u.Row(kappa), u.Row(j), bigOne, u.Cols)
		}
		if c.Rep() == lattice.GramRep {
			b.Matrix.SubmulCol(kappa, j, bigOne)
		}
	} else {
		bigmat.AddScaledRow(b.Row(kappa), b.Row(j), bigOne, b.Cols)
		if u != nil {
			bigmat.AddScaledRow(u.Row(kappa), u.Row(j), bigOne, u.Cols)
		}
		if c.Rep() == lattice.GramRep {
			b.Matrix.AddScaledCol(kappa, j, bigOne)
		}
	}
}

// applyGeneralRounding handles |X| >= 2: either the machine-word fast
// path, or (the rare case, spec.md §9) the mantissa/exponent split when
// X would overflow a machine word.
func applyGeneralRounding(b *lattice.Basis, u *lattice.Transform, c *gso.Cache, kappa, j, zeros, exponent, n int) {
	xx := math.Ldexp(c.Mu[kappa][j], -exponent)
	if xx < maxLong && xx > -maxLong {
		var rounded float64
		if xx < 0 {
			rounded = math.Ceil(xx - 0.5)
		} else {
			rounded = math.Floor(xx + 0.5)
		}
		for k := zeros; k < j; k++ {
			c.Mu[kappa][k] -= math.Ldexp(rounded*c.Mu[j][k], exponent)
		}
		xInt := big.NewInt(int64(rounded))
		bigmat.SubmulRow(b.Row(kappa), b.Row(j), xInt, n)
		if u != nil {
			bigmat.SubmulRow(u.Row(kappa), u.Row(j), xInt, u.Cols)
		}
		if c.Rep() == lattice.GramRep {
			b.Matrix.SubmulCol(kappa, j, xInt)
		}
		return
	}

	mant, exp2 := math.Frexp(c.Mu[kappa][j])
	mantInt := big.NewInt(int64(mant * float64(int64(1)<<cpuSize1)))
	exp2 += -exponent - cpuSize1

	if exp2 <= 0 {
		shifted := new(big.Int).Lsh(mantInt, uint(-exp2))
		bigmat.SubmulRow(b.Row(kappa), b.Row(j), shifted, n)
		if u != nil {
			bigmat.SubmulRow(u.Row(kappa), u.Row(j), shifted, u.Cols)
		}
		if c.Rep() == lattice.GramRep {
			b.Matrix.SubmulCol(kappa, j, shifted)
		}
		xf, _ := new(big.Float).SetInt(shifted).Float64()
		for k := zeros; k < j; k++ {
			c.Mu[kappa][k] -= math.Ldexp(xf*c.Mu[j][k], exponent)
		}
	} else {
		bigmat.SubmulRowShifted(b.Row(kappa), b.Row(j), mantInt, uint(exp2), n)
		if u != nil {
			bigmat.SubmulRowShifted(u.Row(kappa), u.Row(j), mantInt, uint(exp2), u.Cols)
		}
		if c.Rep() == lattice.GramRep {
			shifted := new(big.Int).Lsh(mantInt, uint(exp2))
			b.Matrix.SubmulCol(kappa, j, shifted)
		}
		xf, _ := new(big.Float).SetInt(mantInt).Float64()
		for k := zeros; k < j; k++ {
			c.Mu[kappa][k] -= math.Ldexp(xf*c.Mu[j][k], exp2+exponent)
		}
	}
}

// finishDouble emits the progressive squared GSO norms (spec.md §4.1
// step D) once the reduction loop has converged.
func finishDouble(b *lattice.Basis, c *gso.Cache, compute dotFunc, kappa, zeros, n int) ([]float64, bool) {
	s := make([]float64, kappa+1)
	s[zeros] = compute(b, c, kappa, kappa, n)
	for k := zeros; k < kappa; k++ {
		s[k+1] = s[k] - c.Mu[kappa][k]*c.R[kappa][k]
	}
	c.R[kappa][kappa] = s[kappa]
	return s, true
}
