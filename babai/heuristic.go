package babai

import (
	"math"

	"github.com/lllgo/lll/gso"
	"github.com/lllgo/lll/internal/bigmat"
	"github.com/lllgo/lll/internal/floatvec"
	"github.com/lllgo/lll/lattice"
)

// cancellationThresh is the Kahan error-bound cutoff above which a
// scalar product is judged too cancellation-prone to trust in double
// precision (grounded on fmpz_lll's heuristic_dot.c: "err > ldexp(1,
// -D_BITS/2)", D_BITS = cpuSize1).
var cancellationThresh = math.Ldexp(1, -cpuSize1/2)

// Heuristic performs Babai size reduction using the heuristic-double
// kernel (spec.md §4.1's "heuristic double" flavour): scalar products
// are Kahan-compensated, falling back to an exact integer dot product
// when the compensated sum's own error bound signals cancellation. A
// no-op pass still invalidates row κ's cache (the TYPE==2 behavior
// spec.md calls out), since a cancellation-triggered exact recomputation
// may have changed a cached value even when no rounding step fired.
func Heuristic(b *lattice.Basis, u *lattice.Transform, c *gso.Cache, p lattice.Params, kappa, resume, zeros, kappamax, n int) ([]float64, bool) {
	return reduceDouble(b, u, c, p, kappa, resume, zeros, kappamax, n, heuristicDot, true)
}

func heuristicDot(b *lattice.Basis, c *gso.Cache, kappa, j, n int) float64 {
	switch {
	case c.Rep() == lattice.GramRep:
		v, _ := b.At(kappa, j).Float64()
		return v
	case c.Variant() == lattice.Exact:
		if c.StaleExact(kappa, j) {
			c.SetExact(kappa, j, bigmat.Dot(b.Row(kappa), b.Row(j), n))
		}
		mant, exp := bigmat.MantExp(c.ExactSP[kappa][j])
		return math.Ldexp(mant, exp)
	default:
		if !c.StaleApprox(kappa, j) {
			return c.AppSP[kappa][j]
		}
		value, errBound := floatvec.KahanDot(c.AppB[kappa], c.AppB[j], n)
		if errBound > cancellationThresh {
			exact := bigmat.Dot(b.Row(kappa), b.Row(j), n)
			mant, exp := bigmat.MantExp(exact)
			value = math.Ldexp(mant, exp-c.Expo[kappa]-c.Expo[j])
		}
		c.SetApprox(kappa, j, value)
		return value
	}
}
