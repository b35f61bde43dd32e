package babai

import (
	"math"

	"github.com/lllgo/lll/gso"
	"github.com/lllgo/lll/internal/bigmat"
	"github.com/lllgo/lll/internal/floatvec"
	"github.com/lllgo/lll/lattice"
)

// Fast performs Babai size reduction of row kappa against rows
// 0..kappa-1 using the fast-double kernel (spec.md §4.1's "fast double"
// flavour): scalar products are a plain, uncompensated sum over the
// cached row approximations. This is the first tier the outer driver
// tries at every κ.
func Fast(b *lattice.Basis, u *lattice.Transform, c *gso.Cache, p lattice.Params, kappa, resume, zeros, kappamax, n int) ([]float64, bool) {
	return reduceDouble(b, u, c, p, kappa, resume, zeros, kappamax, n, fastDot, false)
}

// SeedDiagonal initializes the GSO data of the first nonzero row (index
// zeros) before the outer driver's main loop begins: there are no
// earlier rows to reduce against, so row zeros is its own orthogonal
// vector and r[zeros][zeros] is simply <b_zeros, b_zeros> (spec.md
// §4.2's "κ initially the first non-zero row + 1" implies this row is
// never itself passed through Babai).
func SeedDiagonal(b *lattice.Basis, c *gso.Cache, zeros, n int) {
	if c.AppB != nil {
		c.Expo[zeros] = bigmat.RowToFloatVec(c.AppB[zeros], b.Row(zeros), n)
	}
	c.R[zeros][zeros] = fastDot(b, c, zeros, zeros, n)
}

func fastDot(b *lattice.Basis, c *gso.Cache, kappa, j, n int) float64 {
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
		if c.StaleApprox(kappa, j) {
			c.SetApprox(kappa, j, floatvec.Dot(c.AppB[kappa], c.AppB[j], n))
		}
		return c.AppSP[kappa][j]
	}
}
