package babai

import (
	"math/big"

	"github.com/lllgo/lll/gso"
	"github.com/lllgo/lll/internal/bigmat"
	"github.com/lllgo/lll/lattice"
)

// HighPrec performs Babai size reduction using the arbitrary-precision
// kernel (spec.md §4.1's third flavour): μ and r are *big.Float at the
// cache's precision, and scalar products are always taken exactly (via
// the bignum collaborator) and converted up to that precision, so this
// flavour never itself reports numerical failure — escalating to it is
// the precision-escalation wrapper's last resort (spec.md §5).
func HighPrec(b *lattice.Basis, u *lattice.Transform, c *gso.HighCache, p lattice.Params, kappa, resume, zeros, kappamax, n int) []*big.Float {
	prec := c.Prec()
	halfplus := bigFloatAt(prec, p.HalfPlus())
	onedothalfplus := bigFloatAt(prec, p.OneDotHalfPlus())

	aa := resume
	if aa < zeros {
		aa = zeros
	}

	for {
		test := false

		for j := aa; j < kappa; j++ {
			acc := highDot(b, c, kappa, j, n)
			t := new(big.Float).SetPrec(prec)
			for k := zeros; k < j; k++ {
				t.Mul(c.Mu[j][k], c.R[kappa][k])
				acc.Sub(acc, t)
			}
			c.R[kappa][j] = acc
			c.Mu[kappa][j] = new(big.Float).SetPrec(prec).Quo(acc, c.R[j][j])
		}

		for j := kappa - 1; j >= zeros; j-- {
			x := new(big.Float).SetPrec(prec).Abs(c.Mu[kappa][j])
			if x.Cmp(halfplus) <= 0 {
				continue
			}
			test = true

			if x.Cmp(onedothalfplus) <= 0 {
				positive := c.Mu[kappa][j].Sign() >= 0
				for k := zeros; k < j; k++ {
					if positive {
						c.Mu[kappa][k].Sub(c.Mu[kappa][k], c.Mu[j][k])
					} else {
						c.Mu[kappa][k].Add(c.Mu[kappa][k], c.Mu[j][k])
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
				continue
			}

			rounded := roundBigFloat(c.Mu[kappa][j])
			for k := zeros; k < j; k++ {
				t := new(big.Float).SetPrec(prec).SetInt(rounded)
				t.Mul(t, c.Mu[j][k])
				c.Mu[kappa][k].Sub(c.Mu[kappa][k], t)
			}
			bigmat.SubmulRow(b.Row(kappa), b.Row(j), rounded, n)
			if u != nil {
				bigmat.SubmulRow(u.Row(kappa), u.Row(j), rounded, u.Cols)
			}
			if c.Rep() == lattice.GramRep {
				b.Matrix.SubmulCol(kappa, j, rounded)
			}
		}

		if test {
			aa = zeros
			c.MarkRowColStale(kappa, kappamax)
		}
		if !test {
			break
		}
	}

	s := make([]*big.Float, kappa+1)
	s[zeros] = highDot(b, c, kappa, kappa, n)
	for k := zeros; k < kappa; k++ {
		t := new(big.Float).SetPrec(prec).Mul(c.Mu[kappa][k], c.R[kappa][k])
		s[k+1] = new(big.Float).SetPrec(prec).Sub(s[k], t)
	}
	c.R[kappa][kappa] = s[kappa]
	return s
}

// SeedDiagonalHigh is the high-precision counterpart of SeedDiagonal.
func SeedDiagonalHigh(b *lattice.Basis, c *gso.HighCache, zeros, n int) {
	c.R[zeros][zeros] = highDot(b, c, zeros, zeros, n)
}

func highDot(b *lattice.Basis, c *gso.HighCache, kappa, j, n int) *big.Float {
	if c.Rep() == lattice.GramRep {
		return new(big.Float).SetPrec(c.Prec()).SetInt(b.At(kappa, j))
	}
	if c.StaleExact(kappa, j) {
		c.SetExact(kappa, j, bigmat.Dot(b.Row(kappa), b.Row(j), n))
	}
	return new(big.Float).SetPrec(c.Prec()).SetInt(c.ExactSP[kappa][j])
}

func bigFloatAt(prec uint, v float64) *big.Float {
	return new(big.Float).SetPrec(prec).SetFloat64(v)
}

// roundBigFloat rounds x to the nearest integer, ties away from zero,
// matching the fast-path ceil/floor split of applyGeneralRounding.
func roundBigFloat(x *big.Float) *big.Int {
	half := new(big.Float).SetPrec(x.Prec()).SetFloat64(0.5)
	y := new(big.Float).SetPrec(x.Prec())
	if x.Sign() < 0 {
		y.Sub(x, half)
	} else {
		y.Add(x, half)
	}
	i, _ := y.Int(nil)
	return i
}
