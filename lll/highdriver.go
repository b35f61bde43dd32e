package lll

import (
	"math/big"

	"github.com/lllgo/lll/babai"
	"github.com/lllgo/lll/gso"
	"github.com/lllgo/lll/lattice"
)

// reduceHigh is the arbitrary-precision counterpart of reduceDouble: the
// outer driver's control flow is the same except that there is no
// preemptive Babai step, and the Lovász test and the
// with-removal bound are evaluated in *big.Float at the cache's
// precision, and Babai never reports numerical failure at this tier
// (spec.md §4.3: this is the wrapper's precision ceiling).
func reduceHigh(b *lattice.Basis, u *lattice.Transform, p lattice.Params, ctt float64, gsB *float64, prec uint) reduceResult {
	r := b.Rows
	if r == 0 {
		return reduceResult{0, true}
	}
	if u != nil {
		u.CheckShape(b)
	}

	zeros := leadingZeros(b, p.Rep)
	if zeros >= r {
		return reduceResult{r, true}
	}

	c := gso.NewHighCache(r, prec, p.Rep)
	babai.SeedDiagonalHigh(b, c, zeros, b.Cols)

	cttF := new(big.Float).SetPrec(prec).SetFloat64(ctt)
	var gsBF *big.Float
	if gsB != nil {
		gsBF = new(big.Float).SetPrec(prec).SetFloat64(*gsB)
	}

	d := r
	kappa := zeros + 1
	kappamax := zeros

	cap := maxIter(r, p.Delta, float64(b.MaxBits()+1))
	iters := 0

	tmp := new(big.Float).SetPrec(prec)

	for kappa < d {
		iters++
		if iters > cap {
			return reduceResult{0, false}
		}
		if kappa > kappamax {
			kappamax = kappa
		}

		s := babai.HighPrec(b, u, c, p, kappa, c.Alpha[kappa], zeros, kappamax, b.Cols)

		if gsBF != nil && kappa == d-1 && kappa-1 >= zeros {
			tmp.Mul(c.Mu[kappa][kappa-1], c.R[kappa][kappa-1])
			tmp.Mul(tmp, big.NewFloat(2))
			bound := new(big.Float).SetPrec(prec).Sub(s[kappa-1], tmp)
			if bound.Cmp(gsBF) > 0 {
				d--
				continue
			}
		}

		lhs := new(big.Float).SetPrec(prec).Mul(c.R[kappa-1][kappa-1], cttF)
		rhs := s[kappa-1]
		if lhs.Cmp(rhs) <= 0 {
			t := new(big.Float).SetPrec(prec).Mul(c.Mu[kappa][kappa-1], c.R[kappa][kappa-1])
			c.R[kappa][kappa] = new(big.Float).SetPrec(prec).Sub(s[kappa-1], t)
			c.Alpha[kappa] = kappa
			kappa++
			continue
		}

		kappaPrime := kappa
		for kappaPrime > zeros {
			lhs2 := new(big.Float).SetPrec(prec).Mul(c.R[kappaPrime-1][kappaPrime-1], cttF)
			if lhs2.Cmp(s[kappaPrime-1]) <= 0 {
				break
			}
			kappaPrime--
		}

		moveBasisRow(b, p.Rep, kappa, kappaPrime)
		if u != nil {
			u.Matrix.MoveRow(kappa, kappaPrime)
		}
		c.MoveRow(kappa, kappaPrime)

		for i := kappaPrime; i < kappa; i++ {
			if c.Alpha[i] < kappaPrime {
				c.Alpha[i] = kappaPrime
			}
		}
		for i := kappa + 1; i <= kappamax; i++ {
			if c.Alpha[i] < kappaPrime {
				c.Alpha[i] = kappaPrime
			}
		}
		c.Alpha[kappaPrime] = kappaPrime
		c.R[kappaPrime][kappaPrime] = s[kappaPrime]

		if c.R[kappaPrime][kappaPrime].Sign() <= 0 {
			moveBasisRow(b, p.Rep, kappaPrime, zeros)
			if u != nil {
				u.Matrix.MoveRow(kappaPrime, zeros)
			}
			c.MoveRow(kappaPrime, zeros)
			zeros++
			kappa = zeros + 1
			if kappa < d {
				babai.SeedDiagonalHigh(b, c, zeros, b.Cols)
			}
		} else {
			kappa = kappaPrime + 1
		}
	}

	newd := d
	if gsBF != nil {
		for newd > 0 && c.R[newd-1][newd-1].Cmp(gsBF) <= 0 {
			newd--
		}
	}
	if p.Rep == lattice.GramRep {
		copyLowerToUpper(b)
	}
	return reduceResult{newd, true}
}
