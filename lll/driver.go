// Package lll implements the outer LLL driver (spec.md §4.2), the
// precision-escalation wrapper (§4.3), the with-removal variant (§4.4),
// the ultra-LLL driver (§4.5), and the is-reduced verifier (SPEC_FULL.md
// §5.7) built on top of the babai and gso packages.
package lll

import (
	"math"

	"github.com/lllgo/lll/babai"
	"github.com/lllgo/lll/gso"
	"github.com/lllgo/lll/lattice"
)

// newvecMaxInit is the first kappamax threshold at which the preemptive
// Babai optimization fires (spec.md §4.2 step 1, §9's "newvec_max
// doubling schedule"); it doubles on every subsequent arrival.
const newvecMaxInit = 1

// maxIter computes the outer loop's provably-sufficient iteration
// budget (spec.md §4.2's "Termination"): exceeding it is treated as
// numerical failure, same as a Babai precision failure.
func maxIter(r int, delta, maxExp float64) int {
	if r <= 1 {
		return 1
	}
	rf := float64(r)
	denom := math.Log2(8.0 / (delta + 7))
	return int(rf-1+rf*(rf-1)*(2*maxExp+math.Log2(rf))/denom) + 1
}

// leadingZeros counts the zero rows (ZBasis: an all-zero vector; GramRep:
// a zero diagonal entry) at the top of b, the "boundary behavior" of
// spec.md §8.
func leadingZeros(b *lattice.Basis, rep lattice.Representation) int {
	z := 0
	for z < b.Rows {
		if rep == lattice.GramRep {
			if b.At(z, z).Sign() != 0 {
				break
			}
		} else {
			row := b.Row(z)
			nonzero := false
			for _, v := range row {
				if v.Sign() != 0 {
					nonzero = true
					break
				}
			}
			if nonzero {
				break
			}
		}
		z++
	}
	return z
}

// workingWidth clamps Babai's working column count to the fmpz_lll_shift
// optimization of spec.md §9: trailing all-zero columns shared by every
// row need not be scanned past the current high-water mark. The
// optimization is meaningless in GramRep mode (a Gram matrix has no
// "trailing zero columns of a vector basis" interpretation, and
// truncating a row operation there would corrupt the untouched part of
// a symmetric matrix), so Gram callers always get the full width.
func workingWidth(b *lattice.Basis, rep lattice.Representation, kappamax, shift int) int {
	if rep == lattice.GramRep {
		return b.Cols
	}
	w := kappamax + 1 + shift
	if w > b.Cols {
		return b.Cols
	}
	return w
}

// trueNorm returns the actual (unscaled) squared GSO norm of row i,
// undoing the appB row scaling by 2^expo[i] (a no-op when expo is
// always zero, as in Exact/GramRep mode).
func trueNorm(c *gso.Cache, i int) float64 {
	return math.Ldexp(c.R[i][i], 2*c.Expo[i])
}

// reduceResult carries the outer driver's outcome: the surviving row
// count (equal to the full row count outside with-removal) and whether
// the reduction succeeded.
type reduceResult struct {
	newd int
	ok   bool
}

// reduceDouble runs the double-precision outer LLL driver (spec.md
// §4.2) over b, accumulating into u if tracked, using the given Lovász
// scaling constant ctt and, when gsB is non-nil, applying the
// with-removal variant (spec.md §4.4) against the bound *gsB.
//
// Babai is invoked fast-first, escalating to the heuristic flavour on
// failure (spec.md §4.2 step 2); this driver itself never escalates to
// arbitrary precision — that is the wrapper's job (wrapper.go).
func reduceDouble(b *lattice.Basis, u *lattice.Transform, p lattice.Params, ctt float64, gsB *float64) reduceResult {
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

	c := gso.New(r, b.Cols, p.Rep, p.Gram)
	babai.SeedDiagonal(b, c, zeros, b.Cols)

	shift := 0
	if p.Rep == lattice.ZBasis {
		shift = b.Matrix.TrailingZeroShift()
	}

	d := r
	kappa := zeros + 1
	kappamax := zeros
	newvecMax := newvecMaxInit

	cap := maxIter(r, p.Delta, float64(b.MaxBits()+1))
	iters := 0

	for kappa < d {
		iters++
		if iters > cap {
			return reduceResult{0, false}
		}

		if kappa > kappamax {
			kappamax = kappa
			if kappamax == newvecMax {
				n := workingWidth(b, p.Rep, kappamax, shift)
				for j := d - 1; j > kappa; j-- {
					babai.Fast(b, u, c, p, j, c.Alpha[j], zeros, kappamax, n)
				}
				newvecMax *= 2
			}
		}

		n := workingWidth(b, p.Rep, kappamax, shift)
		s, ok := babai.Fast(b, u, c, p, kappa, c.Alpha[kappa], zeros, kappamax, n)
		if !ok {
			s, ok = babai.Heuristic(b, u, c, p, kappa, c.Alpha[kappa], zeros, kappamax, n)
			if !ok {
				return reduceResult{0, false}
			}
		}

		if gsB != nil && kappa == d-1 && kappa-1 >= zeros {
			bound := s[kappa-1] - 2*c.Mu[kappa][kappa-1]*c.R[kappa][kappa-1]
			bound = math.Ldexp(bound, 2*c.Expo[kappa])
			if bound > *gsB {
				d--
				continue
			}
		}

		lhs := c.R[kappa-1][kappa-1] * ctt * math.Pow(2, 2*float64(c.Expo[kappa-1]-c.Expo[kappa]))
		rhs := s[kappa-1]
		if lhs <= rhs {
			c.R[kappa][kappa] = s[kappa-1] - c.Mu[kappa][kappa-1]*c.R[kappa][kappa-1]
			c.Alpha[kappa] = kappa
			kappa++
			continue
		}

		kappaPrime := kappa
		for kappaPrime > zeros {
			lhs2 := c.R[kappaPrime-1][kappaPrime-1] * ctt * math.Pow(2, 2*float64(c.Expo[kappaPrime-1]-c.Expo[kappa]))
			if lhs2 <= s[kappaPrime-1] {
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

		if c.R[kappaPrime][kappaPrime] <= 0 {
			// ZEROFOUND (spec.md §4.6): the inserted row collapsed onto
			// the span of the rows before it. Move it to the front of
			// the working region and grow the leading-zero block.
			moveBasisRow(b, p.Rep, kappaPrime, zeros)
			if u != nil {
				u.Matrix.MoveRow(kappaPrime, zeros)
			}
			c.MoveRow(kappaPrime, zeros)
			zeros++
			kappa = zeros + 1
			if kappa < d {
				babai.SeedDiagonal(b, c, zeros, workingWidth(b, p.Rep, kappamax, shift))
			}
		} else {
			kappa = kappaPrime + 1
		}
	}

	newd := d
	if gsB != nil {
		for newd > 0 && trueNorm(c, newd-1) <= *gsB {
			newd--
		}
	}
	if p.Rep == lattice.GramRep {
		copyLowerToUpper(b)
	}
	return reduceResult{newd, true}
}

// moveBasisRow relocates row src to dst in b, shifting the rows between
// them by one. In GramRep mode the matching column move is applied too
// (spec.md §4.2's "Gram-matrix mode": "every time rows i,j are swapped,
// columns i,j must also be swapped"), since B is the symmetric Gram
// matrix itself rather than a basis of vectors.
func moveBasisRow(b *lattice.Basis, rep lattice.Representation, src, dst int) {
	if rep == lattice.GramRep {
		b.Matrix.MoveRowCol(src, dst)
		return
	}
	b.Matrix.MoveRow(src, dst)
}

// copyLowerToUpper copies the lower triangle of the Gram matrix into the
// upper one, the last step of spec.md §4.2's "Gram-matrix mode". The
// entries are exact integers and moveBasisRow and the Babai column
// updates keep both halves equal, so on a symmetric input this changes
// no value.
func copyLowerToUpper(b *lattice.Basis) {
	for i := 0; i < b.Rows; i++ {
		for j := 0; j < i; j++ {
			b.Set(j, i, b.At(i, j))
		}
	}
}
