// Package gso holds the Gram-Schmidt / Gram caches shared by the Babai
// kernels and the outer LLL driver: μ, r, appB, expo, the stale-sentinel
// scalar-product tables, and the alpha bookkeeping array. See spec.md
// §3 and SPEC_FULL.md §4.
package gso

import (
	"math"
	"math/big"

	"github.com/lllgo/lll/lattice"
)

// Cache holds the double-precision Gram-Schmidt caches used by the fast
// and heuristic Babai flavours. It is allocated on entry to a reduction
// and discarded on exit (spec.md §3's "Lifecycle").
type Cache struct {
	n    int // working row count (r)
	cols int // basis width (ignored in Gram representation)

	// Mu[i][j] (j<i) is the GSO coefficient of row i against orthogonalized
	// vector j. R[i][j] = <b_i, b*_j>; R[i][i] is the squared GSO norm.
	Mu [][]float64
	R  [][]float64

	// AppB is the floating-point approximation of the basis, row i scaled
	// by 2^-Expo[i]. Unused (nil) in Gram representation and in the Exact
	// gram variant.
	AppB [][]float64
	Expo []int

	// AppSP is the approximate scalar-product cache (Approx gram variant).
	// A NaN entry means "stale, must be recomputed". Unused when Exact is
	// selected; ExactSP is used instead.
	AppSP [][]float64

	// ExactSP is the exact-integer scalar-product cache (Exact gram
	// variant, or always in Gram representation). A nil entry means
	// "stale" — the idiomatic Go substitute for the source's
	// MIN_SIGNED_WORD sentinel (spec.md §9's design note).
	ExactSP [][]*big.Int

	// Alpha[k] is the index to which row k was demoted by the most recent
	// swap; Babai resumes from the earliest possibly-invalidated column.
	Alpha []int

	variant lattice.GramVariant
	rep     lattice.Representation
}

// New allocates a cache for an r-row basis of the given representation
// and gram variant. cols is the basis width (ignored for GramRep).
func New(r, cols int, rep lattice.Representation, variant lattice.GramVariant) *Cache {
	c := &Cache{n: r, cols: cols, variant: variant, rep: rep}
	c.Mu = allocFloat(r, r)
	c.R = allocFloat(r, r)
	// Alpha starts all-zero (not i): the caller passes Alpha[kappa] to
	// Babai as the earliest column to refresh, and a fresh row has never
	// been reduced against any earlier row, so the whole range [0, kappa)
	// needs its first pass.
	c.Alpha = make([]int, r)
	// Expo is always allocated (even in Gram/Exact mode, where it stays
	// all-zero): the double-precision Babai loop indexes it
	// unconditionally, and a zero exponent is a no-op in every ldexp
	// correction it feeds.
	c.Expo = make([]int, r)
	if rep == lattice.ZBasis && variant == lattice.Approx {
		c.AppB = allocFloat(r, cols)
	}
	if rep == lattice.GramRep || variant == lattice.Exact {
		c.ExactSP = make([][]*big.Int, r)
		for i := range c.ExactSP {
			c.ExactSP[i] = make([]*big.Int, r) // nil == stale
		}
	} else {
		c.AppSP = allocFloat(r, r)
		for i := range c.AppSP {
			for j := range c.AppSP[i] {
				c.AppSP[i][j] = math.NaN()
			}
		}
	}
	return c
}

func allocFloat(rows, cols int) [][]float64 {
	m := make([][]float64, rows)
	for i := range m {
		m[i] = make([]float64, cols)
	}
	return m
}

// MarkRowColStale invalidates the scalar-product cache entries touching
// row/col idx, for indices up to (and including) upto. Called after a
// Babai size-reduction pass rewrites row idx (spec.md §4.1 step B) and
// after a swap permutes the cache (spec.md §4.2 step 4).
func (c *Cache) MarkRowColStale(idx, upto int) {
	if c.AppSP != nil {
		for k := 0; k <= upto && k < c.n; k++ {
			c.AppSP[idx][k] = math.NaN()
			c.AppSP[k][idx] = math.NaN()
		}
	}
	if c.ExactSP != nil {
		for k := 0; k <= upto && k < c.n; k++ {
			c.ExactSP[idx][k] = nil
			c.ExactSP[k][idx] = nil
		}
	}
}

// SwapRowsCols permutes the cached scalar-product table, Mu, R, AppB,
// Expo and Alpha to reflect rows i and j exchanging places, the
// "trickiest part" of spec.md §4.2 step 4. Mu, R and AppB rows are
// exchanged as slice references (O(1) per row); the scalar-product
// tables are permuted entry by entry along both axes.
func (c *Cache) SwapRowsCols(i, j int) {
	c.Mu[i], c.Mu[j] = c.Mu[j], c.Mu[i]
	c.R[i], c.R[j] = c.R[j], c.R[i]
	c.Alpha[i], c.Alpha[j] = c.Alpha[j], c.Alpha[i]
	if c.AppB != nil {
		c.AppB[i], c.AppB[j] = c.AppB[j], c.AppB[i]
		c.Expo[i], c.Expo[j] = c.Expo[j], c.Expo[i]
	}
	if c.AppSP != nil {
		for k := 0; k < c.n; k++ {
			c.AppSP[i][k], c.AppSP[j][k] = c.AppSP[j][k], c.AppSP[i][k]
		}
		for k := 0; k < c.n; k++ {
			c.AppSP[k][i], c.AppSP[k][j] = c.AppSP[k][j], c.AppSP[k][i]
		}
	}
	if c.ExactSP != nil {
		for k := 0; k < c.n; k++ {
			c.ExactSP[i][k], c.ExactSP[j][k] = c.ExactSP[j][k], c.ExactSP[i][k]
		}
		for k := 0; k < c.n; k++ {
			c.ExactSP[k][i], c.ExactSP[k][j] = c.ExactSP[k][j], c.ExactSP[k][i]
		}
	}
}

// MoveRow removes the cache row/col at src and reinserts at dst,
// shifting rows in between — the physical-storage equivalent of
// spec.md §4.2 step 4's permutation, used by the outer driver instead
// of a chain of adjacent swaps when inserting row κ at slot κ′.
func (c *Cache) MoveRow(src, dst int) {
	if src == dst {
		return
	}
	step := 1
	if dst < src {
		step = -1
	}
	for k := src; k != dst; k += step {
		c.SwapRowsCols(k, k+step)
	}
}

// StaleApprox reports whether the approximate scalar-product cache
// entry (i, j) needs recomputation.
func (c *Cache) StaleApprox(i, j int) bool {
	if c.AppSP == nil {
		return false
	}
	return math.IsNaN(c.AppSP[i][j])
}

// StaleExact reports whether the exact scalar-product cache entry (i, j)
// needs recomputation.
func (c *Cache) StaleExact(i, j int) bool {
	if c.ExactSP == nil {
		return false
	}
	return c.ExactSP[i][j] == nil
}

// SetApprox stores an approximate scalar product, keeping the cache
// symmetric.
func (c *Cache) SetApprox(i, j int, v float64) {
	c.AppSP[i][j] = v
	c.AppSP[j][i] = v
}

// SetExact stores an exact scalar product, keeping the cache symmetric.
func (c *Cache) SetExact(i, j int, v *big.Int) {
	c.ExactSP[i][j] = v
	c.ExactSP[j][i] = v
}

// N reports the number of rows the cache was allocated for.
func (c *Cache) N() int { return c.n }

// Variant reports the Gram variant the cache was allocated with.
func (c *Cache) Variant() lattice.GramVariant { return c.variant }

// Rep reports the representation the cache was allocated with.
func (c *Cache) Rep() lattice.Representation { return c.rep }
