package gso

import (
	"math/big"

	"github.com/lllgo/lll/lattice"
)

// HighCache holds the arbitrary-precision Gram-Schmidt caches used by
// the third Babai flavour (spec.md §4.1's "high-precision" kernel). All
// μ, r, and s values are *big.Float at a caller-chosen precision; the
// exact integer scalar products are cached in the cache's own ExactSP
// table, laid out like Cache.ExactSP. Each HighCache starts with every
// entry stale, so a new precision-escalation retry recomputes them.
type HighCache struct {
	n    int
	prec uint

	Mu [][]*big.Float
	R  [][]*big.Float

	// ExactSP mirrors Cache.ExactSP: nil means stale.
	ExactSP [][]*big.Int

	Alpha []int

	rep lattice.Representation
}

// NewHighCache allocates a high-precision cache for an r-row basis of
// the given representation, at the given mantissa precision (bits).
func NewHighCache(r int, prec uint, rep lattice.Representation) *HighCache {
	c := &HighCache{n: r, prec: prec, rep: rep}
	c.Mu = allocBigFloat(r, r, prec)
	c.R = allocBigFloat(r, r, prec)
	c.ExactSP = make([][]*big.Int, r)
	for i := range c.ExactSP {
		c.ExactSP[i] = make([]*big.Int, r)
	}
	// Alpha starts all-zero; see Cache.New's doc comment for why.
	c.Alpha = make([]int, r)
	return c
}

func allocBigFloat(rows, cols int, prec uint) [][]*big.Float {
	m := make([][]*big.Float, rows)
	for i := range m {
		m[i] = make([]*big.Float, cols)
		for j := range m[i] {
			m[i][j] = new(big.Float).SetPrec(prec)
		}
	}
	return m
}

// Prec reports the mantissa precision (bits) the cache was allocated
// with.
func (c *HighCache) Prec() uint { return c.prec }

// N reports the number of rows the cache was allocated for.
func (c *HighCache) N() int { return c.n }

// Rep reports the representation the cache was allocated with.
func (c *HighCache) Rep() lattice.Representation { return c.rep }

// StaleExact reports whether the exact scalar-product cache entry
// (i, j) needs recomputation.
func (c *HighCache) StaleExact(i, j int) bool {
	return c.ExactSP[i][j] == nil
}

// SetExact stores an exact scalar product, keeping the cache symmetric.
func (c *HighCache) SetExact(i, j int, v *big.Int) {
	c.ExactSP[i][j] = v
	c.ExactSP[j][i] = v
}

// SwapRowsCols permutes Mu, R, Alpha and the exact scalar-product table
// to reflect rows i and j exchanging places.
func (c *HighCache) SwapRowsCols(i, j int) {
	c.Mu[i], c.Mu[j] = c.Mu[j], c.Mu[i]
	c.R[i], c.R[j] = c.R[j], c.R[i]
	c.Alpha[i], c.Alpha[j] = c.Alpha[j], c.Alpha[i]
	for k := 0; k < c.n; k++ {
		c.ExactSP[i][k], c.ExactSP[j][k] = c.ExactSP[j][k], c.ExactSP[i][k]
	}
	for k := 0; k < c.n; k++ {
		c.ExactSP[k][i], c.ExactSP[k][j] = c.ExactSP[k][j], c.ExactSP[k][i]
	}
}

// MoveRow removes the cache row/col at src and reinserts at dst,
// shifting rows in between.
func (c *HighCache) MoveRow(src, dst int) {
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

// MarkRowColStale invalidates the exact scalar-product cache entries
// touching row/col idx, for indices up to (and including) upto.
func (c *HighCache) MarkRowColStale(idx, upto int) {
	for k := 0; k <= upto && k < c.n; k++ {
		c.ExactSP[idx][k] = nil
		c.ExactSP[k][idx] = nil
	}
}
