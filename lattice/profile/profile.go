// Package profile renders a reduced basis's Gram-Schmidt norm profile
// (log2(||b*_i||) against index i) with gonum.org/v1/plot, the
// reusable-library counterpart of hkanpak21-Lattice-Lab's lab2
// Geometric-Series-Assumption check (SPEC_FULL.md §5.8). A linear
// profile is evidence the reduction achieved the GSA; a profile with a
// sharp early drop suggests the basis had unusually short vectors the
// reduction could not spread out further.
package profile

import (
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"errors"

	"github.com/lllgo/lll/babai"
	"github.com/lllgo/lll/gso"
	"github.com/lllgo/lll/lattice"
)

var errCacheUnavailable = errors.New("profile: basis cache could not be recomputed at double precision")

// ComputeCache rebuilds the Gram-Schmidt cache of an already-reduced
// basis b, straight-line (no swaps, no precision escalation): it seeds
// the leading diagonal and runs fast-then-heuristic Babai over each row
// in order. This is the diagnostic counterpart of the reduction
// drivers' internal cache — a completed lll.Reduce call discards its
// cache on return (spec.md §3's "Lifecycle"), so a caller wanting a
// basis profile afterward recomputes one here instead of threading an
// internal type across package boundaries. It reports false if even the
// heuristic kernel cannot size-reduce some row at double precision; a
// caller hitting that on a basis lll.Reduce just produced should treat
// it as a sign the basis needs a high-precision reduction instead.
func ComputeCache(b *lattice.Basis, p lattice.Params) (*gso.Cache, bool) {
	r := b.Rows
	c := gso.New(r, b.Cols, p.Rep, p.Gram)
	if r == 0 {
		return c, true
	}
	zeros := 0
	for zeros < r {
		if p.Rep == lattice.GramRep {
			if b.At(zeros, zeros).Sign() != 0 {
				break
			}
		} else {
			nonzero := false
			for _, v := range b.Row(zeros) {
				if v.Sign() != 0 {
					nonzero = true
					break
				}
			}
			if nonzero {
				break
			}
		}
		zeros++
	}
	if zeros >= r {
		return c, true
	}
	babai.SeedDiagonal(b, c, zeros, b.Cols)
	for kappa := zeros + 1; kappa < r; kappa++ {
		s, ok := babai.Fast(b, nil, c, p, kappa, c.Alpha[kappa], zeros, kappa, b.Cols)
		if !ok {
			s, ok = babai.Heuristic(b, nil, c, p, kappa, c.Alpha[kappa], zeros, kappa, b.Cols)
			if !ok {
				return c, false
			}
		}
		c.R[kappa][kappa] = s[kappa-1] - c.Mu[kappa][kappa-1]*c.R[kappa][kappa-1]
		c.Alpha[kappa] = kappa
	}
	return c, true
}

// Norms extracts log2(||b*_i||) for i in [0, n) from a completed
// reduction's cache, the same quantity hkanpak21-Lattice-Lab's
// basisProfile computes by hand.
func Norms(c *gso.Cache) []float64 {
	n := c.N()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		norm := math.Ldexp(c.R[i][i], 2*c.Expo[i])
		if norm <= 0 {
			out[i] = math.Inf(-1)
			continue
		}
		out[i] = math.Log2(norm) / 2
	}
	return out
}

// Plot builds a plot.Plot of the cache's GSO-norm profile.
func Plot(c *gso.Cache) (*plot.Plot, error) {
	norms := Norms(c)
	pts := make(plotter.XYs, len(norms))
	for i, v := range norms {
		pts[i].X = float64(i)
		pts[i].Y = v
	}

	p := plot.New()
	p.Title.Text = "GSO norm profile"

	p.X.Label.Text = "index i"
	p.Y.Label.Text = "log2(||b*_i||)"

	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	p.Add(line)
	return p, nil
}

// Save renders the cache's GSO-norm profile to path at the given size
// (e.g. 6*vg.Inch, 4*vg.Inch).
func Save(c *gso.Cache, w, h vg.Length, path string) error {
	p, err := Plot(c)
	if err != nil {
		return err
	}
	return p.Save(w, h, path)
}

// PlotBasis is the Plot convenience wrapper for the common case of
// profiling a basis directly (typically one lll.Reduce just finished
// with), recomputing its cache via ComputeCache first.
func PlotBasis(b *lattice.Basis, p lattice.Params) (*plot.Plot, error) {
	c, ok := ComputeCache(b, p)
	if !ok {
		return nil, errCacheUnavailable
	}
	return Plot(c)
}

// SaveBasis is the Save convenience wrapper for PlotBasis.
func SaveBasis(b *lattice.Basis, p lattice.Params, w, h vg.Length, path string) error {
	c, ok := ComputeCache(b, p)
	if !ok {
		return errCacheUnavailable
	}
	return Save(c, w, h, path)
}
