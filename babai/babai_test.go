package babai

import (
	"math"
	"testing"

	"github.com/lllgo/lll/gso"
	"github.com/lllgo/lll/lattice"
)

// TestFastReducesAgainstSeedRow exercises the very first Babai call after
// a seed point (kappa == zeros+1, resume == 0), the boundary the zeros
// convention mismatch used to turn into a no-op: b1 = [3,1] must come
// back reduced against the seed row b0 = [2,0] to [1,1], with R[1][0]/
// Mu[1][0] actually populated rather than left at their zero value.
// The Approx cache stores values scaled by the row exponents, so each
// one is scaled back by c.Expo before it is compared.
func TestFastReducesAgainstSeedRow(t *testing.T) {
	b := lattice.NewBasisFromRows([][]int64{{2, 0}, {3, 1}})
	p := lattice.DefaultParams()
	c := gso.New(2, 2, p.Rep, p.Gram)

	SeedDiagonal(b, c, 0, 2)
	if got := math.Ldexp(c.R[0][0], 2*c.Expo[0]); got != 4 {
		t.Fatalf("R[0][0] = %v, want 4", got)
	}

	s, ok := Fast(b, nil, c, p, 1, c.Alpha[1], 0, 0, 2)
	if !ok {
		t.Fatal("Fast reported numerical failure on a trivial basis")
	}

	row1 := b.Row(1)
	v0, _ := row1[0].Float64()
	v1, _ := row1[1].Float64()
	if v0 != 1 || v1 != 1 {
		t.Fatalf("b1 = [%v %v], want [1 1]", v0, v1)
	}

	if mu := math.Ldexp(c.Mu[1][0], c.Expo[1]-c.Expo[0]); math.Abs(mu-0.5) > 1e-9 {
		t.Errorf("Mu[1][0] = %v, want 0.5", mu)
	}
	if r10 := math.Ldexp(c.R[1][0], c.Expo[1]+c.Expo[0]); math.Abs(r10-2) > 1e-9 {
		t.Errorf("R[1][0] = %v, want 2", r10)
	}
	if last := math.Ldexp(s[len(s)-1], 2*c.Expo[1]); math.Abs(last-1) > 1e-9 {
		t.Errorf("final squared GSO norm = %v, want 1", last)
	}
	if r11 := math.Ldexp(c.R[1][1], 2*c.Expo[1]); math.Abs(r11-1) > 1e-9 {
		t.Errorf("R[1][1] = %v, want 1", r11)
	}
}

// TestFastUnitRoundingConvergesInOnePass checks the common |X|=1 rounding
// branch on b1 = [3,1] against b0 = [2,0]: μ = 1.5, so one pass subtracts
// b0 once, and the following pass finds |μ| = 0.5 within HalfPlus and
// stops. The test checks the final |μ| (scaled back by c.Expo).
func TestFastUnitRoundingConvergesInOnePass(t *testing.T) {
	b := lattice.NewBasisFromRows([][]int64{{2, 0}, {3, 1}})
	p := lattice.DefaultParams()
	c := gso.New(2, 2, p.Rep, p.Gram)
	SeedDiagonal(b, c, 0, 2)

	if _, ok := Fast(b, nil, c, p, 1, 0, 0, 0, 2); !ok {
		t.Fatal("Fast reported numerical failure")
	}

	x := math.Abs(math.Ldexp(c.Mu[1][0], c.Expo[1]-c.Expo[0]))
	if x > p.HalfPlus() {
		t.Errorf("|Mu[1][0]| = %v still exceeds HalfPlus = %v after reduction", x, p.HalfPlus())
	}
}

// TestHighPrecReducesAgainstSeedRow is the arbitrary-precision
// counterpart of TestFastReducesAgainstSeedRow, covering the same
// zeros-boundary fix in babai/highprec.go.
func TestHighPrecReducesAgainstSeedRow(t *testing.T) {
	b := lattice.NewBasisFromRows([][]int64{{2, 0}, {3, 1}})
	p := lattice.DefaultParams()
	c := gso.NewHighCache(2, 100, p.Rep)

	SeedDiagonalHigh(b, c, 0, 2)

	s := HighPrec(b, nil, c, p, 1, c.Alpha[1], 0, 0, 2)

	row1 := b.Row(1)
	v0, _ := row1[0].Float64()
	v1, _ := row1[1].Float64()
	if v0 != 1 || v1 != 1 {
		t.Fatalf("b1 = [%v %v], want [1 1]", v0, v1)
	}

	want := 0.5
	got, _ := c.Mu[1][0].Float64()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Mu[1][0] = %v, want %v", got, want)
	}

	last, _ := s[len(s)-1].Float64()
	if math.Abs(last-1) > 1e-9 {
		t.Errorf("final squared GSO norm = %v, want 1", last)
	}
}
