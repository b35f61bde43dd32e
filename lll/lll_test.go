package lll

import (
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/exp/rand"

	"github.com/lllgo/lll/lattice"
)

// bigIntComparer lets cmp.Diff compare *big.Int-backed matrices by value
// (Cmp) rather than by pointer identity or unexported-field reflection.
var bigIntComparer = cmp.Comparer(func(a, b *big.Int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Cmp(b) == 0
})

func TestReduceTwoRowBasis(t *testing.T) {
	b := lattice.NewBasisFromRows([][]int64{{2, 0}, {3, 1}})
	p := lattice.DefaultParams()
	u := lattice.NewTransform(2)

	if err := Reduce(b, u, p); err != nil {
		t.Fatalf("Reduce failed: %v", err)
	}
	if !IsReduced(b, p, nil) {
		t.Fatal("result is not LLL-reduced")
	}

	check := u.Apply(&lattice.Basis{Matrix: lattice.NewBasisFromRows([][]int64{{2, 0}, {3, 1}}).Matrix})
	if diff := cmp.Diff(check.Data, b.Data, bigIntComparer); diff != "" {
		t.Errorf("U*B0 != final basis (-want +got):\n%s", diff)
	}
}

func TestReduceNTRULikeBasis(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	b := lattice.NTRULikeBasis(rng, 6, 257, 8)
	p := lattice.DefaultParams()

	if err := Reduce(b, nil, p); err != nil {
		t.Fatalf("Reduce failed: %v", err)
	}
	if !IsReduced(b, p, nil) {
		t.Fatal("NTRU-like basis did not come back LLL-reduced")
	}
}

func TestReduceQAryBasis(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	q := big.NewInt(101)
	b := lattice.QAryBasis(rng, 8, 4, q)
	p := lattice.DefaultParams()

	if err := Reduce(b, nil, p); err != nil {
		t.Fatalf("Reduce failed: %v", err)
	}
	if !IsReduced(b, p, nil) {
		t.Fatal("q-ary basis did not come back LLL-reduced")
	}
}

// TestReduceWithRemovalDropsAllBelowBound checks that, once the squared
// GSO norm of the largest surviving row falls to or below gsB, the
// with-removal variant keeps trimming from the end — here a bound well
// above every row's norm removes the whole (already orthogonal, already
// increasing) basis.
func TestReduceWithRemovalDropsAllBelowBound(t *testing.T) {
	b := lattice.NewBasisFromRows([][]int64{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 100},
	})
	p := lattice.DefaultParams()
	gsB := big.NewInt(1000000)

	newd, err := ReduceWithRemoval(b, nil, p, gsB)
	if err != nil {
		t.Fatalf("ReduceWithRemoval failed: %v", err)
	}
	if newd != 0 {
		t.Fatalf("newd = %d, want 0 (every row's norm is below the bound)", newd)
	}
}

// TestReduceWithRemovalKeepsRowsAboveBound checks the complementary case:
// a bound below every row's norm drops nothing.
func TestReduceWithRemovalKeepsRowsAboveBound(t *testing.T) {
	b := lattice.NewBasisFromRows([][]int64{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 100},
	})
	p := lattice.DefaultParams()
	gsB := big.NewInt(0)

	newd, err := ReduceWithRemoval(b, nil, p, gsB)
	if err != nil {
		t.Fatalf("ReduceWithRemoval failed: %v", err)
	}
	if newd != 3 {
		t.Fatalf("newd = %d, want 3 (every row's norm exceeds the bound)", newd)
	}
	if !IsReduced(b, p, nil) {
		t.Fatal("surviving rows are not LLL-reduced")
	}
}

func TestIsReducedRejectsUnreduced(t *testing.T) {
	b := lattice.NewBasisFromRows([][]int64{{2, 0}, {3, 1}})
	p := lattice.DefaultParams()
	if IsReduced(b, p, nil) {
		t.Fatal("unreduced basis reported as reduced")
	}
}

func TestReduceGramRep(t *testing.T) {
	zb := lattice.NewBasisFromRows([][]int64{{2, 0}, {3, 1}})
	gram := lattice.NewBasis(2, 2)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			dot := new(big.Int)
			for k := 0; k < 2; k++ {
				prod := new(big.Int).Mul(zb.At(i, k), zb.At(j, k))
				dot.Add(dot, prod)
			}
			gram.Set(i, j, dot)
		}
	}
	p := lattice.Params{Delta: 0.99, Eta: 0.51, Rep: lattice.GramRep, Gram: lattice.Exact}

	if err := Reduce(gram, nil, p); err != nil {
		t.Fatalf("Reduce on GramRep basis failed: %v", err)
	}
	if !IsReduced(gram, p, nil) {
		t.Fatal("reduced Gram matrix did not certify")
	}
}

// TestReduceFindsIntegerRelation exercises spec.md §8 scenario (c): the
// classic "PSLQ-style" integer-relation basis, scaled so an LLL-short
// vector's last coordinate reveals a near-zero integer combination of
// 3141, 2718 and -1 (here 1*3141 + 1*2718 + 5859*(-1) = 0). Reduction
// should surface a row whose scaled last entry collapses far below the
// input scale (10000), evidence the relation was found.
func TestReduceFindsIntegerRelation(t *testing.T) {
	b := lattice.NewBasisFromRows([][]int64{
		{1, 0, 0, 3141},
		{0, 1, 0, 2718},
		{0, 0, 1, -1},
		{0, 0, 0, 10000},
	})
	p := lattice.DefaultParams()
	u := lattice.NewTransform(4)

	if err := Reduce(b, u, p); err != nil {
		t.Fatalf("Reduce failed: %v", err)
	}
	if !IsReduced(b, p, nil) {
		t.Fatal("result is not LLL-reduced")
	}

	minLast := int64(10000)
	for i := 0; i < b.Rows; i++ {
		if v := b.At(i, 3).Int64(); absInt64(v) < minLast {
			minLast = absInt64(v)
		}
	}
	if minLast >= 1000 {
		t.Errorf("smallest |last column entry| after reduction = %d, want well below the 10000 input scale", minLast)
	}
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func TestReduceUltraTruncatesLargeBasis(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	b := lattice.RandomBasis(rng, 5, 1<<40)
	p := lattice.DefaultParams()

	if err := ReduceUltra(b, nil, p, 16); err != nil {
		t.Fatalf("ReduceUltra failed: %v", err)
	}
	if !IsReduced(b, p, nil) {
		t.Fatal("ultra-LLL result did not certify as reduced")
	}
}
