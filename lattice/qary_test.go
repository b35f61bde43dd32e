package lattice

import (
	"math/big"
	"testing"

	"golang.org/x/exp/rand"
)

func TestQAryBasisShape(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	b := QAryBasis(rng, 3, 2, big.NewInt(11))
	if b.Rows != 5 || b.Cols != 5 {
		t.Fatalf("shape = (%d,%d), want (5,5)", b.Rows, b.Cols)
	}
	for i := 0; i < 2; i++ {
		if b.At(i, i).Cmp(big.NewInt(11)) != 0 {
			t.Errorf("diagonal q-block At(%d,%d) = %v, want 11", i, i, b.At(i, i))
		}
	}
	for i := 0; i < 3; i++ {
		if b.At(2+i, 2+i).Cmp(big.NewInt(1)) != 0 {
			t.Errorf("identity block At(%d,%d) = %v, want 1", 2+i, 2+i, b.At(2+i, 2+i))
		}
	}
}

func TestRandomBasisBounded(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	b := RandomBasis(rng, 4, 5)
	bound := big.NewInt(5)
	negBound := big.NewInt(-5)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			v := b.At(i, j)
			if v.Cmp(bound) > 0 || v.Cmp(negBound) < 0 {
				t.Errorf("At(%d,%d) = %v, out of [-5, 5]", i, j, v)
			}
		}
	}
}

func TestNTRULikeBasisShape(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	b := NTRULikeBasis(rng, 2, 11, 5)
	if b.Rows != 4 || b.Cols != 4 {
		t.Fatalf("shape = (%d,%d), want (4,4)", b.Rows, b.Cols)
	}
	for i := 0; i < 2; i++ {
		if b.At(i, i).Cmp(big.NewInt(11)) != 0 {
			t.Errorf("q-block At(%d,%d) = %v, want 11", i, i, b.At(i, i))
		}
	}
}

func TestAjtaiBasisShape(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	b := AjtaiBasis(rng, 8, 0.5)
	if b.Rows != 8 || b.Cols != 8 {
		t.Fatalf("shape = (%d,%d), want (8,8)", b.Rows, b.Cols)
	}
}
