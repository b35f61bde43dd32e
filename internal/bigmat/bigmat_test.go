package bigmat

import (
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// bigIntComparer lets cmp.Diff compare *big.Int values by Cmp rather
// than by pointer identity or unexported-field reflection.
var bigIntComparer = cmp.Comparer(func(a, b *big.Int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Cmp(b) == 0
})

func rowsOf(vals ...int64) []*big.Int {
	out := make([]*big.Int, len(vals))
	for i, v := range vals {
		out[i] = big.NewInt(v)
	}
	return out
}

func TestDot(t *testing.T) {
	a := rowsOf(1, 2, 3)
	b := rowsOf(4, 5, 6)
	got := Dot(a, b, 3)
	if got.Cmp(big.NewInt(32)) != 0 {
		t.Errorf("Dot = %v, want 32", got)
	}
}

func TestSubmulRow(t *testing.T) {
	row := rowsOf(10, 10, 10)
	sub := rowsOf(1, 2, 3)
	SubmulRow(row, sub, big.NewInt(2), 3)
	want := []int64{8, 6, 4}
	for i, v := range want {
		if row[i].Cmp(big.NewInt(v)) != 0 {
			t.Errorf("row[%d] = %v, want %v", i, row[i], v)
		}
	}
}

func TestMoveRow(t *testing.T) {
	m := NewMatrix(4, 2)
	for i := 0; i < 4; i++ {
		m.Set(i, 0, big.NewInt(int64(i)))
	}
	m.MoveRow(3, 1)
	got := make([]*big.Int, 4)
	for i := 0; i < 4; i++ {
		got[i] = m.At(i, 0)
	}
	want := rowsOf(0, 3, 1, 2)
	if diff := cmp.Diff(want, got, bigIntComparer); diff != "" {
		t.Fatalf("after MoveRow(3,1) mismatch (-want +got):\n%s", diff)
	}
}

func TestMaxBitsAndTrailingZeroShift(t *testing.T) {
	m := NewMatrix(2, 4)
	m.Set(0, 0, big.NewInt(255))
	m.Set(1, 1, big.NewInt(3))
	if got := m.MaxBits(); got != 8 {
		t.Errorf("MaxBits = %d, want 8", got)
	}
	if got := m.TrailingZeroShift(); got != 2 {
		t.Errorf("TrailingZeroShift = %d, want 2", got)
	}
}

func TestGramSymmetric(t *testing.T) {
	m := NewMatrix(2, 2)
	m.Set(0, 0, big.NewInt(201))
	m.Set(0, 1, big.NewInt(37))
	m.Set(1, 0, big.NewInt(17))
	m.Set(1, 1, big.NewInt(0))
	g := Gram(m)
	if g.At(0, 1).Cmp(g.At(1, 0)) != 0 {
		t.Errorf("Gram matrix not symmetric: %v vs %v", g.At(0, 1), g.At(1, 0))
	}
}

func TestMantExp(t *testing.T) {
	mant, exp := MantExp(big.NewInt(8))
	if mant != 0.5 || exp != 4 {
		t.Errorf("MantExp(8) = (%v, %v), want (0.5, 4)", mant, exp)
	}
	if mant, exp := MantExp(big.NewInt(0)); mant != 0 || exp != 0 {
		t.Errorf("MantExp(0) = (%v, %v), want (0, 0)", mant, exp)
	}
}

func TestMoveRowColKeepsSymmetric(t *testing.T) {
	m := NewMatrix(4, 4)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			m.Set(i, j, big.NewInt(int64(i*10+j)))
		}
	}
	g := Gram(m)
	g.MoveRowCol(3, 1)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if g.At(i, j).Cmp(g.At(j, i)) != 0 {
				t.Fatalf("after MoveRowCol(3,1), not symmetric at (%d,%d): %v vs %v", i, j, g.At(i, j), g.At(j, i))
			}
		}
	}
}

func TestSubmulColAddScaledColInverse(t *testing.T) {
	m := NewMatrix(3, 3)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m.Set(i, j, big.NewInt(int64(i*7+j+1)))
		}
	}
	before := m.Clone()
	m.SubmulCol(2, 0, big.NewInt(3))
	if cmp.Diff(before.Data, m.Data, bigIntComparer) == "" {
		t.Fatal("SubmulCol did not change the matrix")
	}
	m.AddScaledCol(2, 0, big.NewInt(3))
	if diff := cmp.Diff(before.Data, m.Data, bigIntComparer); diff != "" {
		t.Errorf("AddScaledCol did not invert SubmulCol (-want +got):\n%s", diff)
	}
}

func TestIdentityAndIsIdentity(t *testing.T) {
	id := Identity(3)
	if !id.IsIdentity() {
		t.Error("Identity(3) is not reported as identity")
	}
	id.Set(0, 1, big.NewInt(1))
	if id.IsIdentity() {
		t.Error("mutated matrix still reported as identity")
	}
}
