package lattice

import (
	"math/big"
	"testing"
)

func TestParamsValidate(t *testing.T) {
	if err := DefaultParams().Validate(); err != nil {
		t.Errorf("DefaultParams().Validate() = %v, want nil", err)
	}
	bad := Params{Delta: 0, Eta: 0.51}
	if err := bad.Validate(); err == nil {
		t.Error("Validate() with delta=0 = nil, want error")
	}
	bad = Params{Delta: 0.99, Eta: 0.4}
	if err := bad.Validate(); err == nil {
		t.Error("Validate() with eta below 0.5 = nil, want error")
	}
}

func TestHalfPlusOneDotHalfPlus(t *testing.T) {
	p := Params{Delta: 0.99, Eta: 0.501}
	hp := p.HalfPlus()
	want := (4*0.501 + 0.5) / 5
	if hp != want {
		t.Errorf("HalfPlus() = %v, want %v", hp, want)
	}
	if got := p.OneDotHalfPlus(); got != 1+hp {
		t.Errorf("OneDotHalfPlus() = %v, want %v", got, 1+hp)
	}
}

func TestWrapperCttUltraCttDistinct(t *testing.T) {
	p := Params{Delta: 0.99}
	if p.WrapperCtt() == p.UltraCtt() {
		t.Error("WrapperCtt and UltraCtt should use distinct Lovász scaling constants")
	}
}

func TestNewBasisFromRows(t *testing.T) {
	b := NewBasisFromRows([][]int64{{1, 2}, {3, 4}})
	if b.Rows != 2 || b.Cols != 2 {
		t.Fatalf("shape = (%d,%d), want (2,2)", b.Rows, b.Cols)
	}
	if b.At(1, 0).Cmp(big.NewInt(3)) != 0 {
		t.Errorf("At(1,0) = %v, want 3", b.At(1, 0))
	}
}

func TestNewBasisFromRowsRaggedPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewBasisFromRows with ragged rows did not panic")
		}
	}()
	NewBasisFromRows([][]int64{{1, 2}, {3}})
}

func TestTransformCheckShapeAndApply(t *testing.T) {
	b := NewBasisFromRows([][]int64{{1, 0}, {0, 1}})
	u := NewTransform(2)
	u.CheckShape(b) // must not panic

	u.Set(0, 0, big.NewInt(2))
	out := u.Apply(b)
	if out.At(0, 0).Cmp(big.NewInt(2)) != 0 {
		t.Errorf("Apply: out.At(0,0) = %v, want 2", out.At(0, 0))
	}
}

func TestTransformCheckShapeMismatchPanics(t *testing.T) {
	b := NewBasisFromRows([][]int64{{1, 0}, {0, 1}})
	u := NewTransform(3)
	defer func() {
		if recover() != ErrShapeMismatch {
			t.Error("CheckShape with mismatched U did not panic with ErrShapeMismatch")
		}
	}()
	u.CheckShape(b)
}
