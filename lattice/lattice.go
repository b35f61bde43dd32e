// Package lattice holds the public data model for lattice basis
// reduction: the integer basis (or Gram matrix), the unimodular
// transform accumulator, and the reduction parameter record. See
// spec.md §3 and SPEC_FULL.md §4.
package lattice

import (
	"fmt"
	"math"
	"math/big"

	"github.com/lllgo/lll/internal/bigmat"
)

// Representation selects whether a Basis stores lattice vectors or a
// precomputed Gram matrix.
type Representation int

const (
	// ZBasis means Basis.Data holds r×n lattice vectors.
	ZBasis Representation = iota
	// GramRep means Basis.Data holds the r×r symmetric Gram matrix
	// B·Bᵀ directly; no vectors in ℤⁿ are stored.
	GramRep
)

func (r Representation) String() string {
	if r == GramRep {
		return "gram"
	}
	return "z_basis"
}

// GramVariant selects how the cached scalar-product table is maintained
// when working from a basis (it is meaningless in GramRep mode, where
// the Gram matrix entries are exact by construction).
type GramVariant int

const (
	// Approx maintains the cached scalar-product table in floating point.
	Approx GramVariant = iota
	// Exact maintains the cached scalar-product table as exact integers.
	Exact
)

// Error is a sentinel error type, following mat64.Error: a plain string
// that implements the error interface, so error values can be declared
// as untyped constants and compared with ==.
type Error string

func (e Error) Error() string { return string(e) }

// Errors returned by operations in this package and its siblings. These
// are the "recoverable, driver-level" half of spec.md §7's taxonomy;
// the other half (programming errors: bad δ/η, shape mismatch) panics
// instead, at the reduction entry points, via package lll's checkParams
// and Transform.CheckShape.
const (
	ErrNumericalFailure Error = "lattice: numerical precision exhausted"
	ErrIterationCap     Error = "lattice: outer loop iteration cap exceeded"
	ErrShapeMismatch    Error = "lattice: dimension mismatch"
)

// Params is the (δ, η, representation, gram-variant) parameter record of
// spec.md §3. The zero value is invalid; use DefaultParams or NewParams.
type Params struct {
	Delta float64
	Eta   float64
	Rep   Representation
	Gram  GramVariant
}

// DefaultParams returns the canonical (δ, η) = (0.99, 0.51) L² parameters
// operating on a Z-basis with an approximate scalar-product cache.
func DefaultParams() Params {
	return Params{Delta: 0.99, Eta: 0.51, Rep: ZBasis, Gram: Approx}
}

// NewParams builds a Params value for the given δ, η over a Z-basis with
// an approximate scalar-product cache, the construction path for callers
// who need a non-default δ/η but otherwise want DefaultParams' choice of
// representation and gram variant. It does not validate δ/η itself; call
// Validate (or let package lll's entry points panic via checkParams).
func NewParams(delta, eta float64) Params {
	return Params{Delta: delta, Eta: eta, Rep: ZBasis, Gram: Approx}
}

// Validate checks the (δ, η) invariants of spec.md §3: 0.25 < δ ≤ 1 and
// 0.5 ≤ η < √δ. An invalid parameter record is a programming error per
// spec.md §7, so callers that accept Params from configuration should
// call Validate explicitly and handle the error themselves; the
// reduction entry points in package lll panic via checkParams instead,
// since by the time a driver runs, bad parameters indicate a caller bug.
func (p Params) Validate() error {
	if !(p.Delta > 0.25 && p.Delta <= 1) {
		return fmt.Errorf("lattice: delta=%v out of range (0.25, 1]", p.Delta)
	}
	sqrtDelta := math.Sqrt(p.Delta)
	if !(p.Eta >= 0.5 && p.Eta < sqrtDelta) {
		return fmt.Errorf("lattice: eta=%v out of range [0.5, sqrt(delta)=%v)", p.Eta, sqrtDelta)
	}
	return nil
}

// HalfPlus returns (4η + 0.5) / 5, the slightly-relaxed η threshold
// babai's size-reduction test compares |μ| against (spec.md §6).
func (p Params) HalfPlus() float64 {
	return (4*p.Eta + 0.5) / 5
}

// OneDotHalfPlus returns 1 + HalfPlus, the threshold below which the
// common ±1 rounding case applies (spec.md §4.1 step B).
func (p Params) OneDotHalfPlus() float64 {
	return 1 + p.HalfPlus()
}

// WrapperCtt returns (4δ+1)/5, the Lovász-test scaling constant used by
// the precision-escalation wrapper's driver (spec.md §6). Both this and
// UltraCtt are valid lower bounds on δ; the source uses one per driver,
// and so do we (spec.md §9's open question).
func (p Params) WrapperCtt() float64 {
	return (4*p.Delta + 1) / 5
}

// UltraCtt returns (δ+1)/2, the Lovász-test scaling constant used by the
// ultra-LLL driver (spec.md §6).
func (p Params) UltraCtt() float64 {
	return (p.Delta + 1) / 2
}

// Basis is an r×n integer lattice basis (Rep == ZBasis) or an r×r
// symmetric Gram matrix (Rep == GramRep). Rows are mutated in place by
// reduction: permuted and combined, never reallocated wholesale.
type Basis struct {
	*bigmat.Matrix
}

// NewBasis allocates a zero r×n basis.
func NewBasis(rows, cols int) *Basis {
	return &Basis{bigmat.NewMatrix(rows, cols)}
}

// NewBasisFromRows builds a Basis from the given rows of int64 entries.
// All rows must have equal length.
func NewBasisFromRows(rows [][]int64) *Basis {
	r := len(rows)
	if r == 0 {
		return NewBasis(0, 0)
	}
	c := len(rows[0])
	b := NewBasis(r, c)
	for i, row := range rows {
		if len(row) != c {
			panic(ErrShapeMismatch)
		}
		for j, v := range row {
			b.Set(i, j, big.NewInt(v))
		}
	}
	return b
}

// Transform is the r×r unimodular change-of-basis accumulator U of
// spec.md §3: initially the identity, mutated in lock-step with Basis
// such that U · B_initial == B_final.
type Transform struct {
	*bigmat.Matrix
}

// NewTransform returns the n×n identity transform.
func NewTransform(n int) *Transform {
	return &Transform{bigmat.Identity(n)}
}

// CheckShape panics with ErrShapeMismatch if u does not have one row and
// column per row of b, the "capturing-matrix shape mismatch" programming
// error of spec.md §7.
func (u *Transform) CheckShape(b *Basis) {
	if u.Rows != b.Rows || u.Cols != b.Rows {
		panic(ErrShapeMismatch)
	}
}

// Apply returns orig left-multiplied by u: u.Data · orig. Used by
// ultra-LLL (spec.md §4.5 step 4) to apply a transform discovered on a
// truncated shadow back onto the untruncated basis.
func (u *Transform) Apply(orig *Basis) *Basis {
	return &Basis{bigmat.Mul(u.Matrix, orig.Matrix)}
}
