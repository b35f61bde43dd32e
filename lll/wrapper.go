package lll

import (
	"math/big"

	"github.com/lllgo/lll/internal/bigmat"
	"github.com/lllgo/lll/lattice"
)

// Reduce runs the precision-escalation wrapper of spec.md §4.3: fast
// double, then heuristic double, then arbitrary precision growing from
// dBits by dBits for MaxLinearTries attempts and doubling thereafter,
// accepting the first tier IsReduced certifies. Escalation is bounded by
// a precision ceiling (1<<20 bits under the default options, settable
// with WithPrecisionSchedule); once the next precision would exceed it,
// Reduce stops and returns ErrNumericalFailure.
func Reduce(b *lattice.Basis, u *lattice.Transform, p lattice.Params, opts ...Option) error {
	checkParams(p)
	if u != nil {
		u.CheckShape(b)
	}
	o := NewOptions(opts...)
	_, err := reduceWrapped(b, u, p, p.WrapperCtt(), nil, nil, o)
	return err
}

// ReduceWithRemoval runs the wrapper with the with-removal variant of
// spec.md §4.4: trailing rows whose squared GSO norm falls to or below
// gsB are dropped, and the surviving row count newd is returned.
func ReduceWithRemoval(b *lattice.Basis, u *lattice.Transform, p lattice.Params, gsB *big.Int, opts ...Option) (int, error) {
	checkParams(p)
	if gsB == nil {
		panic("lll: ReduceWithRemoval requires a non-nil removal bound")
	}
	if u != nil {
		u.CheckShape(b)
	}
	o := NewOptions(opts...)
	gsBFloat, _ := new(big.Float).SetInt(gsB).Float64()
	return reduceWrapped(b, u, p, p.WrapperCtt(), &gsBFloat, gsB, o)
}

func checkParams(p lattice.Params) {
	if err := p.Validate(); err != nil {
		panic(err)
	}
}

// reduceWrapped is the shared precision-escalation loop, parameterized
// by the Lovász scaling constant ctt: Reduce/ReduceWithRemoval pass
// WrapperCtt (spec.md §9's "wrapped driver" choice), while ReduceUltra
// passes UltraCtt for both its truncated-shadow passes and its final
// full-precision pass (the "ulll driver" choice).
func reduceWrapped(b *lattice.Basis, u *lattice.Transform, p lattice.Params, ctt float64, gsBFloat *float64, gsBInt *big.Int, o Options) (int, error) {
	// certified checks the rows the driver kept: with a removal bound,
	// only the leading newd rows (the leading newd×newd block of a Gram
	// matrix) are verified, since the dropped rows are not returned.
	certified := func(newd int) bool {
		if gsBInt == nil {
			return IsReduced(b, p, nil)
		}
		cols := b.Cols
		if p.Rep == lattice.GramRep {
			cols = newd
		}
		kept := &bigmat.Matrix{Rows: newd, Cols: cols, Stride: b.Stride, Data: b.Data[:newd*b.Stride]}
		return IsReduced(&lattice.Basis{Matrix: kept}, p, gsBInt)
	}

	res := reduceDouble(b, u, p, ctt, gsBFloat)
	if res.ok && certified(res.newd) {
		o.Logger.Debug("lll: reduction certified", "precision", "double")
		return res.newd, nil
	}

	prec := uint(dBits)
	tries := 0
	for {
		o.Logger.Debug("lll: escalating precision", "bits", prec)
		res = reduceHigh(b, u, p, ctt, gsBFloat, prec)
		if res.ok && certified(res.newd) {
			o.Logger.Debug("lll: reduction certified", "precision", prec)
			return res.newd, nil
		}
		tries++
		if tries <= o.MaxLinearTries {
			prec += dBits
		} else {
			prec *= 2
		}
		if prec > o.MaxPrecisionBit {
			return 0, lattice.ErrNumericalFailure
		}
	}
}
