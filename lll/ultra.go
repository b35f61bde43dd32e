package lll

import (
	"github.com/lllgo/lll/internal/bigmat"
	"github.com/lllgo/lll/lattice"
)

// ReduceUltra implements the ultra-LLL driver of spec.md §4.5: bases
// whose entries far exceed machine precision are reduced via a
// truncated shadow, with the discovered unimodular transform applied
// back to the full-precision basis. newSize is the caller-supplied bit
// threshold below which truncation stops paying off (spec.md's typical
// value 250). Every reduction this driver performs (truncated-shadow
// passes and the final full-precision pass alike) uses UltraCtt, the
// "(δ+1)/2" Lovász scaling spec.md §9 attributes to the ulll driver
// family, as opposed to Reduce's WrapperCtt.
//
// Ultra-LLL only applies to ZBasis representation: truncating a Gram
// matrix's entries does not correspond to truncating the underlying
// vectors (Gram entries are already squared magnitudes), so GramRep
// input is reduced directly.
func ReduceUltra(b *lattice.Basis, u *lattice.Transform, p lattice.Params, newSize int, opts ...Option) error {
	checkParams(p)
	if u != nil {
		u.CheckShape(b)
	}
	o := NewOptions(opts...)

	if p.Rep == lattice.GramRep {
		_, err := reduceWrapped(b, u, p, p.UltraCtt(), nil, nil, o)
		return err
	}

	mbits := b.Matrix.MaxBits()
	if mbits <= newSize {
		_, err := reduceWrapped(b, u, p, p.UltraCtt(), nil, nil, o)
		return err
	}

	for {
		shift := uint(mbits - newSize)
		trunc := &lattice.Basis{Matrix: bigmat.ShiftRight(b.Matrix, shift)}
		uTrunc := lattice.NewTransform(b.Rows)

		o.Logger.Debug("lll: ultra-LLL truncation pass", "mbits", mbits, "shift", shift)
		if _, err := reduceWrapped(trunc, uTrunc, p, p.UltraCtt(), nil, nil, o); err != nil {
			return err
		}

		newB := uTrunc.Apply(b)
		b.Matrix.Data = newB.Matrix.Data
		b.Matrix.Rows, b.Matrix.Cols, b.Matrix.Stride = newB.Matrix.Rows, newB.Matrix.Cols, newB.Matrix.Stride
		if u != nil {
			newU := uTrunc.Apply(&lattice.Basis{Matrix: u.Matrix})
			u.Matrix.Data = newU.Matrix.Data
			u.Matrix.Rows, u.Matrix.Cols, u.Matrix.Stride = newU.Matrix.Rows, newU.Matrix.Cols, newU.Matrix.Stride
		}

		newMbits := b.Matrix.MaxBits()
		if newMbits <= mbits-newSize/4 && !uTrunc.Matrix.IsIdentity() {
			mbits = newMbits
			if mbits <= newSize {
				break
			}
			continue
		}
		break
	}

	_, err := reduceWrapped(b, u, p, p.UltraCtt(), nil, nil, o)
	return err
}
