// Package bigmat provides the exact arbitrary-precision integer matrix
// primitives that the LLL driver treats as its "bignum collaborator"
// (row dot products, scaled row combinations, bit-length probes, and
// mantissa/exponent normalization). It follows the Rows/Cols/Stride/Data
// storage convention used throughout gonum's blas64.General.
package bigmat

import "math/big"

// Matrix is a row-major r×c matrix of exact integers.
type Matrix struct {
	Rows, Cols int
	Stride     int
	Data       []*big.Int
}

// NewMatrix allocates an r×c matrix with every entry set to zero.
func NewMatrix(rows, cols int) *Matrix {
	data := make([]*big.Int, rows*cols)
	for i := range data {
		data[i] = new(big.Int)
	}
	return &Matrix{Rows: rows, Cols: cols, Stride: cols, Data: data}
}

// At returns the (i, j) entry.
func (m *Matrix) At(i, j int) *big.Int {
	return m.Data[i*m.Stride+j]
}

// Set replaces the (i, j) entry with v (a copy is taken).
func (m *Matrix) Set(i, j int, v *big.Int) {
	m.Data[i*m.Stride+j] = new(big.Int).Set(v)
}

// Row returns the backing slice for row i. Mutating it mutates m.
func (m *Matrix) Row(i int) []*big.Int {
	return m.Data[i*m.Stride : i*m.Stride+m.Cols]
}

// SwapRows exchanges rows i and j in place.
func (m *Matrix) SwapRows(i, j int) {
	if i == j {
		return
	}
	ri, rj := m.Row(i), m.Row(j)
	for k := range ri {
		ri[k], rj[k] = rj[k], ri[k]
	}
}

// MoveRow removes the row at index src and reinserts it at index dst,
// shifting the rows in between by one. This realizes the κ-to-κ′ swap
// described in spec.md §4.2 step 4 without requiring pointer-indirected
// row storage (see DESIGN.md's note on the pointer-swap tradeoff).
func (m *Matrix) MoveRow(src, dst int) {
	if src == dst {
		return
	}
	moved := append([]*big.Int(nil), m.Row(src)...)
	if dst < src {
		for i := src; i > dst; i-- {
			copy(m.Row(i), m.Row(i-1))
		}
	} else {
		for i := src; i < dst; i++ {
			copy(m.Row(i), m.Row(i+1))
		}
	}
	copy(m.Row(dst), moved)
}

// MoveRowCol is the symmetric counterpart of MoveRow, for Gram-matrix
// mode (spec.md §4.2 "Gram-matrix mode": "every time rows i,j are
// swapped, columns i,j must also be swapped"). It moves both the row
// and the column at src to dst, shifting the rows/columns in between,
// keeping a symmetric matrix symmetric.
func (m *Matrix) MoveRowCol(src, dst int) {
	if src == dst {
		return
	}
	m.MoveRow(src, dst)
	moved := make([]*big.Int, m.Rows)
	for k := 0; k < m.Rows; k++ {
		moved[k] = m.Data[k*m.Stride+src]
	}
	if dst < src {
		for i := src; i > dst; i-- {
			for k := 0; k < m.Rows; k++ {
				m.Data[k*m.Stride+i] = m.Data[k*m.Stride+i-1]
			}
		}
	} else {
		for i := src; i < dst; i++ {
			for k := 0; k < m.Rows; k++ {
				m.Data[k*m.Stride+i] = m.Data[k*m.Stride+i+1]
			}
		}
	}
	for k := 0; k < m.Rows; k++ {
		m.Data[k*m.Stride+dst] = moved[k]
	}
}

// Dot computes the exact integer dot product of rows i and j up to
// (and including) column n-1.
func Dot(row []*big.Int, other []*big.Int, n int) *big.Int {
	sum := new(big.Int)
	t := new(big.Int)
	for k := 0; k < n; k++ {
		t.Mul(row[k], other[k])
		sum.Add(sum, t)
	}
	return sum
}

// SubmulRow performs row -= c * sub (the plain integer scaled-submul
// from spec.md §6), over the first n columns.
func SubmulRow(row, sub []*big.Int, c *big.Int, n int) {
	t := new(big.Int)
	for k := 0; k < n; k++ {
		t.Mul(c, sub[k])
		row[k].Sub(row[k], t)
	}
}

// SubmulRowShifted performs row -= (mantissa << exp) * sub, the "split
// into mantissa+exponent" branch of spec.md §4.1 step B used when the
// rounded multiplier does not fit in a machine word.
func SubmulRowShifted(row, sub []*big.Int, mantissa *big.Int, exp uint, n int) {
	c := new(big.Int).Lsh(mantissa, exp)
	SubmulRow(row, sub, c, n)
}

// AddScaledRow performs row += c * add over the first n columns, the
// mirror of SubmulRow used by Babai's X = -1 rounding case (on B and,
// when tracked, on the transform accumulator U).
func AddScaledRow(row, add []*big.Int, c *big.Int, n int) {
	t := new(big.Int)
	for k := 0; k < n; k++ {
		t.Mul(c, add[k])
		row[k].Add(row[k], t)
	}
}

// SubmulCol performs column dst -= c * column src (over all m.Rows),
// the column half of the Gram-matrix congruence update: a basis row
// operation b_κ ← b_κ − c·b_j changes every Gram entry <b_k, b_κ>, not
// just row κ's own entries, so GramRep callers apply SubmulRow to row
// dst first (updating <b_dst, ·>) and then SubmulCol to column dst
// (updating <·, b_dst> using the row-op's already-updated column-src
// entry at row dst, which yields the correct <b_dst, b_dst> term — see
// DESIGN.md for the derivation).
func (m *Matrix) SubmulCol(dst, src int, c *big.Int) {
	t := new(big.Int)
	for k := 0; k < m.Rows; k++ {
		t.Mul(c, m.At(k, src))
		m.Data[k*m.Stride+dst].Sub(m.Data[k*m.Stride+dst], t)
	}
}

// AddScaledCol is the mirror of SubmulCol for the +1 rounding case.
func (m *Matrix) AddScaledCol(dst, src int, c *big.Int) {
	t := new(big.Int)
	for k := 0; k < m.Rows; k++ {
		t.Mul(c, m.At(k, src))
		m.Data[k*m.Stride+dst].Add(m.Data[k*m.Stride+dst], t)
	}
}

// MaxBits returns the largest bit-length of any entry's absolute value.
func (m *Matrix) MaxBits() int {
	max := 0
	for _, v := range m.Data {
		if b := v.BitLen(); b > max {
			max = b
		}
	}
	return max
}

// TrailingZeroShift implements the fmpz_lll_shift optimization of
// spec.md §9: the largest run of trailing all-zero columns shared by
// every row, used to clamp Babai's working column count.
func (m *Matrix) TrailingZeroShift() int {
	if m.Rows == 0 || m.Cols == 0 {
		return 0
	}
	shift := 0
	for col := m.Cols - 1; col >= 0; col-- {
		allZero := true
		for i := 0; i < m.Rows; i++ {
			if m.At(i, col).Sign() != 0 {
				allZero = false
				break
			}
		}
		if !allZero {
			break
		}
		shift++
	}
	return shift
}

// ShiftRight divides every entry of m by 2^k (arithmetic shift, rounds
// toward negative infinity like Go's big.Int.Rsh on two's-complement
// semantics), returning a new matrix. Used by ultra-LLL to build the
// truncated shadow of a high-bit-length basis.
func ShiftRight(m *Matrix, k uint) *Matrix {
	out := NewMatrix(m.Rows, m.Cols)
	for i := 0; i < m.Rows; i++ {
		for j := 0; j < m.Cols; j++ {
			out.Set(i, j, new(big.Int).Rsh(m.At(i, j), k))
		}
	}
	return out
}

// Identity returns the n×n identity matrix, used to initialize a
// transform accumulator U.
func Identity(n int) *Matrix {
	m := NewMatrix(n, n)
	one := big.NewInt(1)
	for i := 0; i < n; i++ {
		m.Set(i, i, one)
	}
	return m
}

// IsIdentity reports whether m equals the identity matrix.
func (m *Matrix) IsIdentity() bool {
	if m.Rows != m.Cols {
		return false
	}
	for i := 0; i < m.Rows; i++ {
		for j := 0; j < m.Cols; j++ {
			want := int64(0)
			if i == j {
				want = 1
			}
			if m.At(i, j).Cmp(big.NewInt(want)) != 0 {
				return false
			}
		}
	}
	return true
}

// Equal reports whether m and other have identical entries.
func (m *Matrix) Equal(other *Matrix) bool {
	if m.Rows != other.Rows || m.Cols != other.Cols {
		return false
	}
	for i := 0; i < m.Rows; i++ {
		for j := 0; j < m.Cols; j++ {
			if m.At(i, j).Cmp(other.At(i, j)) != 0 {
				return false
			}
		}
	}
	return true
}

// Clone returns a deep copy of m.
func (m *Matrix) Clone() *Matrix {
	out := &Matrix{Rows: m.Rows, Cols: m.Cols, Stride: m.Stride, Data: make([]*big.Int, len(m.Data))}
	for i, v := range m.Data {
		out.Data[i] = new(big.Int).Set(v)
	}
	return out
}

// Mul computes the matrix product m*other.
func Mul(m, other *Matrix) *Matrix {
	out := NewMatrix(m.Rows, other.Cols)
	t := new(big.Int)
	for i := 0; i < m.Rows; i++ {
		for j := 0; j < other.Cols; j++ {
			acc := out.At(i, j)
			for k := 0; k < m.Cols; k++ {
				t.Mul(m.At(i, k), other.At(k, j))
				acc.Add(acc, t)
			}
		}
	}
	return out
}

// Gram computes B * B^T, the Gram matrix of the rows of b.
func Gram(b *Matrix) *Matrix {
	out := NewMatrix(b.Rows, b.Rows)
	for i := 0; i < b.Rows; i++ {
		for j := 0; j <= i; j++ {
			v := Dot(b.Row(i), b.Row(j), b.Cols)
			out.Set(i, j, v)
			out.Set(j, i, v)
		}
	}
	return out
}

// RowToFloatVec normalizes an exact integer row into a float64
// approximation scaled so every entry has magnitude below 1, returning
// the shared exponent such that row[k] ≈ dst[k] * 2^exp. This is the
// bignum-to-double counterpart of the "get_d_vec_2exp" double-vector
// primitive (spec.md §6); it is what rebuilds appB after Babai rewrites
// a row (spec.md §4.1 step B's post-pass bookkeeping).
func RowToFloatVec(dst []float64, row []*big.Int, n int) int {
	maxBits := 0
	for k := 0; k < n; k++ {
		if b := row[k].BitLen(); b > maxBits {
			maxBits = b
		}
	}
	if maxBits == 0 {
		for k := 0; k < n; k++ {
			dst[k] = 0
		}
		return 0
	}
	scale := new(big.Float).SetMantExp(big.NewFloat(1), -maxBits)
	f := new(big.Float).SetPrec(64)
	for k := 0; k < n; k++ {
		f.SetInt(row[k])
		f.Mul(f, scale)
		dst[k], _ = f.Float64()
	}
	return maxBits
}

// MantExp splits v into a normalized mantissa in [0.5, 1) times 2^exp,
// the conversion the spec's bignum collaborator exposes at its interface
// (§6: "conversion to (mantissa_double, exponent_int) normalized form").
func MantExp(v *big.Int) (mantissa float64, exp int) {
	if v.Sign() == 0 {
		return 0, 0
	}
	f := new(big.Float).SetPrec(64).SetInt(v)
	var mant big.Float
	e := f.MantExp(&mant)
	md, _ := mant.Float64()
	return md, e
}
