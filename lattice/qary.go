package lattice

import (
	"math"
	"math/big"

	"golang.org/x/exp/rand"
)

// QAryBasis builds the (m+n)×(m+n) basis of a random q-ary lattice:
//
//	[[q*I_m, A], [0, I_n]]
//
// where A is a random m×n matrix with entries in [0, q). This is the
// classic SIS/LWE-style lattice used by knapsack and NTRU-adjacent test
// fixtures (spec.md §8 scenarios (b) and (d)), grounded on
// hkanpak21-Lattice-Lab's genBasis. rng drives the random A block;
// pass a seeded golang.org/x/exp/rand.Rand for reproducible fixtures.
func QAryBasis(rng *rand.Rand, n, m int, q *big.Int) *Basis {
	size := m + n
	b := NewBasis(size, size)

	for i := 0; i < m; i++ {
		b.Set(i, i, q)
	}
	qu := q.Uint64()
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			v := big.NewInt(0).SetUint64(rng.Uint64() % qu)
			b.Set(i, m+j, v)
		}
	}
	one := big.NewInt(1)
	for i := 0; i < n; i++ {
		b.Set(m+i, m+i, one)
	}
	return b
}

// RandomBasis builds a rank×rank basis with entries drawn uniformly from
// [-bound, bound], grounded on hkanpak21-Lattice-Lab's genRandomBasis
// (used there for the Geometric Series Assumption experiment, spec.md
// §8 scenario around basis profiles).
func RandomBasis(rng *rand.Rand, rank int, bound int64) *Basis {
	b := NewBasis(rank, rank)
	span := uint64(2*bound + 1)
	for i := 0; i < rank; i++ {
		for j := 0; j < rank; j++ {
			v := int64(rng.Uint64()%span) - bound
			b.Set(i, j, big.NewInt(v))
		}
	}
	return b
}

// NTRULikeBasis builds a small 2k×2k circulant-structured q-ary basis
// parameterized the way NTRU lattices are: q modulus, a random "public
// key" row h of bit-length bits, rotated cyclically to fill the A block.
// This realizes spec.md §8 scenario (b)'s "NTRU-like 4×4 input with
// q=11, bits=5" family for arbitrary k.
func NTRULikeBasis(rng *rand.Rand, k int, q int64, bits int) *Basis {
	bound := uint64(1) << uint(bits)
	h := make([]*big.Int, k)
	for i := range h {
		h[i] = big.NewInt(int64(rng.Uint64() % bound))
	}
	qBig := big.NewInt(q)
	size := 2 * k
	b := NewBasis(size, size)
	for i := 0; i < k; i++ {
		b.Set(i, i, qBig)
	}
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			b.Set(i, k+j, h[(j-i+k)%k])
		}
	}
	one := big.NewInt(1)
	for i := 0; i < k; i++ {
		b.Set(k+i, k+i, one)
	}
	return b
}

// AjtaiBasis builds the n×n Ajtai-style worst-case-to-average-case basis
// parameterized by α ∈ (0, 1]: a random q-ary basis with modulus
// q = n^(1/alpha) rounded down, and at least 3, used for
// spec.md §8 scenario (e).
func AjtaiBasis(rng *rand.Rand, n int, alpha float64) *Basis {
	q := ajtaiModulus(n, alpha)
	half := n / 2
	return QAryBasis(rng, n-half, half, q)
}

func ajtaiModulus(n int, alpha float64) *big.Int {
	// q ≈ n^(1/alpha).
	q := int64(math.Pow(float64(n), 1.0/alpha))
	if q < 3 {
		q = 3
	}
	return big.NewInt(q)
}
