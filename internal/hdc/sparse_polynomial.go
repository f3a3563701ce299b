package hdc

import (
	"math/rand"
)

// sparseModulus is the GF(p) prime the polynomial ring's coefficients are
// reduced into. 257 is the smallest prime exceeding one byte's range,
// keeping coefficients cheap to reduce while avoiding collisions that a
// power-of-two modulus would introduce.
const sparseModulus = 257

// sparseDensity is the fraction of geometry positions CreateFromName/
// CreateRandom populate with a nonzero coefficient.
const sparseDensity = 0.1

// SparsePolynomial represents each vector as a sparse coefficient map over
// GF(sparseModulus): Bind is elementwise modular addition across the union
// of both operands' nonzero positions, Unbind is the exact inverse
// (elementwise modular subtraction), and Similarity is Jaccard overlap of
// the nonzero-position sets rather than a magnitude-weighted distance —
// this strategy treats "which positions are active" as the signal, not
// how active they are.
type SparsePolynomial struct{}

func NewSparsePolynomial() *SparsePolynomial { return &SparsePolynomial{} }

func (s *SparsePolynomial) ID() string { return "sparse-polynomial" }

func (s *SparsePolynomial) CreateZero(geometry int) Vector {
	return Vector{Geometry: geometry, Sparse: make(map[int]int16)}
}

func (s *SparsePolynomial) CreateRandom(geometry int, seed int64) Vector {
	rng := rand.New(rand.NewSource(seed))
	sp := make(map[int]int16)
	count := int(float64(geometry) * sparseDensity)
	if count < 1 {
		count = 1
	}
	for i := 0; i < count; i++ {
		pos := rng.Intn(geometry)
		coeff := int16(1 + rng.Intn(sparseModulus-1))
		sp[pos] = coeff
	}
	return Vector{Geometry: geometry, Sparse: sp}
}

func (s *SparsePolynomial) CreateFromName(name string, geometry int, theoryID string) Vector {
	return s.CreateRandom(geometry, seedFromName(name, theoryID))
}

// Bind computes elementwise modular addition over the union of a and b's
// nonzero positions: out[k] = (a[k] + b[k]) mod sparseModulus, treating an
// absent position as coefficient 0.
func (s *SparsePolynomial) Bind(a, b Vector) Vector {
	out := make(map[int]int16, len(a.Sparse)+len(b.Sparse))
	for pos, av := range a.Sparse {
		out[pos] = int16((int32(av) + int32(b.Sparse[pos])) % sparseModulus)
	}
	for pos, bv := range b.Sparse {
		if _, seen := a.Sparse[pos]; seen {
			continue
		}
		out[pos] = int16(int32(bv) % sparseModulus)
	}
	for k, v := range out {
		if v == 0 {
			delete(out, k)
		}
	}
	return Vector{Geometry: a.Geometry, Sparse: out}
}

// Unbind is the exact inverse of Bind: out[k] = (c[k] - a[k]) mod
// sparseModulus over the union of positions.
func (s *SparsePolynomial) Unbind(c, a Vector) Vector {
	out := make(map[int]int16, len(c.Sparse)+len(a.Sparse))
	for pos, cv := range c.Sparse {
		diff := (int32(cv) - int32(a.Sparse[pos])) % sparseModulus
		if diff < 0 {
			diff += sparseModulus
		}
		out[pos] = int16(diff)
	}
	for pos, av := range a.Sparse {
		if _, seen := c.Sparse[pos]; seen {
			continue
		}
		diff := (-int32(av)) % sparseModulus
		if diff < 0 {
			diff += sparseModulus
		}
		out[pos] = int16(diff)
	}
	for k, v := range out {
		if v == 0 {
			delete(out, k)
		}
	}
	return Vector{Geometry: c.Geometry, Sparse: out}
}

// Bundle sums coefficients position-wise across vs, reduced mod
// sparseModulus; tieBreak is unused (sum-based bundling has no ties).
func (s *SparsePolynomial) Bundle(vs []Vector, tieBreak func([]Vector) Vector) Vector {
	if len(vs) == 0 {
		return Vector{}
	}
	geometry := vs[0].Geometry
	out := make(map[int]int16)
	for _, v := range vs {
		for pos, coeff := range v.Sparse {
			cur := int32(out[pos])
			out[pos] = int16((cur + int32(coeff)) % sparseModulus)
		}
	}
	for k, v := range out {
		if v == 0 {
			delete(out, k)
		}
	}
	return Vector{Geometry: geometry, Sparse: out}
}

// Similarity is the Jaccard index of the two vectors' nonzero positions.
func (s *SparsePolynomial) Similarity(a, b Vector) float64 {
	if len(a.Sparse) == 0 && len(b.Sparse) == 0 {
		return 1
	}
	inter := 0
	union := make(map[int]struct{}, len(a.Sparse)+len(b.Sparse))
	for pos := range a.Sparse {
		union[pos] = struct{}{}
		if _, ok := b.Sparse[pos]; ok {
			inter++
		}
	}
	for pos := range b.Sparse {
		union[pos] = struct{}{}
	}
	if len(union) == 0 {
		return 1
	}
	return float64(inter) / float64(len(union))
}

func (s *SparsePolynomial) Equals(a, b Vector) bool {
	if len(a.Sparse) != len(b.Sparse) {
		return false
	}
	for pos, coeff := range a.Sparse {
		if b.Sparse[pos] != coeff {
			return false
		}
	}
	return true
}

func (s *SparsePolynomial) Serialize(v Vector) []byte {
	return encodeSparse(v.Sparse)
}

func (s *SparsePolynomial) Deserialize(data []byte, geometry int) (Vector, error) {
	return Vector{Geometry: geometry, Sparse: decodeSparse(data)}, nil
}

func (s *SparsePolynomial) Thresholds() Thresholds {
	return Thresholds{
		SimilarityThreshold: 0.2,
		StrongConfidence:    0.5,
		OrthogonalThreshold: 0.05,
		QueryMinSimilarity:  0.15,
		ProofMinConfidence:  0.3,
		UnbindMinSimilarity: 0.15,
		UnbindMaxCandidates: 8,
		CSPHeuristicWeight:  0.8,
		ValidationRequired:  true,
		FallbackToSymbolic:  true,
	}
}
