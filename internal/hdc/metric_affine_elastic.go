package hdc

import "fmt"

// elasticChunkSize is the number of vectors averaged into each retained
// chunk mean, rather than collapsing an entire bundle into one mean
// up-front. This keeps a bundle closer to its individual members for
// similarity purposes, at the cost of a larger bundle vector.
const elasticChunkSize = 4

// MetricAffineElastic is MetricAffine with an elastic bundle
// representation: Bundle groups its inputs into chunks of elasticChunkSize
// and retains one mean vector per chunk (concatenated in Bytes, with the
// chunk count recorded in Meta["chunks"]) instead of averaging everything
// into a single vector. Similarity between such a bundle and an atomic
// vector is the best-matching chunk's similarity — this module's chosen
// resolution for comparing a bundle against a single item: a bundle
// "contains" an atomic vector if any one of its chunks is close to it,
// not only if the whole bundle's flattened mean is.
type MetricAffineElastic struct {
	inner *MetricAffine
}

func NewMetricAffineElastic() *MetricAffineElastic {
	return &MetricAffineElastic{inner: NewMetricAffine()}
}

func (s *MetricAffineElastic) ID() string { return "metric-affine-elastic" }

func (s *MetricAffineElastic) CreateZero(geometry int) Vector {
	return s.inner.CreateZero(geometry)
}

func (s *MetricAffineElastic) CreateRandom(geometry int, seed int64) Vector {
	return s.inner.CreateRandom(geometry, seed)
}

func (s *MetricAffineElastic) CreateFromName(name string, geometry int, theoryID string) Vector {
	return s.inner.CreateFromName(name, geometry, theoryID)
}

// chunkCount reports how many chunk-means v holds; an atomic vector (no
// Meta, or Meta["chunks"] <= 1) reports 1.
func (s *MetricAffineElastic) chunkCount(v Vector) int {
	if v.Meta == nil {
		return 1
	}
	n := int(v.Meta["chunks"])
	if n < 1 {
		return 1
	}
	return n
}

// chunks splits v's Bytes into its constituent geometry-length means.
func (s *MetricAffineElastic) chunks(v Vector) [][]byte {
	n := s.chunkCount(v)
	if n <= 1 {
		return [][]byte{v.Bytes}
	}
	out := make([][]byte, 0, n)
	for i := 0; i < n; i++ {
		start := i * v.Geometry
		end := start + v.Geometry
		if end > len(v.Bytes) {
			break
		}
		out = append(out, v.Bytes[start:end])
	}
	return out
}

// Bind and Unbind operate on a flattened (chunk-averaged) representative
// when given a bundle; atomic vectors pass through unchanged.
func (s *MetricAffineElastic) flatten(v Vector) Vector {
	cs := s.chunks(v)
	if len(cs) <= 1 {
		return Vector{Geometry: v.Geometry, Bytes: v.Bytes}
	}
	out := make([]byte, v.Geometry)
	for i := 0; i < v.Geometry; i++ {
		sum := 0
		for _, c := range cs {
			sum += int(c[i])
		}
		out[i] = byte((sum + len(cs)/2) / len(cs))
	}
	return Vector{Geometry: v.Geometry, Bytes: out}
}

func (s *MetricAffineElastic) Bind(a, b Vector) Vector {
	return s.inner.Bind(s.flatten(a), s.flatten(b))
}

func (s *MetricAffineElastic) Unbind(c, a Vector) Vector {
	return s.inner.Unbind(s.flatten(c), s.flatten(a))
}

// Bundle groups vs into chunks of elasticChunkSize and retains one mean
// per chunk, rather than averaging everything into a single vector.
func (s *MetricAffineElastic) Bundle(vs []Vector, tieBreak func([]Vector) Vector) Vector {
	if len(vs) == 0 {
		return Vector{}
	}
	geometry := vs[0].Geometry
	var means [][]byte
	for i := 0; i < len(vs); i += elasticChunkSize {
		end := i + elasticChunkSize
		if end > len(vs) {
			end = len(vs)
		}
		group := vs[i:end]
		mean := s.inner.Bundle(group, tieBreak)
		means = append(means, mean.Bytes)
	}
	flat := make([]byte, 0, len(means)*geometry)
	for _, m := range means {
		flat = append(flat, m...)
	}
	return Vector{
		Geometry: geometry,
		Bytes:    flat,
		Meta:     map[string]int64{"chunks": int64(len(means))},
	}
}

// Similarity compares chunk-by-chunk when either side is a bundle and
// returns the best match, per this strategy's bundle-vs-atomic rule.
func (s *MetricAffineElastic) Similarity(a, b Vector) float64 {
	aChunks := s.chunks(a)
	bChunks := s.chunks(b)
	best := -1.0
	for _, ac := range aChunks {
		for _, bc := range bChunks {
			sim := s.inner.Similarity(
				Vector{Geometry: a.Geometry, Bytes: ac},
				Vector{Geometry: b.Geometry, Bytes: bc},
			)
			if sim > best {
				best = sim
			}
		}
	}
	if best < 0 {
		return 0
	}
	return best
}

func (s *MetricAffineElastic) Equals(a, b Vector) bool {
	if s.chunkCount(a) != s.chunkCount(b) || len(a.Bytes) != len(b.Bytes) {
		return false
	}
	for i := range a.Bytes {
		if a.Bytes[i] != b.Bytes[i] {
			return false
		}
	}
	return true
}

func (s *MetricAffineElastic) Serialize(v Vector) []byte {
	n := s.chunkCount(v)
	out := make([]byte, 4+len(v.Bytes))
	out[0] = byte(n >> 24)
	out[1] = byte(n >> 16)
	out[2] = byte(n >> 8)
	out[3] = byte(n)
	copy(out[4:], v.Bytes)
	return out
}

func (s *MetricAffineElastic) Deserialize(data []byte, geometry int) (Vector, error) {
	if len(data) < 4 {
		return Vector{}, fmt.Errorf("hdc: metric-affine-elastic: short buffer")
	}
	n := int(data[0])<<24 | int(data[1])<<16 | int(data[2])<<8 | int(data[3])
	return Vector{
		Geometry: geometry,
		Bytes:    append([]byte(nil), data[4:]...),
		Meta:     map[string]int64{"chunks": int64(n)},
	}, nil
}

func (s *MetricAffineElastic) Thresholds() Thresholds {
	t := s.inner.Thresholds()
	// Elastic bundles report a best-of-chunks similarity, which runs
	// systematically higher than the flat-mean similarity the base
	// thresholds were tuned for; the min-similarity floors move up to
	// compensate.
	t.QueryMinSimilarity += 0.05
	t.ProofMinConfidence += 0.05
	return t
}
