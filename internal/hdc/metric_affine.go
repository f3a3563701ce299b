package hdc

import "fmt"

// MetricAffine represents each vector as geometry bytes (component values
// 0-255). Bind is modular addition per component, Unbind is modular
// subtraction (the exact inverse of addition), Bundle is the component-wise
// mean, and Similarity is 1 minus normalized L1 distance. Baseline
// similarity between independently random vectors is ~0.5.
type MetricAffine struct{}

func NewMetricAffine() *MetricAffine { return &MetricAffine{} }

func (s *MetricAffine) ID() string { return "metric-affine" }

func (s *MetricAffine) CreateZero(geometry int) Vector {
	return Vector{Geometry: geometry, Bytes: make([]byte, geometry)}
}

func (s *MetricAffine) CreateRandom(geometry int, seed int64) Vector {
	return Vector{Geometry: geometry, Bytes: rngBytes(seed, geometry)}
}

func (s *MetricAffine) CreateFromName(name string, geometry int, theoryID string) Vector {
	return s.CreateRandom(geometry, seedFromName(name, theoryID))
}

func (s *MetricAffine) Bind(a, b Vector) Vector {
	out := make([]byte, len(a.Bytes))
	for i := range out {
		out[i] = a.Bytes[i] + b.Bytes[i]
	}
	return Vector{Geometry: a.Geometry, Bytes: out}
}

func (s *MetricAffine) Unbind(c, a Vector) Vector {
	out := make([]byte, len(c.Bytes))
	for i := range out {
		out[i] = c.Bytes[i] - a.Bytes[i]
	}
	return Vector{Geometry: c.Geometry, Bytes: out}
}

func (s *MetricAffine) Bundle(vs []Vector, tieBreak func([]Vector) Vector) Vector {
	if len(vs) == 0 {
		return Vector{}
	}
	geometry := vs[0].Geometry
	out := make([]byte, geometry)
	for i := 0; i < geometry; i++ {
		sum := 0
		for _, v := range vs {
			sum += int(v.Bytes[i])
		}
		out[i] = byte((sum + len(vs)/2) / len(vs))
	}
	return Vector{Geometry: geometry, Bytes: out}
}

func (s *MetricAffine) Similarity(a, b Vector) float64 {
	if a.Geometry == 0 {
		return 0
	}
	l1 := 0
	for i := range a.Bytes {
		d := int(a.Bytes[i]) - int(b.Bytes[i])
		if d < 0 {
			d = -d
		}
		l1 += d
	}
	maxDist := float64(a.Geometry) * 255
	return 1 - float64(l1)/maxDist
}

func (s *MetricAffine) Equals(a, b Vector) bool {
	if len(a.Bytes) != len(b.Bytes) {
		return false
	}
	for i := range a.Bytes {
		if a.Bytes[i] != b.Bytes[i] {
			return false
		}
	}
	return true
}

func (s *MetricAffine) Serialize(v Vector) []byte {
	return append([]byte(nil), v.Bytes...)
}

func (s *MetricAffine) Deserialize(data []byte, geometry int) (Vector, error) {
	if len(data) != geometry {
		return Vector{}, fmt.Errorf("hdc: metric-affine: expected %d bytes, got %d", geometry, len(data))
	}
	return Vector{Geometry: geometry, Bytes: append([]byte(nil), data...)}, nil
}

func (s *MetricAffine) Thresholds() Thresholds {
	return Thresholds{
		SimilarityThreshold: 0.65,
		StrongConfidence:    0.85,
		OrthogonalThreshold: 0.55,
		QueryMinSimilarity:  0.6,
		ProofMinConfidence:  0.7,
		UnbindMinSimilarity: 0.6,
		UnbindMaxCandidates: 8,
		CSPHeuristicWeight:  1.0,
		ValidationRequired:  true,
		FallbackToSymbolic:  true,
	}
}
