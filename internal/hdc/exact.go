package hdc

import (
	"encoding/binary"
	"sync"
)

// Exact is the symbolic "vector" algebra used when a session wants
// canonical, collision-free symbol identity instead of an approximate
// geometric embedding. Each distinct name seen by a given Exact instance
// gets its own incrementing integer id; bind/unbind operate on ids via
// Cantor pairing, which is exactly invertible, and similarity is binary:
// 1 for identical symbols (or a symbol that is a member of a bundle), 0
// otherwise. Because identity assignment is stateful, a session using
// this strategy should construct its own Exact instance (NewExact())
// rather than rely on the single shared one the default registry carries
// for convenience — the whole point is session-local, not
// process-global, symbol identity.
type Exact struct {
	mu      sync.Mutex
	nextID  int64
	nameIDs map[string]int64
}

func NewExact() *Exact {
	return &Exact{nameIDs: make(map[string]int64)}
}

func (s *Exact) ID() string { return "exact" }

func (s *Exact) idForName(name string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.nameIDs[name]; ok {
		return id
	}
	id := s.nextID
	s.nextID++
	s.nameIDs[name] = id
	return id
}

func (s *Exact) CreateZero(geometry int) Vector {
	return Vector{Geometry: geometry, Meta: map[string]int64{"id": 0}}
}

// CreateRandom assigns a fresh, never-reused id; "seed" only disambiguates
// repeat calls within the same process since this strategy's identity is
// not derived from a hash.
func (s *Exact) CreateRandom(geometry int, seed int64) Vector {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.mu.Unlock()
	return Vector{Geometry: geometry, Meta: map[string]int64{"id": id}}
}

func (s *Exact) CreateFromName(name string, geometry int, theoryID string) Vector {
	key := name
	if theoryID != "" {
		key = theoryID + "::" + name
	}
	return Vector{Geometry: geometry, Meta: map[string]int64{"id": s.idForName(key)}}
}

// cantorPair is the standard pairing function mapping two non-negative
// integers to one, bijectively.
func cantorPair(x, y int64) int64 {
	return (x+y)*(x+y+1)/2 + y
}

// cantorUnpair inverts cantorPair.
func cantorUnpair(z int64) (int64, int64) {
	w := int64((isqrt(8*uint64(z)+1) - 1) / 2)
	t := (w*w + w) / 2
	y := z - t
	x := w - y
	return x, y
}

func isqrt(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	x := n
	y := (x + 1) / 2
	for y < x {
		x = y
		y = (x + n/x) / 2
	}
	return x
}

func (s *Exact) Bind(a, b Vector) Vector {
	id := cantorPair(a.Meta["id"], b.Meta["id"])
	return Vector{Geometry: a.Geometry, Meta: map[string]int64{"id": id}}
}

// Unbind inverts the Cantor pairing recorded in c against a, recovering
// the other bind operand exactly.
func (s *Exact) Unbind(c, a Vector) Vector {
	x, y := cantorUnpair(c.Meta["id"])
	result := y
	if x == a.Meta["id"] {
		result = y
	} else if y == a.Meta["id"] {
		result = x
	}
	return Vector{Geometry: c.Geometry, Meta: map[string]int64{"id": result}}
}

// Bundle assigns the set a fresh id and records membership so Similarity
// can answer "is this symbol one of the bundled ones" exactly.
func (s *Exact) Bundle(vs []Vector, tieBreak func([]Vector) Vector) Vector {
	if len(vs) == 0 {
		return Vector{}
	}
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.mu.Unlock()

	members := make(map[int]int16, len(vs))
	for _, v := range vs {
		members[int(v.Meta["id"])] = 1
	}
	return Vector{
		Geometry: vs[0].Geometry,
		Meta:     map[string]int64{"id": id, "bundle": 1},
		Sparse:   members,
	}
}

func (s *Exact) Similarity(a, b Vector) float64 {
	if a.Meta["id"] == b.Meta["id"] {
		return 1
	}
	if a.Meta["bundle"] == 1 {
		if _, ok := a.Sparse[int(b.Meta["id"])]; ok {
			return 1
		}
	}
	if b.Meta["bundle"] == 1 {
		if _, ok := b.Sparse[int(a.Meta["id"])]; ok {
			return 1
		}
	}
	return 0
}

func (s *Exact) Equals(a, b Vector) bool {
	return a.Meta["id"] == b.Meta["id"]
}

func (s *Exact) Serialize(v Vector) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(v.Meta["id"]))
	return buf
}

func (s *Exact) Deserialize(data []byte, geometry int) (Vector, error) {
	var id int64
	if len(data) >= 8 {
		id = int64(binary.BigEndian.Uint64(data))
	}
	return Vector{Geometry: geometry, Meta: map[string]int64{"id": id}}, nil
}

func (s *Exact) Thresholds() Thresholds {
	return Thresholds{
		SimilarityThreshold: 1.0,
		StrongConfidence:    1.0,
		OrthogonalThreshold: 0.0,
		QueryMinSimilarity:  1.0,
		ProofMinConfidence:  1.0,
		UnbindMinSimilarity: 1.0,
		UnbindMaxCandidates: 1,
		CSPHeuristicWeight:  1.0,
		ValidationRequired:  false,
		FallbackToSymbolic:  false,
	}
}
