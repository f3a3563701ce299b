// Package holographic implements the vector-similarity retrieval layer
// backing HOLOGRAPHIC-priority reasoning (§4.7.3: "a vector-based
// retrieval pre-check runs before symbolic proof search"). It indexes
// each concept's HDC vector in a chromem-go collection so a goal can be
// pre-screened by nearest-neighbour similarity before the reasoner pays
// for a full backward-chaining search.
package holographic

import (
	"context"
	"fmt"

	chromem "github.com/philippgille/chromem-go"

	"hdcreason/internal/hdc"
	"hdcreason/internal/types"
)

// Match is one nearest-neighbour hit: the indexed concept label and its
// cosine similarity to the query vector.
type Match struct {
	Label      types.Symbol
	Similarity float32
}

// Config configures an Index.
type Config struct {
	// PersistPath, when set, persists the collection to disk across
	// process restarts (empty = in-memory only, mirroring the teacher's
	// vector store).
	PersistPath string
	Collection  string
}

// Index is a concept-vector similarity index: HDC vectors go in,
// approximate nearest-neighbour matches come out. It holds no reference
// to the HDC strategy that produced a vector — conversion to chromem's
// float32 embedding space happens once, at IndexConcept time.
type Index struct {
	db         *chromem.DB
	collection string
}

// NewIndex opens (or creates) the configured chromem-go collection.
func NewIndex(cfg Config) (*Index, error) {
	var db *chromem.DB
	var err error
	if cfg.PersistPath != "" {
		db, err = chromem.NewPersistentDB(cfg.PersistPath, false)
	} else {
		db = chromem.NewDB()
	}
	if err != nil {
		return nil, fmt.Errorf("holographic: open vector db: %w", err)
	}
	name := cfg.Collection
	if name == "" {
		name = "concepts"
	}
	return &Index{db: db, collection: name}, nil
}

func (idx *Index) collectionHandle() (*chromem.Collection, error) {
	c := idx.db.GetCollection(idx.collection, nil)
	if c != nil {
		return c, nil
	}
	return idx.db.CreateCollection(idx.collection, nil, nil)
}

// IndexConcept stores label's vector in the collection, replacing any
// prior entry for the same label (chromem-go's AddDocument upserts by
// ID, so re-indexing after a concept's vector changes is a plain write).
func (idx *Index) IndexConcept(ctx context.Context, label types.Symbol, vec hdc.Vector) error {
	c, err := idx.collectionHandle()
	if err != nil {
		return err
	}
	return c.AddDocument(ctx, chromem.Document{
		ID:        string(label),
		Content:   string(label),
		Embedding: vectorToFloat32(vec),
	})
}

// Similar returns up to limit concepts whose indexed vector is most
// similar to query, per the collection's cosine metric. An error from an
// empty or too-small collection is treated as "no matches yet" rather
// than propagated, since a cold index is a normal startup state.
func (idx *Index) Similar(ctx context.Context, query hdc.Vector, limit int) ([]Match, error) {
	if limit <= 0 {
		limit = 10
	}
	c, err := idx.collectionHandle()
	if err != nil {
		return nil, err
	}
	results, err := c.QueryEmbedding(ctx, vectorToFloat32(query), limit, nil, nil)
	if err != nil {
		return nil, nil
	}
	matches := make([]Match, len(results))
	for i, r := range results {
		matches[i] = Match{Label: types.Symbol(r.ID), Similarity: r.Similarity}
	}
	return matches, nil
}

// Close is a no-op: chromem-go auto-persists on write when configured
// with a PersistPath, matching the teacher's vector store.
func (idx *Index) Close() error { return nil }

// vectorToFloat32 renders an hdc.Vector into the dense float32 embedding
// chromem-go expects, independent of which strategy produced it:
// byte/bit-packed vectors unpack to a bipolar +1/-1 per bit, sparse
// vectors expand their nonzero positions into a dense Geometry-length
// array, and an empty vector yields an all-zero Geometry-length embedding.
func vectorToFloat32(v hdc.Vector) []float32 {
	if len(v.Bytes) > 0 {
		out := make([]float32, v.Geometry)
		for i := 0; i < v.Geometry; i++ {
			byteIdx, bitIdx := i/8, i%8
			if byteIdx >= len(v.Bytes) {
				break
			}
			if v.Bytes[byteIdx]&(1<<uint(bitIdx)) != 0 {
				out[i] = 1
			} else {
				out[i] = -1
			}
		}
		return out
	}
	if len(v.Sparse) > 0 {
		out := make([]float32, v.Geometry)
		for pos, val := range v.Sparse {
			if pos >= 0 && pos < v.Geometry {
				out[pos] = float32(val)
			}
		}
		return out
	}
	return make([]float32, v.Geometry)
}
