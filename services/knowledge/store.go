package knowledge

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// retrievalK is the number of chunks handed to the RAG prompt.
const retrievalK = 4

// Chunk is one stored knowledge-base fragment with its embedding.
type Chunk struct {
	Name       string    `bson:"name"`
	URL        string    `bson:"url,omitempty"`
	SourceType string    `bson:"source_type"`
	Text       string    `bson:"text"`
	Embedding  []float64 `bson:"embedding"`
}

// Store is the knowledge-base interface the orchestrator depends on.
type Store interface {
	// Add embeds and stores documents, chunking each one first.
	Add(ctx context.Context, docs []Document) (chunks int, err error)
	// Search returns up to k chunks ranked by cosine similarity to the query.
	Search(ctx context.Context, query string, k int) ([]Chunk, error)
	// Reset clears the store. Calling it on an empty store is a no-op.
	Reset(ctx context.Context) error
	// Loaded reports whether any chunks are stored.
	Loaded() bool
}

// MongoStore keeps chunks in a Mongo collection and ranks them in process.
// The corpus is small (a handful of uploaded documents), so a full scan per
// query is cheaper than maintaining an index.
type MongoStore struct {
	coll     *mongo.Collection
	embedder Embedder

	mu     sync.RWMutex
	loaded bool
}

func NewMongoStore(ctx context.Context, coll *mongo.Collection, embedder Embedder) (*MongoStore, error) {
	s := &MongoStore{coll: coll, embedder: embedder}
	count, err := coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("count chunks: %w", err)
	}
	s.loaded = count > 0
	return s, nil
}

func (s *MongoStore) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

func (s *MongoStore) Add(ctx context.Context, docs []Document) (int, error) {
	var records []any
	for _, doc := range docs {
		for _, text := range splitText(doc.Content) {
			vec, err := s.embedder.Embed(ctx, text)
			if err != nil {
				return 0, fmt.Errorf("embed chunk of %q: %w", doc.Name, err)
			}
			records = append(records, Chunk{
				Name:       doc.Name,
				URL:        doc.URL,
				SourceType: doc.SourceType,
				Text:       text,
				Embedding:  toFloat64(vec),
			})
		}
	}
	if len(records) == 0 {
		return 0, nil
	}

	if _, err := s.coll.InsertMany(ctx, records); err != nil {
		return 0, fmt.Errorf("insert chunks: %w", err)
	}

	s.mu.Lock()
	s.loaded = true
	s.mu.Unlock()
	return len(records), nil
}

func (s *MongoStore) Search(ctx context.Context, query string, k int) ([]Chunk, error) {
	if k <= 0 {
		k = retrievalK
	}
	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	cursor, err := s.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("load chunks: %w", err)
	}
	defer cursor.Close(ctx)

	var chunks []Chunk
	if err := cursor.All(ctx, &chunks); err != nil {
		return nil, fmt.Errorf("decode chunks: %w", err)
	}

	q := toFloat64(queryVec)
	sort.SliceStable(chunks, func(i, j int) bool {
		return cosine(chunks[i].Embedding, q) > cosine(chunks[j].Embedding, q)
	})
	if len(chunks) > k {
		chunks = chunks[:k]
	}
	return chunks, nil
}

func (s *MongoStore) Reset(ctx context.Context) error {
	if _, err := s.coll.DeleteMany(ctx, bson.D{}); err != nil {
		return fmt.Errorf("clear chunks: %w", err)
	}
	s.mu.Lock()
	s.loaded = false
	s.mu.Unlock()
	return nil
}

func toFloat64(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, f := range v {
		out[i] = float64(f)
	}
	return out
}

// cosine similarity; zero when either vector is empty or degenerate.
func cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
