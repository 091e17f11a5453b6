package retrieval

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// StoredPassage is the internal representation persisted by
// InMemoryRetriever. It mirrors the Result shape (content, metadata) without
// a distance, which is computed per query.
type StoredPassage struct {
	Content  string
	Metadata map[string]any
}

// InMemoryRetriever is a naive process-local Retriever keyed by collection
// identifier. Scoring is token overlap between the normalized query and the
// passage text, reported as a pseudo-distance (0 = every query token found).
//
// Concurrency: protected by RWMutex. Suitable for tests and local
// development; swap for the chroma client for real retrieval.
type InMemoryRetriever struct {
	mu          sync.RWMutex
	collections map[string][]StoredPassage
}

// NewInMemoryRetriever creates an empty in-memory retriever.
func NewInMemoryRetriever() *InMemoryRetriever {
	return &InMemoryRetriever{collections: make(map[string][]StoredPassage)}
}

// Add appends a passage to a collection, creating the collection on first use.
func (r *InMemoryRetriever) Add(collection, content string, metadata map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.collections[collection] = append(r.collections[collection], StoredPassage{Content: content, Metadata: metadata})
}

// Query implements Retriever. Passages with no query token overlap are
// excluded; ties keep insertion order.
func (r *InMemoryRetriever) Query(ctx context.Context, collection, query string, topK int) ([]Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	tokens := tokenize(query)
	results := make([]Result, 0, topK)
	for _, p := range r.collections[collection] {
		dist, ok := overlapDistance(p.Content, tokens)
		if !ok {
			continue
		}
		d := dist
		md := make(map[string]any, len(p.Metadata))
		for k, v := range p.Metadata {
			md[k] = v
		}
		results = append(results, Result{Content: p.Content, Metadata: md, Distance: &d})
	}
	sort.SliceStable(results, func(i, j int) bool { return *results[i].Distance < *results[j].Distance })
	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

func tokenize(s string) []string {
	return strings.Fields(strings.ToLower(s))
}

// overlapDistance returns 1 - (matched tokens / query tokens). An empty
// query matches everything at full distance.
func overlapDistance(content string, tokens []string) (float64, bool) {
	if len(tokens) == 0 {
		return 1, true
	}
	lowered := strings.ToLower(content)
	matched := 0
	for _, t := range tokens {
		if strings.Contains(lowered, t) {
			matched++
		}
	}
	if matched == 0 {
		return 0, false
	}
	return 1 - float64(matched)/float64(len(tokens)), true
}
