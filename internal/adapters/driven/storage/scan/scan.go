// Package scan ranks index entries against a query vector by exhaustive
// cosine similarity. It backs the file-pair and memory index stores, which keep
// every vector of a document in RAM.
package scan

import (
	"fmt"
	"sort"

	"github.com/hupe1980/vecgo/metric"

	"github.com/SkywalkerDarren/chatWeb/internal/core/domain"
)

// Hit is one scored entry. Row is the entry's row id.
type Hit struct {
	Row   int
	Score float32
}

// Search scores every entry against query and returns the best limit hits
// by descending cosine similarity. Equal scores keep row order. A non-positive
// limit returns no hits.
func Search(entries []domain.Entry, query []float32, limit int) ([]Hit, error) {
	if limit <= 0 || len(entries) == 0 {
		return nil, nil
	}

	hits := make([]Hit, len(entries))
	for i, e := range entries {
		if len(e.Vector) != len(query) {
			return nil, fmt.Errorf("%w: row %d has %d dimensions, query has %d",
				domain.ErrEmbeddingMismatch, i, len(e.Vector), len(query))
		}
		score, err := metric.CosineSimilarity(e.Vector, query)
		if err != nil {
			return nil, fmt.Errorf("score row %d: %w", i, err)
		}
		hits[i] = Hit{Row: i, Score: score}
	}

	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].Score > hits[b].Score
	})

	if limit < len(hits) {
		hits = hits[:limit]
	}
	return hits, nil
}

// Texts is Search followed by a lookup of each hit's text.
func Texts(entries []domain.Entry, query []float32, limit int) ([]string, error) {
	hits, err := Search(entries, query, limit)
	if err != nil {
		return nil, err
	}
	texts := make([]string, len(hits))
	for i, h := range hits {
		texts[i] = entries[h.Row].Text
	}
	return texts, nil
}
