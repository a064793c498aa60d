package services

import (
	"math"
	"sort"
	"strings"

	"github.com/hupe1980/vecgo/metric"

	"github.com/SkywalkerDarren/chatWeb/internal/core/domain"
	"github.com/SkywalkerDarren/chatWeb/internal/logger"
)

// sifAlpha is the smoothing constant of the SIF word weight a/(a+idf).
const sifAlpha = 0.001

// RankedFragment is a fragment scored against the document centroid.
type RankedFragment struct {
	// Position is the fragment's row id order in the document.
	Position int
	Text     string
	Score    float64
}

// SummaryRanker selects the fragments closest to a document's centroid.
type SummaryRanker struct {
	budgeter *Budgeter
}

// NewSummaryRanker creates a ranker that trims its output to the generation
// budget of budgeter.
func NewSummaryRanker(budgeter *Budgeter) *SummaryRanker {
	return &SummaryRanker{budgeter: budgeter}
}

// Candidates returns up to numCandidates fragments, most central first,
// truncated to the generation budget. A negative numCandidates selects none.
func (r *SummaryRanker) Candidates(entries []domain.Entry, numCandidates int, weighted bool) []RankedFragment {
	ranked := Rank(entries, weighted)
	numCandidates = max(numCandidates, 0)
	if numCandidates < len(ranked) {
		ranked = ranked[:numCandidates]
	}

	cost := func(f RankedFragment) int { return r.budgeter.Count(f.Text) }
	return Truncate(ranked, cost, r.budgeter.GenerationBudget())
}

// Rank scores every entry by cosine similarity to the centroid and sorts
// them in descending order. Equal scores keep their original order.
func Rank(entries []domain.Entry, weighted bool) []RankedFragment {
	if len(entries) == 0 {
		return nil
	}

	var centroid []float32
	if weighted {
		centroid = WeightedCentroid(entries)
	} else {
		centroid = Centroid(entries)
	}

	ranked := make([]RankedFragment, len(entries))
	for i := range entries {
		ranked[i] = RankedFragment{
			Position: i,
			Text:     entries[i].Text,
			Score:    Cosine(entries[i].Vector, centroid),
		}
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].Score > ranked[b].Score
	})

	logger.Debug("Ranked %d fragments (weighted=%t), top score %.4f", len(ranked), weighted, ranked[0].Score)
	return ranked
}

// Centroid returns the arithmetic mean of the entry vectors.
func Centroid(entries []domain.Entry) []float32 {
	if len(entries) == 0 {
		return nil
	}
	sum := make([]float64, len(entries[0].Vector))
	for i := range entries {
		for d, x := range entries[i].Vector {
			sum[d] += float64(x)
		}
	}
	return meanOf(sum, len(entries))
}

// WeightedCentroid returns the smoothed inverse frequency centroid.
//
// Each vector is scaled by its largest component. Every whitespace-separated
// word of a fragment found in the idf vocabulary adds a/(a+idf) times that
// scaled vector to the fragment's weight vector. The centroid is the mean of
// scaled vector minus weight vector over all fragments.
func WeightedCentroid(entries []domain.Entry) []float32 {
	if len(entries) == 0 {
		return nil
	}

	texts := domain.Texts(entries)
	vocab := fitIDF(texts)

	dims := len(entries[0].Vector)
	sum := make([]float64, dims)
	scaled := make([]float64, dims)
	weights := make([]float64, dims)
	for i := range entries {
		scaleByMax(entries[i].Vector, scaled)

		for d := range weights {
			weights[d] = 0
		}
		for _, word := range strings.Fields(texts[i]) {
			idf, ok := vocab.lookup(word)
			if !ok {
				continue
			}
			w := sifAlpha / (sifAlpha + idf)
			for d := range weights {
				weights[d] += w * scaled[d]
			}
		}

		for d := range sum {
			sum[d] += scaled[d] - weights[d]
		}
	}
	return meanOf(sum, len(entries))
}

// Cosine returns the cosine similarity of a and b, or 0 if either has zero
// norm or their lengths differ.
func Cosine(a, b []float32) float64 {
	sim, err := metric.CosineSimilarity(a, b)
	if err != nil {
		return 0
	}
	return float64(sim)
}

// scaleByMax writes v divided by its largest component into dst. A vector
// whose largest component is zero is copied unscaled.
func scaleByMax(v []float32, dst []float64) {
	peak := math.Inf(-1)
	for _, x := range v {
		peak = math.Max(peak, float64(x))
	}
	if peak == 0 || math.IsInf(peak, -1) {
		peak = 1
	}
	for d, x := range v {
		dst[d] = float64(x) / peak
	}
}

func meanOf(sum []float64, n int) []float32 {
	out := make([]float32, len(sum))
	for d, x := range sum {
		out[d] = float32(x / float64(n))
	}
	return out
}
