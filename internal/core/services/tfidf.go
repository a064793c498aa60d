package services

import (
	"math"
	"regexp"
	"strings"
)

// termPattern matches runs of two or more word characters.
var termPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// idfVocabulary maps lowercased terms to their smoothed inverse document
// frequency over a set of fragments.
type idfVocabulary map[string]float64

// fitIDF builds the vocabulary of texts with idf = ln((1+n)/(1+df)) + 1,
// where n is the number of texts and df the number of texts containing the
// term.
func fitIDF(texts []string) idfVocabulary {
	df := make(map[string]int)
	for _, text := range texts {
		seen := make(map[string]bool)
		for _, term := range termPattern.FindAllString(strings.ToLower(text), -1) {
			if !seen[term] {
				seen[term] = true
				df[term]++
			}
		}
	}

	n := float64(len(texts))
	vocab := make(idfVocabulary, len(df))
	for term, count := range df {
		vocab[term] = math.Log((1+n)/(1+float64(count))) + 1
	}
	return vocab
}

// lookup returns the idf of word as written. Words are not lowercased or
// stripped of punctuation, so "The" and "end." miss even when "the" and
// "end" are in the vocabulary.
func (v idfVocabulary) lookup(word string) (float64, bool) {
	idf, ok := v[word]
	return idf, ok
}
