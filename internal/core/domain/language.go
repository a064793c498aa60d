package domain

import "strings"

// unsegmentedLanguages are written without whitespace between words, or
// with scripts where whitespace splitting does not yield useful words.
var unsegmentedLanguages = map[string]bool{
	"zh": true, "chinese": true,
	"ja": true, "japanese": true,
	"ko": true, "korean": true,
	"hi": true, "hindi": true,
	"ar": true, "arabic": true,
	"fa": true, "persian": true, "farsi": true,
}

// UsesWeightedCentroid reports whether summaries for lang should rank
// fragments against the SIF-weighted centroid. lang may be an ISO 639-1 code,
// optionally with a region suffix ("zh-CN"), or an English language name.
func UsesWeightedCentroid(lang string) bool {
	key := strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(key, "-_"); i > 0 {
		key = key[:i]
	}
	return !unsegmentedLanguages[key]
}
