package domain

import (
	"encoding/hex"
	"strings"

	"github.com/zeebo/xxh3"
)

// Entry is one fragment of document text with its embedding vector.
// Row ids are not carried here; they are assigned by the index store in
// insertion order.
type Entry struct {
	Text   string    `json:"text"`
	Vector []float32 `json:"vector"`
}

// DocumentID returns the content hash that keys the index of a document.
// It is the hex XXH3-128 digest of the newline-joined fragments, so the same
// fragments in the same order always map to the same identifier.
func DocumentID(fragments []string) string {
	sum := xxh3.HashString128(strings.Join(fragments, "\n")).Bytes()
	return hex.EncodeToString(sum[:])
}

// Texts returns the fragment texts of entries in order.
func Texts(entries []Entry) []string {
	texts := make([]string, len(entries))
	for i := range entries {
		texts[i] = entries[i].Text
	}
	return texts
}
