// Package filepair implements driven.IndexStore as one pair of files per
// document under a directory:
//
//   - <id>.bin holds the vectors of a flat cosine-similarity index
//   - <id>.csv holds the fragment texts as "id,text" rows
//
// # Binary layout
//
// All integers are little-endian.
//
//	magic    [4]byte  "CWFI"
//	version  uint32   1
//	dims     uint32
//	count    uint64
//	count × (row int64, dims × float32)
//
// Row ids are dense and start at zero. A document counts as indexed only
// when both files exist; a pair whose files disagree is reported as
// domain.ErrIndexInconsistent.
//
// Every mutation rewrites both files through a temp file and rename.
// Opened indexes are kept in an LRU cache keyed by document id.
package filepair
