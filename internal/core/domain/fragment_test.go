package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentID_Stable(t *testing.T) {
	fragments := []string{"first paragraph", "second paragraph"}

	id := DocumentID(fragments)

	assert.Len(t, id, 32)
	assert.Equal(t, id, DocumentID([]string{"first paragraph", "second paragraph"}))
}

func TestDocumentID_OrderMatters(t *testing.T) {
	a := DocumentID([]string{"a", "b"})
	b := DocumentID([]string{"b", "a"})

	assert.NotEqual(t, a, b)
}

func TestDocumentID_JoinsWithNewline(t *testing.T) {
	assert.Equal(t, DocumentID([]string{"a\nb"}), DocumentID([]string{"a", "b"}))
	assert.NotEqual(t, DocumentID([]string{"ab"}), DocumentID([]string{"a", "b"}))
}

func TestTexts(t *testing.T) {
	entries := []Entry{{Text: "x"}, {Text: "y"}}

	assert.Equal(t, []string{"x", "y"}, Texts(entries))
	assert.Empty(t, Texts(nil))
}
