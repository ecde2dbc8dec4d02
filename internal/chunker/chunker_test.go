package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docchat/internal/domain"
)

func TestNew_Defaults(t *testing.T) {
	s := New()
	assert.Equal(t, DefaultChunkSize, s.size)
	assert.Equal(t, DefaultChunkOverlap, s.overlap)
	assert.Equal(t, DefaultSeparator, s.separator)
}

func TestNew_OverlapClamped(t *testing.T) {
	s := New(WithChunkSize(100), WithOverlap(100))
	assert.Equal(t, 25, s.overlap)
}

func TestSplit_Empty(t *testing.T) {
	s := New()
	assert.Empty(t, s.Split(""))
}

func TestSplit_ShortTextSingleChunk(t *testing.T) {
	s := New()
	out := s.Split("hello\nworld")
	require.Len(t, out, 1)
	assert.Equal(t, "hello\nworld", out[0])
}

func TestSplit_Deterministic(t *testing.T) {
	text := strings.Repeat(strings.Repeat("w", 80)+"\n", 50)
	s := New(WithChunkSize(300), WithOverlap(60))
	first := s.Split(text)
	second := s.Split(text)
	assert.Equal(t, first, second)
}

func TestSplit_SizeAndOverlapProperty(t *testing.T) {
	// 120 lines of 90 characters, chunked at 1000/200 on newlines.
	var b strings.Builder
	for i := 0; i < 120; i++ {
		b.WriteString(strings.Repeat(string(rune('a'+i%26)), 90))
		b.WriteString("\n")
	}
	s := New(WithChunkSize(1000), WithOverlap(200), WithSeparator("\n"))
	chunks := s.Split(b.String())
	require.Greater(t, len(chunks), 1)

	for i, c := range chunks {
		assert.LessOrEqual(t, len(c), 1000, "chunk %d exceeds size", i)
	}
	for i := 1; i < len(chunks); i++ {
		prev, next := chunks[i-1], chunks[i]
		overlap := 200
		if len(prev) < overlap {
			overlap = len(prev)
		}
		// consecutive chunks share a suffix/prefix of at most the
		// configured overlap; find the actual shared length
		shared := 0
		for o := overlap; o > 0; o-- {
			if strings.HasPrefix(next, prev[len(prev)-o:]) {
				shared = o
				break
			}
		}
		assert.Greater(t, shared, 0, "chunks %d and %d share no overlap", i-1, i)
		assert.LessOrEqual(t, shared, 200)
	}
}

func TestSplit_OversizedRunEmittedWhole(t *testing.T) {
	run := strings.Repeat("a", 1500)
	s := New(WithChunkSize(1000), WithOverlap(200))
	out := s.Split(run)
	require.Len(t, out, 1)
	assert.Equal(t, run, out[0])
}

func TestSplit_OversizedRunBetweenSpans(t *testing.T) {
	run := strings.Repeat("b", 250)
	text := "first line\n" + run + "\nlast line"
	s := New(WithChunkSize(100), WithOverlap(20))
	out := s.Split(text)
	require.Len(t, out, 3)
	assert.Equal(t, "first line", out[0])
	assert.Equal(t, run, out[1])
	assert.Contains(t, out[2], "last line")
}

func TestSplit_ZeroOverlap(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 10; i++ {
		b.WriteString(strings.Repeat(string(rune('a'+i)), 40))
		b.WriteString("\n")
	}
	text := b.String()
	s := New(WithChunkSize(100), WithOverlap(0))
	chunks := s.Split(text)
	require.Greater(t, len(chunks), 1)
	for i := 1; i < len(chunks); i++ {
		assert.False(t, strings.HasPrefix(chunks[i], chunks[i-1][len(chunks[i-1])-10:]))
	}
}

func TestChunk_StampsDocumentAndIndex(t *testing.T) {
	doc := domain.Document{ID: "doc1", Content: strings.Repeat(strings.Repeat("q", 80)+"\n", 20)}
	s := New(WithChunkSize(200), WithOverlap(40))
	chunks, err := s.Chunk(doc)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)
	for i, c := range chunks {
		assert.Equal(t, "doc1", c.DocumentID)
		assert.Equal(t, i, c.Index)
		assert.Contains(t, c.ChunkID, "doc1:")
	}
}

func TestChunk_EmptyDocument(t *testing.T) {
	s := New()
	chunks, err := s.Chunk(domain.Document{ID: "doc1"})
	require.NoError(t, err)
	assert.Empty(t, chunks)
}
