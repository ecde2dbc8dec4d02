// Package chunker splits document text into overlapping fixed-size chunks.
package chunker

import (
	"strconv"
	"strings"

	"docchat/internal/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// DefaultSeparator is the preferred split boundary.
const DefaultSeparator = "\n"

// Splitter greedily packs separator-delimited spans into chunks of at most
// the configured size. When a chunk closes, the next one starts with the
// trailing overlap characters of its content. A span with no separator
// inside the size limit is emitted whole rather than truncated.
type Splitter struct {
	size      int
	overlap   int
	separator string
}

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.size = size
		}
	}
}

// WithOverlap sets the overlap between consecutive chunks in characters.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// WithSeparator sets the preferred split boundary.
func WithSeparator(sep string) Option {
	return func(s *Splitter) {
		if sep != "" {
			s.separator = sep
		}
	}
}

// New creates a splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		size:      DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
		separator: DefaultSeparator,
	}
	for _, opt := range opts {
		opt(s)
	}
	// overlap must stay strictly below the chunk size
	if s.overlap >= s.size {
		s.overlap = s.size / 4
	}
	return s
}

// Chunk splits the document content and stamps each piece with the
// document identifier and its position.
func (s *Splitter) Chunk(doc domain.Document) ([]domain.Chunk, error) {
	texts := s.Split(doc.Content)
	chunks := make([]domain.Chunk, 0, len(texts))
	for i, t := range texts {
		chunks = append(chunks, domain.Chunk{
			DocumentID: doc.ID,
			ChunkID:    doc.ID + ":" + strconv.Itoa(i),
			Text:       t,
			Index:      i,
		})
	}
	return chunks, nil
}

// Split returns the chunk texts for the given input. Same input and
// configuration always produce the same sequence.
func (s *Splitter) Split(text string) []string {
	if text == "" {
		return nil
	}
	spans := strings.Split(text, s.separator)

	var out []string
	cur := ""
	seeded := false // cur holds only the overlap carried from the last chunk

	emit := func() {
		out = append(out, cur)
		if s.overlap > 0 {
			tail := cur
			if len(tail) > s.overlap {
				tail = tail[len(tail)-s.overlap:]
			}
			cur, seeded = tail, true
		} else {
			cur, seeded = "", false
		}
	}

	for _, span := range spans {
		for {
			candidate := span
			if cur != "" {
				candidate = cur + s.separator + span
			}
			if len(candidate) <= s.size {
				cur, seeded = candidate, false
				break
			}
			if !seeded && cur != "" {
				// Close the current chunk and retry the span against
				// the overlap seed.
				emit()
				continue
			}
			// Only the overlap seed (if anything) precedes the span.
			// Shrink the seed so the chunk stays within the size; the
			// overlap between consecutive chunks may be shorter than
			// configured, never longer.
			if cur != "" {
				// room is always smaller than the seed here, or the
				// candidate would have fit above
				room := s.size - len(span) - len(s.separator)
				if room > 0 {
					cur = cur[len(cur)-room:]
					candidate = cur + s.separator + span
				} else {
					candidate = span
				}
			}
			if len(candidate) <= s.size {
				cur, seeded = candidate, false
				break
			}
			// An unsplittable run longer than the size becomes its own
			// oversized chunk, never truncated.
			cur, seeded = span, false
			emit()
			break
		}
	}
	if cur != "" && !seeded {
		out = append(out, cur)
	}
	return out
}
