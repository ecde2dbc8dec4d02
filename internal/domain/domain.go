package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Document is the extracted text of a single ingested source.
type Document struct {
	ID      string
	Path    string
	Content string
}

// NewDocument assigns a fresh identifier to extracted document text.
func NewDocument(path, content string) Document {
	return Document{ID: uuid.New().String(), Path: path, Content: content}
}

// Chunk is a contiguous piece of a document used for retrieval indexing.
type Chunk struct {
	DocumentID string
	ChunkID    string
	Text       string
	Index      int
}

// SearchResult is a retrieved chunk with its similarity score.
type SearchResult struct {
	Chunk Chunk
	Score float64
}

// Turn is one completed question/answer exchange. Immutable once appended.
type Turn struct {
	ID        string
	Timestamp time.Time
	Question  string
	Answer    string
}

// NewTurn stamps a question/answer pair with an identifier and UTC time.
func NewTurn(question, answer string) Turn {
	return Turn{
		ID:        uuid.New().String(),
		Timestamp: time.Now().UTC(),
		Question:  question,
		Answer:    answer,
	}
}

// AnswerResult is the outcome of one Ask: the generated answer, the chunks
// it was grounded on, and the turn recorded in the dialogue history.
type AnswerResult struct {
	Answer  string
	Sources []SearchResult
	Turn    Turn
}

// GenerationRequest carries everything the generator needs for one answer:
// the prior conversation, the retrieved grounding context, and the question.
type GenerationRequest struct {
	History  []Turn
	Context  []string
	Question string
}

// Chunker splits a document into chunks suitable for retrieval indexing.
type Chunker interface {
	Chunk(document Document) ([]Chunk, error)
}

// Embedder converts free text into a numeric vector representation.
// Implementations that learn from the corpus do so in Prepare, which
// returns the corpus-bound embedder and leaves the receiver untouched;
// remote embedders return themselves.
type Embedder interface {
	Name() string
	Prepare(corpus []string) (Embedder, error)
	Dimension() int
	Embed(ctx context.Context, text string) ([]float64, error)
	// EmbedBatch returns one vector per input text, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}

// Generator produces a grounded answer from history, context and question.
type Generator interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}

// Extractor turns a document source into page-level text units.
// A page that legitimately extracts to no text is returned empty and
// skipped by the caller.
type Extractor interface {
	Extract(ctx context.Context, path string) ([]string, error)
}

// Summarizer produces a brief summary of the provided text.
type Summarizer interface {
	Summarize(text string, maxSentences int) (string, error)
}
