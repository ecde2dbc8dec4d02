// Package service wires the retrieval pipeline into a chat session.
package service

import (
	"context"
	"strings"
	"sync"

	"docchat/internal/domain"
	"docchat/internal/memory"
	"docchat/internal/vectorstore"
)

// DefaultTopK is the number of chunks retrieved per question.
const DefaultTopK = 4

// DefaultSummarySentences caps the ingest-time corpus summary length.
const DefaultSummarySentences = 5

// QueryRewriter turns a follow-up question into the retrieval query.
// nil means the raw question is embedded as-is.
type QueryRewriter interface {
	RewriteQuery(ctx context.Context, history []domain.Turn, question string) (string, error)
}

// Components are the capabilities a session is assembled from.
// Chunker, Embedder, IndexBuilder and Generator are required; Extractor is
// required for Ingest (not IngestText); the rest have defaults.
type Components struct {
	Chunker          domain.Chunker
	Embedder         domain.Embedder
	IndexBuilder     vectorstore.Builder
	Generator        domain.Generator
	Extractor        domain.Extractor
	Summarizer       domain.Summarizer
	Rewriter         QueryRewriter
	History          memory.History
	TopK             int
	SummarySentences int
}

// Session owns one conversation: the current index and the dialogue
// history. It moves from uninitialized to ready on the first successful
// ingest; re-ingesting atomically replaces the index and clears the
// history, since answers grounded in a discarded corpus would be stale.
// All operations are serialized on the session mutex, so a rebuild can
// never interleave with an in-flight Ask.
type Session struct {
	mu sync.Mutex

	chunker    domain.Chunker
	embedder   domain.Embedder
	builder    vectorstore.Builder
	generator  domain.Generator
	extractor  domain.Extractor
	summarizer domain.Summarizer
	rewriter   QueryRewriter
	history    memory.History

	topK             int
	summarySentences int

	// active is the corpus-bound embedder returned by Prepare during the
	// ingest that built index; the two are swapped in together so queries
	// always embed in the space the index was built in.
	active  domain.Embedder
	index   vectorstore.Index
	summary string
}

// New assembles a session in the uninitialized state.
func New(c Components) *Session {
	if c.History == nil {
		c.History = memory.NewBuffer()
	}
	if c.TopK <= 0 {
		c.TopK = DefaultTopK
	}
	if c.SummarySentences <= 0 {
		c.SummarySentences = DefaultSummarySentences
	}
	return &Session{
		chunker:          c.Chunker,
		embedder:         c.Embedder,
		builder:          c.IndexBuilder,
		generator:        c.Generator,
		extractor:        c.Extractor,
		summarizer:       c.Summarizer,
		rewriter:         c.Rewriter,
		history:          c.History,
		topK:             c.TopK,
		summarySentences: c.SummarySentences,
	}
}

// Ingest extracts, chunks, embeds and indexes the given documents and
// returns a corpus summary. On any failure the prior index and history
// survive untouched. Pages that extract to no text are dropped silently.
func (s *Session) Ingest(ctx context.Context, paths []string) (string, error) {
	if len(paths) == 0 {
		return "", domain.ErrEmptyCorpus
	}
	docs := make([]domain.Document, 0, len(paths))
	for _, path := range paths {
		pages, err := s.extractor.Extract(ctx, path)
		if err != nil {
			return "", err
		}
		var b strings.Builder
		for _, page := range pages {
			if strings.TrimSpace(page) == "" {
				continue
			}
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			b.WriteString(page)
		}
		docs = append(docs, domain.NewDocument(path, b.String()))
	}
	return s.ingest(ctx, docs)
}

// IngestText indexes pre-extracted text directly, one document per entry.
func (s *Session) IngestText(ctx context.Context, texts []string) (string, error) {
	docs := make([]domain.Document, 0, len(texts))
	for _, text := range texts {
		docs = append(docs, domain.NewDocument("", text))
	}
	return s.ingest(ctx, docs)
}

func (s *Session) ingest(ctx context.Context, docs []domain.Document) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var chunks []domain.Chunk
	var texts []string
	var corpus strings.Builder
	for _, doc := range docs {
		cs, err := s.chunker.Chunk(doc)
		if err != nil {
			return "", err
		}
		for _, ch := range cs {
			chunks = append(chunks, ch)
			texts = append(texts, ch.Text)
		}
		corpus.WriteString(doc.Content)
		corpus.WriteString("\n")
	}
	if len(chunks) == 0 {
		return "", domain.ErrEmptyCorpus
	}
	prepared, err := s.embedder.Prepare(texts)
	if err != nil {
		return "", domain.AsEmbeddingError(err)
	}
	vectors, err := prepared.EmbedBatch(ctx, texts)
	if err != nil {
		return "", domain.AsEmbeddingError(err)
	}
	index, err := s.builder.Build(ctx, chunks, vectors)
	if err != nil {
		return "", err
	}
	summary := ""
	if s.summarizer != nil {
		summary, err = s.summarizer.Summarize(corpus.String(), s.summarySentences)
		if err != nil {
			return "", err
		}
	}

	// The swap is the only mutation: everything above worked on locals.
	s.active = prepared
	s.index = index
	s.history.Clear()
	s.summary = summary
	return summary, nil
}

// Ask answers one question against the current corpus. The turn is
// recorded only after generation succeeds, so a failed Ask leaves the
// history exactly as it was. No step is retried; capability failures
// surface verbatim for the caller's retry policy.
func (s *Session) Ask(ctx context.Context, question string) (*domain.AnswerResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index == nil {
		return nil, domain.ErrNotReady
	}
	query := question
	if s.rewriter != nil {
		rewritten, err := s.rewriter.RewriteQuery(ctx, s.history.Turns(), question)
		if err != nil {
			return nil, domain.AsGenerationError(err)
		}
		query = rewritten
	}
	vector, err := s.active.Embed(ctx, query)
	if err != nil {
		return nil, domain.AsEmbeddingError(err)
	}
	results, err := s.index.Search(ctx, vector, s.topK)
	if err != nil {
		return nil, err
	}
	contextTexts := make([]string, len(results))
	for i, r := range results {
		contextTexts[i] = r.Chunk.Text
	}
	answer, err := s.generator.Generate(ctx, domain.GenerationRequest{
		History:  s.history.Turns(),
		Context:  contextTexts,
		Question: question,
	})
	if err != nil {
		return nil, domain.AsGenerationError(err)
	}
	turn := s.history.Append(question, answer)
	return &domain.AnswerResult{Answer: answer, Sources: results, Turn: turn}, nil
}

// Reset discards the index and history, returning to uninitialized.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = nil
	s.index = nil
	s.summary = ""
	s.history.Clear()
}

// Ready reports whether an index has been built.
func (s *Session) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index != nil
}

// Summary returns the corpus summary from the last successful ingest.
func (s *Session) Summary() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary
}

// History returns the recorded turns in chronological order.
func (s *Session) History() []domain.Turn {
	return s.history.Turns()
}
