package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"docchat/internal/chunker"
	"docchat/internal/config"
	"docchat/internal/domain"
	openaiembed "docchat/internal/embedding/openai"
	"docchat/internal/embedding/tfidf"
	"docchat/internal/extract"
	"docchat/internal/llm"
	"docchat/internal/memory"
	"docchat/internal/service"
	"docchat/internal/summarizer"
	"docchat/internal/tui"
	"docchat/internal/vectorstore"
	vsmemory "docchat/internal/vectorstore/memory"
	"docchat/internal/vectorstore/qdrant"
)

const version = "0.1.0"

var (
	cfgPath      string
	topK         int
	chunkSize    int
	chunkOverlap int
	askDocs      []string
)

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:          "docchat [flags] document...",
		Short:        "Chat with your documents",
		Long:         "docchat ingests text and PDF documents, indexes them for similarity retrieval,\nand answers questions about them in an interactive chat grounded in the retrieved excerpts.",
		Args:         cobra.MinimumNArgs(1),
		Version:      version,
		SilenceUsage: true,
		RunE:         runChat,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to YAML config (default: ./config.yaml, then ~/.config/docchat/config.yaml)")
	root.PersistentFlags().IntVar(&topK, "top-k", 0, "chunks retrieved per question (overrides config)")
	root.PersistentFlags().IntVar(&chunkSize, "chunk-size", 0, "chunk size in characters (overrides config)")
	root.PersistentFlags().IntVar(&chunkOverlap, "chunk-overlap", 0, "chunk overlap in characters (overrides config)")

	ask := &cobra.Command{
		Use:   "ask [flags] question",
		Short: "Ingest documents and answer a single question",
		Args:  cobra.ExactArgs(1),
		RunE:  runAsk,
	}
	ask.Flags().StringArrayVar(&askDocs, "doc", nil, "document to ingest (repeatable)")
	root.AddCommand(ask)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runChat(cmd *cobra.Command, args []string) error {
	sess, err := buildSession()
	if err != nil {
		return err
	}
	if _, err := sess.Ingest(cmd.Context(), args); err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}
	if _, err := tea.NewProgram(tui.New(sess)).Run(); err != nil {
		return err
	}
	return nil
}

func runAsk(cmd *cobra.Command, args []string) error {
	if len(askDocs) == 0 {
		return fmt.Errorf("at least one --doc is required")
	}
	sess, err := buildSession()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if _, err := sess.Ingest(ctx, askDocs); err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}
	result, err := sess.Ask(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Println(result.Answer)
	return nil
}

func loadConfig() (*config.AppConfig, error) {
	if cfgPath == "" {
		cfg, _, err := config.LoadDefault()
		return cfg, err
	}
	return config.Load(cfgPath)
}

func buildSession() (*service.Session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if topK > 0 {
		cfg.Retrieval.TopK = topK
	}
	if chunkSize > 0 {
		cfg.Chunker.Size = chunkSize
	}
	if chunkOverlap > 0 {
		cfg.Chunker.Overlap = chunkOverlap
	}

	var emb domain.Embedder
	switch cfg.Embedder.Type {
	case "openai", "":
		oc := cfg.Embedder.OpenAI
		if oc == nil {
			oc = &config.OpenAIEmbedderConfig{}
		}
		emb, err = openaiembed.NewClient(openaiembed.Config{
			BaseURL:   oc.BaseURL,
			APIKeyEnv: oc.APIKeyEnv,
			Model:     oc.Model,
			Timeout:   time.Duration(oc.TimeoutSecs) * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("openai embedder init failed: %w", err)
		}
	case "tfidf":
		emb = tfidf.NewEmbedder()
	default:
		return nil, fmt.Errorf("unknown embedder: %s", cfg.Embedder.Type)
	}

	gen, err := llm.NewClient(llm.Config{
		BaseURL:     cfg.Generator.BaseURL,
		APIKeyEnv:   cfg.Generator.APIKeyEnv,
		Model:       cfg.Generator.Model,
		Temperature: cfg.Generator.Temperature,
		MaxTokens:   cfg.Generator.MaxTokens,
		Timeout:     time.Duration(cfg.Generator.TimeoutSecs) * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("generator init failed: %w", err)
	}

	var builder vectorstore.Builder
	switch cfg.VectorStore.Type {
	case "memory", "":
		builder = vsmemory.NewBuilder()
	case "qdrant":
		qc := cfg.VectorStore.Qdrant
		if qc == nil {
			return nil, fmt.Errorf("qdrant config missing")
		}
		builder = qdrant.NewBuilder(qdrant.Config{
			URL:        qc.URL,
			APIKey:     qc.APIKey,
			Collection: qc.Collection,
			Timeout:    time.Duration(qc.TimeoutSecs) * time.Second,
		})
	default:
		return nil, fmt.Errorf("unknown vector store: %s", cfg.VectorStore.Type)
	}

	var hist memory.History
	switch cfg.Memory.Strategy {
	case "buffer", "":
		hist = memory.NewBuffer()
	case "window":
		hist = memory.NewWindow(cfg.Memory.WindowTurns)
	default:
		return nil, fmt.Errorf("unknown memory strategy: %s", cfg.Memory.Strategy)
	}

	var rewriter service.QueryRewriter
	switch cfg.Retrieval.Rewrite {
	case "question", "":
		// raw question is embedded as-is
	case "condense":
		rewriter = gen
	default:
		return nil, fmt.Errorf("unknown rewrite strategy: %s", cfg.Retrieval.Rewrite)
	}

	split := chunker.New(
		chunker.WithChunkSize(cfg.Chunker.Size),
		chunker.WithOverlap(cfg.Chunker.Overlap),
		chunker.WithSeparator(cfg.Chunker.Separator),
	)

	return service.New(service.Components{
		Chunker:          split,
		Embedder:         emb,
		IndexBuilder:     builder,
		Generator:        gen,
		Extractor:        extract.NewAuto(),
		Summarizer:       summarizer.NewFrequencySummarizer(),
		Rewriter:         rewriter,
		History:          hist,
		TopK:             cfg.Retrieval.TopK,
		SummarySentences: cfg.Summary.MaxSentences,
	}), nil
}
