package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/smartlearn-ai/smartlearn/internal/chunker"
	"github.com/smartlearn-ai/smartlearn/internal/classify"
	"github.com/smartlearn-ai/smartlearn/internal/config"
	"github.com/smartlearn-ai/smartlearn/internal/db"
	"github.com/smartlearn-ai/smartlearn/internal/embeddings"
	"github.com/smartlearn-ai/smartlearn/internal/history"
	"github.com/smartlearn-ai/smartlearn/internal/ingest"
	"github.com/smartlearn-ai/smartlearn/internal/keyword"
	"github.com/smartlearn-ai/smartlearn/internal/llm"
	"github.com/smartlearn-ai/smartlearn/internal/loader"
	"github.com/smartlearn-ai/smartlearn/internal/prompts"
	"github.com/smartlearn-ai/smartlearn/internal/search"
	"github.com/smartlearn-ai/smartlearn/internal/vectorstore"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `smartlearn init` to create a config file", err)
	}
	return cfg, nil
}

// createEmbedderFromConfig creates an embeddings.Embedder based on config.
func createEmbedderFromConfig(cfg *config.Config) (embeddings.Embedder, error) {
	provider := cfg.EmbeddingProvider
	if provider == "" {
		provider = config.ProviderLocal
	}
	model := cfg.EmbeddingModel
	dims := cfg.EmbeddingDimensions
	if model == "" || dims <= 0 {
		presetModel, presetDims := config.EmbeddingPresetFor(provider)
		if model == "" {
			model = presetModel
		}
		if dims <= 0 {
			dims = presetDims
		}
	}

	switch provider {
	case config.ProviderLocal:
		return embeddings.NewLocalEmbedder(dims), nil
	case config.ProviderOpenAI:
		apiKey := os.Getenv(config.APIKeyEnvVar(config.ProviderOpenAI))
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required for OpenAI embeddings")
		}
		return embeddings.NewOpenAIEmbedder(apiKey, embeddings.OpenAIModel(model)), nil
	case config.ProviderGoogle:
		apiKey := os.Getenv(config.APIKeyEnvVar(config.ProviderGoogle))
		if apiKey == "" {
			return nil, fmt.Errorf("GOOGLE_API_KEY environment variable is required for Google embeddings")
		}
		return embeddings.NewGoogleEmbedder(apiKey, embeddings.GoogleModel(model)), nil
	case config.ProviderOllama:
		return embeddings.NewOllamaEmbedder(model, dims, ""), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", provider)
	}
}

// createLLMProviderFromConfig creates an LLM provider based on config
// settings, rate limited when rate_limit_rpm is set.
func createLLMProviderFromConfig(cfg *config.Config) (llm.Provider, error) {
	model := cfg.Model
	if model == "" {
		model = config.DefaultModelFor(cfg.Provider)
	}
	provider, err := llm.NewProvider(cfg.Provider, model)
	if err != nil {
		return nil, err
	}
	if cfg.RateLimitRPM > 0 {
		provider = llm.Throttle(provider, cfg.RateLimitRPM)
	}
	return provider, nil
}

// corpusDir is where the vector and keyword snapshots live.
func corpusDir(cfg *config.Config) string {
	return filepath.Join(cfg.DataDir, "corpus")
}

// corpus bundles the retrieval state shared by every command: the embedder,
// both stores, and the pipeline that fills them.
type corpus struct {
	embedder embeddings.Embedder
	store    vectorstore.Store
	index    *keyword.Index
	pipeline *ingest.Pipeline
}

// buildCorpus constructs an empty corpus from config.
func buildCorpus(cfg *config.Config) (*corpus, error) {
	embedder, err := createEmbedderFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}

	var store vectorstore.Store
	switch cfg.Store {
	case config.StoreChromem:
		store, err = vectorstore.NewChromemStore(embedder.Dimensions())
	default:
		store, err = vectorstore.NewMemoryStore(embedder.Dimensions())
	}
	if err != nil {
		return nil, fmt.Errorf("creating vector store: %w", err)
	}

	classifier := classify.New(classify.Options{
		MinCodeMarkers:    cfg.Classify.MinCodeMarkers,
		MinHeadingDensity: cfg.Classify.MinHeadingDensity,
	})
	l := loader.New(loader.Config{
		RootDir: cfg.MaterialsDir,
		Include: cfg.Include,
		Exclude: cfg.Exclude,
	}, classifier)

	splitter, err := chunker.NewSplitter(map[classify.ContentType]chunker.Config{
		classify.ContentCode: {
			MaxChunkSize: cfg.Chunking.Code.MaxChunkSize,
			Overlap:      cfg.Chunking.Code.Overlap,
		},
		classify.ContentStructured: {
			MaxChunkSize: cfg.Chunking.Structured.MaxChunkSize,
			Overlap:      cfg.Chunking.Structured.Overlap,
		},
		classify.ContentProse: {
			MaxChunkSize: cfg.Chunking.Prose.MaxChunkSize,
			Overlap:      cfg.Chunking.Prose.Overlap,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("creating chunker: %w", err)
	}

	index := keyword.NewIndex()
	return &corpus{
		embedder: embedder,
		store:    store,
		index:    index,
		pipeline: ingest.NewPipeline(l, splitter, embedder, store, index),
	}, nil
}

// load restores the persisted snapshots into the corpus.
func (c *corpus) load(ctx context.Context, cfg *config.Config) error {
	dir := corpusDir(cfg)
	if err := c.store.Load(ctx, dir); err != nil {
		return fmt.Errorf("loading vector store from %s: %w\nRun `smartlearn ingest` first to build the index", dir, err)
	}
	if err := c.index.Load(ctx, dir); err != nil {
		return fmt.Errorf("loading keyword index from %s: %w\nRun `smartlearn ingest` first to build the index", dir, err)
	}
	return nil
}

// persist writes both snapshots.
func (c *corpus) persist(ctx context.Context, cfg *config.Config) error {
	dir := corpusDir(cfg)
	if err := c.store.Persist(ctx, dir); err != nil {
		return fmt.Errorf("persisting vector store: %w", err)
	}
	if err := c.index.Persist(ctx, dir); err != nil {
		return fmt.Errorf("persisting keyword index: %w", err)
	}
	return nil
}

// searcher builds the hybrid searcher over the corpus, honoring config.
func (c *corpus) searcher(cfg *config.Config) *search.Searcher {
	opts := []search.Option{
		search.WithOverfetchFactor(cfg.Search.OverfetchFactor),
	}
	if cfg.Search.ExpandQueries {
		opts = append(opts, search.WithQueryExpansion(search.NewQueryExpander()))
	}
	return search.NewSearcher(c.store, c.index, c.embedder, opts...)
}

// openHistory opens the sqlite-backed history store. Callers must invoke the
// returned closer.
func openHistory(cfg *config.Config) (*history.Store, func(), error) {
	database, err := db.Open(filepath.Join(cfg.DataDir, "history.db"))
	if err != nil {
		return nil, nil, fmt.Errorf("opening history database: %w", err)
	}
	return history.NewStore(database), func() { database.Close() }, nil
}

// loadPromptBuilder loads the study profile if one exists and returns a
// prompt builder. A missing profile is not an error.
func loadPromptBuilder(cfg *config.Config) *prompts.Builder {
	profile, err := prompts.LoadProfile(cfg.ProfileFile)
	if err != nil && verbose {
		fmt.Fprintf(os.Stderr, "Warning: could not load study profile: %v\n", err)
	}
	return prompts.NewBuilder(profile)
}
