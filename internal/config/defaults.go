package config

// embeddingPreset describes the embedding model choices for a provider.
type embeddingPreset struct {
	Model      string
	Dimensions int
}

// embeddingPresets maps each embedding provider to its default model.
var embeddingPresets = map[ProviderType]embeddingPreset{
	ProviderOpenAI: {Model: "text-embedding-3-small", Dimensions: 1536},
	ProviderGoogle: {Model: "gemini-embedding-001", Dimensions: 3072},
	ProviderOllama: {Model: "nomic-embed-text", Dimensions: 768},
	ProviderLocal:  {Model: "hash", Dimensions: 256},
}

// defaultModels maps each LLM provider to its default chat model.
var defaultModels = map[ProviderType]string{
	ProviderAnthropic: "claude-sonnet-4-5-20250929",
	ProviderOpenAI:    "gpt-4o",
	ProviderGoogle:    "gemini-2.0-flash",
	ProviderOllama:    "llama3",
}

// DefaultExcludes are glob patterns excluded from ingestion by default.
var DefaultExcludes = []string{
	"vendor/**",
	"node_modules/**",
	".git/**",
	"dist/**",
	"build/**",
	"*.min.js",
	"*.lock",
	"go.sum",
	"package-lock.json",
}

// DefaultConfig returns a Config with sensible defaults. The local embedder
// is the default so ingestion works without any API key.
func DefaultConfig() *Config {
	return &Config{
		Provider:            ProviderOpenAI,
		Model:               defaultModels[ProviderOpenAI],
		EmbeddingProvider:   ProviderLocal,
		EmbeddingModel:      embeddingPresets[ProviderLocal].Model,
		EmbeddingDimensions: embeddingPresets[ProviderLocal].Dimensions,
		MaterialsDir:        "materials",
		DataDir:             ".smartlearn",
		ProfileFile:         ".smartlearn/profile.json",
		Store:               StoreMemory,
		Include:             []string{"**"},
		Exclude:             DefaultExcludes,
		Chunking: ChunkingPresets{
			Code:       ChunkingConfig{MaxChunkSize: 800, Overlap: 0},
			Structured: ChunkingConfig{MaxChunkSize: 1200, Overlap: 200},
			Prose:      ChunkingConfig{MaxChunkSize: 1000, Overlap: 200},
		},
		Classify: ClassifyConfig{
			MinCodeMarkers:    1,
			MinHeadingDensity: 0.05,
		},
		Search: SearchConfig{
			Alpha:           0.7,
			TopK:            5,
			OverfetchFactor: 3,
			ExpandQueries:   true,
		},
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
	}
}

// EmbeddingPresetFor returns the default embedding model and dimensionality
// for the given provider, falling back to the local preset.
func EmbeddingPresetFor(provider ProviderType) (string, int) {
	if p, ok := embeddingPresets[provider]; ok {
		return p.Model, p.Dimensions
	}
	p := embeddingPresets[ProviderLocal]
	return p.Model, p.Dimensions
}

// DefaultModelFor returns the default chat model for the given provider.
func DefaultModelFor(provider ProviderType) string {
	if m, ok := defaultModels[provider]; ok {
		return m
	}
	return defaultModels[ProviderOpenAI]
}
