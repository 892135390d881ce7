package config

// ProviderType identifies an LLM or embedding provider.
type ProviderType string

const (
	ProviderAnthropic ProviderType = "anthropic"
	ProviderOpenAI    ProviderType = "openai"
	ProviderGoogle    ProviderType = "google"
	ProviderOllama    ProviderType = "ollama"
	ProviderLocal     ProviderType = "local"
)

// StoreBackend selects the vector store implementation.
type StoreBackend string

const (
	StoreMemory  StoreBackend = "memory"
	StoreChromem StoreBackend = "chromem"
)

// ChunkingConfig holds the window parameters for one content type.
type ChunkingConfig struct {
	MaxChunkSize int `yaml:"max_chunk_size" koanf:"max_chunk_size"`
	Overlap      int `yaml:"overlap" koanf:"overlap"`
}

// ChunkingPresets groups the per-content-type chunking parameters.
type ChunkingPresets struct {
	Code       ChunkingConfig `yaml:"code" koanf:"code"`
	Structured ChunkingConfig `yaml:"structured" koanf:"structured"`
	Prose      ChunkingConfig `yaml:"prose" koanf:"prose"`
}

// ClassifyConfig tunes the content-type classifier.
type ClassifyConfig struct {
	MinCodeMarkers    int     `yaml:"min_code_markers" koanf:"min_code_markers"`
	MinHeadingDensity float64 `yaml:"min_heading_density" koanf:"min_heading_density"`
}

// SearchConfig tunes hybrid retrieval.
type SearchConfig struct {
	Alpha           float64 `yaml:"alpha" koanf:"alpha"`
	TopK            int     `yaml:"top_k" koanf:"top_k"`
	OverfetchFactor int     `yaml:"overfetch_factor" koanf:"overfetch_factor"`
	ExpandQueries   bool    `yaml:"expand_queries" koanf:"expand_queries"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host" koanf:"host"`
	Port int    `yaml:"port" koanf:"port"`
}

// Config is the top-level smartlearn configuration, corresponding to
// .smartlearn.yml.
type Config struct {
	Provider     ProviderType `yaml:"provider" koanf:"provider"`
	Model        string       `yaml:"model" koanf:"model"`
	RateLimitRPM int          `yaml:"rate_limit_rpm" koanf:"rate_limit_rpm"`

	EmbeddingProvider   ProviderType `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingModel      string       `yaml:"embedding_model" koanf:"embedding_model"`
	EmbeddingDimensions int          `yaml:"embedding_dimensions" koanf:"embedding_dimensions"`

	MaterialsDir string       `yaml:"materials_dir" koanf:"materials_dir"`
	DataDir      string       `yaml:"data_dir" koanf:"data_dir"`
	ProfileFile  string       `yaml:"profile_file" koanf:"profile_file"`
	Store        StoreBackend `yaml:"store" koanf:"store"`

	Include []string `yaml:"include" koanf:"include"`
	Exclude []string `yaml:"exclude" koanf:"exclude"`

	Chunking ChunkingPresets `yaml:"chunking" koanf:"chunking"`
	Classify ClassifyConfig  `yaml:"classify" koanf:"classify"`
	Search   SearchConfig    `yaml:"search" koanf:"search"`
	Server   ServerConfig    `yaml:"server" koanf:"server"`
}
