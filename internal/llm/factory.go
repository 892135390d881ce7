package llm

import (
	"fmt"
	"os"

	"github.com/smartlearn-ai/smartlearn/internal/config"
)

const defaultOllamaHost = "http://localhost:11434"

// NewProvider constructs the Provider named in the config. Providers that
// need an API key read it from the environment variable reported by
// config.APIKeyEnvVar; Ollama instead honors OLLAMA_HOST.
func NewProvider(provider config.ProviderType, model string) (Provider, error) {
	var apiKey string
	if envVar := config.APIKeyEnvVar(provider); envVar != "" {
		apiKey = os.Getenv(envVar)
		if apiKey == "" {
			return nil, fmt.Errorf("llm: %s environment variable is not set (required for provider %q)", envVar, provider)
		}
	}

	switch provider {
	case config.ProviderAnthropic:
		return NewAnthropicProvider(apiKey, model), nil
	case config.ProviderOpenAI:
		return NewOpenAIProvider(apiKey, model), nil
	case config.ProviderGoogle:
		return NewGoogleProvider(apiKey, model), nil
	case config.ProviderOllama:
		host := os.Getenv("OLLAMA_HOST")
		if host == "" {
			host = defaultOllamaHost
		}
		return NewOllamaProvider(host, model), nil
	default:
		return nil, fmt.Errorf("llm: unsupported provider %q", provider)
	}
}
