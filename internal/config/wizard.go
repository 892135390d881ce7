package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .smartlearn.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to smartlearn! Let's configure your study workspace.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Materials directory.
	materialsPrompt := promptui.Prompt{
		Label:   "Directory containing your study materials",
		Default: cfg.MaterialsDir,
	}
	materialsDir, err := materialsPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("materials dir: %w", err)
	}
	cfg.MaterialsDir = materialsDir

	// 2. Embedding provider.
	embeddingPrompt := promptui.Select{
		Label: "Select embedding provider",
		Items: []string{
			"local  — offline, no API key, lower quality",
			"openai — text-embedding-3-small",
			"google — gemini-embedding-001",
			"ollama — nomic-embed-text (local server)",
		},
	}
	embIdx, _, err := embeddingPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("embedding selection: %w", err)
	}
	embProviders := []ProviderType{ProviderLocal, ProviderOpenAI, ProviderGoogle, ProviderOllama}
	cfg.EmbeddingProvider = embProviders[embIdx]
	cfg.EmbeddingModel, cfg.EmbeddingDimensions = EmbeddingPresetFor(cfg.EmbeddingProvider)

	// 3. LLM provider for answer generation.
	providerPrompt := promptui.Select{
		Label: "Select LLM provider for answers and quizzes",
		Items: []string{"openai", "anthropic", "google", "ollama"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	cfg.Provider = ProviderType(providerStr)
	cfg.Model = DefaultModelFor(cfg.Provider)

	// 4. Extra exclude patterns.
	excludePrompt := promptui.Prompt{
		Label:   "Extra exclude patterns (comma-separated, leave blank for defaults)",
		Default: "",
	}
	excludeStr, err := excludePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("exclude patterns: %w", err)
	}
	if excludeStr != "" {
		cfg.Exclude = append(cfg.Exclude, splitAndTrim(excludeStr)...)
	}

	// Check for API keys.
	for _, p := range []ProviderType{cfg.Provider, cfg.EmbeddingProvider} {
		envVar := APIKeyEnvVar(p)
		if envVar != "" && os.Getenv(envVar) == "" {
			fmt.Printf("\nNote: set %s in your environment before running smartlearn.\n", envVar)
		}
	}

	if err := cfg.Save(DefaultConfigFile); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", DefaultConfigFile)
	return cfg, nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
