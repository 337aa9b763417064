package provider

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/menu-extractor/internal/common"
	"github.com/joseph-ayodele/menu-extractor/internal/llm"
	"github.com/joseph-ayodele/menu-extractor/internal/llm/gemini"
	"github.com/joseph-ayodele/menu-extractor/internal/llm/openai"
)

// New builds the generator selected by cfg.Provider. It refuses to build one
// without a credential.
func New(cfg common.LLMConfig, logger *slog.Logger) (llm.Generator, error) {
	if strings.TrimSpace(cfg.APIKey()) == "" {
		return nil, common.NewAppError(common.CodeConfig,
			fmt.Sprintf("missing API key for LLM provider %q", cfg.Provider), common.ErrInvalidInput)
	}
	switch strings.ToLower(cfg.Provider) {
	case "", "gemini":
		return gemini.NewClient(gemini.Config{
			APIKey:           cfg.GeminiAPIKey,
			BaseURL:          cfg.GeminiBaseURL,
			Model:            cfg.GeminiModel,
			Temperature:      cfg.Temperature,
			Timeout:          cfg.Timeout,
			StructuredOutput: cfg.StructuredOutput,
		}, logger), nil
	case "openai":
		return openai.NewClient(openai.Config{
			APIKey:      cfg.OpenAIAPIKey,
			BaseURL:     cfg.OpenAIBaseURL,
			Model:       cfg.OpenAIModel,
			Temperature: cfg.Temperature,
			Timeout:     cfg.Timeout,
		}, logger), nil
	default:
		return nil, common.NewAppError(common.CodeConfig,
			fmt.Sprintf("unsupported LLM provider %q", cfg.Provider), common.ErrInvalidInput)
	}
}

// SupportsResponseSchema reports whether the provider honours GenerateRequest.ResponseSchema.
func SupportsResponseSchema(cfg common.LLMConfig) bool {
	p := strings.ToLower(cfg.Provider)
	return cfg.StructuredOutput && (p == "" || p == "gemini")
}
