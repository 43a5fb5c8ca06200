package providers

import "github.com/kickai/kickai/internal/kerrors"

// FactoryConfig is the subset of application configuration the factory
// needs to build the configured provider (spec.md §6, ai_provider /
// ai_base_url / api key).
type FactoryConfig struct {
	Provider     Name
	APIKey       string
	BaseURL      string
	DefaultModel string
}

// New builds the Client selected by cfg.Provider. Unknown providers are a
// configuration error caught at startup by the validator, not at first
// request.
func New(cfg FactoryConfig) (Client, error) {
	switch cfg.Provider {
	case NameOllama:
		return NewOllamaClient(OllamaConfig{
			BaseURL:      cfg.BaseURL,
			DefaultModel: cfg.DefaultModel,
		})
	case NameOpenAI:
		return NewOpenAIClient(OpenAIConfig{
			APIKey:       cfg.APIKey,
			BaseURL:      cfg.BaseURL,
			DefaultModel: cfg.DefaultModel,
		})
	case NameGoogle:
		return NewGoogleClient(GoogleConfig{
			APIKey:       cfg.APIKey,
			DefaultModel: cfg.DefaultModel,
		})
	case NameMock, "":
		return &MockClient{}, nil
	default:
		return nil, kerrors.Validation("unknown ai_provider: "+string(cfg.Provider), nil)
	}
}
