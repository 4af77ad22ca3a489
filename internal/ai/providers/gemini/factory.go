package gemini

import (
	"github.com/yildizm/ProtoLens/internal/ai"
)

// Factory implements the ProviderFactory interface for Gemini
type Factory struct{}

// NewFactory creates a new Gemini provider factory
func NewFactory() *Factory {
	return &Factory{}
}

// Create creates a new Gemini provider instance with the given config
func (f *Factory) Create(config *ai.ProviderConfig) (ai.LLMProvider, error) {
	if config == nil {
		config = f.DefaultConfig()
	}
	return New(FromProviderConfig(config))
}

// Type returns the provider type this factory creates
func (f *Factory) Type() string {
	return "gemini"
}

// ValidateConfig validates configuration for this provider type
func (f *Factory) ValidateConfig(config *ai.ProviderConfig) error {
	if config == nil {
		return ai.NewConfigurationError("gemini", "config", "configuration is required")
	}
	return FromProviderConfig(config).Validate()
}

// DefaultConfig returns a default configuration
func (f *Factory) DefaultConfig() *ai.ProviderConfig {
	return DefaultConfig().ToProviderConfig()
}

// Register adds the gemini factory to reg
func Register(reg *ai.Registry) error {
	return reg.Register("gemini", NewFactory())
}
