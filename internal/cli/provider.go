package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/yildizm/ProtoLens/internal/ai"
	"github.com/yildizm/ProtoLens/internal/ai/providers/gemini"
	"github.com/yildizm/ProtoLens/internal/ai/providers/ollama"
	"github.com/yildizm/ProtoLens/internal/ai/providers/openai"
	"github.com/yildizm/ProtoLens/internal/analyzer"
	"github.com/yildizm/ProtoLens/internal/config"
	"github.com/yildizm/ProtoLens/internal/session"
	"github.com/yildizm/ProtoLens/internal/ui"
)

var (
	analysisProvider string
	analysisModel    string
	analysisTimeout  time.Duration
	analysisTheme    string
)

// addAnalysisFlags registers the flags that override the ai config section
func addAnalysisFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&analysisProvider, "provider", "", "AI provider (gemini, openai, ollama)")
	cmd.Flags().StringVar(&analysisModel, "model", "", "model name (default: provider default)")
	cmd.Flags().DurationVar(&analysisTimeout, "timeout", 0, "request timeout (0 waits for the service)")
}

// applyAnalysisFlags copies explicitly set flags over cfg
func applyAnalysisFlags(cmd *cobra.Command, cfg *config.Config) error {
	if f := cmd.Flags().Lookup("provider"); f != nil && f.Changed {
		cfg.AI.Provider = strings.ToLower(analysisProvider)
	}
	if f := cmd.Flags().Lookup("model"); f != nil && f.Changed {
		cfg.AI.Model = analysisModel
	}
	if f := cmd.Flags().Lookup("timeout"); f != nil && f.Changed {
		cfg.AI.Timeout = analysisTimeout
	}
	if f := cmd.Flags().Lookup("theme"); f != nil && f.Changed {
		cfg.Output.Theme = analysisTheme
	}
	return cfg.Validate()
}

// addThemeFlag registers --theme on commands that can open the editor
func addThemeFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&analysisTheme, "theme", "",
		"editor theme ("+strings.Join(ui.GetAvailableThemes(), ", ")+")")
}

// newAnalyzer builds the analysis gateway for cfg. Tests replace it.
var newAnalyzer = buildGateway

func buildGateway(cfg *config.Config) (session.Analyzer, error) {
	registry := ai.NewRegistry()
	for _, register := range []func(*ai.Registry) error{gemini.Register, openai.Register, ollama.Register} {
		if err := register(registry); err != nil {
			return nil, fmt.Errorf("failed to register provider: %w", err)
		}
	}

	provider, err := registry.Create(cfg.AI.Provider, providerConfig(registry, cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create AI provider: %w", err)
	}

	gateway, err := analyzer.NewGateway(provider, analyzer.Options{
		Model:       cfg.AI.Model,
		MaxTokens:   cfg.AI.MaxTokens,
		Temperature: cfg.AI.Temperature,
		Timeout:     cfg.AI.Timeout,
	}, GetLogger("analyzer"))
	if err != nil {
		return nil, err
	}
	return gateway, nil
}

// providerConfig starts from the factory defaults and overlays the
// configured values
func providerConfig(registry *ai.Registry, cfg *config.Config) *ai.ProviderConfig {
	pc := &ai.ProviderConfig{Name: cfg.AI.Provider, Type: cfg.AI.Provider}
	if factory, err := registry.Factory(cfg.AI.Provider); err == nil {
		pc = factory.DefaultConfig()
	}

	pc.APIKey = cfg.AI.APIKey
	if cfg.AI.BaseURL != "" {
		pc.BaseURL = cfg.AI.BaseURL
	}
	if cfg.AI.Model != "" {
		pc.DefaultModel = cfg.AI.Model
	}
	if cfg.AI.MaxTokens > 0 {
		pc.MaxTokens = cfg.AI.MaxTokens
	}
	if cfg.AI.Temperature > 0 {
		pc.DefaultTemperature = cfg.AI.Temperature
	}
	pc.Timeout = cfg.AI.Timeout
	return pc
}

// failureKind names an analysis failure for run statistics
func failureKind(err error) string {
	var analysisErr *analyzer.AnalysisError
	switch {
	case errors.Is(err, analyzer.ErrEmptyResponse):
		return "empty"
	case errors.Is(err, analyzer.ErrMalformedResponse):
		return "malformed"
	case errors.Is(err, analyzer.ErrSchemaMismatch):
		return "schema"
	case errors.As(err, &analysisErr) && analysisErr.Kind == analyzer.ErrTransport:
		if t := analysisErr.ProviderErrorType(); t != "" {
			return string(t)
		}
		return "transport"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
	}
}

// failureHint says what the user can expect after a failed analysis. It
// is logged next to the failure kind and never replaces the generic message.
func failureHint(err error) string {
	switch {
	case ai.IsRateLimitError(err):
		return "the analysis service is rate limiting requests, wait before saving again"
	case ai.IsValidationError(err):
		return "the request was rejected, check the configured model"
	case ai.IsConfigurationError(err):
		return "check the ai section of the configuration"
	case ai.IsRetryableError(err):
		return "the failure looks transient, the next save analyzes again"
	default:
		return ""
	}
}
