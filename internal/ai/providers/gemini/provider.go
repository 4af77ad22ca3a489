package gemini

import (
	"context"
	"errors"
	"net/http"
	"time"

	"google.golang.org/genai"

	"github.com/yildizm/ProtoLens/internal/ai"
)

// Provider talks to the Gemini API through the genai SDK
type Provider struct {
	config *Config
	client *genai.Client
}

// New creates a Gemini provider
func New(config *Config) (*Provider, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	clientConfig := &genai.ClientConfig{
		APIKey:     config.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: config.Timeout},
	}
	if config.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: config.BaseURL}
	}

	client, err := genai.NewClient(context.Background(), clientConfig)
	if err != nil {
		return nil, ai.NewProviderErrorWithCause(ai.ErrTypeConfiguration, "failed to create GenAI client", "gemini", err)
	}

	return &Provider{config: config, client: client}, nil
}

// Name returns the provider name
func (p *Provider) Name() string {
	return "gemini"
}

// Complete sends each text segment as its own part of a single user turn
func (p *Provider) Complete(ctx context.Context, req *ai.CompletionRequest) (*ai.CompletionResponse, error) {
	if req == nil {
		return nil, ai.NewValidationError("request", "nil", "completion request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	startTime := time.Now()

	model := req.Model
	if model == "" {
		model = p.config.DefaultModel
	}

	segments := req.Segments()
	parts := make([]*genai.Part, 0, len(segments))
	for _, segment := range segments {
		parts = append(parts, genai.NewPartFromText(segment))
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := p.client.Models.GenerateContent(ctx, model, contents, p.buildConfig(req))
	if err != nil {
		return nil, classifyError(err)
	}

	text := resp.Text()
	if text == "" {
		return nil, ai.NewProviderError(ai.ErrTypeProvider, "empty response", "gemini")
	}

	out := &ai.CompletionResponse{
		Content:   text,
		Model:     model,
		RequestID: req.RequestID,
		CreatedAt: startTime,
	}
	if resp.ModelVersion != "" {
		out.Model = resp.ModelVersion
	}
	if len(resp.Candidates) > 0 {
		out.FinishReason = string(resp.Candidates[0].FinishReason)
	}
	if usage := resp.UsageMetadata; usage != nil {
		out.Usage = &ai.TokenUsage{
			PromptTokens:     int(usage.PromptTokenCount),
			CompletionTokens: int(usage.CandidatesTokenCount),
			TotalTokens:      int(usage.TotalTokenCount),
		}
	}
	return out, nil
}

// ValidateConfig validates the provider configuration
func (p *Provider) ValidateConfig() error {
	return p.config.Validate()
}

// Close is a no-op; the genai client holds no resources that need releasing
func (p *Provider) Close() error {
	return nil
}

func (p *Provider) buildConfig(req *ai.CompletionRequest) *genai.GenerateContentConfig {
	temperature := req.Temperature
	if temperature == 0 {
		temperature = p.config.DefaultTemperature
	}

	cfg := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(float32(temperature)),
		ResponseMIMEType: req.ResponseMIMEType,
		ResponseSchema:   toGenaiSchema(req.ResponseSchema),
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.config.MaxTokens
	}
	if maxTokens > 0 {
		cfg.MaxOutputTokens = int32(maxTokens)
	}

	if req.SystemPrompt != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}
	return cfg
}

var schemaTypes = map[ai.SchemaType]genai.Type{
	ai.TypeObject:  genai.TypeObject,
	ai.TypeArray:   genai.TypeArray,
	ai.TypeString:  genai.TypeString,
	ai.TypeNumber:  genai.TypeNumber,
	ai.TypeInteger: genai.TypeInteger,
	ai.TypeBoolean: genai.TypeBoolean,
}

func toGenaiSchema(s *ai.Schema) *genai.Schema {
	if s == nil {
		return nil
	}

	out := &genai.Schema{
		Type:        schemaTypes[s.Type],
		Description: s.Description,
		Items:       toGenaiSchema(s.Items),
		Required:    s.Required,
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGenaiSchema(prop)
		}
	}
	return out
}

// classifyError maps SDK errors onto the provider error taxonomy
func classifyError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ai.NewProviderErrorWithCause(ai.ErrTypeTimeout, "request timed out", "gemini", err)
	}
	if errors.Is(err, context.Canceled) {
		return ai.NewProviderErrorWithCause(ai.ErrTypeNetwork, "request canceled", "gemini", err)
	}

	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return ai.NewProviderErrorWithCause(ai.ErrTypeNetwork, "request failed", "gemini", err)
	}

	var errType ai.ErrorType
	switch apiErr.Code {
	case http.StatusBadRequest:
		errType = ai.ErrTypeValidation
	case http.StatusUnauthorized, http.StatusForbidden:
		errType = ai.ErrTypeAuthentication
	case http.StatusNotFound:
		errType = ai.ErrTypeModelUnavailable
	case http.StatusTooManyRequests:
		errType = ai.ErrTypeRateLimit
	default:
		errType = ai.ErrTypeProvider
	}

	message := apiErr.Message
	if message == "" {
		message = "request failed"
	}
	pe := ai.NewProviderErrorWithCause(errType, message, "gemini", err)
	pe.StatusCode = apiErr.Code
	return pe
}
