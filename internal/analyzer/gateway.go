// Package analyzer sends a protocol to the analysis service and turns the
// structured response into a report.
package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/yildizm/ProtoLens/internal/ai"
	"github.com/yildizm/ProtoLens/internal/logger"
	"github.com/yildizm/ProtoLens/internal/report"
	"github.com/yildizm/go-promptfmt"
)

const schemaResource = "protocol_report.json"

var errNoDocument = errors.New("response text is not a single JSON document")

// Options tunes the single request the gateway sends
type Options struct {
	// Model overrides the provider default when set
	Model string

	MaxTokens   int
	Temperature float64

	// Timeout bounds one request. Zero means no limit beyond the caller's context.
	Timeout time.Duration
}

// Gateway performs one analysis request per call. It never retries.
type Gateway struct {
	provider ai.LLMProvider
	options  Options
	logger   *logger.Logger
	prompt   *promptfmt.Prompt
	declared *ai.Schema
	schema   *jsonschema.Schema
	newID    func() string
}

// NewGateway creates a gateway around provider. The response schema is
// compiled once here.
func NewGateway(provider ai.LLMProvider, options Options, log *logger.Logger) (*Gateway, error) {
	if provider == nil {
		return nil, errors.New("analyzer: provider is required")
	}
	if options.Timeout < 0 {
		return nil, fmt.Errorf("analyzer: timeout must not be negative, got %s", options.Timeout)
	}
	if log == nil {
		log = logger.New("analyzer", nil)
	}

	declared := report.Schema()
	compiled, err := compileSchema(declared)
	if err != nil {
		return nil, fmt.Errorf("analyzer: %w", err)
	}

	return &Gateway{
		provider: provider,
		options:  options,
		logger:   log,
		prompt:   NewProtocolPattern().Build(),
		declared: declared,
		schema:   compiled,
		newID:    uuid.NewString,
	}, nil
}

func compileSchema(s *ai.Schema) (*jsonschema.Schema, error) {
	// round-trip through encoding/json so the compiler only sees plain JSON values
	raw, err := json.Marshal(s.JSONSchema())
	if err != nil {
		return nil, fmt.Errorf("failed to serialize schema: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaResource, doc); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}
	compiled, err := compiler.Compile(schemaResource)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return compiled, nil
}

// Request builds the completion request for protocol text. The text is sent
// verbatim with no size limit.
func (g *Gateway) Request(text string) *ai.CompletionRequest {
	return &ai.CompletionRequest{
		Prompt:           g.prompt.String(),
		SystemPrompt:     g.prompt.SystemPrompt,
		Parts:            []string{codeSegment(text)},
		Model:            g.options.Model,
		MaxTokens:        g.options.MaxTokens,
		Temperature:      g.options.Temperature,
		ResponseMIMEType: ai.MIMETypeJSON,
		ResponseSchema:   g.declared,
		RequestID:        g.newID(),
	}
}

// Analyze sends text to the analysis service once and returns the report
// exactly as decoded. Every failure is an *AnalysisError.
func (g *Gateway) Analyze(ctx context.Context, text string) (*report.Report, error) {
	req := g.Request(text)
	start := time.Now()

	if g.options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.options.Timeout)
		defer cancel()
	}

	g.logger.DebugWithFields("Sending analysis request", []logger.Field{
		logger.F("request_id", req.RequestID),
		logger.F("provider", g.provider.Name()),
		logger.F("protocol_bytes", len(text)),
	})

	resp, err := g.provider.Complete(ctx, req)
	if err != nil {
		g.logger.WarnWithFields("Analysis request failed", []logger.Field{
			logger.F("request_id", req.RequestID),
			logger.F("error_type", string(ai.ErrorTypeOf(err))),
			logger.F("retryable", ai.IsRetryableError(err)),
			logger.Error(err),
		})
		return nil, newAnalysisError(ErrTransport, req.RequestID, err)
	}

	r, err := g.decode(resp.Content)
	if err != nil {
		var ae *AnalysisError
		if errors.As(err, &ae) {
			ae.RequestID = req.RequestID
		}
		g.logger.WarnWithFields("Analysis response rejected", []logger.Field{
			logger.F("request_id", req.RequestID),
			logger.Error(err),
		})
		return nil, err
	}

	fields := []logger.Field{
		logger.F("request_id", req.RequestID),
		logger.Duration(time.Since(start)),
	}
	if resp.Usage != nil {
		fields = append(fields, logger.F("total_tokens", resp.Usage.TotalTokens))
	}
	g.logger.InfoWithFields("Analysis completed", fields)

	return r, nil
}

// decode parses content as one JSON document, validates it against the
// declared schema, then decodes it into a report.
func (g *Gateway) decode(content string) (*report.Report, error) {
	if strings.TrimSpace(content) == "" {
		return nil, newAnalysisError(ErrEmptyResponse, "", nil)
	}

	var doc any
	if err := json.Unmarshal([]byte(unfence(content)), &doc); err != nil {
		return nil, newAnalysisError(ErrMalformedResponse, "", fmt.Errorf("%w: %w", errNoDocument, err))
	}

	if err := g.schema.Validate(doc); err != nil {
		return nil, newAnalysisError(ErrSchemaMismatch, "", err)
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, newAnalysisError(ErrMalformedResponse, "", err)
	}
	var r report.Report
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, newAnalysisError(ErrSchemaMismatch, "", err)
	}
	return &r, nil
}

// unfence removes one surrounding ``` or ```json fence. Anything else around
// the document is left in place and fails the strict parse.
func unfence(content string) string {
	text := strings.TrimSpace(content)
	if !strings.HasPrefix(text, "```") || !strings.HasSuffix(text, "```") || len(text) < 6 {
		return text
	}
	body := strings.TrimSuffix(text[3:], "```")
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		if lang := strings.TrimSpace(body[:nl]); lang == "" || strings.EqualFold(lang, "json") {
			body = body[nl+1:]
		}
	}
	return strings.TrimSpace(body)
}
