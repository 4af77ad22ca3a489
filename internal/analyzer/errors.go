package analyzer

import (
	"errors"
	"fmt"

	"github.com/yildizm/ProtoLens/internal/ai"
)

// Sentinel failure kinds for an analysis request
var (
	ErrEmptyResponse     = errors.New("analysis service returned an empty response")
	ErrMalformedResponse = errors.New("analysis response is not well-formed JSON")
	ErrSchemaMismatch    = errors.New("analysis response does not match the declared schema")
	ErrTransport         = errors.New("analysis request failed")
)

// AnalysisError reports why one analysis request failed. Kind is one of the
// sentinels above and is matched by errors.Is.
type AnalysisError struct {
	Kind      error
	RequestID string
	Cause     error
}

func (e *AnalysisError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("request=%s: %v", e.RequestID, e.Kind)
	}
	return fmt.Sprintf("request=%s: %v: %v", e.RequestID, e.Kind, e.Cause)
}

// Is matches the failure kind
func (e *AnalysisError) Is(target error) bool {
	return target == e.Kind
}

func (e *AnalysisError) Unwrap() error {
	return e.Cause
}

// ProviderErrorType returns the provider error category for transport
// failures, or an empty string for response failures.
func (e *AnalysisError) ProviderErrorType() ai.ErrorType {
	if e.Kind != ErrTransport {
		return ""
	}
	return ai.ErrorTypeOf(e.Cause)
}

func newAnalysisError(kind error, requestID string, cause error) *AnalysisError {
	return &AnalysisError{Kind: kind, RequestID: requestID, Cause: cause}
}
