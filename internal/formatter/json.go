package formatter

import (
	"encoding/json"

	"github.com/yildizm/ProtoLens/internal/report"
)

// jsonFormatter formats output as JSON
type jsonFormatter struct{}

// NewJSON creates a new JSON formatter
func NewJSON() Formatter {
	return &jsonFormatter{}
}

// Format emits the report in the same shape the analysis service returned it
func (f *jsonFormatter) Format(r *report.Report) ([]byte, error) {
	if r == nil {
		return nil, errNoReport
	}
	out, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}
