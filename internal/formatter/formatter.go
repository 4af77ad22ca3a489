package formatter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yildizm/ProtoLens/internal/report"
)

// Formatter defines the interface for output formatting
type Formatter interface {
	Format(r *report.Report) ([]byte, error)
}

// Options controls presentation for formats that support it
type Options struct {
	Color bool
	Emoji bool
	// Width bounds table cells in the text format; 0 uses DefaultWidth
	Width int
}

// DefaultWidth is the text cell width when none is configured
const DefaultWidth = 80

var errNoReport = errors.New("no analysis available")

// Formats lists the accepted format names
var Formats = []string{"text", "json", "markdown", "html", "csv"}

// New returns the formatter for name
func New(name string, opts Options) (Formatter, error) {
	switch strings.ToLower(name) {
	case "", "text", "terminal":
		return NewTerminal(opts), nil
	case "json":
		return NewJSON(), nil
	case "markdown", "md":
		return NewMarkdown(), nil
	case "html":
		return NewHTML(), nil
	case "csv":
		return NewCSV(), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s (use %s)", name, strings.Join(Formats, ", "))
	}
}
