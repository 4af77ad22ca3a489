package formatter

import (
	"bytes"
	"fmt"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yildizm/ProtoLens/internal/report"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const htmlPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Protocol Analysis Report</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 960px; margin: 2rem auto; padding: 0 1rem; }
table { border-collapse: collapse; margin-bottom: 1rem; }
th, td { border: 1px solid #ccc; padding: 4px 8px; text-align: left; }
code { background: #f4f4f4; padding: 0 3px; }
</style>
</head>
<body>
%s</body>
</html>
`

// htmlFormatter renders the Markdown report to a standalone, sanitized page.
// Report text comes from a remote model, so everything goes through the
// UGC policy before it reaches the page body.
type htmlFormatter struct {
	markdown *markdownFormatter
	md       goldmark.Markdown
	policy   *bluemonday.Policy
}

// NewHTML creates a new HTML formatter
func NewHTML() Formatter {
	return &htmlFormatter{
		markdown: &markdownFormatter{now: time.Now},
		md:       goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy:   bluemonday.UGCPolicy(),
	}
}

func (f *htmlFormatter) Format(r *report.Report) ([]byte, error) {
	if r == nil {
		return nil, errNoReport
	}

	var body bytes.Buffer
	if err := f.md.Convert([]byte(f.markdown.render(r)), &body); err != nil {
		return nil, fmt.Errorf("failed to render html: %w", err)
	}

	return []byte(fmt.Sprintf(htmlPage, f.policy.SanitizeBytes(body.Bytes()))), nil
}
