package formatter

import (
	"bytes"
	"encoding/csv"

	"github.com/yildizm/ProtoLens/internal/report"
)

// csvFormatter exports the full command frequency table
type csvFormatter struct{}

// NewCSV creates a new CSV formatter
func NewCSV() Formatter {
	return &csvFormatter{}
}

func (f *csvFormatter) Format(r *report.Report) ([]byte, error) {
	if r == nil {
		return nil, errNoReport
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"rank", "command", "count"}); err != nil {
		return nil, err
	}
	for i, c := range report.TopCommands(r.APICommands, 0) {
		if err := w.Write([]string{itoa(i + 1), c.Command, itoa(c.Count)}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
