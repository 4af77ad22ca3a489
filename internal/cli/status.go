package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/yildizm/ProtoLens/internal/emoji"
)

// statusPrinter writes one-line progress messages, normally to stderr so
// stdout stays clean for the report
type statusPrinter struct {
	w io.Writer
}

func newStatusPrinter(w io.Writer) *statusPrinter {
	return &statusPrinter{w: w}
}

func (p *statusPrinter) header(msg string) {
	cyan := color.New(color.FgCyan, color.Bold)
	cyan.Fprintf(p.w, "%s %s\n", emoji.GetEmoji("rocket"), msg)
}

func (p *statusPrinter) info(msg string) {
	fmt.Fprintf(p.w, "%s %s\n", emoji.GetEmoji("info"), msg)
}

func (p *statusPrinter) success(msg string) {
	green := color.New(color.FgGreen)
	green.Fprintf(p.w, "%s %s\n", emoji.GetEmoji("success"), msg)
}

func (p *statusPrinter) failure(msg string) {
	red := color.New(color.FgRed)
	red.Fprintf(p.w, "%s %s\n", emoji.GetEmoji("error"), msg)
}
