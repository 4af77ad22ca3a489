package ui

import (
	"github.com/yildizm/ProtoLens/internal/logger"
)

// Tab is one page of the analysis view
type Tab int

const (
	TabOverview Tab = iota
	TabPipettes
	TabTips
	TabAux
	TabModules
	TabAxes
	TabDeck
	TabReport
)

var tabNames = [...]string{"Overview", "Pipettes", "Tips", "Aux", "Modules", "Axes", "Deck", "Report"}

func (t Tab) String() string {
	if t < 0 || int(t) >= len(tabNames) {
		return "Unknown"
	}
	return tabNames[t]
}

// Options configures the interactive program
type Options struct {
	Theme       string
	Emoji       bool
	LineNumbers bool
	// CharLimit bounds the editor; 0 is unlimited
	CharLimit int
	// AutoAnalyze submits the loaded text as soon as the program starts
	AutoAnalyze bool
	// PlainReport skips glamour styling on the Report tab
	PlainReport bool
	Logger      *logger.Logger
}
