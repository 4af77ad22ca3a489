package cli

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/yildizm/ProtoLens/internal/config"
	"github.com/yildizm/ProtoLens/internal/emoji"
	"github.com/yildizm/ProtoLens/internal/logger"
	"github.com/yildizm/ProtoLens/internal/ui"
	"golang.org/x/term"
)

var (
	cfgFile   string
	verbose   bool
	noColor   bool
	noEmoji   bool
	outputFmt string
	logFile   string
)

// NewRootCommand creates the root command
func NewRootCommand(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "protolens",
		Short: "Opentrons Protocol Analyzer",
		Long: `ProtoLens sends an Opentrons Python protocol to an AI model and breaks the
answer down into a readable report: procedure steps, liquid handling per
pipette, tip usage, auxiliary motions, modules, deck layout and API usage.

Run without arguments to open the editor with an example protocol.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Windows consoles rarely render emoji
			if runtime.GOOS == "windows" && !cmd.Flag("no-emoji").Changed {
				noEmoji = true
			}
			emoji.SetEmojiDisabled(noEmoji)
			if noColor {
				disableColor()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, nil)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&noEmoji, "no-emoji", false, "disable emoji output (useful for Windows terminals)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "", "output format (text, json, markdown, html, csv)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file while the terminal UI runs")
	addAnalysisFlags(rootCmd)
	addThemeFlag(rootCmd)

	rootCmd.AddCommand(newAnalyzeCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newExampleCommand())
	rootCmd.AddCommand(newVersionCommand(version, commit, date))

	return rootCmd
}

func newVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display version number, build commit, date, and runtime information",
		Run: func(cmd *cobra.Command, args []string) {
			displayVersion := version
			displayCommit := commit
			displayDate := date

			if version == "dev" || version == "" {
				displayVersion = "development"
			}
			if commit == "none" || commit == "" {
				displayCommit = "local-build"
			}
			if date == "unknown" || date == "" {
				displayDate = "local-build"
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ProtoLens %s (%s) built on %s\n", displayVersion, displayCommit, displayDate)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

// verboseFlag ties loggers to the --verbose flag
type verboseFlag struct{}

func (verboseFlag) IsVerbose() bool { return verbose }

// GetLogger returns a component logger gated on --verbose
func GetLogger(component string) *logger.Logger {
	return logger.New(component, verboseFlag{})
}

// loadConfig loads the effective configuration and applies its display
// settings. Flags set on the command line win over the file.
func loadConfig() (*config.Config, error) {
	cfg, err := config.NewLoader().WithWarner(GetLogger("config")).LoadConfig(cfgFile)
	if err != nil {
		return nil, err
	}

	if !cfg.Output.Emoji {
		emoji.SetEmojiDisabled(true)
	}
	switch {
	case noColor || cfg.Output.ColorMode == "never":
		disableColor()
	case cfg.Output.ColorMode == "always":
		color.NoColor = false
	}
	return cfg, nil
}

func disableColor() {
	color.NoColor = true
	ui.SetColorDisabled(true)
}

func colorEnabled() bool {
	return !color.NoColor && !ui.IsColorDisabled()
}

func emojiEnabled() bool {
	return !emoji.IsEmojiDisabled()
}

// isTerminal reports whether w is an interactive terminal
func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// terminalWidth returns the width of w, or 0 when it is not a terminal
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}
