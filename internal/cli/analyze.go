package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
	"github.com/yildizm/ProtoLens/internal/config"
	"github.com/yildizm/ProtoLens/internal/formatter"
	"github.com/yildizm/ProtoLens/internal/logger"
	"github.com/yildizm/ProtoLens/internal/session"
	"github.com/yildizm/ProtoLens/internal/ui"
)

var (
	analyzeNoTUI      bool
	analyzeOutputFile string
)

// errAnalysisFailed carries the one message shown for any failed analysis
var errAnalysisFailed = errors.New(session.MsgAnalysisFailed)

func newAnalyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [file.py|-]",
		Short: "Analyze an Opentrons protocol",
		Long: `Analyze an Opentrons Python protocol with an AI model.

With no argument the built-in example protocol is used. Use - to read the
protocol from stdin. In a terminal the interactive editor opens; otherwise
the report is printed once in the chosen output format.

Examples:
  protolens analyze protocol.py
  protolens analyze --no-tui -o markdown protocol.py
  cat protocol.py | protolens analyze -o json -
  protolens analyze --provider ollama --model llama3.1 protocol.py`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAnalyze,
	}

	addAnalysisFlags(cmd)
	addThemeFlag(cmd)
	cmd.Flags().BoolVar(&analyzeNoTUI, "no-tui", false, "disable terminal UI, output to stdout")
	cmd.Flags().StringVar(&analyzeOutputFile, "output-file", "", "save output to file instead of stdout")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyAnalysisFlags(cmd, cfg); err != nil {
		return err
	}

	format := resolveFormat(cfg)
	interactive := shouldUseTUIMode(format, isTerminal(cmd.OutOrStdout()) && isTerminal(cmd.InOrStdin()))

	if interactive {
		closeLog, err := redirectLogs(cfg)
		if err != nil {
			return err
		}
		defer closeLog()
	}

	sess := session.New(GetLogger("session"))
	if err := loadInput(sess, args, cmd.InOrStdin()); err != nil {
		return err
	}

	gateway, err := newAnalyzer(cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if interactive {
		return ui.Run(ctx, sess, gateway, ui.Options{
			Theme:       cfg.Output.Theme,
			Emoji:       emojiEnabled(),
			LineNumbers: cfg.Editor.LineNumbers,
			CharLimit:   cfg.Editor.CharLimit,
			AutoAnalyze: len(args) > 0,
			PlainReport: !colorEnabled(),
			Logger:      GetLogger("ui"),
		})
	}

	return analyzeOnce(ctx, cmd, sess, gateway, format)
}

// shouldUseTUIMode decides between the interactive program and one-shot output
func shouldUseTUIMode(format string, interactive bool) bool {
	return interactive && !analyzeNoTUI && !verbose && format == "text"
}

// resolveFormat picks --output, then the configured default
func resolveFormat(cfg *config.Config) string {
	if outputFmt != "" {
		return strings.ToLower(outputFmt)
	}
	if cfg.Output.DefaultFormat != "" {
		return cfg.Output.DefaultFormat
	}
	return "text"
}

// redirectLogs keeps log lines off the alternate screen while the TUI runs
func redirectLogs(cfg *config.Config) (func(), error) {
	path := logFile
	if path == "" {
		path = cfg.Output.LogFile
	}
	if path == "" {
		logger.SetDefaultOutput(io.Discard)
		return func() { logger.SetDefaultOutput(os.Stderr) }, nil
	}

	path = filepath.Clean(config.ExpandPath(path))
	// #nosec G304 - path comes from the user's own flag or config
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger.SetDefaultOutput(f)
	return func() {
		logger.SetDefaultOutput(os.Stderr)
		_ = f.Close()
	}, nil
}

// loadInput fills the session from args: nothing keeps the example, - reads
// stdin, anything else must be a .py file
func loadInput(sess *session.Session, args []string, stdin io.Reader) error {
	if len(args) == 0 {
		return nil
	}

	if args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		sess.SetText(string(data))
		return nil
	}

	if err := sess.LoadPath(config.ExpandPath(args[0])); err != nil {
		return err
	}
	return nil
}

// analyzeOnce runs a single submission and prints the report
func analyzeOnce(ctx context.Context, cmd *cobra.Command, sess *session.Session, a session.Analyzer, format string) error {
	f, err := formatter.New(format, formatter.Options{
		Color: colorEnabled(),
		Emoji: emojiEnabled(),
		Width: terminalWidth(cmd.OutOrStdout()),
	})
	if err != nil {
		return err
	}

	status := newStatusPrinter(cmd.ErrOrStderr())
	if verbose {
		status.header("Analyzing " + sess.Filename())
	}

	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(cmd.ErrOrStderr()))
	s.Suffix = " Analyzing protocol..."
	s.Start()
	submitted := sess.Submit(ctx, a)
	s.Stop()

	if !submitted {
		return fmt.Errorf("protocol is empty, nothing to analyze")
	}
	if sess.Err() != "" {
		status.failure(sess.Err())
		return errAnalysisFailed
	}
	status.success("Analysis complete")

	output, err := f.Format(sess.Report())
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	return writeOutput(cmd.OutOrStdout(), status, output)
}

// writeOutput writes to --output-file when set, otherwise to out
func writeOutput(out io.Writer, status *statusPrinter, output []byte) error {
	if analyzeOutputFile == "" {
		_, err := out.Write(output)
		return err
	}

	path := filepath.Clean(config.ExpandPath(analyzeOutputFile))
	if err := os.WriteFile(path, output, 0o600); err != nil {
		return fmt.Errorf("failed to write output to file: %w", err)
	}
	status.info("Output saved to: " + path)
	return nil
}
