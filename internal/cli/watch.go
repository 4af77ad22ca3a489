package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/yildizm/ProtoLens/internal/config"
	"github.com/yildizm/ProtoLens/internal/formatter"
	"github.com/yildizm/ProtoLens/internal/logger"
	"github.com/yildizm/ProtoLens/internal/monitor"
	"github.com/yildizm/ProtoLens/internal/session"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

var watchSummaryFormat string

func newWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch file.py",
		Short: "Re-analyze a protocol every time it is saved",
		Long: `Watch a protocol file and analyze it again after each save.

One analysis runs at a time. Saves made while an analysis is running are
folded into a single follow-up run. Press Ctrl+C to stop; a summary of the
runs is printed on exit.

Examples:
  protolens watch protocol.py
  protolens watch -o markdown protocol.py`,
		Args: cobra.ExactArgs(1),
		RunE: runWatch,
	}

	addAnalysisFlags(cmd)
	cmd.Flags().StringVar(&watchSummaryFormat, "summary-format", "text", "exit summary format (text, json)")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyAnalysisFlags(cmd, cfg); err != nil {
		return err
	}

	path, err := filepath.Abs(config.ExpandPath(args[0]))
	if err != nil {
		return fmt.Errorf("invalid file path: %w", err)
	}
	if err := validateWatchFilePath(path); err != nil {
		return fmt.Errorf("invalid file path: %w", err)
	}

	f, err := formatter.New(resolveFormat(cfg), formatter.Options{
		Color: colorEnabled(),
		Emoji: emojiEnabled(),
		Width: terminalWidth(cmd.OutOrStdout()),
	})
	if err != nil {
		return err
	}

	gateway, err := newAnalyzer(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w := newProtocolWatcher(path, gateway, f, cmd.OutOrStdout(), cmd.ErrOrStderr())
	runErr := w.Run(ctx)

	summary, err := monitor.FormatSnapshot(w.stats.Snapshot(), monitor.ReportFormat(watchSummaryFormat))
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.ErrOrStderr(), "\n"+summary)
	return runErr
}

// protocolWatcher re-analyzes one file after each write. At most one
// analysis is in flight; writes that arrive meanwhile set pending and cause
// exactly one follow-up run.
type protocolWatcher struct {
	path      string
	session   *session.Session
	analyzer  session.Analyzer
	formatter formatter.Formatter
	out       io.Writer
	status    *statusPrinter
	logger    *logger.Logger
	stats     *monitor.Collector

	sem     *semaphore.Weighted
	pending atomic.Bool
}

func newProtocolWatcher(path string, a session.Analyzer, f formatter.Formatter, out, errOut io.Writer) *protocolWatcher {
	return &protocolWatcher{
		path:      path,
		session:   session.New(GetLogger("session")),
		analyzer:  a,
		formatter: f,
		out:       out,
		status:    newStatusPrinter(errOut),
		logger:    GetLogger("watch"),
		stats:     monitor.New(failureKind),
		sem:       semaphore.NewWeighted(1),
	}
}

// Run analyzes the file once, then again after every write, until ctx is
// done. In-flight analyses are waited for before Run returns.
func (w *protocolWatcher) Run(ctx context.Context) error {
	// watching the directory also catches editors that save by rename
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			w.logger.Debug("Failed to close watcher: %v", err)
		}
	}()
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch file: %w", err)
	}

	w.status.header("Watching " + w.path + " (Ctrl+C to stop)")

	g, gctx := errgroup.WithContext(ctx)
	w.trigger(gctx, g)

	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case event, ok := <-watcher.Events:
				if !ok {
					return fmt.Errorf("watcher events channel closed")
				}
				if w.relevant(event) {
					w.logger.Debug("Change detected: %s", event)
					w.trigger(gctx, g)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return fmt.Errorf("watcher errors channel closed")
				}
				w.logger.Warn("Watcher error: %v", err)
			}
		}
	})

	return g.Wait()
}

func (w *protocolWatcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

// trigger starts an analysis, or marks one pending when a run is in flight
func (w *protocolWatcher) trigger(ctx context.Context, g *errgroup.Group) {
	if !w.sem.TryAcquire(1) {
		w.pending.Store(true)
		w.stats.RecordCoalesced()
		return
	}
	g.Go(func() error {
		w.drain(ctx)
		return nil
	})
}

// drain runs analyses until no write arrived during the last one. The
// caller holds the semaphore.
func (w *protocolWatcher) drain(ctx context.Context) {
	for {
		w.pending.Store(false)
		w.analyzeOnce(ctx)
		w.sem.Release(1)

		if ctx.Err() != nil || !w.pending.Load() || !w.sem.TryAcquire(1) {
			return
		}
	}
}

func (w *protocolWatcher) analyzeOnce(ctx context.Context) {
	if err := w.session.LoadPath(w.path); err != nil {
		w.status.failure(w.session.Err())
		return
	}
	text, seq, ok := w.session.Begin()
	if !ok {
		w.status.info("Protocol is empty, waiting for changes")
		return
	}

	err := w.stats.Track(func() error {
		r, err := w.analyzer.Analyze(ctx, text)
		if err != nil {
			return err
		}
		w.session.CompleteSeq(seq, r)
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		w.session.FailSeq(seq, err)
		fields := []logger.Field{logger.F("kind", failureKind(err)), logger.Error(err)}
		if hint := failureHint(err); hint != "" {
			fields = append(fields, logger.F("hint", hint))
		}
		w.logger.DebugWithFields("Analysis failed", fields)
		w.status.failure(fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), w.session.Err()))
		return
	}

	output, err := w.formatter.Format(w.session.Report())
	if err != nil {
		w.status.failure(fmt.Sprintf("failed to format output: %v", err))
		return
	}
	w.status.success(fmt.Sprintf("[%s] Analysis complete", time.Now().Format("15:04:05")))
	if _, err := w.out.Write(output); err != nil {
		w.logger.Warn("Failed to write report: %v", err)
	}
}

// validateWatchFilePath checks that path is an existing .py file
func validateWatchFilePath(path string) error {
	if path == "" || path == "." {
		return fmt.Errorf("empty file path")
	}
	if !session.IsProtocolFile(path) {
		return errors.New(session.MsgInvalidFile)
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("cannot watch directory, must be a file")
	}
	return nil
}
