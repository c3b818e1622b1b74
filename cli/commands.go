package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"

	"github.com/robinvdvleuten/kmy/ledger"
	"github.com/robinvdvleuten/kmy/loader"
	"github.com/robinvdvleuten/kmy/telemetry"
)

var (
	Version   = ""
	CommitSHA = ""
)

// Globals defines global flags available to all commands.
type Globals struct {
	Telemetry bool   `help:"Show timing telemetry for operations." env:"KMY_TELEMETRY"`
	LogLevel  string `help:"Log level (${enum})." enum:"debug,info,warn,error" default:"warn" env:"KMY_LOG_LEVEL"`
}

type Commands struct {
	Globals

	Accounts  AccountsCmd  `cmd:"" help:"List accounts matching a path pattern."`
	Splits    SplitsCmd    `cmd:"" help:"List all splits joined with their transaction."`
	Balance   BalanceCmd   `cmd:"" help:"Show the running balance of a single account."`
	Aggregate AggregateCmd `cmd:"" help:"Sum split values per account and period."`
	Check     CheckCmd     `cmd:"" help:"Check that every transaction balances."`
	Doctor    DoctorCmd    `cmd:"" help:"Doctor utilities for debugging KMyMoney files."`
	Web       WebCmd       `cmd:"" help:"Serve the ledger as a read-only JSON API."`
}

// Logger returns a console logger writing to w at the configured level.
func (g *Globals) Logger(w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(g.LogLevel)
	if err != nil || g.LogLevel == "" {
		level = zerolog.WarnLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: !isTerminal()}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// run is the shared runtime of a command: a context carrying the logger and,
// with --telemetry, a timing collector rooted at a timer named after the
// command and its file.
type run struct {
	ctx    context.Context
	report func()
}

func (g *Globals) start(stderr io.Writer, command, filename string) *run {
	logger := g.Logger(stderr)
	r := &run{
		ctx:    logger.WithContext(context.Background()),
		report: func() {},
	}

	if g.Telemetry {
		collector := telemetry.NewTimingCollector()
		r.ctx = telemetry.WithCollector(r.ctx, collector)

		timer := collector.Start(fmt.Sprintf("%s %s", command, filepath.Base(filename)))
		r.ctx = telemetry.WithRootTimer(r.ctx, timer)

		done := false
		r.report = func() {
			if done {
				return
			}
			done = true
			timer.End()
			_, _ = fmt.Fprintln(stderr)
			collector.Report(stderr)
		}
	}

	return r
}

// loadLedger loads the ledger of a command. Load errors are rendered to
// stderr with source context and reported as a *CommandError.
func loadLedger(kctx *kong.Context, r *run, file *FileOrStdin, ldr *loader.Loader) (*ledger.Ledger, error) {
	l, err := file.Load(r.ctx, ldr)
	if err == nil {
		return l, nil
	}

	var validationErrors *ledger.ValidationErrors
	renderer := NewErrorRenderer(file.Source())
	if errors.As(err, &validationErrors) {
		_, _ = fmt.Fprintln(kctx.Stderr, renderer.RenderAll(validationErrors.Errors))
		_, _ = fmt.Fprintln(kctx.Stderr)
		printError(kctx.Stderr, fmt.Sprintf("%d validation error(s) found", len(validationErrors.Errors)))
	} else {
		_, _ = fmt.Fprintln(kctx.Stderr, renderer.Render(err))
		_, _ = fmt.Fprintln(kctx.Stderr)
		printError(kctx.Stderr, "failed to load ledger")
	}

	r.report()
	return nil, NewCommandError(1)
}
