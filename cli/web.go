package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/kmy/web"
)

type WebCmd struct {
	File  string `help:"KMyMoney file to serve." arg:"" type:"existingfile"`
	Host  string `help:"Host to bind to." default:"127.0.0.1" env:"KMY_HOST"`
	Port  int    `help:"Port to listen on." default:"8080" env:"KMY_PORT"`
	Watch bool   `help:"Reload the ledger when the file changes." default:"true" negatable:""`
}

func (cmd *WebCmd) Run(ctx *kong.Context, globals *Globals) error {
	ledgerFile, err := filepath.Abs(cmd.File)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	r := globals.start(ctx.Stderr, "web", ledgerFile)
	defer r.report()

	version := Version
	if version == "" {
		version = "dev"
	}
	commitSHA := CommitSHA
	if commitSHA == "" {
		commitSHA = "local"
	}

	server := web.NewWithVersion(cmd.Port, ledgerFile, version, commitSHA)
	server.Host = cmd.Host
	server.WatchEnabled = cmd.Watch
	server.Logger = globals.Logger(ctx.Stderr)

	printInfof(ctx.Stdout, "Starting server on %s:%d", server.Host, cmd.Port)
	printInfof(ctx.Stdout, "Serving ledger: %s", pathStyle.Render(ledgerFile))

	runCtx, stop := signal.NotifyContext(r.ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Start(runCtx)
}
