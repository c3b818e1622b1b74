package cli

import (
	"errors"
	"fmt"

	"github.com/alecthomas/kong"

	kmyerrors "github.com/robinvdvleuten/kmy/errors"
	"github.com/robinvdvleuten/kmy/ledger"
	"github.com/robinvdvleuten/kmy/loader"
)

type CheckCmd struct {
	File   FileOrStdin `help:"KMyMoney file (use '-' for stdin)." arg:""`
	Format string      `help:"Output format for errors (${enum})." enum:"pretty,text,json" default:"pretty" short:"f"`
}

func (cmd *CheckCmd) Run(ctx *kong.Context, globals *Globals) error {
	r := globals.start(ctx.Stderr, "check", cmd.File.Filename)
	defer r.report()

	ldr := loader.New(loader.WithValidation())

	if cmd.Format == "pretty" {
		l, err := loadLedger(ctx, r, &cmd.File, ldr)
		if err != nil {
			return err
		}

		printSuccess(ctx.Stdout, fmt.Sprintf("Check passed (%d accounts, %d transactions)", len(l.Accounts()), len(l.Transactions())))
		return nil
	}

	l, err := cmd.File.Load(r.ctx, ldr)
	if err == nil {
		if cmd.Format == "json" {
			_, _ = fmt.Fprintln(ctx.Stdout, "[]")
		} else {
			_, _ = fmt.Fprintf(ctx.Stdout, "Check passed (%d accounts, %d transactions)\n", len(l.Accounts()), len(l.Transactions()))
		}
		return nil
	}

	errs := []error{err}
	var validationErrors *ledger.ValidationErrors
	if errors.As(err, &validationErrors) {
		errs = validationErrors.Errors
	}

	var formatter kmyerrors.Formatter
	if cmd.Format == "json" {
		formatter = kmyerrors.NewJSONFormatter(cmd.File.Source())
	} else {
		formatter = kmyerrors.NewTextFormatter(kmyerrors.WithSource(cmd.File.Source()))
	}
	_, _ = fmt.Fprintln(ctx.Stdout, formatter.FormatAll(errs))

	return NewCommandError(1)
}
