package cli

import (
	"github.com/alecthomas/kong"
	"github.com/alecthomas/repr"

	"github.com/robinvdvleuten/kmy/loader"
)

// DoctorCmd provides doctor utilities for debugging KMyMoney files.
type DoctorCmd struct {
	Dump DumpCmd `cmd:"" help:"Dump the decoded accounts and transactions."`
}

// DumpCmd prints the decoded entities of a ledger as Go values.
type DumpCmd struct {
	File FileOrStdin `help:"KMyMoney file (use '-' for stdin)." arg:""`
	What string      `help:"What to dump (${enum})." arg:"" optional:"" enum:"all,accounts,transactions" default:"all"`
}

// Run executes the dump command.
func (cmd *DumpCmd) Run(ctx *kong.Context, globals *Globals) error {
	r := globals.start(ctx.Stderr, "doctor dump", cmd.File.Filename)
	defer r.report()

	l, err := loadLedger(ctx, r, &cmd.File, loader.New())
	if err != nil {
		return err
	}

	p := repr.New(ctx.Stdout, repr.Indent("  "), repr.OmitEmpty(true))

	if cmd.What == "all" || cmd.What == "accounts" {
		for _, acc := range l.Accounts() {
			p.Println(acc)
		}
	}
	if cmd.What == "all" || cmd.What == "transactions" {
		for _, tx := range l.Transactions() {
			p.Println(tx)
		}
	}

	return nil
}
