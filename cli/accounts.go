package cli

import (
	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/kmy/ledger"
	"github.com/robinvdvleuten/kmy/loader"
	"github.com/robinvdvleuten/kmy/output"
)

type AccountsCmd struct {
	File    FileOrStdin `help:"KMyMoney file (use '-' for stdin)." arg:""`
	Pattern string      `help:"Account path pattern, e.g. 'Assets:*' or 'Expenses:**'." arg:"" optional:"" default:"**"`
	Closed  bool        `help:"Include closed accounts."`
	NonZero bool        `help:"Only show accounts with a non-zero last statement balance." name:"nonzero"`
}

func (cmd *AccountsCmd) Run(ctx *kong.Context, globals *Globals) error {
	r := globals.start(ctx.Stderr, "accounts", cmd.File.Filename)
	defer r.report()

	l, err := loadLedger(ctx, r, &cmd.File, loader.New())
	if err != nil {
		return err
	}

	var opts []ledger.QueryOption
	if cmd.Closed {
		opts = append(opts, ledger.IncludeClosed())
	}

	styles := output.NewStyles(ctx.Stdout)
	t := newTable("PATH", "ID", "TYPE", "CURRENCY", "BALANCE").alignRight(4)

	var negative []bool
	for _, acc := range l.Query(cmd.Pattern, opts...) {
		if cmd.NonZero && acc.LastBalance.IsZero() {
			continue
		}
		path := acc.Path
		if acc.Closed {
			path += " (closed)"
		}
		t.add(path, acc.ID, acc.Type.String(), acc.Currency, acc.LastBalance.StringFixed(2))
		negative = append(negative, acc.LastBalance.IsNegative())
	}

	if len(t.rows) == 0 {
		printInfof(ctx.Stderr, "No accounts match %s", pathStyle.Render(cmd.Pattern))
		return nil
	}

	t.style = func(row, col int, padded string) string {
		switch col {
		case 0:
			return styles.Account(padded)
		case 4:
			return styles.Signed(padded, negative[row])
		}
		return padded
	}
	t.render(ctx.Stdout, styles)

	return nil
}
