package cli

import (
	"errors"
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/kmy/ledger"
	"github.com/robinvdvleuten/kmy/loader"
	"github.com/robinvdvleuten/kmy/output"
)

type BalanceCmd struct {
	File   FileOrStdin `help:"KMyMoney file (use '-' for stdin)." arg:""`
	Path   string      `help:"Path of a single account. Prompts for one when omitted on a terminal." arg:"" optional:""`
	Closed bool        `help:"Allow closed accounts."`
}

func (cmd *BalanceCmd) Run(ctx *kong.Context, globals *Globals) error {
	r := globals.start(ctx.Stderr, "balance", cmd.File.Filename)
	defer r.report()

	l, err := loadLedger(ctx, r, &cmd.File, loader.New())
	if err != nil {
		return err
	}

	var opts []ledger.QueryOption
	if cmd.Closed {
		opts = append(opts, ledger.IncludeClosed())
	}

	path := cmd.Path
	if path == "" {
		var paths []string
		for _, acc := range l.Query(ledger.WildcardSubtree, opts...) {
			paths = append(paths, acc.Path)
		}
		path, err = pickAccount("Account", paths)
		if err != nil {
			return err
		}
		if path == "" {
			return errors.New("an account path is required")
		}
	}

	rows, err := l.RunningBalance(path, opts...)
	if err != nil {
		_, _ = fmt.Fprint(ctx.Stderr, NewErrorRenderer(nil).Render(err))
		return NewCommandError(1)
	}
	if len(rows) == 0 {
		printInfof(ctx.Stderr, "No splits for %s", pathStyle.Render(path))
		return nil
	}

	styles := output.NewStyles(ctx.Stdout)
	t := newTable("DATE", "TRANSACTION", "MEMO", "VALUE", "BALANCE").alignRight(3, 4)
	for _, row := range rows {
		memo := row.SplitMemo
		if memo == "" {
			memo = row.Memo
		}
		t.add(row.Date.String(), row.TransactionID, memo, row.Value.StringFixed(2), row.Balance.StringFixed(2))
	}

	t.style = func(i, col int, padded string) string {
		switch col {
		case 0:
			return styles.Date(padded)
		case 3:
			return styles.Signed(padded, rows[i].Value.IsNegative())
		case 4:
			return styles.Signed(padded, rows[i].Balance.IsNegative())
		}
		return padded
	}
	t.render(ctx.Stdout, styles)

	return nil
}
