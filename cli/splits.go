package cli

import (
	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/kmy/loader"
	"github.com/robinvdvleuten/kmy/output"
)

type SplitsCmd struct {
	File FileOrStdin `help:"KMyMoney file (use '-' for stdin)." arg:""`
}

func (cmd *SplitsCmd) Run(ctx *kong.Context, globals *Globals) error {
	r := globals.start(ctx.Stderr, "splits", cmd.File.Filename)
	defer r.report()

	l, err := loadLedger(ctx, r, &cmd.File, loader.New())
	if err != nil {
		return err
	}

	styles := output.NewStyles(ctx.Stdout)
	t := newTable("DATE", "TRANSACTION", "SPLIT", "ACCOUNT", "VALUE", "MEMO").alignRight(4)

	splits := l.Splits()
	for _, s := range splits {
		account := s.AccountID
		if path, err := l.Path(s.AccountID); err == nil && path != "" {
			account = path
		}
		memo := s.Memo
		if memo == "" {
			memo = s.TransactionMemo
		}
		t.add(s.PostDate.String(), s.TransactionID, s.ID, account, s.Value.StringFixed(2), memo)
	}

	t.style = func(row, col int, padded string) string {
		switch col {
		case 0:
			return styles.Date(padded)
		case 3:
			return styles.Account(padded)
		case 4:
			return styles.Signed(padded, splits[row].Value.IsNegative())
		}
		return padded
	}
	t.render(ctx.Stdout, styles)

	return nil
}
