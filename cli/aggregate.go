package cli

import (
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/kmy/ledger"
	"github.com/robinvdvleuten/kmy/loader"
	"github.com/robinvdvleuten/kmy/model"
	"github.com/robinvdvleuten/kmy/output"
)

type AggregateCmd struct {
	File   FileOrStdin `help:"KMyMoney file (use '-' for stdin)." arg:""`
	Path   string      `help:"Account path pattern, e.g. 'Expenses:**'." arg:""`
	Level  int         `help:"Collapse account paths to this many segments (0 keeps full paths)." default:"0" short:"l"`
	Since  string      `help:"Ignore splits posted before this date (YYYY-MM-DD)." placeholder:"DATE"`
	Period string      `help:"Bucket size: M (monthly) or Y (yearly)." default:"M" short:"p"`
	Closed bool        `help:"Include closed accounts."`
}

func (cmd *AggregateCmd) Run(ctx *kong.Context, globals *Globals) error {
	period, err := ledger.ParsePeriod(cmd.Period)
	if err != nil {
		return err
	}

	opts := ledger.AggregateOptions{
		Level:         cmd.Level,
		Period:        period,
		IncludeClosed: cmd.Closed,
	}
	if cmd.Since != "" {
		since, err := model.ParseDate(cmd.Since)
		if err != nil {
			return fmt.Errorf("invalid --since date %q: %w", cmd.Since, err)
		}
		opts.Since = since
	}

	r := globals.start(ctx.Stderr, "aggregate", cmd.File.Filename)
	defer r.report()

	l, err := loadLedger(ctx, r, &cmd.File, loader.New())
	if err != nil {
		return err
	}

	rows, err := l.Aggregate(cmd.Path, opts)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		printInfof(ctx.Stderr, "No splits for %s", pathStyle.Render(cmd.Path))
		return nil
	}

	styles := output.NewStyles(ctx.Stdout)
	t := newTable("PATH", "PERIOD", "SUM").alignRight(2)
	for _, row := range rows {
		t.add(row.Path, row.Period.String(), row.Sum.StringFixed(2))
	}

	t.style = func(i, col int, padded string) string {
		switch col {
		case 0:
			return styles.Account(padded)
		case 2:
			return styles.Signed(padded, rows[i].Sum.IsNegative())
		}
		return padded
	}
	t.render(ctx.Stdout, styles)

	return nil
}
