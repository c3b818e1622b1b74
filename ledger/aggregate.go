package ledger

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/kmy/model"
)

// BalanceRow is one line of a running balance.
type BalanceRow struct {
	SplitID       string          `json:"splitId"`
	TransactionID string          `json:"transactionId"`
	Date          *model.Date     `json:"date"`
	Memo          string          `json:"memo"`      // Transaction memo
	SplitMemo     string          `json:"splitMemo"` // Memo of the split itself
	Value         decimal.Decimal `json:"value"`
	Balance       decimal.Decimal `json:"balance"` // Cumulative sum of Value up to this row
}

// RunningBalance returns the splits of the single account matching expr,
// ordered by post date, each with the cumulative sum of values so far.
// Splits posted on the same day keep their table order; splits without a
// post date come first.
//
// It returns an empty result when nothing matches and *AmbiguousPathError
// when expr matches more than one account.
func (l *Ledger) RunningBalance(expr string, opts ...QueryOption) ([]BalanceRow, error) {
	acc, err := l.QueryOne(expr, opts...)
	if err != nil || acc == nil {
		return nil, err
	}

	splits := l.AccountSplits(acc.ID)
	slices.SortStableFunc(splits, func(a, b *SplitRow) int {
		switch {
		case a.PostDate.Before(b.PostDate):
			return -1
		case b.PostDate.Before(a.PostDate):
			return 1
		}
		return 0
	})

	rows := make([]BalanceRow, len(splits))
	balance := decimal.Zero
	for i, s := range splits {
		balance = balance.Add(s.Value)
		rows[i] = BalanceRow{
			SplitID:       s.ID,
			TransactionID: s.TransactionID,
			Date:          s.PostDate,
			Memo:          s.TransactionMemo,
			SplitMemo:     s.Memo,
			Value:         s.Value,
			Balance:       balance,
		}
	}
	return rows, nil
}

// AggregateOptions configures Aggregate.
type AggregateOptions struct {
	// Level collapses paths to their first Level segments. Zero keeps full paths.
	Level int
	// Since drops splits posted before this date when set.
	Since *model.Date
	// Period is the bucket granularity.
	Period Period
	// IncludeClosed also aggregates closed accounts.
	IncludeClosed bool
}

// AggregateRow is the sum of split values for one path and period.
type AggregateRow struct {
	Path   string          `json:"path"`
	Period PeriodKey       `json:"period"`
	Sum    decimal.Decimal `json:"sum"`
}

type aggregateKey struct {
	path   string
	period PeriodKey
}

// Aggregate sums the split values of every account matching expr, grouped
// by account path and calendar period. With a Level, sibling accounts below
// that depth fall into the bucket of their common ancestor. Splits without a
// post date belong to no period and are skipped.
//
// Rows are sorted by path, then chronologically by period.
func (l *Ledger) Aggregate(expr string, opts AggregateOptions) ([]AggregateRow, error) {
	var queryOpts []QueryOption
	if opts.IncludeClosed {
		queryOpts = append(queryOpts, IncludeClosed())
	}

	sums := make(map[aggregateKey]decimal.Decimal)
	for _, acc := range l.Query(expr, queryOpts...) {
		path, err := l.Path(acc.ID)
		if err != nil {
			return nil, err
		}
		path = TruncatePath(path, opts.Level)

		for _, s := range l.AccountSplits(acc.ID) {
			if s.PostDate.IsZero() {
				continue
			}
			if opts.Since != nil && s.PostDate.Before(opts.Since) {
				continue
			}
			key := aggregateKey{path: path, period: opts.Period.Of(s.PostDate)}
			sums[key] = sums[key].Add(s.Value)
		}
	}

	rows := make([]AggregateRow, 0, len(sums))
	for key, sum := range sums {
		rows = append(rows, AggregateRow{Path: key.path, Period: key.period, Sum: sum})
	}
	slices.SortFunc(rows, func(a, b AggregateRow) int {
		if c := strings.Compare(a.Path, b.Path); c != 0 {
			return c
		}
		return a.Period.Compare(b.Period)
	})

	return rows, nil
}
