// Package ledger provides the read-only query engine over a decoded KMyMoney
// document.
//
// A Ledger is built once from a model.Document and never changes afterwards.
// It exposes three tables:
//   - accounts, in document order, each with its resolved colon separated path
//   - transactions, in document order
//   - splits, each joined with the post date and memo of its transaction
//
// On top of these tables it answers path queries with glob segments
// ("Assets:Bank:*", "Expenses:**"), running balances for a single account and
// sums grouped by account path and calendar period.
//
// Example usage:
//
//	l, err := ledger.New(ctx, doc)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, acc := range l.Query("Assets:**") {
//	    fmt.Println(acc.Path, acc.LastBalance)
//	}
//
//	rows, err := l.Aggregate("Expenses:**", ledger.AggregateOptions{Level: 2, Period: ledger.Monthly})
package ledger

import (
	"context"
	"fmt"

	"github.com/robinvdvleuten/kmy/model"
	"github.com/robinvdvleuten/kmy/telemetry"
)

// Ledger holds the account, transaction and split tables of one document.
// All methods are safe for concurrent use.
type Ledger struct {
	accounts     []*AccountRow
	accountIndex map[string]int
	children     map[string][]int // parent id -> child row indices, table order
	roots        []int            // rows whose parent is absent or dangling

	transactions []*model.Transaction
	txIndex      map[string]int

	splits          []*SplitRow
	splitsByAccount map[string][]int

	resolver *Resolver
}

// AccountRow is an account together with its resolved path.
type AccountRow struct {
	*model.Account

	Path string // e.g. "Assets:Bank:Checking"
}

// SplitRow is a split joined with the post date and memo of its owning
// transaction. Both are absent when the transaction is unknown.
type SplitRow struct {
	*model.Split

	PostDate        *model.Date
	TransactionMemo string
}

// New builds a ledger from a decoded document. It fails when the account
// tree contains a cycle, in which case no ledger is returned.
func New(ctx context.Context, doc *model.Document) (*Ledger, error) {
	timer := telemetry.StartTimer(ctx, fmt.Sprintf("ledger.build (%d accounts, %d transactions)", len(doc.Accounts), len(doc.Transactions)))
	defer timer.End()

	l := &Ledger{
		accounts:        make([]*AccountRow, 0, len(doc.Accounts)),
		accountIndex:    make(map[string]int, len(doc.Accounts)),
		children:        make(map[string][]int),
		transactions:    doc.Transactions,
		txIndex:         make(map[string]int, len(doc.Transactions)),
		splitsByAccount: make(map[string][]int),
		resolver:        NewResolver(doc.Accounts),
	}

	for _, acc := range doc.Accounts {
		l.accountIndex[acc.ID] = len(l.accounts)
		l.accounts = append(l.accounts, &AccountRow{Account: acc})
	}

	for i, row := range l.accounts {
		if _, ok := l.accountIndex[row.ParentID]; ok {
			l.children[row.ParentID] = append(l.children[row.ParentID], i)
		} else {
			l.roots = append(l.roots, i)
		}
	}

	pathTimer := timer.Child("ledger.resolve_paths")
	for _, row := range l.accounts {
		path, err := l.resolver.Resolve(row.ID)
		if err != nil {
			pathTimer.End()
			return nil, err
		}
		row.Path = path
	}
	pathTimer.End()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	joinTimer := timer.Child("ledger.join_splits")
	for i, tx := range doc.Transactions {
		l.txIndex[tx.ID] = i
	}
	for _, tx := range doc.Transactions {
		for _, s := range tx.Splits {
			row := &SplitRow{Split: s}
			if i, ok := l.txIndex[s.TransactionID]; ok {
				owner := l.transactions[i]
				row.PostDate = owner.PostDate
				row.TransactionMemo = owner.Memo
			}
			l.splitsByAccount[s.AccountID] = append(l.splitsByAccount[s.AccountID], len(l.splits))
			l.splits = append(l.splits, row)
		}
	}
	joinTimer.End()

	return l, nil
}

// Accounts returns the account table in document order.
func (l *Ledger) Accounts() []*AccountRow {
	return l.accounts
}

// Account returns the account row with the given id.
func (l *Ledger) Account(id string) (*AccountRow, bool) {
	i, ok := l.accountIndex[id]
	if !ok {
		return nil, false
	}
	return l.accounts[i], true
}

// Transactions returns all transactions in document order.
func (l *Ledger) Transactions() []*model.Transaction {
	return l.transactions
}

// Transaction returns the transaction with the given id.
func (l *Ledger) Transaction(id string) (*model.Transaction, bool) {
	i, ok := l.txIndex[id]
	if !ok {
		return nil, false
	}
	return l.transactions[i], true
}

// Splits returns the joined split table, ordered by transaction and then by
// the order splits are declared in.
func (l *Ledger) Splits() []*SplitRow {
	return l.splits
}

// AccountSplits returns the split rows referencing the account, in table order.
func (l *Ledger) AccountSplits(accountID string) []*SplitRow {
	indices := l.splitsByAccount[accountID]
	rows := make([]*SplitRow, len(indices))
	for i, idx := range indices {
		rows[i] = l.splits[idx]
	}
	return rows
}

// Path resolves the path of an account id through the shared resolver.
func (l *Ledger) Path(accountID string) (string, error) {
	return l.resolver.Resolve(accountID)
}
