package ledger

import "strings"

const (
	// WildcardChildren matches all direct children of the current accounts.
	WildcardChildren = "*"
	// WildcardSubtree matches the current accounts and all their descendants.
	WildcardSubtree = "**"
)

// QueryOption configures a path query.
type QueryOption func(*queryConfig)

type queryConfig struct {
	includeClosed bool
}

// IncludeClosed makes closed accounts visible to the query. By default they
// are removed from the search space before matching.
func IncludeClosed() QueryOption {
	return func(c *queryConfig) {
		c.includeClosed = true
	}
}

// Query returns the accounts matching a path expression, in account table
// order. An expression is a ":" separated list of segments matched from the
// top of the account forest:
//
//	Assets:Bank:Checking   literal segments, one level each
//	Assets:Bank:*          all direct children of Assets:Bank
//	Assets:**              Assets and every account below it
//
// A wildcard ends matching; any segments after it are ignored. A literal
// segment that matches nothing yields an empty result, never an error.
func (l *Ledger) Query(expr string, opts ...QueryOption) []*AccountRow {
	cfg := &queryConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	visible := func(i int) bool {
		return cfg.includeClosed || !l.accounts[i].Closed
	}

	// nil frontier means the virtual root above all top-level accounts
	var frontier []int

	childrenOf := func(nodes []int) []int {
		if nodes == nil {
			return l.roots
		}
		var out []int
		for _, n := range nodes {
			out = append(out, l.children[l.accounts[n].ID]...)
		}
		return out
	}

	for _, segment := range strings.Split(expr, PathSeparator) {
		switch segment {
		case WildcardChildren:
			return l.collect(filter(childrenOf(frontier), visible))

		case WildcardSubtree:
			if frontier == nil {
				return l.collect(filter(allIndices(len(l.accounts)), visible))
			}
			return l.collect(filter(l.subtree(frontier), visible))

		default:
			var next []int
			for _, i := range childrenOf(frontier) {
				if visible(i) && l.accounts[i].Name == segment {
					next = append(next, i)
				}
			}
			if len(next) == 0 {
				return nil
			}
			frontier = next
		}
	}

	return l.collect(frontier)
}

// QueryOne returns the single account matching expr. It returns nil when
// nothing matches and *AmbiguousPathError when several accounts do.
func (l *Ledger) QueryOne(expr string, opts ...QueryOption) (*AccountRow, error) {
	rows := l.Query(expr, opts...)
	switch len(rows) {
	case 0:
		return nil, nil
	case 1:
		return rows[0], nil
	}

	paths := make([]string, len(rows))
	for i, row := range rows {
		paths[i] = row.Path
	}
	return nil, &AmbiguousPathError{Expr: expr, Matches: paths}
}

// subtree returns the given rows plus all their descendants, using an
// explicit worklist. Descent follows parent links over the full table, so
// open accounts below a closed one are still reached.
func (l *Ledger) subtree(start []int) []int {
	seen := make(map[int]bool, len(start))
	work := append([]int(nil), start...)
	var out []int

	for len(work) > 0 {
		n := work[len(work)-1]
		work = work[:len(work)-1]
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
		work = append(work, l.children[l.accounts[n].ID]...)
	}

	return out
}

// collect returns the rows for the given indices in table order, without
// duplicates.
func (l *Ledger) collect(indices []int) []*AccountRow {
	if len(indices) == 0 {
		return nil
	}

	marked := make([]bool, len(l.accounts))
	for _, i := range indices {
		marked[i] = true
	}

	rows := make([]*AccountRow, 0, len(indices))
	for i, row := range l.accounts {
		if marked[i] {
			rows = append(rows, row)
		}
	}
	return rows
}

func filter(indices []int, keep func(int) bool) []int {
	var out []int
	for _, i := range indices {
		if keep(i) {
			out = append(out, i)
		}
	}
	return out
}

func allIndices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
