package ledger

import (
	"strings"
	"sync"

	"github.com/robinvdvleuten/kmy/model"
)

// PathSeparator separates account names in a path.
const PathSeparator = ":"

// Resolver computes account paths by walking parent links. Results are
// memoized for the lifetime of the resolver; the cache is bounded by the
// number of accounts and safe for concurrent use.
type Resolver struct {
	accounts map[string]*model.Account

	mu    sync.RWMutex
	cache map[string]string
}

// NewResolver creates a resolver over the given accounts.
func NewResolver(accounts []*model.Account) *Resolver {
	index := make(map[string]*model.Account, len(accounts))
	for _, acc := range accounts {
		index[acc.ID] = acc
	}
	return &Resolver{
		accounts: index,
		cache:    make(map[string]string, len(accounts)),
	}
}

// Resolve returns the path of the account: the names of its ancestors from
// the root of its tree down to the account itself, joined by ":".
//
// The walk stops at the first id without an account, so a dangling parent
// reference makes its child a root. An unknown id resolves to "". A walk
// that revisits an id fails with *CyclicAccountTreeError and caches nothing.
func (r *Resolver) Resolve(id string) (string, error) {
	r.mu.RLock()
	path, ok := r.cache[id]
	r.mu.RUnlock()
	if ok {
		return path, nil
	}

	var (
		ids     []string // walked ids, leaf first
		names   []string // their names, leaf first
		visited = make(map[string]bool)
		prefix  string // cached path of the first memoized ancestor
	)

	current := id
	for {
		acc, ok := r.accounts[current]
		if !ok {
			break
		}
		if visited[current] {
			return "", &CyclicAccountTreeError{ID: id, Cycle: append(ids, current)}
		}
		visited[current] = true

		if len(ids) > 0 {
			r.mu.RLock()
			cached, hit := r.cache[current]
			r.mu.RUnlock()
			if hit {
				prefix = cached
				break
			}
		}

		ids = append(ids, current)
		names = append(names, acc.Name)
		current = acc.ParentID
	}

	// names[k:] reversed is the path of ids[k] below prefix
	paths := make([]string, len(ids))
	var b strings.Builder
	b.WriteString(prefix)
	for k := len(names) - 1; k >= 0; k-- {
		if b.Len() > 0 {
			b.WriteString(PathSeparator)
		}
		b.WriteString(names[k])
		paths[k] = b.String()
	}

	r.mu.Lock()
	for k, walked := range ids {
		r.cache[walked] = paths[k]
	}
	r.mu.Unlock()

	if len(ids) == 0 {
		return "", nil
	}
	return paths[0], nil
}

// SplitPath splits a path into its segments.
func SplitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, PathSeparator)
}

// TruncatePath keeps the first level segments of path. A level of zero or
// less returns the path unchanged.
func TruncatePath(path string, level int) string {
	if level <= 0 {
		return path
	}
	segments := SplitPath(path)
	if len(segments) <= level {
		return path
	}
	return strings.Join(segments[:level], PathSeparator)
}
