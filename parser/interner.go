package parser

// Interner implements string interning to reduce memory usage.
//
// Ledger documents repeat the same short strings thousands of times:
// attribute names, account ids referenced by every split, currency codes,
// payee ids and empty reconcile dates. Keeping one canonical instance per
// distinct string noticeably shrinks the record tree of a large file.
type Interner struct {
	pool map[string]string
}

// NewInterner creates a new string interner with the given initial capacity.
func NewInterner(capacity int) *Interner {
	return &Interner{
		pool: make(map[string]string, capacity),
	}
}

// Intern returns the canonical version of the string.
func (i *Interner) Intern(s string) string {
	if interned, ok := i.pool[s]; ok {
		return interned
	}
	i.pool[s] = s
	return s
}

// Size returns the number of unique strings in the intern pool.
func (i *Interner) Size() int {
	return len(i.pool)
}
