package tpa

import "github.com/hornkernel/chck/smt/native"

// QueryResult is the outcome of a two-step reachability query at some
// hierarchy level. Refined is only meaningful when
// Reachable is true: an MBP-derived state formula describing the reached
// sub-region, used to pin down a tighter target for further recursion.
type QueryResult struct {
	Reachable bool
	Refined   *native.Term
}

// queryCache memoises QueryResult by (level, from, to) within one power: the
// recursive halving in exactLike revisits the same (level, from, to) triple
// across branches, so memoising avoids re-deriving the same interpolant.
type queryCache struct {
	entries map[cacheKey]QueryResult
}

type cacheKey struct {
	level int
	from  string
	to    string
}

func newQueryCache() *queryCache {
	return &queryCache{entries: make(map[cacheKey]QueryResult)}
}

func (c *queryCache) key(n int, from, to *native.Term) cacheKey {
	return cacheKey{level: n, from: from.String(), to: to.String()}
}

func (c *queryCache) get(n int, from, to *native.Term) (QueryResult, bool) {
	r, ok := c.entries[c.key(n, from, to)]
	return r, ok
}

func (c *queryCache) set(n int, from, to *native.Term, r QueryResult) {
	c.entries[c.key(n, from, to)] = r
}

func (c *queryCache) reset() {
	c.entries = make(map[cacheKey]QueryResult)
}
