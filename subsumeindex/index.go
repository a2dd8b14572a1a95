package subsumeindex

// Index is a log-structured subsume index: a list of trees whose sizes are
// kept in (near) decreasing order from most- to least-recently inserted, so
// that an insert amortizes to O(log n) tree rebuilds (spec.md §4.6).
type Index[T Item[T]] struct {
	trees []*Node[T]
	len   int
}

// Len returns the total number of pairs held across every tree.
func (ix *Index[T]) Len() int { return ix.len }

// IsEmpty reports whether the index holds no trees at all.
func (ix *Index[T]) IsEmpty() bool { return len(ix.trees) == 0 }

// Insert probes pair against every tree, oldest first; if some tree
// subsumes it, pair's payload is folded in and nothing is inserted.
// Otherwise a fresh single-element tree is appended and the log is
// rebalanced by merging adjacent trees while the size invariant is
// violated.
func (ix *Index[T]) Insert(pair AbstractedPair[T]) {
	for _, tree := range ix.trees {
		if ok, leftover := tree.CombineWithSubsuming(pair); ok {
			return
		} else {
			pair = leftover
		}
	}

	ix.trees = append(ix.trees, New([]AbstractedPair[T]{pair}))
	ix.len++
	ix.mergeTrees(false)
}

// SubsumeAll forces the whole log down to a single tree, folding every
// pair against every other tree regardless of the size invariant.
func (ix *Index[T]) SubsumeAll() {
	ix.mergeTrees(true)
}

// mergeTrees repeatedly merges the two most-recently-appended trees while
// either all is set, or the size invariant (each tree strictly smaller than
// the one before it) is violated. Merging drains the older tree and tests each
// of its pairs against the newer tree, then rebuilds a single tree from the
// survivors plus everything the newer tree held -- the newer pairs are kept
// wholesale since they are the ones a later, already-subsumed-tested
// candidate could not be subsumed by.
func (ix *Index[T]) mergeTrees(all bool) {
	for len(ix.trees) >= 2 {
		n := len(ix.trees)
		newer := ix.trees[n-1]
		older := ix.trees[n-2]

		if !all && older.Len() > newer.Len() {
			return
		}

		ix.trees = ix.trees[:n-2]
		ix.len -= newer.Len()
		ix.len -= older.Len()

		var survivors []AbstractedPair[T]
		for _, p := range older.Drain() {
			if ok, leftover := newer.CombineWithSubsuming(p); !ok {
				survivors = append(survivors, leftover)
			}
		}
		survivors = append(survivors, newer.Drain()...)

		merged := New(survivors)
		ix.len += merged.Len()
		ix.trees = append(ix.trees, merged)
	}
}

// DrainUsing calls f with every pair held in the index, across all trees,
// oldest tree first.
func (ix *Index[T]) DrainUsing(f func(AbstractedPair[T])) {
	for _, tree := range ix.trees {
		for _, p := range tree.Drain() {
			f(p)
		}
	}
}
