// Package layer implements the in-process driver contract between the
// subsumption core and its collaborators (spec.md §6): expanding one output
// set into its successors, and pruning a whole layer down to its minimal
// antichain, single-threaded or parallel.
package layer

import (
	"sort"

	"github.com/jix-sortnetopt/sortnetgo/outputset"
	"github.com/jix-sortnetopt/sortnetgo/subsumeindex"
)

// Expand produces every useful successor of s: for each ordered channel
// pair (i,j), i<j, not already implied to be a no-op, apply the comparator
// and canonicalise by weight-ordering. The batch is sorted and deduplicated
// by value sequence so that trivially identical successors collapse before
// ever reaching the subsume index.
func Expand(s *outputset.OutputSet) []*outputset.OutputSet {
	channels := s.Channels()
	implied := s.Implications()

	var successors []*outputset.OutputSet
	for i := 0; i < channels; i++ {
		for j := i + 1; j < channels; j++ {
			if implied.Implied(i, j) {
				continue
			}
			next, _ := s.ApplyComparator(i, j).OrderChannelsByWeight()
			successors = append(successors, next)
		}
	}

	sort.Slice(successors, func(a, b int) bool {
		return lessValues(successors[a].Values(), successors[b].Values())
	})

	deduped := successors[:0]
	for i, s := range successors {
		if i > 0 && s.Equal(successors[i-1]) {
			continue
		}
		deduped = append(deduped, s)
	}
	return deduped
}

func lessValues(a, b []uint16) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

// Prune reduces layer to its minimal antichain under permuted subsumption
// using a single-threaded SubsumeIndex: every candidate is inserted in
// order, then subsume_all folds the index down to one tree.
func Prune(layer []*outputset.OutputSet) []*outputset.OutputSet {
	var ix subsumeindex.Index[subsumeindex.Unit]
	for _, s := range layer {
		ix.Insert(subsumeindex.NewPair(s, subsumeindex.Unit{}))
	}
	ix.SubsumeAll()

	var out []*outputset.OutputSet
	ix.DrainUsing(func(p subsumeindex.AbstractedPair[subsumeindex.Unit]) {
		out = append(out, p.OutputSet)
	})
	return out
}

// PruneParallel reduces layer to its minimal antichain using the parallel
// incremental minimaliser, for use on layers large enough that the
// round-based fan-out pays for itself.
func PruneParallel(layer []*outputset.OutputSet) []*outputset.OutputSet {
	pairs := subsumeindex.IncrementalMinimalElements(layer, func(s *outputset.OutputSet) []subsumeindex.AbstractedPair[subsumeindex.Unit] {
		return []subsumeindex.AbstractedPair[subsumeindex.Unit]{subsumeindex.NewPair(s, subsumeindex.Unit{})}
	})

	out := make([]*outputset.OutputSet, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, p.OutputSet)
	}
	return out
}
