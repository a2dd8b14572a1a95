package subsumeindex

import (
	"testing"

	"github.com/jix-sortnetopt/sortnetgo/outputset"
)

// TestSubsumeAllProducesAntichain is spec.md §8 property 9: after
// subsume_all, no stored pair is subsumed by any other under any channel
// permutation. Insert a broad (unpruned) set followed by a narrower,
// permuted-subsuming one; only the narrower pair must remain.
func TestSubsumeAllProducesAntichain(t *testing.T) {
	w := 4
	broad := outputset.AllValues(w)
	narrow := outputset.AllValues(w).ApplyComparator(0, 1)

	var ix Index[Unit]
	ix.Insert(NewPair(broad, Unit{}))
	ix.Insert(NewPair(narrow, Unit{}))
	ix.SubsumeAll()

	var remaining []*outputset.OutputSet
	ix.DrainUsing(func(p AbstractedPair[Unit]) {
		remaining = append(remaining, p.OutputSet)
	})

	if len(remaining) != 1 {
		t.Fatalf("expected 1 surviving pair after subsume_all, got %d", len(remaining))
	}
	if !remaining[0].Equal(narrow) {
		t.Fatal("the surviving pair should be the narrower (subsuming) one, not the broad one")
	}
}

// TestSubsumeAllInsertionOrderCommutes is spec.md §8 property 10: for any
// permutation of the insertion order of a batch, subsume_all yields an
// antichain of the same size and the combined payload counts agree (given
// an associative-commutative combine, which *Count satisfies).
func TestSubsumeAllInsertionOrderCommutes(t *testing.T) {
	w := 4
	broad := outputset.AllValues(w)
	narrow := outputset.AllValues(w).ApplyComparator(0, 1)
	narrower := outputset.AllValues(w).ApplyComparator(0, 1).ApplyComparator(2, 3)

	orders := [][]*outputset.OutputSet{
		{broad, narrow, narrower},
		{narrower, narrow, broad},
		{narrow, broad, narrower},
	}

	var sizes []int
	var totals []Count
	for _, order := range orders {
		var ix Index[*Count]
		for _, s := range order {
			ix.Insert(NewPair(s, newCount(1)))
		}
		ix.SubsumeAll()

		var size int
		var total Count
		ix.DrainUsing(func(p AbstractedPair[*Count]) {
			size++
			total += *p.Value
		})
		sizes = append(sizes, size)
		totals = append(totals, total)
	}

	for i := 1; i < len(sizes); i++ {
		if sizes[i] != sizes[0] {
			t.Fatalf("order %d: antichain size = %d, want %d (order 0)", i, sizes[i], sizes[0])
		}
		if totals[i] != totals[0] {
			t.Fatalf("order %d: combined payload total = %d, want %d (order 0)", i, totals[i], totals[0])
		}
	}
}
