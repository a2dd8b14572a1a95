package layer

import (
	"sort"
	"testing"

	"github.com/jix-sortnetopt/sortnetgo/outputset"
	"github.com/jix-sortnetopt/sortnetgo/subsumeindex"
)

// genSomeOutputSets reproduces spec.md §8 S2's generator verbatim: three
// nested ApplyComparator calls over every (i,j) with i<j, canonicalised by
// weight exactly once at the end -- not the production Expand, which
// applies a single comparator and is not the fixture S2/S6 describe
// (grounded on original_source/src/subsume_index.rs's gen_some_output_sets).
func genSomeOutputSets(channels int) []*outputset.OutputSet {
	all := outputset.AllValues(channels)

	var out []*outputset.OutputSet
	for j := 0; j < channels; j++ {
		for i := 0; i < j; i++ {
			tmp := all.ApplyComparator(i, j)
			for j2 := 0; j2 < channels; j2++ {
				for i2 := 0; i2 < j2; i2++ {
					tmp2 := tmp.ApplyComparator(i2, j2)
					for j3 := 0; j3 < channels; j3++ {
						for i3 := 0; i3 < j3; i3++ {
							tmp3 := tmp2.ApplyComparator(i3, j3)
							canon, _ := tmp3.OrderChannelsByWeight()
							out = append(out, canon)
						}
					}
				}
			}
		}
	}
	return out
}

// TestBuildIndexMinimality is spec.md §8 S2: reducing the 3-deep-comparator
// generator's output to its minimal antichain must yield exactly the
// documented counts for w in {3,4,5,6,7,8}.
func TestBuildIndexMinimality(t *testing.T) {
	want := map[int]int{3: 1, 4: 4, 5: 6, 6: 7, 7: 7, 8: 7}

	for w := 3; w <= 8; w++ {
		sets := genSomeOutputSets(w)

		pairs := make([]subsumeindex.AbstractedPair[subsumeindex.Unit], len(sets))
		for i, s := range sets {
			pairs[i] = subsumeindex.NewPair(s, subsumeindex.Unit{})
		}

		minimal := subsumeindex.New(pairs).MinimalElements()
		if len(minimal) != want[w] {
			t.Fatalf("w=%d: minimal elements = %d, want %d", w, len(minimal), want[w])
		}
	}
}

// TestDriverOneLayer is spec.md §8 S6: for width 4, one round of the
// parallel incremental minimaliser over S2's generator scheme must produce
// the same count S2 documents for width 4.
func TestDriverOneLayer(t *testing.T) {
	w := 4
	sets := genSomeOutputSets(w)

	minimal := subsumeindex.IncrementalMinimalElements(sets, func(s *outputset.OutputSet) []subsumeindex.AbstractedPair[subsumeindex.Unit] {
		return []subsumeindex.AbstractedPair[subsumeindex.Unit]{subsumeindex.NewPair(s, subsumeindex.Unit{})}
	})
	if len(minimal) != 4 {
		t.Fatalf("width 4 one-layer parallel prune: got %d minimal elements, want 4", len(minimal))
	}
}

// TestDriverEquivalence is spec.md §9's mandated cross-test: the
// single-threaded SubsumeIndex driver and the parallel incremental
// minimaliser must agree on the final minimal set for the same input.
func TestDriverEquivalence(t *testing.T) {
	for w := 3; w <= 6; w++ {
		expanded := Expand(outputset.AllValues(w))

		sequential := Prune(expanded)
		parallel := PruneParallel(expanded)

		if len(sequential) != len(parallel) {
			t.Fatalf("w=%d: sequential=%d parallel=%d minimal elements differ in count", w, len(sequential), len(parallel))
		}

		seqKeys := valueKeys(sequential)
		parKeys := valueKeys(parallel)
		sort.Strings(seqKeys)
		sort.Strings(parKeys)
		for i := range seqKeys {
			if seqKeys[i] != parKeys[i] {
				t.Fatalf("w=%d: driver result sets differ at index %d: %q vs %q", w, i, seqKeys[i], parKeys[i])
			}
		}
	}
}

func valueKeys(sets []*outputset.OutputSet) []string {
	keys := make([]string, len(sets))
	for i, s := range sets {
		keys[i] = valuesKey(s.Values())
	}
	return keys
}

func valuesKey(vals []uint16) string {
	b := make([]byte, 0, len(vals)*5)
	for _, v := range vals {
		b = append(b, byte(v>>8), byte(v))
	}
	return string(b)
}

func TestExpandDeduplicatesAndSkipsImpliedNoOps(t *testing.T) {
	w := 4
	s := outputset.AllValues(w)
	successors := Expand(s)

	seen := map[string]bool{}
	for _, succ := range successors {
		k := valuesKey(succ.Values())
		if seen[k] {
			t.Fatal("Expand produced a duplicate successor")
		}
		seen[k] = true
		if len(succ.Values()) > len(s.Values()) {
			t.Fatal("a comparator application must never grow the output set")
		}
	}
}
