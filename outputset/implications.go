package outputset

import "github.com/bits-and-blooms/bitset"

// Implications is the symmetric "this comparator would be a no-op" relation
// on channels: for i<j, row i has bit j set and row j has bit i set iff
// applying ApplyComparator(i, j) would not change the output set. The
// reversed comparator ApplyComparator(j, i) is not probed. The layer driver
// (see package layer) uses it to skip generating redundant successors.
//
// Represented as one bitset row per channel, the same shape the teacher
// repo uses for childrenBitset/prefixesBitset intersection tests in
// overlaps.go.
type Implications []*bitset.BitSet

// Implications computes the no-op relation for s. Only pairs i<j are probed
// (matching the layer driver's canonical comparator ordering); the result
// is mirrored onto both rows.
func (s *OutputSet) Implications() Implications {
	w := s.channels
	rel := make(Implications, w)
	for c := range rel {
		rel[c] = bitset.New(uint(w))
	}

	for i := 0; i < w; i++ {
		for j := i + 1; j < w; j++ {
			if s.noOp(i, j) {
				rel[i].Set(uint(j))
				rel[j].Set(uint(i))
			}
		}
	}
	return rel
}

// noOp reports whether ApplyComparator(i, j) would leave s unchanged: no
// value exhibits the "wrong" bit pattern (channel i clear, channel j set)
// that the comparator would flip.
func (s *OutputSet) noOp(i, j int) bool {
	maskI := uint16(1) << uint(i)
	maskJ := uint16(1) << uint(j)
	mask := maskI | maskJ

	for _, v := range s.values {
		if v&mask == maskJ {
			return false
		}
	}
	return true
}

// Implied reports whether (i,j) is recorded as a no-op comparator.
func (rel Implications) Implied(i, j int) bool {
	return rel[i].Test(uint(j))
}
