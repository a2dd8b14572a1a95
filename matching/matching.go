// Package matching implements the bipartite channel-compatibility structure
// used by the subsumption search to decide, incrementally, which channel of
// one output set may play the role of which channel of another.
package matching

import "math/bits"

// MaxChannels mirrors outputset.MaxChannels; duplicated here (rather than
// imported) to keep this package dependency-free of outputset, since a
// Matching only ever deals in channel indices, never values.
const MaxChannels = 15

// Matching holds, for each channel of side A, the bitmask of side-B
// channels it may still map to (and symmetrically for side B). Rows are
// fixed-width uint16 masks — width never exceeds MaxChannels bits, so a
// single machine word is the natural small-vector representation spec's
// memory discipline calls for; copying a Matching by value is two array
// copies and a bool.
//
// incomplete is sticky: once a propagation step proves the matching
// infeasible, every further mutator is a no-op that reports inconsistency,
// and every reader may answer conservatively.
type Matching struct {
	channels   int
	matchesA   [MaxChannels]uint16
	matchesB   [MaxChannels]uint16
	incomplete bool
}

// New returns a matching over `channels` channels with every pairing
// allowed.
func New(channels int) Matching {
	var m Matching
	m.channels = channels
	all := uint16(1<<uint(channels)) - 1
	for i := 0; i < channels; i++ {
		m.matchesA[i] = all
		m.matchesB[i] = all
	}
	return m
}

// Channels returns the width the matching was built for.
func (m *Matching) Channels() int { return m.channels }

// Incomplete reports whether the matching has been proven infeasible.
func (m *Matching) Incomplete() bool { return m.incomplete }

// Contains reports whether channel a of side A may still map to channel b
// of side B.
func (m *Matching) Contains(a, b int) bool {
	return m.matchesA[a]&(uint16(1)<<uint(b)) != 0
}

// MatchesA returns the raw candidate mask for side-A channel a.
func (m *Matching) MatchesA(a int) uint16 { return m.matchesA[a] }

// MatchesB returns the raw candidate mask for side-B channel b.
func (m *Matching) MatchesB(b int) uint16 { return m.matchesB[b] }

// Remove clears the (a,b) pairing from both sides. It returns true iff the
// matching became inconsistent — either side of a or b ran out of
// candidates. When a row collapses to a singleton, it recursively removes
// that target from every other row on the same side (unit propagation);
// recursion is bounded by 2*channels.
func (m *Matching) Remove(a, b int) bool {
	if m.incomplete {
		return true
	}

	colA := uint16(1) << uint(b)
	rowA := m.matchesA[a]
	if rowA&colA == 0 {
		return false
	}
	rowA &^= colA
	m.matchesA[a] = rowA

	colB := uint16(1) << uint(a)
	rowB := m.matchesB[b]
	rowB &^= colB
	m.matchesB[b] = rowB

	if rowA == 0 || rowB == 0 {
		m.incomplete = true
		return true
	}

	if isPowerOfTwo(rowA) {
		target := bits.TrailingZeros16(rowA)
		for otherA := 0; otherA < m.channels; otherA++ {
			if otherA != a {
				if m.Remove(otherA, target) {
					return true
				}
			}
		}
	}

	if isPowerOfTwo(rowB) {
		target := bits.TrailingZeros16(rowB)
		for otherB := 0; otherB < m.channels; otherB++ {
			if otherB != b {
				if m.Remove(target, otherB) {
					return true
				}
			}
		}
	}

	return false
}

// Select asserts the pairing (a,b): every other candidate in row a and
// column b is removed. Returns true iff the matching became inconsistent.
func (m *Matching) Select(a, b int) bool {
	if m.incomplete {
		return true
	}
	if !m.Contains(a, b) {
		m.incomplete = true
		return true
	}

	for otherA := 0; otherA < m.channels; otherA++ {
		if otherA != a {
			if m.Remove(otherA, b) {
				return true
			}
		}
	}
	for otherB := 0; otherB < m.channels; otherB++ {
		if otherB != b {
			if m.Remove(a, otherB) {
				return true
			}
		}
	}
	return false
}

// SwapChannelsA permutes the rows/columns consistently with swapping the
// channel labels a0 and a1 on side A.
func (m *Matching) SwapChannelsA(a0, a1 int) {
	m.matchesA[a0], m.matchesA[a1] = m.matchesA[a1], m.matchesA[a0]

	colBoth := uint16(1)<<uint(a0) | uint16(1)<<uint(a1)
	col0 := uint16(1) << uint(a0)
	col1 := uint16(1) << uint(a1)

	for b := 0; b < m.channels; b++ {
		exchange := m.matchesB[b] & colBoth
		if exchange == col0 || exchange == col1 {
			m.matchesB[b] ^= colBoth
		}
	}
}

// SwapChannelsB permutes the rows/columns consistently with swapping the
// channel labels b0 and b1 on side B.
func (m *Matching) SwapChannelsB(b0, b1 int) {
	m.matchesA, m.matchesB = m.matchesB, m.matchesA
	m.SwapChannelsA(b0, b1)
	m.matchesA, m.matchesB = m.matchesB, m.matchesA
}

// Filter removes every pairing (a,b) for which pred returns false. Returns
// true iff the matching became inconsistent.
func (m *Matching) Filter(pred func(a, b int) bool) bool {
	if m.incomplete {
		return true
	}
	for a := 0; a < m.channels; a++ {
		for b := 0; b < m.channels; b++ {
			if m.Contains(a, b) && !pred(a, b) {
				if m.Remove(a, b) {
					return true
				}
			}
		}
	}
	return false
}

// UniqueMatchA returns the sole candidate target for side-A channel a, if
// row a has collapsed to a singleton.
func (m *Matching) UniqueMatchA(a int) (int, bool) {
	if m.incomplete {
		return 0, false
	}
	row := m.matchesA[a]
	if isPowerOfTwo(row) {
		return bits.TrailingZeros16(row), true
	}
	return 0, false
}

func isPowerOfTwo(x uint16) bool {
	return x != 0 && x&(x-1) == 0
}
