package subsumeindex

import (
	"math/bits"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jix-sortnetopt/sortnetgo/matching"
	"github.com/jix-sortnetopt/sortnetgo/outputset"
)

// leafData holds one AbstractedPair behind a mutex: the only mutable
// shared state a subsume tree exposes to concurrent callers (spec.md §5).
type leafData[T Item[T]] struct {
	mu   sync.Mutex
	pair AbstractedPair[T]
}

// Node is a subsume tree: a leaf holding one AbstractedPair, or an inner
// node holding the element-wise minimum abstraction of its descendants, two
// children, and the subtree size. Built once per bulk operation — it is
// never rebalanced after construction.
type Node[T Item[T]] struct {
	leaf        *leafData[T]
	abstraction outputset.Abstraction
	children    [2]*Node[T]
	size        int
}

func identityPerm(channels int) []int {
	perm := make([]int, channels)
	for i := range perm {
		perm[i] = i
	}
	return perm
}

// New bulk-builds a subsume tree from items. items must be non-empty — an
// empty bulk-build input is a contract violation (spec.md §7) and panics.
// Trailing adjacent duplicates (equal output sets) are coalesced by folding
// their payloads together before the tree shape is chosen.
func New[T Item[T]](items []AbstractedPair[T]) *Node[T] {
	if len(items) == 0 {
		panic("subsumeindex: bulk build requires a non-empty item list")
	}
	return newNode(items)
}

func newNode[T Item[T]](items []AbstractedPair[T]) *Node[T] {
	for len(items) > 1 {
		last := items[len(items)-1]
		secondLast := &items[len(items)-2]
		if secondLast.OutputSet.Equal(last.OutputSet) {
			secondLast.Value.Combine(identityPerm(last.OutputSet.Channels()), last.Value)
			items = items[:len(items)-1]
			continue
		}
		break
	}

	if len(items) == 1 {
		return &Node[T]{
			leaf:        &leafData[T]{pair: items[0]},
			abstraction: items[0].Abstraction,
			size:        1,
		}
	}

	minAbstraction := items[0].Abstraction
	maxAbstraction := items[0].Abstraction
	for _, item := range items[1:] {
		minAbstraction.UpdateMin(&item.Abstraction)
		maxAbstraction.UpdateMax(&item.Abstraction)
	}

	index, ok := minAbstraction.LargestRange(&maxAbstraction)
	if !ok {
		index = 0
	}

	sort.SliceStable(items, func(a, b int) bool {
		return items[a].Abstraction.Values()[index] < items[b].Abstraction.Values()[index]
	})

	mid := len(items) / 2
	lower := items[:mid]
	upper := items[mid:]

	var left, right *Node[T]
	g := new(errgroup.Group)
	g.Go(func() error {
		left = newNode(lower)
		return nil
	})
	g.Go(func() error {
		right = newNode(upper)
		return nil
	})
	_ = g.Wait()

	return &Node[T]{
		abstraction: minAbstraction,
		children:    [2]*Node[T]{left, right},
		size:        len(items),
	}
}

// Len returns the number of pairs held in the subtree rooted at n.
func (n *Node[T]) Len() int { return n.size }

// CombineWithSubsuming decides whether some channel permutation makes n
// subsume pair; if so, pair's payload is merged into the subsuming leaf and
// the second return value is the zero value. Otherwise pair is returned
// unchanged as the second value.
func (n *Node[T]) CombineWithSubsuming(pair AbstractedPair[T]) (bool, AbstractedPair[T]) {
	m := matching.New(pair.OutputSet.Channels())
	return n.combineWithSubsumingRec(pair, m)
}

func (n *Node[T]) combineWithSubsumingRec(pair AbstractedPair[T], m matching.Matching) (bool, AbstractedPair[T]) {
	if m.Filter(func(nodeChannel, pairChannel int) bool {
		return n.abstraction.ChannelLE(nodeChannel, &pair.Abstraction, pairChannel)
	}) {
		return false, pair
	}

	if n.leaf != nil {
		perm := identityPerm(n.leaf.pair.OutputSet.Channels())
		return combinePermuted(n.leaf, pair, perm, m)
	}

	ok, leftover := n.children[0].combineWithSubsumingRec(pair, m)
	if ok {
		return true, leftover
	}
	return n.children[1].combineWithSubsumingRec(leftover, m)
}

// combinePermuted is the branch-and-bound core of permuted subsumption
// (spec.md §4.4). It rotates every unit-matched channel into the diagonal,
// attempts the concrete subsumption test once every channel is uniquely
// matched, and otherwise branches on the matching side with the fewest
// remaining candidates — whichever of A or B has the smaller minimum
// popcount among rows with more than one candidate (spec.md §9's documented
// fix for the "matches_a used on both sides" defect in the source).
func combinePermuted[T Item[T]](node *leafData[T], pair AbstractedPair[T], perm []int, m matching.Matching) (bool, AbstractedPair[T]) {
	channels := node.pair.OutputSet.Channels()

	origAbstraction := pair.Abstraction
	origOutputSet := pair.OutputSet

	uniqueMatched := 0
	for a := 0; a < channels; a++ {
		if b, ok := m.UniqueMatchA(a); ok {
			uniqueMatched++
			if b != a {
				m.SwapChannelsB(b, a)
				perm[b], perm[a] = perm[a], perm[b]
				pair.Abstraction.SwapChannels(b, a)
				pair.OutputSet = pair.OutputSet.SwapChannels(b, a)
			}
		}
	}

	if uniqueMatched == channels {
		if node.pair.OutputSet.Subsumes(pair.OutputSet) {
			node.mu.Lock()
			node.pair.Value.Combine(perm, pair.Value)
			node.mu.Unlock()
			return true, AbstractedPair[T]{}
		}
	} else if ok, leftover := branchAndBound(node, pair, perm, m, channels); ok {
		return true, leftover
	}

	pair.Abstraction = origAbstraction
	pair.OutputSet = origOutputSet
	return false, pair
}

func branchAndBound[T Item[T]](node *leafData[T], pair AbstractedPair[T], perm []int, m matching.Matching, channels int) (bool, AbstractedPair[T]) {
	bestACount, bestA, foundA := -1, -1, false
	for a := 0; a < channels; a++ {
		c := bits.OnesCount16(m.MatchesA(a))
		if c > 1 && (!foundA || c < bestACount) {
			bestACount, bestA, foundA = c, a, true
		}
	}
	bestBCount, bestB, foundB := -1, -1, false
	for b := 0; b < channels; b++ {
		c := bits.OnesCount16(m.MatchesB(b))
		if c > 1 && (!foundB || c < bestBCount) {
			bestBCount, bestB, foundB = c, b, true
		}
	}

	if !foundA && !foundB {
		return false, pair
	}

	if foundA && (!foundB || bestACount <= bestBCount) {
		a := bestA
		for b := 0; b < channels; b++ {
			next := m
			if next.Select(a, b) {
				continue
			}
			permCopy := append([]int(nil), perm...)
			if ok, leftover := combinePermuted(node, pair, permCopy, next); ok {
				return true, leftover
			}
		}
	} else {
		b := bestB
		for a := 0; a < channels; a++ {
			next := m
			if next.Select(a, b) {
				continue
			}
			permCopy := append([]int(nil), perm...)
			if ok, leftover := combinePermuted(node, pair, permCopy, next); ok {
				return true, leftover
			}
		}
	}
	return false, pair
}

// Drain performs a post-order traversal yielding every leaf's pair.
func (n *Node[T]) Drain() []AbstractedPair[T] {
	if n.leaf != nil {
		return []AbstractedPair[T]{n.leaf.pair}
	}
	out := n.children[0].Drain()
	return append(out, n.children[1].Drain()...)
}

// MinimalElements reduces the tree to its antichain under permuted
// subsumption via two-pass cross pruning (spec.md §4.5): the left subtree
// is minimalised first, the (unminimalised) right subtree is probed against
// it, survivors are rebuilt and probed against by the left, and the
// process recurses into the right survivors.
func (n *Node[T]) MinimalElements() []AbstractedPair[T] {
	if n.leaf != nil {
		return []AbstractedPair[T]{n.leaf.pair}
	}

	left := New(n.children[0].MinimalElements())

	var rightSurvivors []AbstractedPair[T]
	for _, p := range n.children[1].Drain() {
		if ok, leftover := left.CombineWithSubsuming(p); !ok {
			rightSurvivors = append(rightSurvivors, leftover)
		}
	}

	if len(rightSurvivors) == 0 {
		return left.Drain()
	}

	right := New(rightSurvivors)

	var leftSurvivors []AbstractedPair[T]
	for _, p := range left.Drain() {
		if ok, leftover := right.CombineWithSubsuming(p); !ok {
			leftSurvivors = append(leftSurvivors, leftover)
		}
	}

	return append(leftSurvivors, right.MinimalElements()...)
}
