package subsumeindex

import (
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// IncrementalMinimalElements computes the minimal elements (under permuted
// subsumption) of the union of generator(input) across every input, without
// ever materializing that whole union in memory at once (spec.md §6).
//
// Work proceeds in rounds of doubling size. Each round, a pool of workers
// (one per GOMAXPROCS) races over two sources: a spill queue of pairs that
// overflowed the previous round's output buffer, and the shared input
// slice (claimed by atomic index, work-stealing style -- the Go analogue
// of rayon's scope-based fan-out). Every pair a worker produces is first
// checked against the accumulated tree from prior rounds; survivors go to
// a bounded per-round output queue, and anything that doesn't fit spills
// forward to the next round. At the end of a round the survivors are
// minimalised against each other and merged into the accumulated tree.
func IncrementalMinimalElements[T Item[T], In any](inputs []In, generate func(In) []AbstractedPair[T]) []AbstractedPair[T] {
	var accumulated *Node[T]
	chunkSize := 1024

	var nextInput atomic.Int64
	spill := newSpillQueue[AbstractedPair[T]]()

	inputsRemain := func() bool {
		return int(nextInput.Load()) < len(inputs)
	}

	for inputsRemain() || !spill.Empty() {
		out := newBoundedQueue[AbstractedPair[T]](chunkSize)
		accForRound := accumulated

		offer := func(pair AbstractedPair[T]) {
			if accForRound != nil {
				if ok, _ := accForRound.CombineWithSubsuming(pair); ok {
					return
				}
			}
			if !out.TryPush(pair) {
				spill.Push(pair)
			}
		}

		workers := runtime.GOMAXPROCS(0)
		if workers < 1 {
			workers = 1
		}

		g := new(errgroup.Group)
		for w := 0; w < workers; w++ {
			g.Go(func() error {
				for !out.Full() {
					pair, ok := spill.Pop()
					if !ok {
						break
					}
					offer(pair)
				}
				for !out.Full() {
					idx := nextInput.Add(1) - 1
					if int(idx) >= len(inputs) {
						break
					}
					for _, pair := range generate(inputs[idx]) {
						offer(pair)
					}
				}
				return nil
			})
		}
		_ = g.Wait()

		produced := out.DrainAll()
		if len(produced) == 0 {
			continue
		}

		round := New(produced).MinimalElements()
		if accumulated == nil {
			accumulated = New(round)
		} else {
			roundTree := New(round)
			var survivors []AbstractedPair[T]
			for _, p := range accumulated.Drain() {
				if ok, leftover := roundTree.CombineWithSubsuming(p); !ok {
					survivors = append(survivors, leftover)
				}
			}
			merged := append(survivors, roundTree.Drain()...)
			accumulated = New(merged)
		}

		chunkSize *= 2
	}

	if accumulated == nil {
		return nil
	}
	return accumulated.MinimalElements()
}
