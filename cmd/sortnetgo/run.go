package main

import (
	"log/slog"
	"strconv"

	"github.com/jix-sortnetopt/sortnetgo/internal/progress"
	"github.com/jix-sortnetopt/sortnetgo/layer"
	"github.com/jix-sortnetopt/sortnetgo/outputset"
)

// parallelThreshold is the layer size at or above which the parallel incremental
// minimaliser is used instead of the single-threaded subsume index; below
// it the fan-out overhead is not worth paying.
const parallelThreshold = 4096

// run drives the layer-by-layer search to completion: starting from the
// identity output set, repeatedly expand every state in the current layer
// and prune to a minimal antichain, until some state is fully sorted.
// This loop is spec.md §1's explicitly out-of-core-scope "top-level
// layer-driving loop," supplemented here (SPEC_FULL.md §4) because a
// runnable binary needs one.
func run(logger *slog.Logger, width int) error {
	current := []*outputset.OutputSet{outputset.AllValues(width)}
	comparators := 0

	for {
		for _, s := range current {
			if s.IsSorted() {
				logger.Info("sorted", "comparators", comparators, "size", len(s.Values()))
				return nil
			}
		}

		var next []*outputset.OutputSet
		bar := progress.New(sprintComparators(comparators), len(current))
		for i, s := range current {
			next = append(next, layer.Expand(s)...)
			bar.Set(i + 1)
		}
		bar.Finish()

		if len(next) >= parallelThreshold {
			next = layer.PruneParallel(next)
		} else {
			next = layer.Prune(next)
		}

		comparators++
		logger.Info("layer built", "comparators", comparators, "states", len(next))
		current = next
	}
}

func sprintComparators(n int) string {
	return "layer " + strconv.Itoa(n)
}
