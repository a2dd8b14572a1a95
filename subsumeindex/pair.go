// Package subsumeindex implements permuted-subsumption pruning: the
// subsume-tree, the log-structured index built from it, and the parallel
// incremental minimaliser that drives a whole layer through it.
package subsumeindex

import "github.com/jix-sortnetopt/sortnetgo/outputset"

// Item is the single capability a payload needs to live in an
// AbstractedPair: the ability to absorb another instance of itself once the
// owning output set has been found to subsume a query, under the channel
// permutation that made the subsumption hold. Modeled after the teacher
// repo's single-method Cloner[V] capability interface.
//
// T is expected to satisfy Item[T] itself (F-bounded): value payloads with
// no mutable state (Unit) implement it with a value receiver; payloads that
// accumulate state (Count) implement it on a pointer type so Combine can
// mutate the stored value in place.
type Item[T any] interface {
	Combine(perm []int, other T)
}

// AbstractedPair bundles an output set, its abstraction, and a payload.
type AbstractedPair[T Item[T]] struct {
	OutputSet  *outputset.OutputSet
	Abstraction outputset.Abstraction
	Value       T
}

// NewPair derives the abstraction from the output set and wraps it with the
// given payload.
func NewPair[T Item[T]](os *outputset.OutputSet, value T) AbstractedPair[T] {
	return AbstractedPair[T]{
		OutputSet:   os,
		Abstraction: outputset.From(os),
		Value:       value,
	}
}

// Unit is the trivial payload: it carries no information and Combine is a
// no-op, matching every AbstractedPair that only cares about set membership.
type Unit struct{}

// Combine implements Item[Unit].
func (Unit) Combine([]int, Unit) {}

// Count is a counting payload used in tests and diagnostics: each Combine
// adds the other count into this one, ignoring the permutation (addition is
// commutative, so it needs no channel-relabelling).
type Count int

// Combine implements Item[*Count].
func (c *Count) Combine(_ []int, other *Count) {
	*c += *other
}
