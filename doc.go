// Package sortnetgo searches for small sorting networks of a given width by
// enumerating, layer by layer, the set of reachable output sets modulo a
// symmetry equivalence (channel permutation and subsumption).
//
// The core algebra lives in three packages:
//
//   - outputset: the value algebra for a network prefix's reachable image,
//     comparator application, channel permutation, and subsumption.
//   - matching: the bipartite channel-compatibility structure driving the
//     permuted-subsumption search.
//   - subsumeindex: the bulk-built subsume tree, its log-structured index,
//     and the parallel incremental minimaliser built on top of both.
//
// Package layer wires these into the expand/prune contract a driver needs,
// and cmd/sortnetgo is the CLI entry point that drives the search to a
// sorted output set.
package sortnetgo
