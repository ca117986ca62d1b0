// Package pkmgo implements the retrieval core of a product-key memory: a
// huge virtual codebook of key vectors is represented as the cartesian
// product of two much smaller sub-codebooks, each searched exactly, and the
// partial results are recombined into top-k matches over the full key space.
// Searching two codebooks of size sqrt(N) instead of one of size N reduces
// the lookup cost from O(N) to roughly O(sqrt(N)).
//
// # Quick Start
//
//	r, _ := pkmgo.New(128, 512, pkmgo.WithSeed(42))
//	queries, _ := mat32.FromRows([][]float32{q0, q1})
//	res, _ := r.Retrieve(ctx, queries, 32, 32, 16, knn.DistanceDotProduct)
//	ids, _ := r.FlatIndices(res) // composite ids over the 512*512 key space
//
// # Backends
//
// Two interchangeable exact brute-force backends exist. NativeBruteForce
// (knn/native) runs on an accelerator through the FAISS C API with zero-copy
// buffer marshaling; DenseMatrixTopK (knn/dense) is a portable SIMD fallback
// that works anywhere. SelectBackend probes once per process and falls back
// silently, logging a single diagnostic line.
//
// The core performs no approximate indexing: every search examines all
// candidate keys of its sub-codebook.
package pkmgo
