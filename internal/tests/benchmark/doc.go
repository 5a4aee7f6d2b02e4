// Package benchmark provides performance benchmarks for the hot paths
// of a node: wire encoding and input routing.
//
// Run benchmarks with:
//
//	go test -bench=. -benchmem ./internal/tests/benchmark/...
//
// Compare results:
//
//	benchstat old.txt new.txt
package benchmark
