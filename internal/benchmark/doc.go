// SPDX-License-Identifier: MPL-2.0

// Package benchmark provides benchmarks for PGO profile generation.
// They cover the hot paths of cmdresolve:
//   - template translation and rendering
//   - CUE tool description parsing
//   - bindings file parsing
//   - shell validation and execution of resolved commands
//
// To generate a profile, run:
//
//	go test -run='^$' -bench=. -cpuprofile=default.pgo ./internal/benchmark/
package benchmark
