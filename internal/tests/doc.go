// Package tests holds multi-node integration tests. Nodes run in one
// process and talk over loopback UDP with virtual hosts.
//
// Run with:
//
//	go test ./internal/tests/...
//
// Skipped with -short.
package tests
