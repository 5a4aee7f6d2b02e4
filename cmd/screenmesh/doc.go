// Package main provides the entry point for screenmesh.
//
// One binary runs a node and administers running nodes:
//
//   - serve: share this machine's keyboard and mouse with its peers
//   - cluster: print the screens and focus of a running node
//   - screens set: replace a node's screen layout from a file
//   - version: print build information
//
// Usage:
//
//	screenmesh serve --config /etc/screenmesh.yaml
//	screenmesh serve --listen 192.168.1.10:24800 --peer 192.168.1.11:24800
//	screenmesh cluster -o yaml > layout.yaml
//	screenmesh screens set layout.yaml
//
// Building with -tags robotgo enables the robot host driver, which
// drives the real pointer and keyboard.
package main
