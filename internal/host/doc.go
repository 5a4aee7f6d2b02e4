// Package host provides adapters between the hub and the local input
// system.
//
// Virtual is an in-memory host: captured events are pushed by the
// caller and injected events are recorded. It backs tests and headless
// nodes. Robot (build tag robotgo) drives the real pointer and keyboard
// through go-vgo/robotgo.
//
// Adapters are level-triggered: Ready stays signalled while Next has
// events to return, and Next reports ok == false at the end of a batch.
package host
