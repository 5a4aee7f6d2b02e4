// Package buildinfo exposes version information for the screenmesh binary.
//
// Values are injected at build time via ldflags:
//
//	go build -ldflags "-X github.com/yndnr/screenmesh-go/internal/infra/buildinfo.Version=v0.3.0 \
//	  -X github.com/yndnr/screenmesh-go/internal/infra/buildinfo.Commit=abc123"
//
// When they are not, Get falls back to the module and VCS data the Go
// toolchain embeds in every binary.
package buildinfo
