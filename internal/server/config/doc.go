// Package config provides node configuration for ScreenMesh.
//
// This package defines the configuration structure and validation:
//
//   - spec.go: ServerConfig struct definition
//   - default.go: Default configuration values
//   - verify.go: Business validation (addresses, sizes, driver names)
//   - sanitize.go: Log sanitization (normalised copy safe to print)
//   - convert.go: Mapping onto the hub, transport and admin configs
//
// Configuration is loaded via internal/infra/confloader and supports
// multiple sources: files, environment variables, and flags.
package config
