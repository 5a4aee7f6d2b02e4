// Package confloader provides configuration loading for ScreenMesh.
//
// This package implements a configuration loader that supports
// multiple sources using koanf as the underlying library.
//
// Priority (highest to lowest):
//
//  1. Command-line flags (WithOverrides)
//  2. Environment variables (SCREENMESH_SECTION_KEY)
//  3. Configuration file (YAML)
//  4. Default values
//
// Watcher follows the configuration file with fsnotify; WatchLogLevel
// builds on it to apply log.level changes without a restart.
package confloader
