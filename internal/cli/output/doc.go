// Package output renders command results for the screenmesh CLI.
//
// Results print as an aligned table, JSON or YAML. Types that know
// their own columns implement Tabler; anything else falls back to
// indented JSON in table mode.
package output
