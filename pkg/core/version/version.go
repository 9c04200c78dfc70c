// ============================================================================
// EchoVerse - Tone-Aware Audiobook Generator
// ============================================================================
//
// Package:     version
// Description: Central version management for the echoverse binary
// Author:      Mike Stoffels with Claude
// Created:     2026-08-14
// License:     MIT
// ============================================================================

package version

import "fmt"

// Application version
const (
	AppName = "EchoVerse"
	Version = "1.0.0"
)

// Set at build time via -ldflags
var (
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// String returns the full version line for the version command
func String() string {
	return fmt.Sprintf("%s %s (commit %s, built %s)", AppName, Version, GitCommit, BuildDate)
}
