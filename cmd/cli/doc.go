// Package cli constructs the git-updated command-line interface, wiring the
// Cobra root command, configuration loader, and structured logging around the
// repository audit.
package cli
