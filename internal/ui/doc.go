// Package ui provides helpers for formatting human-readable console output.
//
// ConsoleCommandEventLogger backs the --debug trace: one line per git command
// naming the repository it ran in and the exit code it returned, while detailed
// telemetry continues to flow through structured loggers.
package ui
