// Package report renders audit results as a table or a YAML document and prints
// per-candidate progress to an interactive terminal.
package report
