// Package execshell provides structured helpers for invoking external tools.
//
// It wraps os/exec with logging and timeouts via ShellExecutor, exposes
// OSCommandRunner for default process execution, and defines the abstractions
// git-updated uses to run git inside an explicit working directory without
// touching the process-wide current directory.
package execshell
