package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/temirov/gitupdated/cmd/cli"
	"github.com/temirov/gitupdated/internal/audit"
)

const (
	exitErrorTemplateConstant  = "%v\n"
	usageErrorExitCodeConstant = 64
)

// main executes the git-updated command-line application.
func main() {
	executionError := cli.Execute()
	if executionError == nil {
		return
	}

	var exitCodeError audit.ExitCodeError
	if errors.As(executionError, &exitCodeError) {
		os.Exit(exitCodeError.Code)
	}

	fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
	os.Exit(usageErrorExitCodeConstant)
}
