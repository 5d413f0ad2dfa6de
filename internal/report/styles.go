package report

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/temirov/gitupdated/internal/audit"
)

const (
	colorGreenConstant   = "2"
	colorYellowConstant  = "3"
	colorMagentaConstant = "5"
	colorRedConstant     = "1"
	colorGrayConstant    = "240"
)

var stateMessages = map[audit.RepositoryState]string{
	audit.StateOk:               "up to date",
	audit.StateMissingDirectory: "missing directory",
	audit.StateNotARepository:   "not a repository",
	audit.StateToolError:        "git error",
	audit.StateFetchFailed:      "fetch failed",
	audit.StateDirty:            "uncommitted changes",
	audit.StateAheadOfRemote:    "unpushed commits",
}

var stateColors = map[audit.RepositoryState]lipgloss.Color{
	audit.StateOk:               lipgloss.Color(colorGreenConstant),
	audit.StateMissingDirectory: lipgloss.Color(colorYellowConstant),
	audit.StateNotARepository:   lipgloss.Color(colorYellowConstant),
	audit.StateToolError:        lipgloss.Color(colorMagentaConstant),
	audit.StateFetchFailed:      lipgloss.Color(colorMagentaConstant),
	audit.StateDirty:            lipgloss.Color(colorRedConstant),
	audit.StateAheadOfRemote:    lipgloss.Color(colorRedConstant),
}

// StateMessage returns the human-readable status shown for a state.
func StateMessage(state audit.RepositoryState) string {
	if message, found := stateMessages[state]; found {
		return message
	}
	return state.String()
}

// StateColor returns the terminal color associated with a state.
func StateColor(state audit.RepositoryState) lipgloss.Color {
	if color, found := stateColors[state]; found {
		return color
	}
	return lipgloss.Color(colorGrayConstant)
}

// IsTerminal reports whether the writer is an interactive terminal.
func IsTerminal(writer io.Writer) bool {
	descriptorWriter, ok := writer.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	fileDescriptor := descriptorWriter.Fd()
	return isatty.IsTerminal(fileDescriptor) || isatty.IsCygwinTerminal(fileDescriptor)
}
