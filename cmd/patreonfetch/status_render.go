package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"patreonfetch/internal/deps"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const (
	statusLabelWidth = 12
	statusIndent     = "  "
)

var statusStyles = map[statusKind]struct{ label, color string }{
	statusInfo:  {"INFO", ansiBlue},
	statusOK:    {"OK", ansiGreen},
	statusWarn:  {"WARN", ansiYellow},
	statusError: {"ERROR", ansiRed},
}

// renderStatusLine formats "  label:  [KIND] message", colored by kind.
func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	style, ok := statusStyles[kind]
	if !ok {
		style = statusStyles[statusInfo]
	}
	status := "[" + style.label + "]"
	if message != "" {
		status += " " + message
	}
	line := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", status)
	if !colorize {
		return line
	}
	return style.color + line + ansiReset
}

// dependencyLine reports a checked program. Missing optional programs warn;
// missing required ones are errors.
func dependencyLine(status deps.Status, colorize bool) string {
	if status.Available() {
		return renderStatusLine(status.Name, statusOK, status.Path, colorize)
	}
	kind := statusError
	if status.Optional {
		kind = statusWarn
	}
	message := "not found"
	if status.Detail != "" {
		message = status.Detail
	}
	if status.Purpose != "" {
		message += "; " + status.Purpose
	}
	return renderStatusLine(status.Name, kind, message, colorize)
}

func renderSectionHeader(title string, colorize bool) string {
	heading := "== " + strings.TrimSpace(title) + " =="
	rule := strings.Repeat("-", len(heading))
	if colorize {
		return ansiBlue + heading + "\n" + rule + ansiReset
	}
	return heading + "\n" + rule
}

func shouldColorize(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
