package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement is a program patreon-dl depends on at install or run time.
type Requirement struct {
	Name    string
	Command string
	// Purpose explains what breaks when the program is missing.
	Purpose  string
	Optional bool
}

// Status is the outcome of checking one program.
type Status struct {
	Name     string
	Command  string
	Purpose  string
	Optional bool
	// Path is where the program was found; empty when it is missing.
	Path   string
	Detail string
}

// Available reports whether the program was found.
func (s Status) Available() bool {
	return s.Path != ""
}

// LookPathFunc resolves a command name the way exec.LookPath does.
type LookPathFunc func(file string) (string, error)

// RuntimeRequirements lists the Node.js tooling patreon-dl is installed and
// run with.
func RuntimeRequirements() []Requirement {
	return []Requirement{
		{Name: "Node.js", Command: "node", Purpose: "patreon-dl runs on Node.js"},
		{Name: "npm", Command: "npm", Purpose: "installs patreon-dl", Optional: true},
	}
}

// CheckBinaries resolves every requirement with lookPath (exec.LookPath when nil).
func CheckBinaries(requirements []Requirement, lookPath LookPathFunc) []Status {
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	out := make([]Status, len(requirements))
	for i, req := range requirements {
		status := Status{
			Name:     req.Name,
			Command:  strings.TrimSpace(req.Command),
			Purpose:  req.Purpose,
			Optional: req.Optional,
		}
		out[i] = status
		if status.Command == "" {
			out[i].Detail = "command not configured"
			continue
		}
		path, err := lookPath(status.Command)
		if err != nil {
			out[i].Detail = fmt.Sprintf("%q not on PATH", status.Command)
			continue
		}
		out[i].Path = path
	}
	return out
}

// InstallHint suggests how to obtain patreon-dl given the checked runtime
// statuses.
func InstallHint(statuses []Status) string {
	for _, s := range statuses {
		if s.Command == "npm" && s.Available() {
			return "install it with: npm i -g patreon-dl"
		}
	}
	return "install Node.js, then run: npm i -g patreon-dl"
}
