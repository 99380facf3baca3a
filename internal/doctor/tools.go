package doctor

import (
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

// ToolCheck verifies one of the transfer mechanisms is installed locally.
type ToolCheck struct {
	Tool string
}

func (c *ToolCheck) Name() string     { return fmt.Sprintf("%s_local", c.Tool) }
func (c *ToolCheck) Category() string { return "TOOLS" }

func (c *ToolCheck) Run() CheckResult {
	path, err := exec.LookPath(c.Tool)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("%s not found locally", c.Tool),
			Suggestion: fmt.Sprintf("Install %s: brew install %s (macOS) or apt install %s (Linux)", c.Tool, c.Tool, c.Tool),
		}
	}

	version := toolVersion(path, c.Tool)
	if version == "" {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusPass,
			Message: fmt.Sprintf("%s found (version unknown)", c.Tool),
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("%s %s", c.Tool, version),
	}
}

// toolVersion probes a tool's version string. ssh and scp print their
// banner to stderr with -V; rsync prints to stdout with --version.
func toolVersion(path, tool string) string {
	var output []byte
	switch tool {
	case "rsync":
		out, err := exec.Command(path, "--version").Output()
		if err != nil {
			return ""
		}
		output = out
	default:
		out, err := exec.Command(path, "-V").CombinedOutput()
		if err != nil {
			return ""
		}
		output = out
	}
	return parseVersion(string(output))
}

// parseVersion extracts the first version-like token from banner output.
func parseVersion(output string) string {
	firstLine := strings.Split(output, "\n")[0]
	re := regexp.MustCompile(`(\d+\.\d+\.?\d*)`)
	matches := re.FindStringSubmatch(firstLine)
	if len(matches) >= 1 {
		return matches[1]
	}
	return ""
}

// NewToolChecks creates availability checks for every transfer mechanism.
func NewToolChecks() []Check {
	return []Check{
		&ToolCheck{Tool: "scp"},
		&ToolCheck{Tool: "rsync"},
		&ToolCheck{Tool: "ssh"},
	}
}
