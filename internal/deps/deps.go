package deps

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/sys/unix"

	"gainhound/internal/config"
)

// Requirement defines an external dependency Gainhound relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// CheckDirectoryAccess verifies that the directory exists and is usable. The
// music root needs write access because remediated files are renamed in place.
func CheckDirectoryAccess(name, path string) Status {
	status := Status{Name: name, Command: path}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			status.Detail = "does not exist"
			return status
		}
		status.Detail = fmt.Sprintf("stat: %v", err)
		return status
	}
	if !info.IsDir() {
		status.Detail = "is not a directory"
		return status
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		status.Detail = fmt.Sprintf("insufficient permissions: %v", err)
		return status
	}
	status.Available = true
	return status
}

// CheckAll evaluates every external dependency and directory a run needs.
func CheckAll(cfg *config.Config) []Status {
	if cfg == nil {
		return nil
	}

	requirements := []Requirement{
		{
			Name:        "ffmpeg",
			Command:     cfg.Encoder.Binary,
			Description: "Required for re-encoding",
		},
		{
			Name:        "mp3gain",
			Command:     cfg.TagStrip.Binary,
			Description: "Required for gain tag removal",
		},
	}
	if strings.TrimSpace(cfg.PostHook.Command) != "" {
		requirements = append(requirements, Requirement{
			Name:        "rescan hook",
			Command:     cfg.PostHook.Command,
			Description: "Triggers a library rescan after each run",
			Optional:    true,
		})
	}

	results := CheckBinaries(requirements)
	results = append(results, CheckDirectoryAccess("music root", cfg.Paths.MusicDir))
	results = append(results, CheckDirectoryAccess("data directory", cfg.Paths.DataDir))
	return results
}

// AllRequired reports whether every non-optional dependency is available.
func AllRequired(results []Status) bool {
	for _, status := range results {
		if !status.Optional && !status.Available {
			return false
		}
	}
	return true
}
