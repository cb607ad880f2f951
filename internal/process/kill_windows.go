//go:build windows

// Package process cleans up the headless browser started for PDF rendering.
package process

import (
	"os/exec"
	"strconv"
)

// KillProcessGroup kills the browser process tree using taskkill.
// /F = force kill, /T = terminate child processes (tree kill).
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	// Best-effort cleanup; error ignored as launcher.Kill() provides fallback
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run() // #nosec G204 -- pid is an int
}
