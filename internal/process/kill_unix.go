//go:build !windows

// Package process cleans up the headless browser started for PDF rendering.
package process

import "syscall"

// KillProcessGroup kills the browser and its renderer children by sending
// SIGKILL to the process group. Non-positive pids are ignored: 0 would
// target our own group.
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	// Best-effort cleanup; error ignored as launcher.Kill() provides fallback
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
