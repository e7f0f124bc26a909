//go:build !windows

package process

import "syscall"

// KillProcessGroup kills a process and all its children by sending SIGKILL
// to the process group (negative PID).
func KillProcessGroup(pid int) {
	// Best-effort cleanup; the browser has already been asked to close
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
