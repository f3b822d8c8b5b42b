//go:build unix || darwin || linux
// +build unix darwin linux

package runner

import (
	"os"
	"syscall"
)

// terminateProcess sends SIGTERM for graceful shutdown on Unix. The runner's
// WaitDelay escalates to SIGKILL if the process lingers.
func terminateProcess(proc *os.Process) error {
	if proc == nil {
		return nil
	}
	return proc.Signal(syscall.SIGTERM)
}
