//go:build windows
// +build windows

package runner

import "os"

// terminateProcess kills the process outright; Windows has no SIGTERM.
func terminateProcess(proc *os.Process) error {
	if proc == nil {
		return nil
	}
	return proc.Kill()
}
