package logger

import (
	"errors"
	"math"

	"github.com/shirou/gopsutil/v3/process"
)

func pidToInt32(pid int) (int32, bool) {
	if pid <= 0 || pid > math.MaxInt32 {
		return 0, false
	}
	return int32(pid), true
}

// isProcessRunning reports whether a process with the given pid appears to be
// running. It is intentionally conservative on errors to avoid deleting logs
// for live processes.
func isProcessRunning(pid int) bool {
	pid32, ok := pidToInt32(pid)
	if !ok {
		return false
	}

	exists, err := process.PidExists(pid32)
	if err == nil {
		return exists
	}

	if errors.Is(err, process.ErrorProcessNotRunning) {
		return false
	}

	// Permission/inspection failures: assume it's running to be safe.
	return true
}

func IsProcessRunning(pid int) bool { return isProcessRunning(pid) }
