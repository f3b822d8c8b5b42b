package logger

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// CleanupStats summarizes one stale-log sweep.
type CleanupStats struct {
	Scanned      int
	Deleted      int
	Kept         int
	Errors       int
	DeletedFiles []string
	KeptFiles    []string
}

// CleanupOldLogs removes log files left behind by runs whose process is no
// longer alive. The current process's own log is always kept.
func CleanupOldLogs() (CleanupStats, error) {
	var stats CleanupStats

	dir := os.TempDir()
	entries, err := os.ReadDir(dir)
	if err != nil {
		return stats, err
	}

	ownPid := os.Getpid()
	prefix := ToolName + "-"

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".log") {
			continue
		}
		stats.Scanned++

		pid, ok := pidFromLogName(name)
		if !ok || pid == ownPid || isProcessRunning(pid) {
			stats.Kept++
			stats.KeptFiles = append(stats.KeptFiles, name)
			continue
		}

		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			stats.Errors++
			continue
		}
		stats.Deleted++
		stats.DeletedFiles = append(stats.DeletedFiles, name)
	}

	return stats, nil
}

// pidFromLogName parses "<ToolName>-<pid>[-suffix].log".
func pidFromLogName(name string) (int, bool) {
	trimmed := strings.TrimSuffix(strings.TrimPrefix(name, ToolName+"-"), ".log")
	if idx := strings.IndexByte(trimmed, '-'); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	pid, err := strconv.Atoi(trimmed)
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}
