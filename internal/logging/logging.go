package logging

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LogFilePath builds a log file path using OS-appropriate path separators.
func LogFilePath(logsDir, appName string, sessionStart time.Time) string {
	return filepath.Join(
		logsDir,
		fmt.Sprintf("%s.%s.log", appName, sessionStart.Format("20060102_150405")),
	)
}

// RemoveOldLogs deletes appName's log files in logsDir last modified before
// now minus maxAge, and returns how many were removed.
func RemoveOldLogs(logsDir, appName string, maxAge time.Duration, now time.Time) (int, error) {
	entries, err := os.ReadDir(logsDir)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	cutoff := now.Add(-maxAge)
	removed := 0
	var errs []error
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, appName+".") || !strings.HasSuffix(name, ".log") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(logsDir, name)); err != nil {
			errs = append(errs, err)
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}
