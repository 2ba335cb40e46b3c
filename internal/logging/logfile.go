package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	logFilePrefix = "zoneacme-"
	logFileSuffix = ".log"
)

// LogConfig holds configuration for log output.
type LogConfig struct {
	Format        string // "human" (default), "text" or "json"
	Level         string // "DEBUG", "INFO" (default), "WARN", "ERROR"
	Output        string // "-" (default) for stderr, "none" to disable, "auto" or a path for a file
	Dir           string // Directory for auto-named and relative log files
	RetentionDays int    // Days to keep auto-named log files; 0 keeps everything
}

// LogFile manages the lifecycle of the log destination.
type LogFile struct {
	Path   string // Full path to the log file; empty for stderr or disabled output
	file   *os.File
	writer io.Writer
}

// NewLogFile opens the log destination described by cfg.
//
// Output behavior:
//   - empty or "-": os.Stderr
//   - "none": io.Discard
//   - "auto": a new zoneacme-YYYYMMDD-HHMMSS-sss.log in Dir
//   - path: the given file, relative paths resolved against Dir
//
// Hooks run by an ACME client usually have their stderr captured, so stderr
// stays the default.
func NewLogFile(cfg *LogConfig) (*LogFile, error) {
	lf := &LogFile{}

	switch strings.ToLower(cfg.Output) {
	case "", "-":
		lf.writer = os.Stderr
		return lf, nil
	case "none":
		lf.writer = io.Discard
		return lf, nil
	case "auto":
		lf.Path = filepath.Join(cfg.Dir, GenerateLogFilename(time.Now().UTC()))
	default:
		if filepath.IsAbs(cfg.Output) || cfg.Dir == "" {
			lf.Path = cfg.Output
		} else {
			lf.Path = filepath.Join(cfg.Dir, cfg.Output)
		}
	}

	dir := filepath.Dir(lf.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory %q: %w", dir, err)
	}
	f, err := os.OpenFile(lf.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file %q: %w", lf.Path, err)
	}
	lf.file = f
	lf.writer = f
	return lf, nil
}

// Writer returns the io.Writer for log output.
func (lf *LogFile) Writer() io.Writer {
	return lf.writer
}

// Close closes the log file if one was opened.
func (lf *LogFile) Close() error {
	if lf.file != nil {
		return lf.file.Close()
	}
	return nil
}

// GenerateLogFilename returns zoneacme-YYYYMMDD-HHMMSS-sss.log for t, where
// sss is milliseconds.
func GenerateLogFilename(t time.Time) string {
	return fmt.Sprintf("%s%s-%03d%s", logFilePrefix, t.Format("20060102-150405"), t.Nanosecond()/1_000_000, logFileSuffix)
}

// CleanupOldLogFiles removes zoneacme-*.log files in dir older than retentionDays.
func CleanupOldLogFiles(dir string, retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading log directory %q: %w", dir, err)
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, logFilePrefix) || !strings.HasSuffix(name, logFileSuffix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			// Removal failures are ignored; the next run retries.
			_ = os.Remove(filepath.Join(dir, name))
		}
	}
	return nil
}
