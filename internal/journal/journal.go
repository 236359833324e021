// Package journal keeps the markdown log of weekly self-patch rituals and
// reads back what the last ritual suggested.
package journal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// Template for a newly initialized journal
	journalTemplate = `# Self-Patch Journal

Weekly ritual reports, oldest first.
`

	entryPrefix = "## Ritual "
)

// Init creates the journal with the standard template. Parent directories
// are created as needed; an existing journal is left untouched.
func Init(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create journal: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(journalTemplate); err != nil {
		return fmt.Errorf("failed to write journal: %w", err)
	}
	return nil
}

// Append adds a ritual entry stamped with at. report is the rendered
// markdown report; its top-level title is dropped and its sections are
// nested under the entry heading. Empty reports are skipped.
func Append(path string, at time.Time, report string) error {
	if strings.TrimSpace(report) == "" {
		return nil
	}
	if err := Init(path); err != nil {
		return err
	}

	entry := fmt.Sprintf("\n%s%s\n\n%s\n", entryPrefix, at.Format("2006-01-02 15:04"), nest(report))

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(entry); err != nil {
		return fmt.Errorf("failed to append ritual: %w", err)
	}
	return nil
}

// Read returns the journal content, or "" when it does not exist or cannot
// be read.
func Read(path string) string {
	content, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return string(content)
}

// nest drops the "# " title line and pushes every other heading one level
// down.
func nest(report string) string {
	lines := strings.Split(strings.TrimSpace(report), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "# "):
			continue
		case strings.HasPrefix(line, "#"):
			line = "#" + line
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
