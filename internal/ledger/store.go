package ledger

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Record is a well-formed ledger line: exactly three tab-separated fields.
type Record struct {
	Timestamp string
	Path      string
	Gain      float64
	// GainKnown is false when the third field did not parse as a number.
	// Such records still count as well-formed for compaction purposes but
	// are never selected for remediation.
	GainKnown bool
}

// Entry is one ledger line. Lines with a field count other than three carry a
// nil Record and round-trip through compaction byte for byte.
type Entry struct {
	Raw    string
	Record *Record
}

// Store owns the ledger file appended to by the external loudness scanner.
type Store struct {
	path string
}

// NewStore returns a store bound to the given ledger path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the ledger file location.
func (s *Store) Path() string {
	return s.path
}

// Load parses every ledger line. A missing ledger file is not an error; it
// simply yields no entries.
func (s *Store) Load() ([]Entry, error) {
	file, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	defer file.Close()

	var entries []Entry
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		entries = append(entries, parseLine(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	return entries, nil
}

func parseLine(line string) Entry {
	parts := strings.Split(line, "\t")
	if len(parts) != 3 {
		return Entry{Raw: line}
	}
	record := &Record{Timestamp: parts[0], Path: parts[1]}
	if gain, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64); err == nil {
		record.Gain = gain
		record.GainKnown = true
	}
	return Entry{Raw: line, Record: record}
}

// RemoveByPath rewrites the ledger omitting every record whose path field
// equals the argument. Opaque lines are always retained. The rewrite goes
// through a sibling temp file and an atomic rename so concurrent readers
// never observe a partial ledger.
func (s *Store) RemoveByPath(path string) error {
	entries, err := s.Load()
	if err != nil {
		return err
	}
	if entries == nil {
		return nil
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".ledger-*.tmp")
	if err != nil {
		return fmt.Errorf("create ledger temp: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	writer := bufio.NewWriter(tmp)
	for _, entry := range entries {
		if entry.Record != nil && entry.Record.Path == path {
			continue
		}
		if _, err := writer.WriteString(entry.Raw + "\n"); err != nil {
			tmp.Close()
			return fmt.Errorf("write ledger temp: %w", err)
		}
	}
	if err := writer.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush ledger temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close ledger temp: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("swap ledger: %w", err)
	}
	return nil
}
