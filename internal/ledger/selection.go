package ledger

import (
	"math"
	"path/filepath"
	"strings"
)

// Candidate is a ledger record selected for remediation.
type Candidate struct {
	Path string
	Gain float64
}

// Select keeps every record whose absolute gain meets the threshold and whose
// path carries a recognized extension (case-insensitive). Ledger order is
// preserved, so two selections over an unmodified ledger are identical.
func Select(entries []Entry, threshold float64, extensions []string) []Candidate {
	var candidates []Candidate
	for _, entry := range entries {
		record := entry.Record
		if record == nil || !record.GainKnown {
			continue
		}
		if math.Abs(record.Gain) < threshold {
			continue
		}
		if !eligibleExtension(record.Path, extensions) {
			continue
		}
		candidates = append(candidates, Candidate{Path: record.Path, Gain: record.Gain})
	}
	return candidates
}

// Cap truncates candidates to at most max entries. A max of zero or less
// means no cap.
func Cap(candidates []Candidate, max int) []Candidate {
	if max <= 0 || len(candidates) <= max {
		return candidates
	}
	return candidates[:max]
}

func eligibleExtension(path string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, allowed := range extensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
