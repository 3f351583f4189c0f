package ingest

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseSequence strips the non-numeric prefix of an order identifier and
// parses the rest: "S1043" and "#1043" both give 1043.
func ParseSequence(id string) (int64, error) {
	id = strings.TrimSpace(id)
	i := strings.IndexFunc(id, func(r rune) bool { return r >= '0' && r <= '9' })
	if i < 0 {
		return 0, fmt.Errorf("order identifier %q has no numeric part", id)
	}
	n, err := strconv.ParseInt(id[i:], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("order identifier %q is malformed", id)
	}
	return n, nil
}

// IdentifierReport summarizes the identifier space of one file.
type IdentifierReport struct {
	Min  int64   `json:"min"`
	Max  int64   `json:"max"`
	Gaps []int64 `json:"gaps"`
}

// AnalyzeIdentifiers reports every sequence number missing between the
// smallest and largest identifier in the file. Gaps are warnings only; an
// unparsable identifier or a range wider than maxSpan is a ValidationError.
func AnalyzeIdentifiers(ids []string, maxSpan int64) (IdentifierReport, error) {
	var report IdentifierReport
	seen := make(map[int64]bool, len(ids))
	var problems []string
	for _, id := range ids {
		n, err := ParseSequence(id)
		if err != nil {
			problems = append(problems, err.Error())
			continue
		}
		if len(seen) == 0 || n < report.Min {
			report.Min = n
		}
		if len(seen) == 0 || n > report.Max {
			report.Max = n
		}
		seen[n] = true
	}
	if len(problems) > 0 {
		return report, &ValidationError{Message: "malformed order identifiers", Problems: problems}
	}
	if len(seen) == 0 {
		return report, invalid("file contains no order identifiers")
	}
	// Both ends are non-negative, so the difference cannot overflow.
	if width := report.Max - report.Min; width >= maxSpan {
		return report, invalid("malformed identifier range %d..%d spans %d numbers (limit %d)",
			report.Min, report.Max, uint64(width)+1, maxSpan)
	}

	report.Gaps = []int64{}
	for n := report.Min; n < report.Max; n++ {
		if !seen[n] {
			report.Gaps = append(report.Gaps, n)
		}
	}
	return report, nil
}
