package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SequenceKind names a family of records sharing one yearly counter.
type SequenceKind string

const (
	SequenceFault       SequenceKind = "fault"
	SequenceMaintenance SequenceKind = "maintenance"
)

// Prefix returns the human-readable prefix of the kind's sequence numbers.
func (k SequenceKind) Prefix() string {
	switch k {
	case SequenceFault:
		return "F"
	case SequenceMaintenance:
		return "M"
	default:
		return "X"
	}
}

// FormatSequence renders counter n of year as <Prefix>-<Year>-<00001>.
func FormatSequence(kind SequenceKind, year int, n int64) string {
	return fmt.Sprintf("%s-%d-%05d", kind.Prefix(), year, n)
}

// SequencePrefix is the common start of every number of kind in year,
// e.g. "F-2025-".
func SequencePrefix(kind SequenceKind, year int) string {
	return fmt.Sprintf("%s-%d-", kind.Prefix(), year)
}

// ParseSequence returns the counter part of a number of kind in year.
func ParseSequence(kind SequenceKind, year int, seq string) (int64, bool) {
	rest, ok := strings.CutPrefix(seq, SequencePrefix(kind, year))
	if !ok || rest == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// YearBounds returns [Jan 1 year, Jan 1 year+1) in UTC.
func YearBounds(year int) (time.Time, time.Time) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(1, 0, 0)
}
