// Package numbering issues sequential document numbers of the form
// <TYPE>-<YEAR>-<SEQ>, scoped to the current calendar year.
package numbering

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var typePattern = regexp.MustCompile(`^[A-Z]{2,8}$`)

// Next returns the next number for the given type code, derived from the
// numbers already issued for that type. Malformed entries are ignored; gaps
// left by deleted documents are never back-filled. Next never fails: when no
// safe sequence can be derived it degrades to a timestamp-suffixed number.
func Next(typeCode string, existing []string, now time.Time) string {
	code := strings.ToUpper(strings.TrimSpace(typeCode))
	if !typePattern.MatchString(code) {
		return fallback(code, now)
	}

	year := now.Year()
	pattern, err := regexp.Compile("^" + regexp.QuoteMeta(code) + `-(\d{4})-(\d+)$`)
	if err != nil {
		return fallback(code, now)
	}

	maxSeq := 0
	for _, number := range existing {
		m := pattern.FindStringSubmatch(strings.TrimSpace(number))
		if m == nil {
			continue
		}
		y, err := strconv.Atoi(m[1])
		if err != nil || y != year {
			continue
		}
		seq, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}

	next := fmt.Sprintf("%s-%d-%03d", code, year, maxSeq+1)

	// A collision here means the parse above missed an issued number;
	// degrade rather than hand out a duplicate.
	for _, number := range existing {
		if number == next {
			return fallback(code, now)
		}
	}
	return next
}

// fallback produces a non-colliding identifier when no sequence can be
// derived. The "T" marker keeps the timestamp from ever parsing as a
// sequence value, so later calls resume normal numbering.
func fallback(code string, now time.Time) string {
	if code == "" {
		code = "DOC"
	}
	n := fmt.Sprintf("%s-%d-T%d", code, now.Year(), now.UnixMilli())
	slog.Warn("no safe document sequence could be derived, using timestamp number", "number", n)
	return n
}
