package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/domainwatch/lookup/records"
)

// dayFirstRe matches DD/MM/YYYY shaped values, optionally followed by a time
// component, with "/", "." or "-" separators.
var dayFirstRe = regexp.MustCompile(`^(\d{1,2})[./-](\d{1,2})[./-](\d{4})([ T].*)?$`)

// ParseDate converts a heterogeneous registry date string into a canonical
// calendar date. Unparseable input returns nil, never an error.
//
// Numeric dates like 15/03/2024 are treated as day-first: when the first group
// is over 12 the order is unambiguous, and when both groups fit a month the
// day-first convention of the majority of WHOIS registries is assumed anyway.
func ParseDate(raw string) *records.Date {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	// Some ccTLD registries qualify imprecise historical dates.
	lower := strings.ToLower(s)
	for _, qualifier := range []string{"before:", "after:", "before ", "after "} {
		if strings.HasPrefix(lower, qualifier) {
			s = strings.TrimSpace(s[len(qualifier):])
			break
		}
	}

	if iso := rewriteDayFirst(s); iso != "" {
		s = iso
	}

	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return nil
	}
	d := records.NewDate(t)
	return &d
}

// rewriteDayFirst rewrites a DD/MM/YYYY shaped string into ISO order so the
// generic parser cannot misread it as month-first. Returns "" when the input
// has a different shape.
func rewriteDayFirst(s string) string {
	m := dayFirstRe.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	if day <= 12 && month > 12 {
		// Unambiguously month-first.
		day, month = month, day
	}
	if day < 1 || day > 31 || month < 1 || month > 12 {
		return ""
	}
	return fmt.Sprintf("%s-%02d-%02d", m[3], month, day)
}
