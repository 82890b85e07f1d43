// Package clocktime parses and formats "HH:MM" wall-clock times as minutes
// since midnight.
package clocktime

import (
	"fmt"
	"strconv"
	"strings"
)

// MinutesPerDay is the length of a day in minutes.
const MinutesPerDay = 24 * 60

// Parse returns the minutes since midnight of an "HH:MM" string. Single
// digit hours ("8:00") are accepted; seconds are not.
func Parse(s string) (int, bool) {
	s = strings.TrimSpace(s)
	h, m, found := strings.Cut(s, ":")
	if !found || len(m) != 2 || len(h) == 0 || len(h) > 2 {
		return 0, false
	}
	hh, err := strconv.Atoi(h)
	if err != nil || hh < 0 || hh > 23 {
		return 0, false
	}
	mm, err := strconv.Atoi(m)
	if err != nil || mm < 0 || mm > 59 {
		return 0, false
	}
	return hh*60 + mm, true
}

// Valid reports whether s parses.
func Valid(s string) bool {
	_, ok := Parse(s)
	return ok
}

// Format renders minutes as "HH:MM", wrapping at midnight.
func Format(minutes int) string {
	minutes %= MinutesPerDay
	if minutes < 0 {
		minutes += MinutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Canonical re-formats a valid time with a two-digit hour ("8:00" becomes
// "08:00"). Invalid input is returned unchanged with ok=false.
func Canonical(s string) (string, bool) {
	m, ok := Parse(s)
	if !ok {
		return s, false
	}
	return Format(m), true
}
