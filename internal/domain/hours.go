package domain

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxTimeLabelLength is the longest label, in characters, that the
// reservation form accepts and the time_label column stores.
const MaxTimeLabelLength = 32

var ErrTimeLabelTooLong = errors.New("time label too long")

// DefaultHours is used whenever no hours are configured.
var DefaultHours = []TimeLabel{
	"08:00 AM", "09:00 AM", "10:00 AM", "11:00 AM", "12:00 PM",
	"01:00 PM", "02:00 PM", "03:00 PM", "04:00 PM", "05:00 PM",
}

// DefaultHoursCopy returns a fresh copy of DefaultHours.
func DefaultHoursCopy() []TimeLabel {
	out := make([]TimeLabel, len(DefaultHours))
	copy(out, DefaultHours)
	return out
}

// NormalizeHours trims every label, drops empty ones and keeps the first
// occurrence of duplicates. An empty result falls back to DefaultHours.
func NormalizeHours(raw []string) []TimeLabel {
	seen := make(map[string]struct{}, len(raw))
	out := make([]TimeLabel, 0, len(raw))
	for _, r := range raw {
		label := strings.TrimSpace(r)
		if label == "" {
			continue
		}
		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}
		out = append(out, TimeLabel(label))
	}
	if len(out) == 0 {
		return DefaultHoursCopy()
	}
	return out
}

// ValidateHours reports the first label that could never be reserved.
func ValidateHours(hours []TimeLabel) error {
	for _, h := range hours {
		if utf8.RuneCountInString(string(h)) > MaxTimeLabelLength {
			return fmt.Errorf("%w: %q is longer than %d characters", ErrTimeLabelTooLong, h, MaxTimeLabelLength)
		}
	}
	return nil
}

// SplitHours splits the comma separated admin form value.
func SplitHours(text string) []string {
	return strings.Split(text, ",")
}

func ContainsLabel(hours []TimeLabel, label TimeLabel) bool {
	for _, h := range hours {
		if h == label {
			return true
		}
	}
	return false
}

func LabelStrings(hours []TimeLabel) []string {
	out := make([]string, len(hours))
	for i, h := range hours {
		out[i] = string(h)
	}
	return out
}
