package domain

import (
	"errors"
	"strings"
)

// Status is the attendance mark recorded for a subject on a day.
type Status string

const (
	StatusPresent      Status = "PRESENT"
	StatusAbsent       Status = "ABSENT"
	StatusCompensation Status = "COMPENSATION"
)

var ErrInvalidStatus = errors.New("invalid status")

var statuses = []Status{StatusPresent, StatusAbsent, StatusCompensation}

// Statuses returns the members of the status vocabulary in canonical order.
func Statuses() []Status {
	out := make([]Status, len(statuses))
	copy(out, statuses)
	return out
}

// StatusList renders the vocabulary for error messages, e.g. "PRESENT, ABSENT, COMPENSATION".
func StatusList() string {
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// ParseStatus accepts any casing and returns the canonical upper-case status.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

// ParseStatusFilter is ParseStatus for optional filters: unknown values report ok=false.
func ParseStatusFilter(raw string) (Status, bool) {
	s, err := ParseStatus(raw)
	if err != nil {
		return "", false
	}
	return s, true
}

func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusCompensation:
		return true
	default:
		return false
	}
}

// Attended reports whether the status counts towards effective attendance.
func (s Status) Attended() bool {
	return s == StatusPresent || s == StatusCompensation
}

func (s Status) String() string {
	return string(s)
}

// PresentFromStatus is the only status -> boolean derivation. It is lossy:
// COMPENSATION and PRESENT both become true.
func PresentFromStatus(s Status) bool {
	return s != StatusAbsent
}

// StatusFromPresent is the only boolean -> status derivation, used for rows
// written before the tri-state column existed.
func StatusFromPresent(present bool) Status {
	if present {
		return StatusPresent
	}
	return StatusAbsent
}

// ReconcileStatus resolves the status of a stored row. A valid tri-state value wins;
// otherwise the legacy boolean decides.
func ReconcileStatus(status *string, present bool) Status {
	if status != nil {
		if s, err := ParseStatus(*status); err == nil {
			return s
		}
	}
	return StatusFromPresent(present)
}
