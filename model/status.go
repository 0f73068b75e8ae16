// Package model - Status vocabularies for vulnerable system records.
package model

import (
	"fmt"
	"strings"
)

// Status is the review state exposed to API clients.
type Status string

// EntryStatus is the review state as labelled inside the backend document.
type EntryStatus string

// UI status values
const (
	StatusPending     Status = "pending"
	StatusUnderReview Status = "under-review"
	StatusVerified    Status = "verified"
)

// Backend status labels
const (
	EntryPending   EntryStatus = "Pending"
	EntryInReview  EntryStatus = "In-review"
	EntryPublished EntryStatus = "Published"
)

// Statuses lists every UI status in workflow order.
var Statuses = []Status{StatusPending, StatusUnderReview, StatusVerified}

var entryToStatus = map[EntryStatus]Status{
	EntryPending:   StatusPending,
	EntryInReview:  StatusUnderReview,
	EntryPublished: StatusVerified,
}

var statusToEntry = map[Status]EntryStatus{
	StatusPending:     EntryPending,
	StatusUnderReview: EntryInReview,
	StatusVerified:    EntryPublished,
}

// Valid reports whether s is one of the three UI statuses.
func (s Status) Valid() bool {
	_, ok := statusToEntry[s]
	return ok
}

// Entry maps a UI status onto the backend label.
func (s Status) Entry() (EntryStatus, error) {
	e, ok := statusToEntry[s]
	if !ok {
		return "", fmt.Errorf("unknown status %q", string(s))
	}
	return e, nil
}

// Valid reports whether e is one of the three backend labels.
func (e EntryStatus) Valid() bool {
	_, ok := entryToStatus[e]
	return ok
}

// Status maps a backend label onto the UI status.
func (e EntryStatus) Status() (Status, error) {
	s, ok := entryToStatus[e]
	if !ok {
		return "", fmt.Errorf("unrecognized entry status %q", string(e))
	}
	return s, nil
}

// ParseStatus accepts either vocabulary ("verified" or "Published", ...) and returns the UI status.
// Admin tooling has historically sent both forms.
func ParseStatus(raw string) (Status, error) {
	raw = strings.TrimSpace(raw)
	if s := Status(raw); s.Valid() {
		return s, nil
	}
	if e := EntryStatus(raw); e.Valid() {
		return entryToStatus[e], nil
	}
	return "", fmt.Errorf("invalid status %q: expected one of pending, under-review, verified", raw)
}
