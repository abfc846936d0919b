package queue

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a queue entry. Both terminal states are
// advisory on the filesystem: sources stay in place, only the store records
// the transition.
type Status string

const (
	StatusPending   Status = "pending"
	StatusProcessed Status = "processed"
	StatusFailed    Status = "failed"
)

var allStatuses = []Status{
	StatusPending,
	StatusProcessed,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// Entry is a pending unit of work: one item folder and its expected
// artifacts.
type Entry struct {
	ID              int64
	FolderID        string
	ManifestPath    string
	AgentOutputPath string
	Status          Status
	// Stage names the pipeline stage a failure occurred in; empty otherwise.
	Stage        string
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsTerminal reports whether the entry has left the pending state.
func (e *Entry) IsTerminal() bool {
	return e.Status == StatusProcessed || e.Status == StatusFailed
}

// HealthSummary describes aggregated queue counts per lifecycle state.
type HealthSummary struct {
	Total     int
	Pending   int
	Processed int
	Failed    int
}
