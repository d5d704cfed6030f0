package models

import (
	"time"

	"github.com/dmitrijs2005/werkstatt/internal/store"
)

// TimeEntry is one worker's tracked work interval on a job. End is nil
// while the entry is running; at most one entry per job may be running.
type TimeEntry struct {
	ID     string
	JobID  string
	Worker string
	Task   string

	// Start is set at creation and never changes.
	Start time.Time
	// End is nil while running; set exactly once on stop.
	End *time.Time
}

// Running reports whether the entry is still open.
func (e TimeEntry) Running() bool {
	return e.End == nil
}

// TimeEntryFromRow decodes a store record into a TimeEntry.
func TimeEntryFromRow(rec store.Row) TimeEntry {
	return TimeEntry{
		ID:     asString(rec["id"]),
		JobID:  asString(rec["job_id"]),
		Worker: asString(rec["worker"]),
		Task:   asString(rec["task"]),
		Start:  asTime(rec["start_ts"]),
		End:    asTimePtr(rec["end_ts"]),
	}
}

// Row encodes the entry as a store record.
func (e TimeEntry) Row() store.Row {
	return store.Row{
		"id":       e.ID,
		"job_id":   e.JobID,
		"worker":   e.Worker,
		"task":     e.Task,
		"start_ts": timeValue(e.Start),
		"end_ts":   timePtrValue(e.End),
	}
}
