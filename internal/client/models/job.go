// Package models defines the client-side data model mirrored from the
// remote store: jobs, time entries, signatures, billable items and photos.
// All cross-entity references are by id; no entity holds another.
package models

import (
	"time"

	"github.com/dmitrijs2005/werkstatt/internal/store"
)

// JobStatus is the lifecycle state of a job. Transitions are one-way:
// open → done.
type JobStatus string

const (
	JobStatusOpen JobStatus = "open"
	JobStatusDone JobStatus = "done"
)

// Job is a repair/service order.
type Job struct {
	// ID is an opaque stable identifier, immutable after creation.
	ID string

	Title    string
	Customer string
	Vehicle  string
	// Plate is the license plate, stored uppercased.
	Plate string
	// JobNo is a human-facing order number.
	JobNo string
	// Notes is free text, searchable in the list view.
	Notes string

	Status    JobStatus
	Important bool

	// OdometerKM is nil until recorded; non-negative.
	OdometerKM *int64
	DropoffAt  *time.Time
	PickupAt   *time.Time

	Checklist Checklist

	// CreatedAt is set once at creation.
	CreatedAt time.Time
	// ClosedAt is non-nil iff Status is done.
	ClosedAt *time.Time
}

// Done reports whether the job has reached its terminal state.
func (j Job) Done() bool {
	return j.Status == JobStatusDone
}

// JobFromRow decodes a store record into a Job.
func JobFromRow(rec store.Row) Job {
	return Job{
		ID:         asString(rec["id"]),
		Title:      asString(rec["title"]),
		Customer:   asString(rec["customer"]),
		Vehicle:    asString(rec["vehicle"]),
		Plate:      asString(rec["plate"]),
		JobNo:      asString(rec["job_no"]),
		Notes:      asString(rec["notes"]),
		Status:     JobStatus(asString(rec["status"])),
		Important:  asBool(rec["important"]),
		OdometerKM: asIntPtr(rec["odometer_km"]),
		DropoffAt:  asTimePtr(rec["dropoff_at"]),
		PickupAt:   asTimePtr(rec["pickup_at"]),
		Checklist:  ParseChecklist(asString(rec["checklist"])),
		CreatedAt:  asTime(rec["created_at"]),
		ClosedAt:   asTimePtr(rec["closed_at"]),
	}
}

// Row encodes the job as a store record.
func (j Job) Row() store.Row {
	return store.Row{
		"id":          j.ID,
		"title":       j.Title,
		"customer":    j.Customer,
		"vehicle":     j.Vehicle,
		"plate":       j.Plate,
		"job_no":      j.JobNo,
		"notes":       j.Notes,
		"status":      string(j.Status),
		"important":   j.Important,
		"odometer_km": intPtrValue(j.OdometerKM),
		"dropoff_at":  timePtrValue(j.DropoffAt),
		"pickup_at":   timePtrValue(j.PickupAt),
		"checklist":   j.Checklist.Encode(),
		"created_at":  timeValue(j.CreatedAt),
		"closed_at":   timePtrValue(j.ClosedAt),
	}
}
