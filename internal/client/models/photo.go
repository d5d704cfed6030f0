package models

import "github.com/dmitrijs2005/werkstatt/internal/store"

// PhotoKind distinguishes the single retained identity-document photo from
// general vehicle/damage photos.
type PhotoKind string

const (
	PhotoKindID      PhotoKind = "id"
	PhotoKindGeneral PhotoKind = "general"
)

// Photo references a binary object in photo storage.
type Photo struct {
	ID    string
	JobID string
	// Path is the opaque object key in the photo bucket.
	Path string
	Kind PhotoKind
}

// PhotoFromRow decodes a store record into a Photo.
func PhotoFromRow(rec store.Row) Photo {
	return Photo{
		ID:    asString(rec["id"]),
		JobID: asString(rec["job_id"]),
		Path:  asString(rec["path"]),
		Kind:  PhotoKind(asString(rec["kind"])),
	}
}

// Row encodes the photo as a store record.
func (p Photo) Row() store.Row {
	return store.Row{
		"id":     p.ID,
		"job_id": p.JobID,
		"path":   p.Path,
		"kind":   string(p.Kind),
	}
}
