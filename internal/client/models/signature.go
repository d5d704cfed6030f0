package models

import (
	"time"

	"github.com/dmitrijs2005/werkstatt/internal/store"
)

// Signature is the customer signature for a job; at most one exists per
// job, replaced wholesale on re-signing.
type Signature struct {
	JobID      string
	SignerName string
	// Data is the raster image embedded as a JPEG data URL, not a storage
	// reference.
	Data     string
	SignedAt time.Time
}

// SignatureFromRow decodes a store record into a Signature.
func SignatureFromRow(rec store.Row) Signature {
	return Signature{
		JobID:      asString(rec["job_id"]),
		SignerName: asString(rec["signer_name"]),
		Data:       asString(rec["signature_data"]),
		SignedAt:   asTime(rec["signed_at"]),
	}
}

// Row encodes the signature as a store record.
func (s Signature) Row() store.Row {
	return store.Row{
		"job_id":         s.JobID,
		"signer_name":    s.SignerName,
		"signature_data": s.Data,
		"signed_at":      timeValue(s.SignedAt),
	}
}
