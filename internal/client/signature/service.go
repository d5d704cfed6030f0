package signature

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/werkstatt/internal/client/cache"
	"github.com/dmitrijs2005/werkstatt/internal/client/models"
	"github.com/dmitrijs2005/werkstatt/internal/common"
	"github.com/dmitrijs2005/werkstatt/internal/store"
)

// Service persists the pad's contents as the job signature.
type Service struct {
	store store.Store
	cache *cache.Cache
	pad   *Pad

	// now is a test seam.
	now func() time.Time
}

// NewService returns a service bound to the given store, cache and pad.
func NewService(s store.Store, c *cache.Cache, pad *Pad) *Service {
	return &Service{store: s, cache: c, pad: pad, now: time.Now}
}

// Pad exposes the drawing surface the service saves from.
func (s *Service) Pad() *Pad {
	return s.pad
}

// Save persists the pad contents as the job's signature, replacing any
// previous one, and clears the pad afterwards. It rejects an empty signer
// name and an untouched pad. A job that is closed and already carries a
// signature cannot be re-signed.
func (s *Service) Save(ctx context.Context, jobID, signerName string) error {
	job, ok := s.cache.Job(jobID)
	if !ok {
		return fmt.Errorf("%w: job %s", common.ErrNotFound, jobID)
	}
	if signerName == "" {
		return fmt.Errorf("%w: signer name required", common.ErrValidation)
	}
	if !s.pad.HasInk() {
		return common.ErrNoInk
	}
	if job.Done() {
		if _, signed := s.cache.SignatureOf(jobID); signed {
			return common.ErrJobClosed
		}
	}

	data, err := s.pad.EncodeDataURL()
	if err != nil {
		return fmt.Errorf("failed to encode signature: %w", err)
	}

	sig := models.Signature{
		JobID:      jobID,
		SignerName: signerName,
		Data:       data,
		SignedAt:   s.now().UTC(),
	}
	if err := s.store.Upsert(ctx, store.CollectionSignatures, sig.Row(), "job_id"); err != nil {
		return fmt.Errorf("failed to save signature: %w", err)
	}

	s.pad.Clear()
	return s.cache.ReloadAll(ctx)
}
