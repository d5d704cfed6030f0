// Package jobs implements the job lifecycle: creation, metadata and
// checklist edits, billable items, photos, closing with its preconditions,
// and full cascade deletion.
package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/werkstatt/internal/client/cache"
	"github.com/dmitrijs2005/werkstatt/internal/client/models"
	"github.com/dmitrijs2005/werkstatt/internal/client/timer"
	"github.com/dmitrijs2005/werkstatt/internal/common"
	"github.com/dmitrijs2005/werkstatt/internal/logging"
	"github.com/dmitrijs2005/werkstatt/internal/objstore"
	"github.com/dmitrijs2005/werkstatt/internal/store"
	"github.com/google/uuid"
)

// Service coordinates job mutations across the record store and the photo
// object storage. Every successful mutation ends with a cache reload.
type Service struct {
	store  store.Store
	photos objstore.ObjectStorage
	cache  *cache.Cache
	timer  *timer.Engine
	log    logging.Logger

	// requireOdometer gates closing on a recorded positive odometer value.
	requireOdometer bool

	// now is a test seam.
	now func() time.Time
}

// NewService returns a service over the given backends.
func NewService(s store.Store, photos objstore.ObjectStorage, c *cache.Cache, eng *timer.Engine, log logging.Logger, requireOdometer bool) *Service {
	return &Service{
		store:           s,
		photos:          photos,
		cache:           c,
		timer:           eng,
		log:             log,
		requireOdometer: requireOdometer,
		now:             time.Now,
	}
}

// CreateInput carries the fields settable at job creation.
type CreateInput struct {
	Title    string
	Customer string
	Vehicle  string
	Plate    string
	JobNo    string
	Notes    string
}

// Create inserts a new open job. Title is mandatory; the plate is stored
// uppercased; an empty job number gets a generated one.
func (s *Service) Create(ctx context.Context, in CreateInput) (models.Job, error) {
	if strings.TrimSpace(in.Title) == "" {
		return models.Job{}, fmt.Errorf("%w: title required", common.ErrValidation)
	}

	now := s.now().UTC()
	jobNo := strings.TrimSpace(in.JobNo)
	if jobNo == "" {
		jobNo = fmt.Sprintf("A-%d", now.UnixMilli())
	}

	job := models.Job{
		ID:        uuid.NewString(),
		Title:     strings.TrimSpace(in.Title),
		Customer:  strings.TrimSpace(in.Customer),
		Vehicle:   strings.TrimSpace(in.Vehicle),
		Plate:     strings.ToUpper(strings.TrimSpace(in.Plate)),
		JobNo:     jobNo,
		Notes:     in.Notes,
		Status:    models.JobStatusOpen,
		Checklist: models.NormalizeChecklist(nil),
		CreatedAt: now,
	}
	if err := s.store.Insert(ctx, store.CollectionJobs, job.Row()); err != nil {
		return models.Job{}, fmt.Errorf("failed to create job: %w", err)
	}
	if err := s.cache.ReloadAll(ctx); err != nil {
		return models.Job{}, err
	}
	return job, nil
}

// SetImportant toggles the job's importance flag. Allowed on closed jobs:
// the flag only affects list ordering.
func (s *Service) SetImportant(ctx context.Context, jobID string, important bool) error {
	if _, err := s.jobByID(jobID); err != nil {
		return err
	}
	patch := store.Row{"important": important}
	if err := s.store.Update(ctx, store.CollectionJobs, patch, store.Filter{"id": jobID}); err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}
	return s.cache.ReloadAll(ctx)
}

// MetaInput carries the vehicle hand-over metadata.
type MetaInput struct {
	OdometerKM *int64
	DropoffAt  *time.Time
	PickupAt   *time.Time
}

// SaveMeta records odometer and drop-off/pick-up times. A negative odometer
// value is rejected. Allowed on closed jobs, so hand-over data can still be
// corrected after the fact.
func (s *Service) SaveMeta(ctx context.Context, jobID string, in MetaInput) error {
	job, err := s.jobByID(jobID)
	if err != nil {
		return err
	}
	if in.OdometerKM != nil && *in.OdometerKM < 0 {
		return fmt.Errorf("%w: odometer must not be negative", common.ErrValidation)
	}

	job.OdometerKM = in.OdometerKM
	job.DropoffAt = in.DropoffAt
	job.PickupAt = in.PickupAt
	row := job.Row()
	patch := store.Row{
		"odometer_km": row["odometer_km"],
		"dropoff_at":  row["dropoff_at"],
		"pickup_at":   row["pickup_at"],
	}
	if err := s.store.Update(ctx, store.CollectionJobs, patch, store.Filter{"id": jobID}); err != nil {
		return fmt.Errorf("failed to save job meta: %w", err)
	}
	return s.cache.ReloadAll(ctx)
}

// SaveChecklist replaces the job's checklist state. Allowed on closed jobs.
func (s *Service) SaveChecklist(ctx context.Context, jobID string, c models.Checklist) error {
	if _, err := s.jobByID(jobID); err != nil {
		return err
	}
	patch := store.Row{"checklist": c.Encode()}
	if err := s.store.Update(ctx, store.CollectionJobs, patch, store.Filter{"id": jobID}); err != nil {
		return fmt.Errorf("failed to save checklist: %w", err)
	}
	return s.cache.ReloadAll(ctx)
}

// SaveNotes replaces the job's free-text notes. Allowed on closed jobs.
func (s *Service) SaveNotes(ctx context.Context, jobID, notes string) error {
	if _, err := s.jobByID(jobID); err != nil {
		return err
	}
	patch := store.Row{"notes": notes}
	if err := s.store.Update(ctx, store.CollectionJobs, patch, store.Filter{"id": jobID}); err != nil {
		return fmt.Errorf("failed to save notes: %w", err)
	}
	return s.cache.ReloadAll(ctx)
}

// Close transitions the job to done. When odometer enforcement is on, a
// recorded positive odometer value is a precondition. A still-running time
// entry is force-stopped first; its failure does not block the close.
func (s *Service) Close(ctx context.Context, jobID string) error {
	job, err := s.openJob(jobID)
	if err != nil {
		return err
	}
	if s.requireOdometer && (job.OdometerKM == nil || *job.OdometerKM <= 0) {
		return common.ErrOdometerRequired
	}

	if err := s.timer.Stop(ctx, jobID); err != nil {
		s.log.Warn(ctx, "failed to stop running timer before close", "job_id", jobID, "error", err)
	}

	patch := store.Row{
		"status":    string(models.JobStatusDone),
		"closed_at": s.now().UTC().Format(time.RFC3339),
	}
	if err := s.store.Update(ctx, store.CollectionJobs, patch, store.Filter{"id": jobID}); err != nil {
		return fmt.Errorf("failed to close job: %w", err)
	}
	return s.cache.ReloadAll(ctx)
}

// Delete removes the job and everything hanging off it: time entries,
// signature, billable items, photo objects and photo records. The dependent
// steps are best-effort so a partially provisioned store never strands the
// job record; only the final job deletion propagates its error.
func (s *Service) Delete(ctx context.Context, jobID string) error {
	if _, err := s.jobByID(jobID); err != nil {
		return err
	}

	filter := store.Filter{"job_id": jobID}
	for _, col := range []string{store.CollectionEntries, store.CollectionSignatures, store.CollectionItems} {
		if err := s.store.Delete(ctx, col, filter); err != nil {
			s.log.Debug(ctx, "cascade delete step failed", "collection", col, "job_id", jobID, "error", err)
		}
	}

	var paths []string
	for _, p := range s.cache.PhotosOf(jobID) {
		paths = append(paths, p.Path)
	}
	if len(paths) > 0 {
		if err := s.photos.Remove(ctx, paths...); err != nil {
			s.log.Debug(ctx, "failed to remove photo objects", "job_id", jobID, "error", err)
		}
	}
	if err := s.store.Delete(ctx, store.CollectionPhotos, filter); err != nil {
		s.log.Debug(ctx, "cascade delete step failed", "collection", store.CollectionPhotos, "job_id", jobID, "error", err)
	}

	if err := s.store.Delete(ctx, store.CollectionJobs, store.Filter{"id": jobID}); err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	return s.cache.ReloadAll(ctx)
}

// AddItem appends a billable line to the job.
func (s *Service) AddItem(ctx context.Context, jobID, itemType, description string, qty, unitPrice float64) error {
	if _, err := s.openJob(jobID); err != nil {
		return err
	}
	if strings.TrimSpace(description) == "" {
		return fmt.Errorf("%w: description required", common.ErrValidation)
	}
	if qty <= 0 {
		return fmt.Errorf("%w: quantity must be positive", common.ErrValidation)
	}
	if unitPrice < 0 {
		return fmt.Errorf("%w: unit price must not be negative", common.ErrValidation)
	}

	item := models.Item{
		ID:          uuid.NewString(),
		JobID:       jobID,
		ItemType:    itemType,
		Description: strings.TrimSpace(description),
		Qty:         qty,
		UnitPrice:   unitPrice,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.store.Insert(ctx, store.CollectionItems, item.Row()); err != nil {
		return fmt.Errorf("failed to add item: %w", err)
	}
	return s.cache.ReloadAll(ctx)
}

// DeleteItem removes a billable line.
func (s *Service) DeleteItem(ctx context.Context, jobID, itemID string) error {
	if _, err := s.openJob(jobID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, store.CollectionItems, store.Filter{"id": itemID}); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return s.cache.ReloadAll(ctx)
}

// UploadPhoto stores the image bytes in the photo bucket and records the
// reference. Identity-document photos are singletons per job: uploading a
// new one replaces the previous object and record; the replacement cleanup
// is best-effort.
func (s *Service) UploadPhoto(ctx context.Context, jobID string, kind models.PhotoKind, ext string, data []byte) (models.Photo, error) {
	if _, err := s.openJob(jobID); err != nil {
		return models.Photo{}, err
	}
	if len(data) == 0 {
		return models.Photo{}, fmt.Errorf("%w: empty photo", common.ErrValidation)
	}
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if ext == "" {
		ext = "jpg"
	}

	path := fmt.Sprintf("%s/%s-%d.%s", jobID, kind, s.now().UnixMilli(), ext)
	if err := s.photos.Put(ctx, path, data, true); err != nil {
		return models.Photo{}, fmt.Errorf("failed to upload photo: %w", err)
	}

	if kind == models.PhotoKindID {
		for _, prev := range s.cache.PhotosOf(jobID) {
			if prev.Kind != models.PhotoKindID {
				continue
			}
			if err := s.photos.Remove(ctx, prev.Path); err != nil {
				s.log.Debug(ctx, "failed to remove replaced photo object", "path", prev.Path, "error", err)
			}
			if err := s.store.Delete(ctx, store.CollectionPhotos, store.Filter{"id": prev.ID}); err != nil {
				s.log.Debug(ctx, "failed to remove replaced photo record", "photo_id", prev.ID, "error", err)
			}
		}
	}

	photo := models.Photo{
		ID:    uuid.NewString(),
		JobID: jobID,
		Path:  path,
		Kind:  kind,
	}
	if err := s.store.Insert(ctx, store.CollectionPhotos, photo.Row()); err != nil {
		return models.Photo{}, fmt.Errorf("failed to record photo: %w", err)
	}
	if err := s.cache.ReloadAll(ctx); err != nil {
		return models.Photo{}, err
	}
	return photo, nil
}

// DeletePhoto removes a photo record and its backing object. The object
// removal is best-effort.
func (s *Service) DeletePhoto(ctx context.Context, jobID, photoID string) error {
	if _, err := s.openJob(jobID); err != nil {
		return err
	}
	for _, p := range s.cache.PhotosOf(jobID) {
		if p.ID != photoID {
			continue
		}
		if err := s.photos.Remove(ctx, p.Path); err != nil {
			s.log.Debug(ctx, "failed to remove photo object", "path", p.Path, "error", err)
		}
	}
	if err := s.store.Delete(ctx, store.CollectionPhotos, store.Filter{"id": photoID}); err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	return s.cache.ReloadAll(ctx)
}

// jobByID resolves the job from the cache.
func (s *Service) jobByID(jobID string) (models.Job, error) {
	job, ok := s.cache.Job(jobID)
	if !ok {
		return models.Job{}, fmt.Errorf("%w: job %s", common.ErrNotFound, jobID)
	}
	return job, nil
}

// openJob resolves the job and rejects mutations on closed ones. Work
// content (items, photos) is frozen once a job is done; metadata is not.
func (s *Service) openJob(jobID string) (models.Job, error) {
	job, err := s.jobByID(jobID)
	if err != nil {
		return models.Job{}, err
	}
	if job.Done() {
		return models.Job{}, common.ErrJobClosed
	}
	return job, nil
}
