// Package objstore abstracts binary object storage for job photos: put,
// remove and public-URL resolution against a single bucket.
package objstore

import "context"

// Bucket is the fixed bucket name for job photo objects.
const Bucket = "job-photos"

// ObjectStorage stores opaque binary objects under path keys.
type ObjectStorage interface {
	// Put uploads data under path. With overwrite set, an existing object
	// at the same path is replaced.
	Put(ctx context.Context, path string, data []byte, overwrite bool) error

	// Remove deletes the objects at the given paths. Missing objects are
	// not an error.
	Remove(ctx context.Context, paths ...string) error

	// PublicURL resolves the browsable URL of an object.
	PublicURL(path string) string
}
