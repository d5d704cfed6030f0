package objstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemory_PutOverwriteSemantics(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Put(ctx, "j1/id-1.jpg", []byte("a"), false))
	require.Error(t, m.Put(ctx, "j1/id-1.jpg", []byte("b"), false))
	require.NoError(t, m.Put(ctx, "j1/id-1.jpg", []byte("b"), true))
}

func TestMemory_RemoveMissingIsNoError(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Put(ctx, "a", []byte("x"), true))
	require.NoError(t, m.Remove(ctx, "a", "never-existed"))
	require.False(t, m.Has("a"))
}

func TestS3Storage_PublicURL(t *testing.T) {
	s := &S3Storage{cfg: S3Config{BaseEndpoint: "http://127.0.0.1:9000/", Bucket: Bucket}}
	require.Equal(t, "http://127.0.0.1:9000/job-photos/j1/id-1.jpg", s.PublicURL("j1/id-1.jpg"))

	aws := &S3Storage{cfg: S3Config{Bucket: Bucket, Region: "eu-central-1"}}
	require.Equal(t, "https://job-photos.s3.eu-central-1.amazonaws.com/j1/id-1.jpg", aws.PublicURL("j1/id-1.jpg"))
}
