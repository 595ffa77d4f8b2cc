package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
)

// GCSStore keeps uploads in a Cloud Storage bucket under an optional prefix.
type GCSStore struct {
	bucket *storage.BucketHandle
	prefix string
	now    func() time.Time
}

// NewGCSStore wraps an existing client.
func NewGCSStore(client *storage.Client, bucket, prefix string) (*GCSStore, error) {
	if client == nil {
		return nil, errors.New("uploads: storage client is required")
	}
	bucket = strings.TrimSpace(bucket)
	if bucket == "" {
		return nil, errors.New("uploads: bucket is required")
	}
	return &GCSStore{
		bucket: client.Bucket(bucket),
		prefix: strings.Trim(strings.TrimSpace(prefix), "/"),
		now:    time.Now,
	}, nil
}

// Put streams r into a new object.
func (s *GCSStore) Put(ctx context.Context, name, contentType string, r io.Reader) (Object, error) {
	obj := Object{
		Key:         NewKey(s.now()),
		Name:        CleanName(name),
		ContentType: contentType,
	}

	w := s.bucket.Object(s.objectName(obj.Key)).NewWriter(ctx)
	w.ContentType = contentType
	w.Metadata = map[string]string{"name": obj.Name}

	written, err := io.Copy(w, r)
	if err != nil {
		_ = w.Close()
		return Object{}, fmt.Errorf("uploads: write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return Object{}, fmt.Errorf("uploads: finalize object: %w", err)
	}
	obj.Size = written
	return obj, nil
}

// Open returns a reader for the object stored under key.
func (s *GCSStore) Open(ctx context.Context, key string) (io.ReadCloser, Object, error) {
	reader, err := s.bucket.Object(s.objectName(key)).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, Object{}, ErrNotFound
		}
		return nil, Object{}, fmt.Errorf("uploads: open object: %w", err)
	}
	return reader, Object{
		Key:         key,
		ContentType: reader.Attrs.ContentType,
		Size:        reader.Attrs.Size,
	}, nil
}

func (s *GCSStore) objectName(key string) string {
	if s.prefix == "" {
		return key
	}
	return path.Join(s.prefix, key)
}
