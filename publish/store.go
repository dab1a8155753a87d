package publish

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// ObjectStore stores named objects in a bucket
type ObjectStore interface {
	// Put uploads r as object and returns the number of bytes written
	Put(ctx context.Context, object, contentType string, r io.Reader) (int64, error)

	// Close releases the underlying client
	Close() error
}

// gcsStore writes objects to a Google Cloud Storage bucket
type gcsStore struct {
	client *storage.Client
	bucket string
}

func newGCSStore(ctx context.Context, config Config) (*gcsStore, error) {
	var (
		client *storage.Client
		err    error
	)
	if config.UseGRPC {
		client, err = storage.NewGRPCClient(ctx,
			option.WithGRPCConnectionPool(config.GRPCPoolSize),
		)
	} else {
		client, err = storage.NewClient(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &gcsStore{client: client, bucket: config.Bucket}, nil
}

func (s *gcsStore) Put(ctx context.Context, object, contentType string, r io.Reader) (int64, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(object).NewWriter(ctx)
	w.ContentType = contentType

	n, err := io.Copy(w, r)
	if err != nil {
		// Cancelling the context aborts the pending upload
		cancel()
		w.Close()
		return n, fmt.Errorf("write error: %w", err)
	}

	if err := w.Close(); err != nil {
		return n, fmt.Errorf("close error: %w", err)
	}

	return n, nil
}

func (s *gcsStore) Close() error {
	return s.client.Close()
}
