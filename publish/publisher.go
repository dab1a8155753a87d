package publish

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Publisher uploads report artifacts to object storage. Every Publisher gets
// its own run ID so repeated runs never overwrite each other's objects.
type Publisher struct {
	config  Config
	store   ObjectStore
	runID   string
	stats   Stats
	statsMu sync.RWMutex
}

// Stats tracks upload statistics
type Stats struct {
	TotalFiles     int64
	Successful     int64
	Failed         int64
	TotalBytes     int64
	TotalDuration  time.Duration
	LastUploadTime time.Time
}

// New creates a Publisher backed by a GCS client
func New(ctx context.Context, config Config) (*Publisher, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	store, err := newGCSStore(ctx, config)
	if err != nil {
		return nil, err
	}

	return newPublisher(config, store), nil
}

// NewWithStore creates a Publisher backed by store
func NewWithStore(config Config, store ObjectStore) (*Publisher, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("object store is required")
	}
	return newPublisher(config, store), nil
}

func newPublisher(config Config, store ObjectStore) *Publisher {
	return &Publisher{
		config: config,
		store:  store,
		runID:  uuid.NewString(),
	}
}

// RunID returns the ID that groups this publisher's objects
func (p *Publisher) RunID() string {
	return p.runID
}

// GetStats returns current upload statistics
func (p *Publisher) GetStats() Stats {
	p.statsMu.RLock()
	defer p.statsMu.RUnlock()
	return p.stats
}

// Close closes the underlying store
func (p *Publisher) Close() error {
	return p.store.Close()
}

// Publish uploads each file and returns the object names in input order.
// It stops at the first file that still fails after retries.
func (p *Publisher) Publish(ctx context.Context, paths []string) ([]string, error) {
	objects := make([]string, 0, len(paths))

	for _, filePath := range paths {
		object := p.objectName(filePath)

		err := p.uploadFileWithRetry(ctx, filePath, object)

		p.statsMu.Lock()
		p.stats.TotalFiles++
		if err != nil {
			p.stats.Failed++
		} else {
			p.stats.Successful++
			p.stats.LastUploadTime = time.Now()
		}
		p.statsMu.Unlock()

		if err != nil {
			log.Printf("[ERROR] Failed to publish %s: %v", filePath, err)
			return objects, err
		}

		log.Printf("[INFO] Published %s to gs://%s/%s", filePath, p.config.Bucket, object)
		objects = append(objects, object)
	}

	return objects, nil
}

// objectName places the file under prefix/runID/
func (p *Publisher) objectName(filePath string) string {
	return path.Join(p.config.ObjectPrefix, p.runID, filepath.Base(filePath))
}

// uploadFileWithRetry uploads a file, retrying transient failures
func (p *Publisher) uploadFileWithRetry(ctx context.Context, filePath, object string) error {
	var lastErr error
	for attempt := 0; attempt <= p.config.MaxRetries; attempt++ {
		if attempt > 0 {
			// Wait before retry
			select {
			case <-ctx.Done():
				return fmt.Errorf("publish cancelled: %w", ctx.Err())
			case <-time.After(p.config.RetryDelay):
			}
		}

		start := time.Now()
		n, err := p.uploadFile(ctx, filePath, object)
		duration := time.Since(start)

		if err == nil {
			p.statsMu.Lock()
			p.stats.TotalBytes += n
			p.stats.TotalDuration += duration
			p.statsMu.Unlock()
			return nil
		}

		lastErr = err
		if !isRetryable(err) {
			return fmt.Errorf("upload of %s failed: %w", filePath, err)
		}
		if attempt < p.config.MaxRetries {
			log.Printf("[WARNING] Upload attempt %d/%d failed for %s: %v, retrying...", attempt+1, p.config.MaxRetries+1, filePath, err)
		}
	}

	return fmt.Errorf("upload failed after %d attempts: %w", p.config.MaxRetries+1, lastErr)
}

func (p *Publisher) uploadFile(ctx context.Context, filePath, object string) (int64, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return 0, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return p.store.Put(ctx, object, contentType(filePath), file)
}

func contentType(filePath string) string {
	if ct := mime.TypeByExtension(filepath.Ext(filePath)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// isRetryable reports whether err is a transient storage failure. Both the
// JSON API (googleapi.Error) and the gRPC API (status codes) are recognised.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError
	}

	if s, ok := status.FromError(err); ok {
		switch s.Code() {
		case codes.Unavailable, codes.ResourceExhausted, codes.DeadlineExceeded, codes.Internal, codes.Aborted:
			return true
		}
	}

	return false
}
