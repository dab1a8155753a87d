package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type fakeStore struct {
	mu       sync.Mutex
	objects  map[string][]byte
	types    map[string]string
	attempts map[string]int
	failures map[string][]error // per object, consumed in order
	closed   bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		objects:  make(map[string][]byte),
		types:    make(map[string]string),
		attempts: make(map[string]int),
		failures: make(map[string][]error),
	}
}

func (s *fakeStore) failNext(suffix string, errs ...error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[suffix] = append(s.failures[suffix], errs...)
}

func (s *fakeStore) Put(ctx context.Context, object, contentType string, r io.Reader) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attempts[object]++
	for suffix, errs := range s.failures {
		if strings.HasSuffix(object, suffix) && len(errs) > 0 {
			s.failures[suffix] = errs[1:]
			return 0, errs[0]
		}
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	s.objects[object] = data
	s.types[object] = contentType
	return int64(len(data)), nil
}

func (s *fakeStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func writeArtifacts(t *testing.T, names ...string) []string {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(paths[i], []byte("artifact "+name), 0o644))
	}
	return paths
}

func testConfig() Config {
	cfg := DefaultConfig("nmt-reports")
	cfg.ObjectPrefix = "nightly"
	cfg.RetryDelay = time.Millisecond
	return cfg
}

func TestConfig_Validate(t *testing.T) {
	t.Run("RequiresBucket", func(t *testing.T) {
		cfg := Config{}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket name is required")
	})

	t.Run("AppliesDefaults", func(t *testing.T) {
		cfg := Config{Bucket: "b"}
		require.NoError(t, cfg.Validate())
		assert.Equal(t, 3, cfg.MaxRetries)
		assert.Equal(t, 2*time.Second, cfg.RetryDelay)
		assert.Equal(t, 4, cfg.GRPCPoolSize)
	})
}

func TestPublisher_Publish(t *testing.T) {
	t.Run("UploadsUnderPrefixAndRunID", func(t *testing.T) {
		store := newFakeStore()
		p, err := NewWithStore(testConfig(), store)
		require.NoError(t, err)

		_, err = uuid.Parse(p.RunID())
		require.NoError(t, err)

		paths := writeArtifacts(t, "100_plot.png", "report.json")
		objects, err := p.Publish(context.Background(), paths)
		require.NoError(t, err)

		require.Equal(t, []string{
			"nightly/" + p.RunID() + "/100_plot.png",
			"nightly/" + p.RunID() + "/report.json",
		}, objects)
		assert.Equal(t, []byte("artifact 100_plot.png"), store.objects[objects[0]])
		assert.Equal(t, "image/png", store.types[objects[0]])

		stats := p.GetStats()
		assert.Equal(t, int64(2), stats.TotalFiles)
		assert.Equal(t, int64(2), stats.Successful)
		assert.Equal(t, int64(0), stats.Failed)
		assert.Equal(t, int64(len("artifact 100_plot.png")+len("artifact report.json")), stats.TotalBytes)
	})

	t.Run("RetriesTransientErrors", func(t *testing.T) {
		store := newFakeStore()
		store.failNext("100_plot.png",
			status.Error(codes.Unavailable, "backend unavailable"),
			&googleapi.Error{Code: 503},
		)
		p, err := NewWithStore(testConfig(), store)
		require.NoError(t, err)

		objects, err := p.Publish(context.Background(), writeArtifacts(t, "100_plot.png"))
		require.NoError(t, err)
		require.Len(t, objects, 1)
		assert.Equal(t, 3, store.attempts[objects[0]])
	})

	t.Run("GivesUpAfterMaxRetries", func(t *testing.T) {
		store := newFakeStore()
		transient := status.Error(codes.ResourceExhausted, "rate limited")
		store.failNext("100_plot.png", transient, transient, transient, transient)
		p, err := NewWithStore(testConfig(), store)
		require.NoError(t, err)

		objects, err := p.Publish(context.Background(), writeArtifacts(t, "100_plot.png", "200_plot.png"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "upload failed after 4 attempts")
		assert.Empty(t, objects)

		stats := p.GetStats()
		assert.Equal(t, int64(1), stats.TotalFiles)
		assert.Equal(t, int64(1), stats.Failed)
	})

	t.Run("DoesNotRetryPermanentErrors", func(t *testing.T) {
		store := newFakeStore()
		store.failNext("100_plot.png", &googleapi.Error{Code: 403, Message: "forbidden"})
		p, err := NewWithStore(testConfig(), store)
		require.NoError(t, err)

		_, err = p.Publish(context.Background(), writeArtifacts(t, "100_plot.png"))
		require.Error(t, err)
		assert.Equal(t, 1, store.attempts["nightly/"+p.RunID()+"/100_plot.png"])
	})

	t.Run("StopsWhenContextCancelled", func(t *testing.T) {
		store := newFakeStore()
		store.failNext("100_plot.png", status.Error(codes.Unavailable, "down"))
		cfg := testConfig()
		cfg.RetryDelay = time.Hour
		p, err := NewWithStore(cfg, store)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(10 * time.Millisecond)
			cancel()
		}()

		_, err = p.Publish(ctx, writeArtifacts(t, "100_plot.png"))
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("ReturnsErrorForMissingFile", func(t *testing.T) {
		p, err := NewWithStore(testConfig(), newFakeStore())
		require.NoError(t, err)

		_, err = p.Publish(context.Background(), []string{filepath.Join(t.TempDir(), "missing.png")})
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestPublisher_RunIDsAreUnique(t *testing.T) {
	a, err := NewWithStore(testConfig(), newFakeStore())
	require.NoError(t, err)
	b, err := NewWithStore(testConfig(), newFakeStore())
	require.NoError(t, err)
	assert.NotEqual(t, a.RunID(), b.RunID())
}

func TestPublisher_Close(t *testing.T) {
	store := newFakeStore()
	p, err := NewWithStore(testConfig(), store)
	require.NoError(t, err)
	require.NoError(t, p.Close())
	assert.True(t, store.closed)

	_, err = NewWithStore(testConfig(), nil)
	assert.Error(t, err)
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"Nil", nil, false},
		{"Plain", errors.New("boom"), false},
		{"Cancelled", context.Canceled, false},
		{"GRPCUnavailable", status.Error(codes.Unavailable, "x"), true},
		{"GRPCWrapped", fmt.Errorf("close error: %w", status.Error(codes.Internal, "x")), true},
		{"GRPCNotFound", status.Error(codes.NotFound, "x"), false},
		{"HTTP429", &googleapi.Error{Code: 429}, true},
		{"HTTP500", &googleapi.Error{Code: 500}, true},
		{"HTTP404", &googleapi.Error{Code: 404}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRetryable(tt.err))
		})
	}
}
