package mediastore

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MockStore is an in-memory Store implementation for tests. It tracks
// stored objects by public id so tests can assert on uploads, deletes
// and leaked objects.
type MockStore struct {
	objects map[string][]byte
	mu      sync.RWMutex

	// FailUploads and FailDeletes make the respective calls error,
	// for exercising the protocol's failure directions.
	FailUploads bool
	FailDeletes bool
}

// NewMockStore creates a new instance of MockStore.
func NewMockStore() *MockStore {
	return &MockStore{
		objects: make(map[string][]byte),
	}
}

// Upload stores the bytes under a generated public id.
func (s *MockStore) Upload(ctx context.Context, data []byte, filename, folder string) (*UploadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailUploads {
		return nil, fmt.Errorf("mock upload failure for %s", filename)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	publicID := fmt.Sprintf("%s/%s%s", folder, uuid.New().String(), ext)
	s.objects[publicID] = data

	return &UploadResult{
		URL:      "https://media.test/" + publicID,
		PublicID: publicID,
	}, nil
}

// Delete removes the object with the given public id. Deleting an
// unknown id is an error, matching a remote store's behavior.
func (s *MockStore) Delete(ctx context.Context, publicID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailDeletes {
		return fmt.Errorf("mock delete failure for %s", publicID)
	}

	if _, ok := s.objects[publicID]; !ok {
		return fmt.Errorf("object %s not found", publicID)
	}
	delete(s.objects, publicID)
	return nil
}

// Has reports whether an object with the given public id is stored.
func (s *MockStore) Has(publicID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.objects[publicID]
	return ok
}

// Count returns the number of stored objects.
func (s *MockStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.objects)
}
