package repositories

import (
	"sync"
	"time"

	"elegardens/internal/models"
)

// MockPendingUploadRepository is an in-memory implementation of
// PendingUploadRepository.
type MockPendingUploadRepository struct {
	uploads map[string]models.PendingUpload
	mu      sync.RWMutex
}

// NewMockPendingUploadRepository creates a new instance of
// MockPendingUploadRepository.
func NewMockPendingUploadRepository() *MockPendingUploadRepository {
	return &MockPendingUploadRepository{
		uploads: make(map[string]models.PendingUpload),
	}
}

// Create records a new pending upload.
func (r *MockPendingUploadRepository) Create(upload *models.PendingUpload) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if upload.CreatedAt.IsZero() {
		upload.CreatedAt = time.Now()
	}
	r.uploads[upload.PublicID] = *upload
	return nil
}

// Delete removes ledger rows for the given public ids.
func (r *MockPendingUploadRepository) Delete(publicIDs ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range publicIDs {
		delete(r.uploads, id)
	}
	return nil
}

// ListOlderThan returns ledger rows created before the cutoff.
func (r *MockPendingUploadRepository) ListOlderThan(cutoff time.Time) ([]models.PendingUpload, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var stale []models.PendingUpload
	for _, u := range r.uploads {
		if u.CreatedAt.Before(cutoff) {
			stale = append(stale, u)
		}
	}
	return stale, nil
}

// Count returns the number of ledger rows, for test assertions.
func (r *MockPendingUploadRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.uploads)
}
