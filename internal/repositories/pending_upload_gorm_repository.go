package repositories

import (
	"fmt"
	"time"

	"elegardens/internal/models"

	"gorm.io/gorm"
)

// GORMPendingUploadRepository is a GORM implementation of PendingUploadRepository.
type GORMPendingUploadRepository struct {
	db *gorm.DB
}

// NewGORMPendingUploadRepository creates a new instance of GORMPendingUploadRepository.
func NewGORMPendingUploadRepository(db *gorm.DB) *GORMPendingUploadRepository {
	return &GORMPendingUploadRepository{
		db: db,
	}
}

// Create records a new pending upload in the ledger.
func (r *GORMPendingUploadRepository) Create(upload *models.PendingUpload) error {
	if err := r.db.Create(upload).Error; err != nil {
		return fmt.Errorf("failed to record pending upload %s: %w", upload.PublicID, err)
	}
	return nil
}

// Delete removes ledger rows for the given public ids. Unknown ids are
// not an error.
func (r *GORMPendingUploadRepository) Delete(publicIDs ...string) error {
	if len(publicIDs) == 0 {
		return nil
	}
	if err := r.db.Delete(&models.PendingUpload{}, "public_id IN ?", publicIDs).Error; err != nil {
		return fmt.Errorf("failed to delete pending uploads: %w", err)
	}
	return nil
}

// ListOlderThan returns ledger rows created before the cutoff.
func (r *GORMPendingUploadRepository) ListOlderThan(cutoff time.Time) ([]models.PendingUpload, error) {
	var uploads []models.PendingUpload
	if err := r.db.Where("created_at < ?", cutoff).Find(&uploads).Error; err != nil {
		return nil, fmt.Errorf("failed to list stale pending uploads: %w", err)
	}
	return uploads, nil
}
