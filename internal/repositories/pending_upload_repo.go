package repositories

import (
	"time"

	"elegardens/internal/models"
)

// PendingUploadRepository tracks media objects that were uploaded but
// not yet attached to any entity, so a sweeper can reclaim abandoned
// ones.
type PendingUploadRepository interface {
	Create(upload *models.PendingUpload) error
	// Delete removes ledger rows for the given public ids. Unknown ids
	// are ignored; attaching an image that was never staged is fine.
	Delete(publicIDs ...string) error
	// ListOlderThan returns ledger rows created before the cutoff.
	ListOlderThan(cutoff time.Time) ([]models.PendingUpload, error)
}
