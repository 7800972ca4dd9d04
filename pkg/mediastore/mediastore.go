package mediastore

import "context"

// Folders the back office uploads into. The folder becomes the first
// segment of the object's public id.
const (
	FolderProducts  = "products"
	FolderEmployees = "employees"
)

// UploadResult is what callers need to reference an uploaded asset:
// the store's canonical handle plus a derived public link.
type UploadResult struct {
	URL      string
	PublicID string
}

// Store abstracts the remote image host. Upload failures must surface
// to the caller; Delete is best-effort from the caller's perspective,
// since by the time a delete is requested the object may already be
// gone or the id invalid.
type Store interface {
	Upload(ctx context.Context, data []byte, filename, folder string) (*UploadResult, error)
	Delete(ctx context.Context, publicID string) error
}
