package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"elegardens/internal/models"
	"elegardens/internal/repositories"
	"elegardens/pkg/mediastore"
)

// MaxImageBytes is the per-file upload limit (10MB).
const MaxImageBytes = 10 * 1024 * 1024

// ImageService implements the upload half of the two-phase attachment
// protocol: files are pushed to the media store before any entity
// references them, each upload is recorded in the pending ledger, and
// the ledger row is cleared once the reference is persisted on an
// entity (MarkAttached) or the staged asset is explicitly deleted.
type ImageService struct {
	store       mediastore.Store
	pendingRepo repositories.PendingUploadRepository
}

// NewImageService creates a new ImageService.
func NewImageService(store mediastore.Store, pendingRepo repositories.PendingUploadRepository) *ImageService {
	return &ImageService{
		store:       store,
		pendingRepo: pendingRepo,
	}
}

// validateFiles checks every file of a batch up front. The first
// invalid file aborts the whole request before anything is uploaded.
func validateFiles(files []*multipart.FileHeader) error {
	for _, fh := range files {
		contentType := fh.Header.Get("Content-Type")
		if !strings.HasPrefix(contentType, "image/") {
			return &FileValidationError{Message: fmt.Sprintf("Invalid file type: %s. Only images are allowed", contentType)}
		}
		if fh.Size > MaxImageBytes {
			return &FileValidationError{Message: fmt.Sprintf("File %s is too large. Maximum size is 10MB", fh.Filename)}
		}
	}
	return nil
}

// altText derives the alt text from the uploaded filename with its
// extension stripped. It is not user-editable afterwards.
func altText(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}

func readFileHeader(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file %s: %w", fh.Filename, err)
	}
	return data, nil
}

// UploadBatch validates then uploads the files in selection order and
// stages each resulting reference in the pending ledger. An upload
// failure fails the request; files uploaded earlier in the same batch
// stay staged and are reclaimed by the sweeper if never attached.
func (s *ImageService) UploadBatch(ctx context.Context, files []*multipart.FileHeader, folder string) ([]models.ImageRef, error) {
	if len(files) == 0 {
		return nil, &FileValidationError{Message: "No images provided"}
	}
	if err := validateFiles(files); err != nil {
		return nil, err
	}

	refs := make([]models.ImageRef, 0, len(files))
	for _, fh := range files {
		data, err := readFileHeader(fh)
		if err != nil {
			return nil, err
		}

		result, err := s.store.Upload(ctx, data, fh.Filename, folder)
		if err != nil {
			return nil, fmt.Errorf("failed to upload %s: %w", fh.Filename, err)
		}

		if err := s.pendingRepo.Create(&models.PendingUpload{
			PublicID: result.PublicID,
			URL:      result.URL,
			Folder:   folder,
		}); err != nil {
			// A missing ledger row only means the sweeper cannot see
			// this asset; the upload itself succeeded.
			log.Printf("Warning: failed to record pending upload %s: %v", result.PublicID, err)
		}

		refs = append(refs, models.ImageRef{
			URL:      result.URL,
			PublicID: result.PublicID,
			AltText:  altText(fh.Filename),
		})
	}
	return refs, nil
}

// UploadOne uploads a single file, used for profile pictures.
func (s *ImageService) UploadOne(ctx context.Context, fh *multipart.FileHeader, folder string) (*models.ImageRef, error) {
	refs, err := s.UploadBatch(ctx, []*multipart.FileHeader{fh}, folder)
	if err != nil {
		return nil, err
	}
	return &refs[0], nil
}

// DeleteByPublicID removes a staged asset from the media store and the
// ledger. Used when a form is abandoned before submit; the asset was
// never attached, so there is nothing to roll back in the database.
func (s *ImageService) DeleteByPublicID(ctx context.Context, publicID string) error {
	if err := s.store.Delete(ctx, publicID); err != nil {
		return fmt.Errorf("failed to delete image %s: %w", publicID, err)
	}
	if err := s.pendingRepo.Delete(publicID); err != nil {
		log.Printf("Warning: failed to clear pending upload %s: %v", publicID, err)
	}
	return nil
}

// MarkAttached clears ledger rows once the given references have been
// persisted on an entity. Failures are logged only; the entity write
// already succeeded.
func (s *ImageService) MarkAttached(publicIDs ...string) {
	if len(publicIDs) == 0 {
		return
	}
	if err := s.pendingRepo.Delete(publicIDs...); err != nil {
		log.Printf("Warning: failed to clear pending uploads %v: %v", publicIDs, err)
	}
}

// CleanupAsset deletes a media object after the database write that
// detached it has committed. Failures are logged only: the record is
// the source of truth, and leaking a stored object is preferred over
// failing the request.
func (s *ImageService) CleanupAsset(ctx context.Context, publicID string) {
	if err := s.store.Delete(ctx, publicID); err != nil {
		log.Printf("Warning: failed to delete media object %s, storage may leak: %v", publicID, err)
		return
	}
	if err := s.pendingRepo.Delete(publicID); err != nil {
		log.Printf("Warning: failed to clear pending upload %s: %v", publicID, err)
	}
}

// SweepPending reclaims staged assets whose ledger entries are older
// than the TTL: abandoned forms, crashed clients. Returns how many
// objects were reclaimed.
func (s *ImageService) SweepPending(ctx context.Context, ttl time.Duration) (int, error) {
	stale, err := s.pendingRepo.ListOlderThan(time.Now().Add(-ttl))
	if err != nil {
		return 0, fmt.Errorf("failed to list stale uploads: %w", err)
	}

	reclaimed := 0
	for _, upload := range stale {
		if err := s.store.Delete(ctx, upload.PublicID); err != nil {
			log.Printf("Warning: sweeper could not delete %s: %v", upload.PublicID, err)
			continue
		}
		if err := s.pendingRepo.Delete(upload.PublicID); err != nil {
			log.Printf("Warning: sweeper could not clear ledger row %s: %v", upload.PublicID, err)
			continue
		}
		reclaimed++
	}
	return reclaimed, nil
}

// RunSweeper runs SweepPending on a ticker until the context is
// cancelled. Started as a goroutine from main.
func (s *ImageService) RunSweeper(ctx context.Context, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := s.SweepPending(ctx, ttl); err != nil {
				log.Printf("Pending upload sweep failed: %v", err)
			} else if n > 0 {
				log.Printf("Reclaimed %d abandoned uploads", n)
			}
		}
	}
}
