package services

import (
	"errors"
	"fmt"

	"elegardens/internal/models"
)

var (
	// ErrInvalidCredentials is returned on a password mismatch. Lookup
	// failures map to ErrAdminRequired instead, so login never reveals
	// whether a username exists.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAdminRequired is returned when the account is missing or its
	// role is not ADMIN.
	ErrAdminRequired = errors.New("admin access required")

	// ErrNoProfilePicture is returned when a profile-picture delete
	// finds the slot already empty. A second delete in a row gets this
	// error and touches nothing else.
	ErrNoProfilePicture = errors.New("no profile picture found")

	// ErrLastImage guards the lower bound of the image invariant.
	ErrLastImage = errors.New("cannot delete all images, product must keep at least one image")
)

// FileValidationError reports a rejected upload file. The whole batch
// is aborted before any file of that request is uploaded.
type FileValidationError struct {
	Message string
}

func (e *FileValidationError) Error() string { return e.Message }

// ImageCapError reports an attempt to push a product past the image cap.
type ImageCapError struct {
	Action   string // "upload" or "add", matching the endpoint's wording
	New      int
	Existing int
}

func (e *ImageCapError) Error() string {
	return fmt.Sprintf("Cannot %s %d images. Product already has %d images. Maximum %d total allowed.",
		e.Action, e.New, e.Existing, models.MaxProductImages)
}

// ImageIndexError reports a positional image delete outside the stored
// array bounds.
type ImageIndexError struct {
	Count int
}

func (e *ImageIndexError) Error() string {
	return fmt.Sprintf("Invalid image index. Product has %d images (indices 0-%d)", e.Count, e.Count-1)
}
