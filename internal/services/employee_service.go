package services

import (
	"context"
	"mime/multipart"

	"elegardens/internal/models"
	"elegardens/internal/repositories"
	"elegardens/pkg/mediastore"
)

// UpdateEmployeeInput carries a partial employee update. Nil fields are
// left untouched. A non-nil ProfilePicture replaces the slot wholesale;
// clearing it goes through DeleteProfilePicture instead.
type UpdateEmployeeInput struct {
	FirstName      *string               `json:"first_name"`
	LastName       *string               `json:"last_name"`
	Email          *string               `json:"email"`
	Telephone      *string               `json:"telephone"`
	Role           *models.LocalizedText `json:"role"`
	Department     *models.LocalizedText `json:"department"`
	ProfilePicture *models.ImageRef      `json:"profilePicture"`
}

// EmployeeService handles business logic related to employees and their
// single profile-picture slot.
type EmployeeService struct {
	repo   repositories.EmployeeRepository
	images *ImageService
}

// NewEmployeeService creates a new EmployeeService.
func NewEmployeeService(repo repositories.EmployeeRepository, images *ImageService) *EmployeeService {
	return &EmployeeService{
		repo:   repo,
		images: images,
	}
}

// GetAll retrieves all employees, creation order ascending.
func (s *EmployeeService) GetAll() ([]models.Employee, error) {
	return s.repo.GetAll()
}

// GetByID retrieves a single employee by its ID.
func (s *EmployeeService) GetByID(id string) (*models.Employee, error) {
	return s.repo.GetByID(id)
}

// Create persists a new employee carrying an already-uploaded profile
// picture reference, if any. No media store calls happen here.
func (s *EmployeeService) Create(employee *models.Employee) error {
	if err := s.repo.Create(employee); err != nil {
		return err
	}
	if employee.ProfilePicture != nil {
		s.images.MarkAttached(employee.ProfilePicture.PublicID)
	}
	return nil
}

// Update applies a partial update. When the profile picture is replaced
// with a different asset, the stale media object is deleted only after
// the database write succeeds (delete-after-commit): persistence is the
// commit point, remote cleanup a best-effort side effect.
func (s *EmployeeService) Update(ctx context.Context, id string, input *UpdateEmployeeInput) (*models.Employee, error) {
	employee, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	oldPicture := employee.ProfilePicture

	if input.FirstName != nil {
		employee.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		employee.LastName = *input.LastName
	}
	if input.Email != nil {
		employee.Email = *input.Email
	}
	if input.Telephone != nil {
		employee.Telephone = *input.Telephone
	}
	if input.Role != nil {
		employee.Role = *input.Role
	}
	if input.Department != nil {
		employee.Department = *input.Department
	}
	if input.ProfilePicture != nil {
		employee.ProfilePicture = input.ProfilePicture
	}

	if err := s.repo.Update(employee); err != nil {
		return nil, err
	}

	if input.ProfilePicture != nil {
		s.images.MarkAttached(input.ProfilePicture.PublicID)
		if oldPicture != nil && oldPicture.PublicID != input.ProfilePicture.PublicID {
			s.images.CleanupAsset(ctx, oldPicture.PublicID)
		}
	}
	return employee, nil
}

// StageProfilePicture uploads a profile picture before the employee
// exists. The reference lives only in the ledger and the client's form
// state until a create request attaches it.
func (s *EmployeeService) StageProfilePicture(ctx context.Context, fh *multipart.FileHeader) (*models.ImageRef, error) {
	return s.images.UploadOne(ctx, fh, mediastore.FolderEmployees)
}

// ReplaceProfilePicture uploads a new picture against an existing
// employee and returns the new reference together with the previous one
// (if any). The employee record is NOT mutated here; only the
// subsequent update call attaches the new reference and disposes of the
// old object.
func (s *EmployeeService) ReplaceProfilePicture(ctx context.Context, id string, fh *multipart.FileHeader) (*models.ImageRef, *models.ImageRef, error) {
	employee, err := s.repo.GetByID(id)
	if err != nil {
		return nil, nil, err
	}

	newPicture, err := s.images.UploadOne(ctx, fh, mediastore.FolderEmployees)
	if err != nil {
		return nil, nil, err
	}
	return newPicture, employee.ProfilePicture, nil
}

// DeleteStagedPicture removes a staged, unattached profile picture from
// the media store.
func (s *EmployeeService) DeleteStagedPicture(ctx context.Context, publicID string) error {
	return s.images.DeleteByPublicID(ctx, publicID)
}

// DeleteProfilePicture clears the employee's profile-picture slot and
// best-effort deletes the media object after the write commits. A
// second call finds the slot empty and returns ErrNoProfilePicture
// without touching anything else.
func (s *EmployeeService) DeleteProfilePicture(ctx context.Context, id string) (*models.Employee, error) {
	employee, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if employee.ProfilePicture == nil {
		return nil, ErrNoProfilePicture
	}

	removed := employee.ProfilePicture
	employee.ProfilePicture = nil
	if err := s.repo.Update(employee); err != nil {
		return nil, err
	}

	s.images.CleanupAsset(ctx, removed.PublicID)
	return employee, nil
}

// Delete removes an employee and best-effort deletes the profile
// picture object after the row is gone.
func (s *EmployeeService) Delete(ctx context.Context, id string) error {
	employee, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	if employee.ProfilePicture != nil {
		s.images.CleanupAsset(ctx, employee.ProfilePicture.PublicID)
	}
	return nil
}
