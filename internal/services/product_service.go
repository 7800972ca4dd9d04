package services

import (
	"context"
	"fmt"
	"mime/multipart"

	"elegardens/internal/models"
	"elegardens/internal/repositories"
	"elegardens/pkg/mediastore"
)

// Pagination is the page metadata returned with product listings.
type Pagination struct {
	CurrentPage     int   `json:"currentPage"`
	TotalProducts   int64 `json:"totalProducts"`
	ProductsPerPage int   `json:"productsPerPage"`
	TotalPages      int   `json:"totalPages"`
}

// UpdateProductInput carries a partial product update. Nil fields are
// left untouched. Images are merged into the existing list (with the
// cap re-checked), never replaced: removal goes through the dedicated
// image-delete operations.
type UpdateProductInput struct {
	CommonName  *models.LocalizedText `json:"common_name"`
	Description *models.LocalizedText `json:"description"`
	Height      *string               `json:"height" validate:"omitempty,min=1"`
	Diameter    *string               `json:"diameter" validate:"omitempty,min=1"`
	Hardiness   *string               `json:"hardiness" validate:"omitempty,min=1"`
	Light       *models.LightOption   `json:"light"`
	Color       *string               `json:"color" validate:"omitempty,hexcolor"`
	Images      []models.ImageRef     `json:"images" validate:"omitempty,max=6,dive"`
}

// ProductService handles business logic related to products, including
// the attach half of the two-phase image protocol.
type ProductService struct {
	repo   repositories.ProductRepository
	images *ImageService
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, images *ImageService) *ProductService {
	return &ProductService{
		repo:   repo,
		images: images,
	}
}

// List retrieves one page of products plus pagination metadata.
// Defaults: page 1, limit 10.
func (s *ProductService) List(page, limit int) ([]models.Product, *Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	products, total, err := s.repo.List(page, limit)
	if err != nil {
		return nil, nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return products, &Pagination{
		CurrentPage:     page,
		TotalProducts:   total,
		ProductsPerPage: limit,
		TotalPages:      totalPages,
	}, nil
}

// GetByID retrieves a single product by its ID.
func (s *ProductService) GetByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// syncLight derives the DE light string from the EN one. The pairing
// is one-way; a DE value sent by the client is overwritten.
func syncLight(light *models.LightOption) {
	if de, ok := models.PairedLight(light.EN); ok {
		light.DE = de
	}
}

// Create persists a new product carrying already-uploaded image
// references. No media store calls happen here; the staged ledger rows
// are cleared after the write commits.
func (s *ProductService) Create(product *models.Product) error {
	syncLight(&product.Light)
	if err := s.repo.Create(product); err != nil {
		return err
	}
	s.images.MarkAttached(product.Images.PublicIDs()...)
	return nil
}

// Update applies a partial update. New image references are appended to
// the existing list; pushing past the cap rejects the whole update.
func (s *ProductService) Update(id string, input *UpdateProductInput) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if input.CommonName != nil {
		product.CommonName = *input.CommonName
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Height != nil {
		product.Height = *input.Height
	}
	if input.Diameter != nil {
		product.Diameter = *input.Diameter
	}
	if input.Hardiness != nil {
		product.Hardiness = *input.Hardiness
	}
	if input.Light != nil {
		product.Light = *input.Light
		syncLight(&product.Light)
	}
	if input.Color != nil {
		product.Color = *input.Color
	}

	var attached []string
	if len(input.Images) > 0 {
		if len(product.Images)+len(input.Images) > models.MaxProductImages {
			return nil, &ImageCapError{Action: "add", New: len(input.Images), Existing: len(product.Images)}
		}
		for _, img := range input.Images {
			product.Images = append(product.Images, img)
			attached = append(attached, img.PublicID)
		}
	}

	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	s.images.MarkAttached(attached...)
	return product, nil
}

// AddImages uploads new files against an existing product and appends
// them in one persistence update. The cap is checked against the
// freshly-read entity before anything is uploaded. Returns the updated
// product plus the newly added subset so the client can reconcile
// without a full refetch.
func (s *ProductService) AddImages(ctx context.Context, id string, files []*multipart.FileHeader) (*models.Product, []models.ImageRef, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, nil, err
	}

	if len(files) == 0 {
		return nil, nil, &FileValidationError{Message: "No images provided"}
	}
	if len(product.Images)+len(files) > models.MaxProductImages {
		return nil, nil, &ImageCapError{Action: "upload", New: len(files), Existing: len(product.Images)}
	}

	newImages, err := s.images.UploadBatch(ctx, files, mediastore.FolderProducts)
	if err != nil {
		return nil, nil, err
	}

	product.Images = append(product.Images, newImages...)
	if err := s.repo.Update(product); err != nil {
		return nil, nil, err
	}

	attached := make([]string, 0, len(newImages))
	for _, img := range newImages {
		attached = append(attached, img.PublicID)
	}
	s.images.MarkAttached(attached...)

	return product, newImages, nil
}

// removeImage drops the image at the given position, persists the new
// array, then best-effort deletes the media object. The media delete
// happens strictly after the commit; its failure never fails the call.
func (s *ProductService) removeImage(ctx context.Context, product *models.Product, index int) (*models.Product, *models.ImageRef, error) {
	if index < 0 || index >= len(product.Images) {
		return nil, nil, &ImageIndexError{Count: len(product.Images)}
	}
	if len(product.Images) == 1 {
		return nil, nil, ErrLastImage
	}

	removed := product.Images[index]
	remaining := make(models.ImageList, 0, len(product.Images)-1)
	remaining = append(remaining, product.Images[:index]...)
	remaining = append(remaining, product.Images[index+1:]...)
	product.Images = remaining

	if err := s.repo.Update(product); err != nil {
		return nil, nil, err
	}

	s.images.CleanupAsset(ctx, removed.PublicID)
	return product, &removed, nil
}

// RemoveImageAt deletes the image at the given array position.
// Addressing is positional against the current state of the record: a
// concurrent modification between the caller's last read and this call
// shifts which image the index refers to. That is the documented
// behavior of this endpoint; RemoveImageByPublicID is the stable
// alternative.
func (s *ProductService) RemoveImageAt(ctx context.Context, id string, index int) (*models.Product, *models.ImageRef, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, nil, err
	}
	return s.removeImage(ctx, product, index)
}

// RemoveImageByPublicID deletes the image with the given public id,
// resolving it to a position only against the freshly-read record.
func (s *ProductService) RemoveImageByPublicID(ctx context.Context, id, publicID string) (*models.Product, *models.ImageRef, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, nil, err
	}

	index := product.Images.IndexOf(publicID)
	if index < 0 {
		return nil, nil, fmt.Errorf("image %s not found on product %s", publicID, id)
	}
	return s.removeImage(ctx, product, index)
}

// Delete removes a product and best-effort deletes all of its media
// objects after the row is gone.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	for _, img := range product.Images {
		s.images.CleanupAsset(ctx, img.PublicID)
	}
	return nil
}
