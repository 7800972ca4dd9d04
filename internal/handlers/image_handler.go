package handlers

import (
	"log"

	"elegardens/internal/models"
	"elegardens/internal/services"
	"elegardens/pkg/mediastore"

	"github.com/gofiber/fiber/v2"
)

// ImageHandler handles the standalone image staging endpoints: uploads
// that precede entity creation, and deletes of staged assets a form
// abandoned. Must be registered BEFORE ProductHandler so the static
// /products/images routes are not captured by its :id parameter.
type ImageHandler struct {
	service *services.ImageService
}

// NewImageHandler creates a new ImageHandler.
func NewImageHandler(service *services.ImageService) *ImageHandler {
	return &ImageHandler{
		service: service,
	}
}

// RegisterRoutes registers the staging routes.
func (h *ImageHandler) RegisterRoutes(router fiber.Router, adminOnly fiber.Handler) {
	router.Post("/products/images", adminOnly, h.HandleUploadProductImages)
	router.Delete("/products/images", adminOnly, h.HandleDeleteStagedImage)
	router.Delete("/images", adminOnly, h.HandleDeleteStagedImage)
}

// HandleUploadProductImages uploads up to six product images in one
// multipart batch and stages the returned references. The whole batch
// is rejected before any upload if one file is invalid.
func (h *ImageHandler) HandleUploadProductImages(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		log.Printf("Error parsing multipart form: %v", err)
		return Error(c, fiber.StatusBadRequest, "Invalid multipart form")
	}

	files := form.File["images"]
	if len(files) == 0 {
		return Error(c, fiber.StatusBadRequest, "No images provided")
	}
	if len(files) > models.MaxProductImages {
		return Error(c, fiber.StatusBadRequest, "Maximum 6 images are allowed")
	}

	images, err := h.service.UploadBatch(c.Context(), files, mediastore.FolderProducts)
	if err != nil {
		log.Printf("Error uploading images: %v", err)
		return serviceError(c, err)
	}

	return Success(c, fiber.StatusOK, "Images uploaded successfully", fiber.Map{
		"images":      images,
		"totalImages": len(images),
	})
}

// HandleDeleteStagedImage deletes a staged asset by public id. Fired by
// the client when a form is abandoned before submit; there is no
// database state to roll back.
func (h *ImageHandler) HandleDeleteStagedImage(c *fiber.Ctx) error {
	var req removeImageRequest
	if err := c.BodyParser(&req); err != nil || req.PublicID == "" {
		return Error(c, fiber.StatusBadRequest, "The public_id is required")
	}

	if err := h.service.DeleteByPublicID(c.Context(), req.PublicID); err != nil {
		log.Printf("Error deleting staged image %s: %v", req.PublicID, err)
		return serviceError(c, err)
	}
	return Success(c, fiber.StatusOK, "Image deleted successfully", nil)
}
