package handlers

import (
	"log"

	"elegardens/internal/models"
	"elegardens/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for products and their images
// sub-resource.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the product routes. Reads are public, every
// mutation goes through the adminOnly guard. The static /images routes
// are registered by ImageHandler BEFORE this handler so they are not
// swallowed by the :id parameter.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, adminOnly fiber.Handler) {
	products := router.Group("/products")
	products.Get("/", h.HandleList)
	products.Post("/", adminOnly, h.HandleCreate)
	products.Get("/:id", h.HandleGetByID)
	products.Put("/:id", adminOnly, h.HandleUpdate)
	products.Delete("/:id", adminOnly, h.HandleDelete)
	products.Get("/:id/images", h.HandleListImages)
	products.Post("/:id/images", adminOnly, h.HandleAddImages)
	products.Delete("/:id/images", adminOnly, h.HandleRemoveImageByKey)
	products.Delete("/:id/images/:index", adminOnly, h.HandleRemoveImageAt)
}

// HandleList retrieves one page of products.
func (h *ProductHandler) HandleList(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)

	products, pagination, err := h.service.List(page, limit)
	if err != nil {
		log.Printf("Error listing products: %v", err)
		return Error(c, fiber.StatusInternalServerError, "Failed to fetch products")
	}

	return Success(c, fiber.StatusOK, "Products fetched successfully", fiber.Map{
		"products":   products,
		"pagination": pagination,
	})
}

// HandleGetByID retrieves a single product.
func (h *ProductHandler) HandleGetByID(c *fiber.Ctx) error {
	product, err := h.service.GetByID(c.Params("id"))
	if err != nil {
		log.Printf("Error getting product %s: %v", c.Params("id"), err)
		return serviceError(c, err)
	}
	return Success(c, fiber.StatusOK, "Product fetched successfully", fiber.Map{
		"product": product,
	})
}

// HandleCreate persists a new product. The request carries the staged
// image references from a prior upload call; no media store calls
// happen here.
func (h *ProductHandler) HandleCreate(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		log.Printf("Error parsing create product body: %v", err)
		return Error(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := h.validate.Struct(product); err != nil {
		return ValidationError(c, err)
	}

	if err := h.service.Create(&product); err != nil {
		log.Printf("Error creating product: %v", err)
		return serviceError(c, err)
	}

	return Success(c, fiber.StatusCreated, "Product created successfully", fiber.Map{
		"product": product,
	})
}

// HandleUpdate applies a partial product update. Images in the payload
// are merged into the existing list, re-checked against the cap.
func (h *ProductHandler) HandleUpdate(c *fiber.Ctx) error {
	var input services.UpdateProductInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing update product body: %v", err)
		return Error(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := h.validate.Struct(input); err != nil {
		return ValidationError(c, err)
	}

	product, err := h.service.Update(c.Params("id"), &input)
	if err != nil {
		log.Printf("Error updating product %s: %v", c.Params("id"), err)
		return serviceError(c, err)
	}

	return Success(c, fiber.StatusOK, "Product updated successfully", fiber.Map{
		"product": product,
	})
}

// HandleDelete removes a product; its media objects are cleaned up
// best-effort after the row is gone.
func (h *ProductHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		log.Printf("Error deleting product %s: %v", c.Params("id"), err)
		return serviceError(c, err)
	}
	return Success(c, fiber.StatusOK, "Product deleted successfully", nil)
}

// HandleListImages returns a product's image list.
func (h *ProductHandler) HandleListImages(c *fiber.Ctx) error {
	product, err := h.service.GetByID(c.Params("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return Success(c, fiber.StatusOK, "Product images fetched successfully", fiber.Map{
		"images":      product.Images,
		"totalImages": len(product.Images),
	})
}

// HandleAddImages uploads files against an existing product and
// appends them in one persistence update.
func (h *ProductHandler) HandleAddImages(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		log.Printf("Error parsing multipart form: %v", err)
		return Error(c, fiber.StatusBadRequest, "Invalid multipart form")
	}

	product, newImages, err := h.service.AddImages(c.Context(), c.Params("id"), form.File["images"])
	if err != nil {
		log.Printf("Error adding images to product %s: %v", c.Params("id"), err)
		return serviceError(c, err)
	}

	return Success(c, fiber.StatusOK, "Images added to product successfully", fiber.Map{
		"product":     product,
		"newImages":   newImages,
		"totalImages": len(product.Images),
	})
}

// HandleRemoveImageAt deletes the image at an array position. The
// position is resolved against the current record, not the caller's
// last read.
func (h *ProductHandler) HandleRemoveImageAt(c *fiber.Ctx) error {
	index, err := c.ParamsInt("index")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "Image index must be a number")
	}

	product, removed, err := h.service.RemoveImageAt(c.Context(), c.Params("id"), index)
	if err != nil {
		log.Printf("Error removing image %d from product %s: %v", index, c.Params("id"), err)
		return serviceError(c, err)
	}

	return Success(c, fiber.StatusOK, "Image deleted successfully", fiber.Map{
		"product":         product,
		"deletedImage":    removed,
		"remainingImages": product.Images,
	})
}

type removeImageRequest struct {
	PublicID string `json:"public_id" validate:"required"`
}

// HandleRemoveImageByKey deletes an image by its stable public id,
// resolved to a position only at the persistence boundary.
func (h *ProductHandler) HandleRemoveImageByKey(c *fiber.Ctx) error {
	var req removeImageRequest
	if err := c.BodyParser(&req); err != nil || req.PublicID == "" {
		return Error(c, fiber.StatusBadRequest, "The public_id is required")
	}

	product, removed, err := h.service.RemoveImageByPublicID(c.Context(), c.Params("id"), req.PublicID)
	if err != nil {
		log.Printf("Error removing image %s from product %s: %v", req.PublicID, c.Params("id"), err)
		return serviceError(c, err)
	}

	return Success(c, fiber.StatusOK, "Image deleted successfully", fiber.Map{
		"product":         product,
		"deletedImage":    removed,
		"remainingImages": product.Images,
	})
}
