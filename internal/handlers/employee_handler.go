package handlers

import (
	"log"

	"elegardens/internal/models"
	"elegardens/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// EmployeeHandler handles HTTP requests for employees and their
// profile-picture sub-resource.
type EmployeeHandler struct {
	service  *services.EmployeeService
	validate *validator.Validate
}

// NewEmployeeHandler creates a new EmployeeHandler.
func NewEmployeeHandler(service *services.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the employee routes. The static
// /profile-picture routes must come before the :id routes so Fiber
// does not capture "profile-picture" as an id.
func (h *EmployeeHandler) RegisterRoutes(router fiber.Router, adminOnly fiber.Handler) {
	employees := router.Group("/employees")
	employees.Get("/", h.HandleGetAll)
	employees.Post("/", adminOnly, h.HandleCreate)
	employees.Post("/profile-picture", adminOnly, h.HandleStageProfilePicture)
	employees.Delete("/profile-picture", adminOnly, h.HandleDeleteStagedPicture)
	employees.Get("/:id", h.HandleGetByID)
	employees.Put("/:id", adminOnly, h.HandleUpdate)
	employees.Delete("/:id", adminOnly, h.HandleDelete)
	employees.Post("/:id/profile-picture", adminOnly, h.HandleReplaceProfilePicture)
	employees.Delete("/:id/profile-picture", adminOnly, h.HandleDeleteProfilePicture)
}

// HandleGetAll retrieves all employees, creation order ascending.
func (h *EmployeeHandler) HandleGetAll(c *fiber.Ctx) error {
	employees, err := h.service.GetAll()
	if err != nil {
		log.Printf("Error getting employees: %v", err)
		return Error(c, fiber.StatusInternalServerError, "Failed to fetch employees")
	}
	return Success(c, fiber.StatusOK, "Employees fetched successfully", fiber.Map{
		"employees": employees,
	})
}

// HandleGetByID retrieves a single employee.
func (h *EmployeeHandler) HandleGetByID(c *fiber.Ctx) error {
	employee, err := h.service.GetByID(c.Params("id"))
	if err != nil {
		log.Printf("Error getting employee %s: %v", c.Params("id"), err)
		return serviceError(c, err)
	}
	return Success(c, fiber.StatusOK, "Employee fetched successfully", fiber.Map{
		"employee": employee,
	})
}

// HandleCreate persists a new employee. A staged profile-picture
// reference may be carried in the payload; no media store calls happen
// here.
func (h *EmployeeHandler) HandleCreate(c *fiber.Ctx) error {
	var employee models.Employee
	if err := c.BodyParser(&employee); err != nil {
		log.Printf("Error parsing create employee body: %v", err)
		return Error(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := h.validate.Struct(employee); err != nil {
		return ValidationError(c, err)
	}

	if err := h.service.Create(&employee); err != nil {
		log.Printf("Error creating employee: %v", err)
		return serviceError(c, err)
	}

	return Success(c, fiber.StatusCreated, "Employee created successfully", fiber.Map{
		"employee": employee,
	})
}

// HandleUpdate applies a partial employee update, replacing the
// profile-picture slot wholesale when one is sent.
func (h *EmployeeHandler) HandleUpdate(c *fiber.Ctx) error {
	var input services.UpdateEmployeeInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing update employee body: %v", err)
		return Error(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := h.validate.Struct(input); err != nil {
		return ValidationError(c, err)
	}

	employee, err := h.service.Update(c.Context(), c.Params("id"), &input)
	if err != nil {
		log.Printf("Error updating employee %s: %v", c.Params("id"), err)
		return serviceError(c, err)
	}

	return Success(c, fiber.StatusOK, "Employee updated successfully", fiber.Map{
		"employee": employee,
	})
}

// HandleDelete removes an employee; the profile picture object is
// cleaned up best-effort after the row is gone.
func (h *EmployeeHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		log.Printf("Error deleting employee %s: %v", c.Params("id"), err)
		return serviceError(c, err)
	}
	return Success(c, fiber.StatusOK, "Employee deleted successfully", nil)
}

// HandleStageProfilePicture uploads a profile picture before the
// employee exists; the reference is staged until a create attaches it.
func (h *EmployeeHandler) HandleStageProfilePicture(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil || len(form.File["profilePicture"]) == 0 {
		return Error(c, fiber.StatusBadRequest, "No profile picture provided")
	}

	picture, err := h.service.StageProfilePicture(c.Context(), form.File["profilePicture"][0])
	if err != nil {
		log.Printf("Error uploading profile picture: %v", err)
		return serviceError(c, err)
	}

	return Success(c, fiber.StatusOK, "Profile picture uploaded successfully", fiber.Map{
		"profilePicture": picture,
	})
}

// HandleReplaceProfilePicture uploads a new picture against an existing
// employee. The response carries the previous reference too, so the
// client can dispose of it after the subsequent update commits; the
// employee record is not mutated by this call.
func (h *EmployeeHandler) HandleReplaceProfilePicture(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil || len(form.File["profilePicture"]) == 0 {
		return Error(c, fiber.StatusBadRequest, "No profile picture provided")
	}

	picture, oldPicture, err := h.service.ReplaceProfilePicture(c.Context(), c.Params("id"), form.File["profilePicture"][0])
	if err != nil {
		log.Printf("Error uploading profile picture for employee %s: %v", c.Params("id"), err)
		return serviceError(c, err)
	}

	return Success(c, fiber.StatusOK, "Profile picture uploaded successfully", fiber.Map{
		"profilePicture":    picture,
		"oldProfilePicture": oldPicture,
	})
}

// HandleDeleteStagedPicture deletes a staged, unattached profile
// picture by public id.
func (h *EmployeeHandler) HandleDeleteStagedPicture(c *fiber.Ctx) error {
	var req removeImageRequest
	if err := c.BodyParser(&req); err != nil || req.PublicID == "" {
		return Error(c, fiber.StatusBadRequest, "The public_id is required")
	}

	if err := h.service.DeleteStagedPicture(c.Context(), req.PublicID); err != nil {
		log.Printf("Error deleting staged profile picture %s: %v", req.PublicID, err)
		return serviceError(c, err)
	}
	return Success(c, fiber.StatusOK, "Profile picture deleted successfully", nil)
}

// HandleDeleteProfilePicture clears the employee's profile-picture
// slot. A second delete in a row reports that no picture exists.
func (h *EmployeeHandler) HandleDeleteProfilePicture(c *fiber.Ctx) error {
	employee, err := h.service.DeleteProfilePicture(c.Context(), c.Params("id"))
	if err != nil {
		log.Printf("Error deleting profile picture of employee %s: %v", c.Params("id"), err)
		return serviceError(c, err)
	}
	return Success(c, fiber.StatusOK, "Profile picture deleted successfully", fiber.Map{
		"employee": employee,
	})
}
