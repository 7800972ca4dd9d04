package handlers

import (
	"log"

	"elegardens/pkg/rabbitmq"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ContactRequest is a contact form submission from the public site.
type ContactRequest struct {
	Firstname string `json:"firstname" validate:"required"`
	Lastname  string `json:"lastname" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone"`
	Message   string `json:"message" validate:"required"`
}

// NewsletterRequest is a newsletter signup from the public site.
type NewsletterRequest struct {
	Email   string `json:"email" validate:"required,email"`
	Consent bool   `json:"consent"`
}

// ContactHandler handles the public contact and newsletter endpoints.
// Submissions are forwarded to the mailer worker over RabbitMQ;
// publishing is best-effort and never fails the request, the
// submission is logged either way.
type ContactHandler struct {
	mqClient *rabbitmq.Client
	validate *validator.Validate
}

// NewContactHandler creates a new ContactHandler. The RabbitMQ client
// may be nil, in which case events are only logged.
func NewContactHandler(mqClient *rabbitmq.Client) *ContactHandler {
	return &ContactHandler{
		mqClient: mqClient,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the public contact routes.
func (h *ContactHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/contact", h.HandleContact)
	router.Post("/newsletter", h.HandleNewsletter)
}

func (h *ContactHandler) publish(event string, payload map[string]interface{}) {
	if h.mqClient == nil {
		log.Printf("RabbitMQ client is not initialized. Skipping %s event.", event)
		return
	}
	if err := h.mqClient.PublishMailEvent(event, payload); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", event, err)
	}
}

// HandleContact accepts a contact form submission.
func (h *ContactHandler) HandleContact(c *fiber.Ctx) error {
	var req ContactRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing contact request body: %v", err)
		return Error(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := h.validate.Struct(req); err != nil {
		return ValidationError(c, err)
	}

	log.Printf("Contact form submission from %s %s <%s>", req.Firstname, req.Lastname, req.Email)
	h.publish("contact.submitted", map[string]interface{}{
		"firstname": req.Firstname,
		"lastname":  req.Lastname,
		"email":     req.Email,
		"phone":     req.Phone,
		"message":   req.Message,
	})

	return Success(c, fiber.StatusOK, "Thank you for your message! We will get back to you soon.", nil)
}

// HandleNewsletter accepts a newsletter signup.
func (h *ContactHandler) HandleNewsletter(c *fiber.Ctx) error {
	var req NewsletterRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "Invalid JSON body")
	}

	if err := h.validate.Struct(req); err != nil {
		return ValidationError(c, err)
	}

	h.publish("newsletter.subscribed", map[string]interface{}{
		"email":   req.Email,
		"consent": req.Consent,
	})

	return Success(c, fiber.StatusOK, "Subscribed to the newsletter successfully", nil)
}
