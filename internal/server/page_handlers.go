package server

import (
	"log/slog"

	"inkwell/internal/middleware"
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// About handles GET /about.
func (s *Server) About(c *fiber.Ctx) error {
	return s.render(c, "about", nil)
}

// ContactPage handles GET /contact.
func (s *Server) ContactPage(c *fiber.Ctx) error {
	return s.render(c, "contact", nil)
}

// Contact handles POST /contact. The submission is relayed to the operator
// by mail and never persisted. A relay failure is logged and surfaces as the
// 500 page; there is no retry.
func (s *Server) Contact(c *fiber.Ctx) error {
	name := c.FormValue("name")
	phone := c.FormValue("phone")
	message := c.FormValue("message")

	if err := s.mailer.SendContact(c.UserContext(), name, phone, message); err != nil {
		middleware.Logger.ErrorContext(c.UserContext(), "contact mail relay failed",
			slog.String("error", err.Error()),
		)
		return models.NewInternalError(err)
	}

	return s.render(c, "contact", fiber.Map{
		"Sent": true,
	})
}

// LivenessCheck handles GET /health/live.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// ReadinessCheck handles GET /health/ready. Ready means the store answers.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
	}
	if err := sqlDB.PingContext(c.UserContext()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
