package server

import (
	"strings"

	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// RegisterPage handles GET /register.
func (s *Server) RegisterPage(c *fiber.Ctx) error {
	return s.render(c, "register", nil)
}

// Register handles POST /register. A duplicate email is a soft conflict:
// the visitor is flashed toward the login form, never shown an error page.
func (s *Server) Register(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.FormValue("name"))
	email := strings.TrimSpace(strings.ToLower(c.FormValue("email")))
	password := c.FormValue("password")

	if name == "" || email == "" || password == "" {
		s.flash(c, flashFieldsRequired)
		return c.Redirect("/register", fiber.StatusSeeOther)
	}

	existing, err := s.userRepo.GetByEmail(c.UserContext(), email)
	if err != nil {
		return err
	}
	if existing != nil {
		s.flash(c, flashDuplicateEmail)
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.NewInternalError(err)
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
	}
	if err := s.userRepo.Create(c.UserContext(), user); err != nil {
		if models.IsConflict(err) {
			// Lost a race with a concurrent registration.
			s.flash(c, flashDuplicateEmail)
			return c.Redirect("/login", fiber.StatusSeeOther)
		}
		return err
	}

	if err := s.login(c, user.ID); err != nil {
		return err
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

// LoginPage handles GET /login.
func (s *Server) LoginPage(c *fiber.Ctx) error {
	return s.render(c, "login", nil)
}

// Login handles POST /login.
func (s *Server) Login(c *fiber.Ctx) error {
	email := strings.TrimSpace(strings.ToLower(c.FormValue("email")))
	password := c.FormValue("password")

	user, err := s.userRepo.GetByEmail(c.UserContext(), email)
	if err != nil {
		return err
	}
	if user == nil {
		s.flash(c, flashNoSuchUser)
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.flash(c, flashWrongPassword)
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	if err := s.login(c, user.ID); err != nil {
		return err
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

// Logout handles GET /logout. Idempotent; always redirects home.
func (s *Server) Logout(c *fiber.Ctx) error {
	s.logout(c)
	return c.Redirect("/", fiber.StatusSeeOther)
}
