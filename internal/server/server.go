// Package server contains the HTTP handlers and wiring for the blog site.
package server

import (
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/mailer"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/views"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/template/html/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const sessionUserKey = "userID"

// Server holds all dependencies and provides handlers.
type Server struct {
	config      *config.Config
	db          *gorm.DB
	redis       *redis.Client
	sessions    *session.Store
	userRepo    repository.UserRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	mailer      mailer.ContactMailer
	prom        *fiberprometheus.FiberPrometheus
}

// NewServer creates a server instance, connecting the store and Redis itself.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	redisClient := database.ConnectRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, redisClient, mailer.New(cfg)), nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Tests use this to inject an in-memory store and a fake mailer.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, contactMailer mailer.ContactMailer) *Server {
	return &Server{
		config:      cfg,
		db:          db,
		redis:       redisClient,
		userRepo:    repository.NewUserRepository(db),
		postRepo:    repository.NewPostRepository(db),
		commentRepo: repository.NewCommentRepository(db),
		mailer:      contactMailer,
		sessions: session.New(session.Config{
			KeyLookup:      "cookie:inkwell_session",
			Expiration:     7 * 24 * time.Hour,
			CookieHTTPOnly: true,
			CookieSameSite: "Lax",
		}),
	}
}

// NewApp builds the Fiber app with the embedded view engine and the HTML
// error handler. Middleware and routes are wired separately so tests can
// assemble partial apps.
func (s *Server) NewApp() *fiber.App {
	engine := html.NewFileSystem(http.FS(views.FS), ".html")
	engine.AddFunc("safeHTML", func(body string) template.HTML {
		// Post bodies come from the rich-text editor and contain markup.
		return template.HTML(body)
	})

	return fiber.New(fiber.Config{
		AppName:      "Inkwell",
		Views:        engine,
		ErrorHandler: s.errorHandler,
	})
}

// SetupMiddleware configures the middleware stack for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(helmet.New())

	// Session cookies are encrypted with the operator secret key.
	app.Use(encryptcookie.New(encryptcookie.Config{
		Key: s.config.SecretKey,
	}))

	s.prom = fiberprometheus.New("inkwell")
	app.Use(s.prom.Middleware)

	// Resolve the current user before anything that logs or renders.
	app.Use(s.LoadCurrentUser)
	app.Use(middleware.ContextMiddleware())
	app.Use(middleware.StructuredLogger())

	// Global per-IP limit; form abuse on auth routes has its own limiter.
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return fiber.NewError(fiber.StatusTooManyRequests, "Too many requests, please try again later.")
		},
	}))
}

// SetupRoutes configures all routes for the application.
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	if s.prom != nil {
		s.prom.RegisterAt(app, "/metrics")
	}

	app.Get("/", s.Home)

	app.Get("/register", s.RegisterPage)
	app.Post("/register", middleware.RateLimit(s.redis, 3, 10*time.Minute, "register"), s.Register)
	app.Get("/login", s.LoginPage)
	app.Post("/login", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)
	app.Get("/logout", s.Logout)

	app.Get("/post/:id", s.ShowPost)
	app.Post("/post/:id", s.CreateComment)

	app.Get("/new-post", s.NewPostPage)
	app.Post("/new-post", s.CreatePost)
	app.Get("/edit-post/:id", s.AdminOnly, s.EditPostPage)
	app.Post("/edit-post/:id", s.AdminOnly, s.UpdatePost)
	app.Get("/delete/:id", s.AdminOnly, s.DeletePost)

	app.Get("/about", s.About)
	app.Get("/contact", s.ContactPage)
	app.Post("/contact", s.Contact)
}

// errorHandler renders every error as an HTML error page. Conflicts never
// reach it (handlers turn them into flash redirects); what remains is
// 404/403 pages, rate-limit responses, and unrecovered 500s.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "Something went wrong on our side."

	var appErr *models.AppError
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &appErr):
		status = appErr.HTTPStatus()
		if status < fiber.StatusInternalServerError {
			message = appErr.Message
		}
	case errors.As(err, &fiberErr):
		status = fiberErr.Code
		if status < fiber.StatusInternalServerError {
			message = fiberErr.Message
		}
	}

	if status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "unhandled error",
			slog.Int("status", status),
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
	}

	renderErr := c.Status(status).Render("error", fiber.Map{
		"Status":      status,
		"Message":     message,
		"CurrentUser": currentUser(c),
		"Flash":       "",
	}, "layouts/main")
	if renderErr != nil {
		return c.Status(status).SendString(message)
	}
	return nil
}
