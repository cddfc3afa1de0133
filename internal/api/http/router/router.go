package router

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/dtroode/quizhub-server/internal/api/http/handler"
	"github.com/dtroode/quizhub-server/internal/api/http/middleware"
	"github.com/dtroode/quizhub-server/internal/logger"
	"github.com/dtroode/quizhub-server/internal/model"
)

// Config holds the router's cross-origin and cookie settings.
type Config struct {
	ClientURL string
	Cookies   handler.CookieConfig
}

// Router wires handlers and middleware into a fiber app.
type Router struct {
	authService    handler.AuthService
	usersService   handler.UsersService
	tokenService   middleware.TokenService
	blockChecker   middleware.BlockChecker
	validator      handler.Validator
	contextManager model.ContextManager
	health         map[string]model.Pinger
	cfg            Config
	logger         *logger.Logger
}

// New creates a new Router instance.
func New(
	authService handler.AuthService,
	usersService handler.UsersService,
	tokenService middleware.TokenService,
	blockChecker middleware.BlockChecker,
	validator handler.Validator,
	contextManager model.ContextManager,
	health map[string]model.Pinger,
	cfg Config,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:    authService,
		usersService:   usersService,
		tokenService:   tokenService,
		blockChecker:   blockChecker,
		validator:      validator,
		contextManager: contextManager,
		health:         health,
		cfg:            cfg,
		logger:         logger,
	}
}

// Register builds the fiber app with every route mounted.
func (r *Router) Register() *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler:          handler.NewErrorHandler(r.logger),
		DisableStartupMessage: true,
	})

	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.tokenService, r.blockChecker, r.contextManager, r.logger)

	app.Use(recover.New())
	app.Use(logging.Handle)
	app.Use(cors.New(cors.Config{
		AllowOrigins:     r.cfg.ClientURL,
		AllowCredentials: true,
		AllowHeaders:     strings.Join([]string{fiber.HeaderContentType, fiber.HeaderAuthorization, "x-token-version"}, ","),
		AllowMethods:     strings.Join([]string{fiber.MethodGet, fiber.MethodPost, fiber.MethodPut, fiber.MethodPatch, fiber.MethodDelete, fiber.MethodOptions}, ","),
	}))

	app.Get("/health", handler.NewHealth(r.health).Check)

	r.registerAuthRoutes(app.Group("/api/auth"), authenticate)
	r.registerAdminRoutes(app.Group("/api/admin"), authenticate)

	return app
}

func (r *Router) registerAuthRoutes(g fiber.Router, authenticate *middleware.Authenticate) {
	h := handler.NewAuth(r.authService, r.validator, r.contextManager, r.cfg.Cookies, r.logger)

	g.Post("/register", h.Register)
	g.Post("/verify-otp", h.VerifyOTP)
	g.Post("/resend-otp", h.ResendOTP)
	g.Post("/login", h.Login)
	g.Post("/forgot-password", h.ForgotPassword)
	g.Post("/reset-password", h.ResetPassword)
	g.Post("/refresh-Token", h.RefreshToken)
	g.Post("/logout", h.Logout)
	g.Get("/autherisation", authenticate.Handle, h.Authorisation)
}

func (r *Router) registerAdminRoutes(g fiber.Router, authenticate *middleware.Authenticate) {
	h := handler.NewUsers(r.usersService, r.validator, r.logger)

	g.Use(authenticate.Handle, authenticate.RequireRole(model.RoleAdmin), authenticate.RejectBlocked)
	g.Get("/users", h.List)
	g.Patch("/users/:id/block", h.ToggleBlock)
	g.Post("/users/bulk-block", h.BulkBlock)
}
