package router

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/taskhub-server/internal/api/http/handler"
	"github.com/dtroode/taskhub-server/internal/api/http/middleware"
	"github.com/dtroode/taskhub-server/internal/api/http/response"
	"github.com/dtroode/taskhub-server/internal/logger"
	"github.com/dtroode/taskhub-server/internal/model"
	"github.com/dtroode/taskhub-server/internal/service"
)

const healthTimeout = 2 * time.Second

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Router wires HTTP routes to handlers and their authentication middleware.
type Router struct {
	authService         *service.Auth
	verificationService *service.Verification
	contextManager      model.ContextManager
	health              Pinger
	logger              *logger.Logger
}

// New creates new HTTP Router instance.
// It initializes an HTTP router with the auth and verification services.
//
// Parameters:
//   - authService: The authentication service, also used to look up sessions
//   - verificationService: The email verification service
//   - contextManager: Stores verified token payloads in request contexts
//   - health: The dependency pinged by GET /health
//   - logger: The logger for request logging
//
// Returns a pointer to the newly created Router instance.
func New(
	authService *service.Auth,
	verificationService *service.Verification,
	contextManager model.ContextManager,
	health Pinger,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:         authService,
		verificationService: verificationService,
		contextManager:      contextManager,
		health:              health,
		logger:              logger,
	}
}

// Register builds the gin engine with request logging, panic recovery and
// all routes.
func (r *Router) Register() *gin.Engine {
	handler.RegisterValidators()

	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.authService.Tokens(), r.authService, r.contextManager, r.logger)

	e := gin.New()
	e.Use(logging.Handle, gin.CustomRecovery(func(c *gin.Context, recovered any) {
		response.Error(c, fmt.Errorf("panic: %v", recovered))
	}))

	r.registerAuthRoutes(e, authenticate)
	r.registerUserRoutes(e, authenticate)
	r.registerVerificationRoutes(e)
	e.GET("/health", r.healthCheck)

	return e
}

func (r *Router) registerAuthRoutes(e *gin.Engine, authenticate *middleware.Authenticate) {
	h := handler.NewAuth(r.authService, r.contextManager, r.logger)

	g := e.Group("/auth")
	g.POST("/sign-up", h.SignUp)
	g.POST("/sign-in", h.SignIn)
	g.DELETE("/log-out", authenticate.AccessToken(), authenticate.RefreshToken(), h.Logout)
	g.POST("/refresh-token", authenticate.RefreshToken(), h.RefreshToken)
	g.POST("/forgot-password", h.ForgotPassword)
	g.POST("/reset-password", authenticate.ForgotPasswordToken(), h.ResetPassword)
	g.PATCH("/change-password", authenticate.AccessToken(), h.ChangePassword)
}

func (r *Router) registerUserRoutes(e *gin.Engine, authenticate *middleware.Authenticate) {
	h := handler.NewUser(r.authService, r.contextManager, r.logger)

	e.GET("/users/profile", authenticate.AccessToken(), h.Profile)
}

func (r *Router) registerVerificationRoutes(e *gin.Engine) {
	h := handler.NewVerification(r.verificationService, r.logger)

	g := e.Group("/verification")
	g.POST("/send-otp", h.SendOTP)
	g.GET("/email", h.EmailStatus)
}

func (r *Router) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	if err := r.health.Ping(ctx); err != nil {
		r.logger.Error("Router: health check failed", "error", err.Error())
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, response.Body{Message: "Unavailable"})
		return
	}
	response.OK(c, http.StatusOK, "OK", nil)
}
