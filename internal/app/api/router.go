package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	mailports "github.com/Apurer/spottythings-api/internal/domains/mail/ports"
	userports "github.com/Apurer/spottythings-api/internal/domains/users/ports"
	apierrors "github.com/Apurer/spottythings-api/internal/shared/errors"
)

// RouterDeps are the collaborators served over HTTP.
type RouterDeps struct {
	Users     userports.Service
	Resets    userports.ResetOrchestrator
	Mail      mailports.Service
	Logger    *slog.Logger
	RateLimit RateLimitConfig
	// ServiceName enables otelgin tracing when set.
	ServiceName string
	// ProblemBaseURI prefixes RFC 7807 problem types.
	ProblemBaseURI string
}

// NewRouter assembles the gin engine with every /api route.
func NewRouter(deps RouterDeps) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	problems := apierrors.NewResponder(deps.ProblemBaseURI, logger)

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(problems.Recovery())
	if deps.ServiceName != "" {
		router.Use(otelgin.Middleware(deps.ServiceName))
	}
	router.Use(requestLogger(logger))
	router.NoRoute(problems.NoRoute)
	router.NoMethod(problems.NoMethod)

	usersAPI := NewUsersAPI(deps.Users, logger)
	loginAPI := NewLoginAPI(deps.Users, deps.Resets, logger)
	mailAPI := NewMailAPI(deps.Mail)
	authenticated := requireToken(deps.Users, logger)

	u := router.Group("/api/u")
	u.POST("/signUp", usersAPI.SignUp)
	u.DELETE("/deleteu/:username", authenticated, usersAPI.DeleteUser)
	u.PATCH("/updatep", authenticated, usersAPI.UpdatePassword)

	l := router.Group("/api/l", rateLimit(deps.RateLimit.RPS, deps.RateLimit.Burst))
	l.POST("/signIn", loginAPI.SignIn)
	l.POST("/ripristino", loginAPI.ResetPassword)
	l.GET("/logout", loginAPI.Logout)

	m := router.Group("/api/m")
	m.POST("/sendEmail", mailAPI.SendEmail)

	return router
}
