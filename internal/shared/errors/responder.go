package errors

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"
)

// ContentTypeProblemJSON is the media type for Problem Details responses.
const ContentTypeProblemJSON = "application/problem+json"

// Responder writes Problem Details responses.
type Responder struct {
	// BaseURI is prepended to relative problem type URIs.
	BaseURI string
	logger  *slog.Logger
}

func NewResponder(baseURI string, logger *slog.Logger) *Responder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Responder{BaseURI: baseURI, logger: logger}
}

// Respond sends a ProblemDetail response with the problem+json content type.
func (r *Responder) Respond(c *gin.Context, problem ProblemDetail) {
	if r.BaseURI != "" && len(problem.Type) > 0 && problem.Type[0] == '/' {
		problem.Type = r.BaseURI + problem.Type
	}
	if problem.Instance == "" {
		problem.Instance = c.Request.URL.Path
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.AbortWithStatusJSON(problem.Status, problem)
}

// RespondError sends err as-is when it is a ProblemDetail and as a 500 otherwise.
func (r *Responder) RespondError(c *gin.Context, err error) {
	var problem ProblemDetail
	if errors.As(err, &problem) {
		r.Respond(c, problem)
		return
	}
	r.Respond(c, ErrInternal.WithDetail(err.Error()))
}

// NoRoute handles requests for unknown paths.
func (r *Responder) NoRoute(c *gin.Context) {
	r.Respond(c, ErrNotFound.WithDetail(fmt.Sprintf("no route for %s %s", c.Request.Method, c.Request.URL.Path)))
}

// NoMethod handles known paths requested with an unsupported method.
func (r *Responder) NoMethod(c *gin.Context) {
	r.Respond(c, ErrMethodNotAllowed.WithDetail(fmt.Sprintf("%s is not allowed on %s", c.Request.Method, c.Request.URL.Path)))
}

// Recovery turns panics into a logged 500 problem.
func (r *Responder) Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		r.logger.ErrorContext(c.Request.Context(), "panic recovered",
			slog.String("path", c.Request.URL.Path),
			slog.String("panic", fmt.Sprint(recovered)),
		)
		r.Respond(c, ErrInternal.WithDetail("unexpected error"))
	})
}
