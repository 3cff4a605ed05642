package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/RaviKiran-incrivelsoft/SSRSS-backend/auth"
	"github.com/RaviKiran-incrivelsoft/SSRSS-backend/errs"
	"github.com/RaviKiran-incrivelsoft/SSRSS-backend/middleware"
	"github.com/RaviKiran-incrivelsoft/SSRSS-backend/models"
	"github.com/RaviKiran-incrivelsoft/SSRSS-backend/services"
	"github.com/RaviKiran-incrivelsoft/SSRSS-backend/upload"
)

const (
	requestTimeout = 10 * time.Second
	uploadTimeout  = 30 * time.Second
)

// Handler serves every route of the API.
type Handler struct {
	admins   *services.Accounts
	users    *services.Accounts
	blogs    *services.Blogs
	tokens   *auth.TokenService
	uploader upload.Uploader
	logger   zerolog.Logger
}

func New(admins, users *services.Accounts, blogs *services.Blogs, tokens *auth.TokenService, uploader upload.Uploader) *Handler {
	return &Handler{
		admins:   admins,
		users:    users,
		blogs:    blogs,
		tokens:   tokens,
		uploader: uploader,
		logger:   log.With().Str("component", "handlers").Logger(),
	}
}

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

// fail writes err as a JSON error body. Server side failures are logged with
// their cause; client errors are left to the request logger.
func (h *Handler) fail(c *gin.Context, err error) {
	apiErr := errs.As(err)
	if apiErr.StatusCode >= http.StatusInternalServerError {
		h.logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg(apiErr.Message)
	}
	_ = c.Error(err)
	c.JSON(apiErr.StatusCode, apiErr.Body())
}

func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return errs.Validation("", "Invalid request body").WithCause(err)
	}
	return nil
}

func principal(c *gin.Context) (models.Principal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return models.Principal{}, errs.Unauthenticated("Not authorized, no token")
	}
	return p, nil
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().Unix()})
}
