package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/RaviKiran-incrivelsoft/SSRSS-backend/auth"
	"github.com/RaviKiran-incrivelsoft/SSRSS-backend/errs"
	"github.com/RaviKiran-incrivelsoft/SSRSS-backend/models"
)

const principalKey = "principal"

// AccountFinder loads an account of one kind by id.
type AccountFinder interface {
	Get(ctx context.Context, id string) (*models.Account, error)
}

// Authenticator turns a bearer token into the principal it names. Admin
// tokens are looked up only among admins and user tokens only among users.
type Authenticator struct {
	tokens *auth.TokenService
	admins AccountFinder
	users  AccountFinder
}

func NewAuthenticator(tokens *auth.TokenService, admins, users AccountFinder) *Authenticator {
	return &Authenticator{tokens: tokens, admins: admins, users: users}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func (a *Authenticator) resolve(c *gin.Context) (*models.Principal, error) {
	token := bearerToken(c)
	if token == "" {
		return nil, errs.Unauthenticated("Not authorized, no token")
	}
	identity, err := a.tokens.Verify(token)
	if err != nil {
		return nil, errs.Unauthenticated("Not authorized, token failed").WithCause(err)
	}

	finder := a.users
	if identity.Kind == models.KindAdmin {
		finder = a.admins
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	account, err := finder.Get(ctx, identity.ID)
	if errs.IsNotFound(err) {
		return nil, errs.Forbidden("Access denied")
	}
	if err != nil {
		return nil, errs.Internal("Failed to resolve token owner", err)
	}
	return &models.Principal{Kind: identity.Kind, Account: *account}, nil
}

func abort(c *gin.Context, err error) {
	apiErr := errs.As(err)
	if apiErr.StatusCode >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("auth resolution failed")
	}
	c.AbortWithStatusJSON(apiErr.StatusCode, apiErr.Body())
}

// Require rejects the request unless it carries a valid token whose owner
// still exists.
func (a *Authenticator) Require() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}
		principal, err := a.resolve(c)
		if err != nil {
			abort(c, err)
			return
		}
		c.Set(principalKey, *principal)
		c.Next()
	}
}

// Optional attaches a principal when one can be resolved and otherwise lets
// the request through anonymously.
func (a *Authenticator) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if principal, err := a.resolve(c); err == nil {
			c.Set(principalKey, *principal)
		}
		c.Next()
	}
}

// AdminOnly must run after Require.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}
		principal, ok := PrincipalFrom(c)
		if !ok || !principal.IsAdmin() {
			abort(c, errs.Forbidden("Access denied. Admins only."))
			return
		}
		c.Next()
	}
}

func PrincipalFrom(c *gin.Context) (models.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return models.Principal{}, false
	}
	principal, ok := v.(models.Principal)
	return principal, ok
}
