package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/RaviKiran-incrivelsoft/SSRSS-backend/auth"
	"github.com/RaviKiran-incrivelsoft/SSRSS-backend/database/inmemory"
	"github.com/RaviKiran-incrivelsoft/SSRSS-backend/models"
	"github.com/RaviKiran-incrivelsoft/SSRSS-backend/services"
)

type fixture struct {
	router *gin.Engine
	tokens *auth.TokenService
	admins *services.Accounts
	users  *services.Accounts
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &fixture{
		tokens: auth.NewTokenService("test-secret"),
		admins: services.NewAccounts(models.KindAdmin, inmemory.NewAccountStore()),
		users:  services.NewAccounts(models.KindUser, inmemory.NewAccountStore()),
	}
	authn := NewAuthenticator(f.tokens, f.admins, f.users)

	whoami := func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok {
			c.JSON(http.StatusOK, gin.H{"kind": "anonymous"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"kind": p.Kind, "id": p.Account.ID.Hex()})
	}

	f.router = gin.New()
	f.router.GET("/private", authn.Require(), whoami)
	f.router.GET("/admin", authn.Require(), AdminOnly(), whoami)
	f.router.GET("/public", authn.Optional(), whoami)
	return f
}

func (f *fixture) get(t *testing.T, path, token string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func (f *fixture) token(t *testing.T, kind models.Kind, id primitive.ObjectID) string {
	t.Helper()
	token, err := f.tokens.Issue(kind, id.Hex())
	require.NoError(t, err)
	return token
}

func TestRequire(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin, err := f.admins.Register(ctx, "Root", "root@x.com", "pw")
	require.NoError(t, err)
	user, err := f.users.Register(ctx, "Asha", "asha@x.com", "pw")
	require.NoError(t, err)

	code, body := f.get(t, "/private", "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Not authorized, no token", body["message"])

	code, _ = f.get(t, "/private", "garbage")
	assert.Equal(t, http.StatusUnauthorized, code)

	foreign, err := auth.NewTokenService("other-secret").Issue(models.KindUser, user.ID.Hex())
	require.NoError(t, err)
	code, _ = f.get(t, "/private", foreign)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body = f.get(t, "/private", f.token(t, models.KindAdmin, admin.ID))
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "admin", body["kind"])

	code, body = f.get(t, "/private", f.token(t, models.KindUser, user.ID))
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "user", body["kind"])
	assert.Equal(t, user.ID.Hex(), body["id"])
}

func TestRequire_KindSelectsCollection(t *testing.T) {
	f := newFixture(t)
	user, err := f.users.Register(context.Background(), "Asha", "asha@x.com", "pw")
	require.NoError(t, err)

	// a user id presented as an admin claim is not found among admins
	code, _ := f.get(t, "/private", f.token(t, models.KindAdmin, user.ID))
	assert.Equal(t, http.StatusForbidden, code)
}

func TestRequire_DeletedAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user, err := f.users.Register(ctx, "Asha", "asha@x.com", "pw")
	require.NoError(t, err)
	token := f.token(t, models.KindUser, user.ID)
	require.NoError(t, f.users.Delete(ctx, user.ID.Hex()))

	code, body := f.get(t, "/private", token)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Access denied", body["message"])
}

func TestAdminOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin, err := f.admins.Register(ctx, "Root", "root@x.com", "pw")
	require.NoError(t, err)
	user, err := f.users.Register(ctx, "Asha", "asha@x.com", "pw")
	require.NoError(t, err)

	code, _ := f.get(t, "/admin", f.token(t, models.KindUser, user.ID))
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = f.get(t, "/admin", f.token(t, models.KindAdmin, admin.ID))
	assert.Equal(t, http.StatusOK, code)
}

func TestOptional(t *testing.T) {
	f := newFixture(t)
	user, err := f.users.Register(context.Background(), "Asha", "asha@x.com", "pw")
	require.NoError(t, err)

	_, body := f.get(t, "/public", "")
	assert.Equal(t, "anonymous", body["kind"])

	code, body := f.get(t, "/public", "expired-or-broken")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "anonymous", body["kind"])

	_, body = f.get(t, "/public", f.token(t, models.KindUser, user.ID))
	assert.Equal(t, "user", body["kind"])
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	router := gin.New()
	router.Use(RequestLogger(zerolog.New(&buf)))
	router.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "/missing", line["path"])
	assert.EqualValues(t, http.StatusNotFound, line["status"])
}
