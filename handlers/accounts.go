package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/RaviKiran-incrivelsoft/SSRSS-backend/errs"
	"github.com/RaviKiran-incrivelsoft/SSRSS-backend/models"
	"github.com/RaviKiran-incrivelsoft/SSRSS-backend/services"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) register(c *gin.Context, accounts *services.Accounts, message string) {
	var req registerRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	account, err := accounts.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.logger.Info().Str("kind", string(accounts.Kind())).Str("id", account.ID.Hex()).Msg("account registered")
	c.JSON(http.StatusCreated, gin.H{"message": message, string(accounts.Kind()): account})
}

// login authenticates and issues a token for the account kind.
func (h *Handler) login(c *gin.Context, accounts *services.Accounts) (*models.Account, string, bool) {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return nil, "", false
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	account, err := accounts.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		if accounts.Kind() == models.KindUser && errs.As(err).StatusCode == http.StatusUnauthorized {
			err = errs.As(err).WithStatus(http.StatusBadRequest)
		}
		h.fail(c, err)
		return nil, "", false
	}
	token, err := h.tokens.Issue(accounts.Kind(), account.ID.Hex())
	if err != nil {
		h.fail(c, errs.Internal("Failed to issue token", err))
		return nil, "", false
	}
	return account, token, true
}

func (h *Handler) getAccount(c *gin.Context, accounts *services.Accounts) {
	ctx, cancel := requestContext(c)
	defer cancel()

	account, err := accounts.Get(ctx, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

func (h *Handler) listAccounts(c *gin.Context, accounts *services.Accounts) {
	ctx, cancel := requestContext(c)
	defer cancel()

	list, err := accounts.List(ctx)
	if err != nil {
		h.fail(c, errs.Internal("Server error", err))
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) updateAccount(c *gin.Context, accounts *services.Accounts) (*models.Account, bool) {
	var req models.AccountUpdate
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return nil, false
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	account, err := accounts.Update(ctx, c.Param("id"), req)
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	return account, true
}

func (h *Handler) deleteAccount(c *gin.Context, accounts *services.Accounts) bool {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := accounts.Delete(ctx, c.Param("id")); err != nil {
		h.fail(c, err)
		return false
	}
	h.logger.Info().Str("kind", string(accounts.Kind())).Str("id", c.Param("id")).Msg("account deleted")
	return true
}
