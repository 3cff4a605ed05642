package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/RaviKiran-incrivelsoft/SSRSS-backend/errs"
)

func (h *Handler) RegisterUser(c *gin.Context) {
	h.register(c, h.users, "User registered successfully")
}

func (h *Handler) LoginUser(c *gin.Context) {
	user, token, ok := h.login(c, h.users)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "token": token, "userName": user.Name})
}

func (h *Handler) ListUsers(c *gin.Context) { h.listAccounts(c, h.users) }

func (h *Handler) GetUser(c *gin.Context) { h.getAccount(c, h.users) }

// canModifyUser lets admins manage any user and users manage only themselves.
func (h *Handler) canModifyUser(c *gin.Context) bool {
	p, err := principal(c)
	if err != nil {
		h.fail(c, err)
		return false
	}
	if p.IsAdmin() || (p.IsUser() && p.Account.ID.Hex() == c.Param("id")) {
		return true
	}
	h.fail(c, errs.Forbidden("Access denied. You can only modify your own account."))
	return false
}

func (h *Handler) UpdateUser(c *gin.Context) {
	if !h.canModifyUser(c) {
		return
	}
	user, ok := h.updateAccount(c, h.users)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User updated successfully", "user": user})
}

func (h *Handler) DeleteUser(c *gin.Context) {
	if !h.canModifyUser(c) {
		return
	}
	if h.deleteAccount(c, h.users) {
		c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
	}
}
