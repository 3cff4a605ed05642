package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/RaviKiran-incrivelsoft/SSRSS-backend/errs"
)

func (h *Handler) RegisterAdmin(c *gin.Context) {
	h.register(c, h.admins, "Admin registered successfully")
}

func (h *Handler) LoginAdmin(c *gin.Context) {
	_, token, ok := h.login(c, h.admins)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged in as Admin", "adminToken": token})
}

// AdminProfile returns the admin the token belongs to.
func (h *Handler) AdminProfile(c *gin.Context) {
	p, err := principal(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p.Account)
}

func (h *Handler) ListAdmins(c *gin.Context) { h.listAccounts(c, h.admins) }

func (h *Handler) GetAdmin(c *gin.Context) { h.getAccount(c, h.admins) }

// canModifyAdmin lets an admin change or remove only their own record.
func (h *Handler) canModifyAdmin(c *gin.Context) bool {
	p, err := principal(c)
	if err != nil {
		h.fail(c, err)
		return false
	}
	if p.IsAdmin() && p.Account.ID.Hex() == c.Param("id") {
		return true
	}
	h.fail(c, errs.Forbidden("Access denied. You can only modify your own account."))
	return false
}

func (h *Handler) UpdateAdmin(c *gin.Context) {
	if !h.canModifyAdmin(c) {
		return
	}
	admin, ok := h.updateAccount(c, h.admins)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"_id": admin.ID, "name": admin.Name, "email": admin.Email})
}

func (h *Handler) DeleteAdmin(c *gin.Context) {
	if !h.canModifyAdmin(c) {
		return
	}
	if h.deleteAccount(c, h.admins) {
		c.JSON(http.StatusOK, gin.H{"message": "Admin deleted successfully"})
	}
}
