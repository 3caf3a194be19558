package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	accounts "github.com/devlog-app/devlog-backend/internal/accounts/domain"
	"github.com/devlog-app/devlog-backend/internal/auth"
	"github.com/devlog-app/devlog-backend/internal/projects/domain"
)

func (h *Handler) listPublic(c *gin.Context) {
	items, err := h.svc.ListPublicByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		if errors.Is(err, accounts.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": items})
}

// getBySlug serves both the public project page and the owner's preview. A
// private project is disclosed to exist but its content is withheld from
// anyone except the owner: 403, not 404.
func (h *Handler) getBySlug(c *gin.Context) {
	p, err := h.svc.GetBySlugForOwnerUsername(c.Request.Context(), c.Param("username"), c.Param("slug"))
	if err != nil {
		if errors.Is(err, accounts.ErrNotFound) || errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	requester := auth.UserFirebaseUID(c)
	if !domain.Visible(p, requester) {
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "visible": false, "error": "project is private"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "visible": true, "project": p})
}
