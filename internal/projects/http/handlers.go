package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	accounts "github.com/devlog-app/devlog-backend/internal/accounts/domain"
	"github.com/devlog-app/devlog-backend/internal/auth"
	"github.com/devlog-app/devlog-backend/internal/projects/domain"
	"github.com/devlog-app/devlog-backend/internal/projects/service"
)

type createReq struct {
	Name          string `json:"name"`
	IsPublic      bool   `json:"isPublic"`
	Details       string `json:"details"`
	EstimatedTime string `json:"estimatedTime"`
	AvailableTime string `json:"availableTime"`
	Timeline      string `json:"timeline"`
	Status        string `json:"status"`
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	account := h.requesterAccount(c)
	if account == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "user not authenticated"})
		return
	}

	p, err := h.svc.Create(c.Request.Context(), account, service.CreateInput{
		Name:          req.Name,
		IsPublic:      req.IsPublic,
		Details:       req.Details,
		EstimatedTime: req.EstimatedTime,
		AvailableTime: req.AvailableTime,
		Timeline:      req.Timeline,
		Status:        domain.Status(req.Status),
	})
	if err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "user not authenticated"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "project": p})
}

func (h *Handler) list(c *gin.Context) {
	uid := auth.UserFirebaseUID(c)
	items, err := h.svc.ListByOwner(c.Request.Context(), uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": items})
}

func (h *Handler) get(c *gin.Context) {
	uid := auth.UserFirebaseUID(c)
	p, err := h.svc.GetByID(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

type updateReq struct {
	Name          *string `json:"name"`
	IsPublic      *bool   `json:"isPublic"`
	Details       *string `json:"details"`
	EstimatedTime *string `json:"estimatedTime"`
	AvailableTime *string `json:"availableTime"`
	Timeline      *string `json:"timeline"`
	Status        *string `json:"status"`
}

func (h *Handler) update(c *gin.Context) {
	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	patch := domain.Patch{
		Name:          req.Name,
		IsPublic:      req.IsPublic,
		Details:       req.Details,
		EstimatedTime: req.EstimatedTime,
		AvailableTime: req.AvailableTime,
		Timeline:      req.Timeline,
	}
	if req.Status != nil {
		status := domain.Status(*req.Status)
		patch.Status = &status
	}
	if patch.Empty() {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "no fields to update"})
		return
	}

	uid := auth.UserFirebaseUID(c)
	p, err := h.svc.Update(c.Request.Context(), uid, c.Param("id"), patch)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) delete(c *gin.Context) {
	uid := auth.UserFirebaseUID(c)
	err := h.svc.Delete(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type archiveReq struct {
	Reason string `json:"reason"`
}

func (h *Handler) archive(c *gin.Context) {
	var req archiveReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
			return
		}
	}

	uid := auth.UserFirebaseUID(c)
	p, err := h.svc.Archive(c.Request.Context(), uid, c.Param("id"), req.Reason)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) unarchive(c *gin.Context) {
	uid := auth.UserFirebaseUID(c)
	p, err := h.svc.Unarchive(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

// requesterAccount resolves the requester's profile. Identities without a
// profile document still get a minimal account built from the token, so
// project creation never depends on the profile write having happened.
func (h *Handler) requesterAccount(c *gin.Context) *accounts.Account {
	uid := auth.UserFirebaseUID(c)
	if uid == "" {
		return nil
	}
	account, err := h.accounts.GetByID(c.Request.Context(), uid)
	if err != nil {
		return &accounts.Account{UID: uid, Email: auth.UserEmail(c)}
	}
	return account
}
