package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/devlog-app/devlog-backend/internal/accounts/domain"
	"github.com/devlog-app/devlog-backend/internal/auth"
)

type signUpReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

// SignUp creates the identity, the profile document and the username-index
// entry in one call.
func (h *Handler) SignUp(c *gin.Context) {
	var req signUpReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" || strings.TrimSpace(req.Username) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email, password and username are required"})
		return
	}

	account, err := h.svc.SignUp(c.Request.Context(), req.Email, req.Password, req.Username)
	if err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "username is already taken"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sign up", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": account})
}

// UsernameAvailable reports whether a username can still be claimed.
func (h *Handler) UsernameAvailable(c *gin.Context) {
	username := strings.TrimSpace(c.Query("username"))
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username query parameter is required"})
		return
	}

	taken, err := h.svc.IsUsernameTaken(c.Request.Context(), username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check username"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"username": strings.ToLower(username), "available": !taken})
}

// GetProfile returns the current user's profile document.
func (h *Handler) GetProfile(c *gin.Context) {
	uid := auth.UserFirebaseUID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	account, err := h.svc.GetByID(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": account})
}
