package http

import "github.com/gin-gonic/gin"

// RegisterPublic attaches the unauthenticated account routes.
func (h *Handler) RegisterPublic(rg *gin.RouterGroup) {
	rg.POST("/signup", h.SignUp)
	rg.GET("/username-available", h.UsernameAvailable)
}

// Register attaches the routes that require a verified identity.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/profile", h.GetProfile)
}
