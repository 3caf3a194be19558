package http

import "github.com/gin-gonic/gin"

// Register attaches the owner-facing project routes. The group must sit
// behind FirebaseAuthMiddleware.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.create)
	rg.GET("", h.list)
	rg.GET("/:id", h.get)
	rg.PATCH("/:id", h.update)
	rg.DELETE("/:id", h.delete)
	rg.POST("/:id/archive", h.archive)
	rg.POST("/:id/unarchive", h.unarchive)
}

// RegisterPublic attaches the username-scoped routes. The group must sit
// behind OptionalFirebaseAuth so owners can preview private projects.
func (h *Handler) RegisterPublic(rg *gin.RouterGroup) {
	rg.GET("/:username/projects", h.listPublic)
	rg.GET("/:username/projects/:slug", h.getBySlug)
}
