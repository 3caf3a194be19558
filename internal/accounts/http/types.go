package http

import "github.com/devlog-app/devlog-backend/internal/accounts/service"

// Handler bundles the dependencies for account HTTP endpoints.
type Handler struct {
	svc *service.AccountService
}

func New(svc *service.AccountService) *Handler {
	return &Handler{svc: svc}
}
