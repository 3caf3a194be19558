package http

import (
	accountsvc "github.com/devlog-app/devlog-backend/internal/accounts/service"
	"github.com/devlog-app/devlog-backend/internal/projects/service"
)

// Handler bundles the dependencies for projects HTTP endpoints.
type Handler struct {
	svc      *service.ProjectService
	accounts *accountsvc.AccountService
}

func New(svc *service.ProjectService, accounts *accountsvc.AccountService) *Handler {
	return &Handler{svc: svc, accounts: accounts}
}
