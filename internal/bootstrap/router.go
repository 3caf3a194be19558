package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/devlog-app/devlog-backend/internal/accounts/cache"
	accounthttp "github.com/devlog-app/devlog-backend/internal/accounts/http"
	accountrepo "github.com/devlog-app/devlog-backend/internal/accounts/repository"
	accountsvc "github.com/devlog-app/devlog-backend/internal/accounts/service"
	httpapi "github.com/devlog-app/devlog-backend/internal/api/http"
	"github.com/devlog-app/devlog-backend/internal/api/http/middleware"
	"github.com/devlog-app/devlog-backend/internal/auth"
	authmw "github.com/devlog-app/devlog-backend/internal/auth/middleware"
	projecthttp "github.com/devlog-app/devlog-backend/internal/projects/http"
	projectrepo "github.com/devlog-app/devlog-backend/internal/projects/repository"
	projectsvc "github.com/devlog-app/devlog-backend/internal/projects/service"
)

type RouterDeps struct {
	ServiceName      string
	Version          string
	Firebase         *auth.Clients
	Redis            *redis.Client // nil disables the username cache
	SignupRatePerMin int
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(cors.Default())

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Redis)
	healthHandler.RegisterRoutes(r)

	var usernameCache *cache.UsernameCache
	if dep.Redis != nil {
		usernameCache = cache.NewUsernameCache(dep.Redis, 24*time.Hour)
	}

	accountRepo := accountrepo.NewAccountRepository(dep.Firebase.Firestore)
	provider := auth.NewFirebaseProvider(dep.Firebase.Auth)
	accountService := accountsvc.NewAccountService(accountRepo, provider, usernameCache)

	projectRepo := projectrepo.NewProjectRepository(dep.Firebase.Firestore)
	projectService := projectsvc.NewProjectService(projectRepo, accountService)

	accountHandler := accounthttp.New(accountService)
	projectHandler := projecthttp.New(projectService, accountService)

	api := r.Group("/api/v1")

	signupLimit := rate.Limit(float64(dep.SignupRatePerMin) / 60.0)
	authPublic := api.Group("/auth")
	authPublic.Use(middleware.RateLimit(signupLimit, dep.SignupRatePerMin))
	accountHandler.RegisterPublic(authPublic)

	authed := api.Group("/auth")
	authed.Use(authmw.FirebaseAuthMiddleware(dep.Firebase.Auth))
	accountHandler.Register(authed)

	projectsGroup := api.Group("/projects")
	projectsGroup.Use(authmw.FirebaseAuthMiddleware(dep.Firebase.Auth))
	projectHandler.Register(projectsGroup)

	usersGroup := api.Group("/users")
	usersGroup.Use(authmw.OptionalFirebaseAuth(dep.Firebase.Auth))
	projectHandler.RegisterPublic(usersGroup)

	return r
}
