package http

import (
	"context"
	"encoding/json"
	"errors"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accounts "github.com/devlog-app/devlog-backend/internal/accounts/domain"
	"github.com/devlog-app/devlog-backend/internal/projects/domain"
	"github.com/devlog-app/devlog-backend/internal/projects/service"
)

// memStore holds a fixed project set; only the read paths the public routes
// hit are exercised.
type memStore struct {
	projects map[string][]domain.Project // ownerID -> projects
}

func (m *memStore) Insert(_ context.Context, _ string, _ *domain.Project) (*domain.Project, error) {
	return nil, errors.New("not supported")
}

func (m *memStore) GetByID(_ context.Context, ownerID, projectID string) (*domain.Project, error) {
	for _, p := range m.projects[ownerID] {
		if p.ID == projectID {
			out := p
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memStore) GetBySlug(_ context.Context, ownerID, slug string) (*domain.Project, error) {
	for _, p := range m.projects[ownerID] {
		if p.Slug == slug {
			out := p
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memStore) ListByOwner(_ context.Context, ownerID string) ([]domain.Project, error) {
	return m.projects[ownerID], nil
}

func (m *memStore) ListPublic(_ context.Context, ownerID string) ([]domain.Project, error) {
	var out []domain.Project
	for _, p := range m.projects[ownerID] {
		if p.IsPublic {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memStore) SlugTaken(_ context.Context, _, _ string) (bool, error) { return false, nil }

func (m *memStore) SlugsWithPrefix(_ context.Context, _, _ string) ([]string, error) {
	return nil, nil
}

func (m *memStore) Update(_ context.Context, _, _ string, _ domain.Patch) (*domain.Project, error) {
	return nil, domain.ErrNotFound
}

func (m *memStore) Delete(_ context.Context, _, _ string) error { return nil }

type staticResolver map[string]string

func (r staticResolver) ResolveUsername(_ context.Context, username string) (string, error) {
	uid, ok := r[username]
	if !ok {
		return "", accounts.ErrNotFound
	}
	return uid, nil
}

func publicRouter(requesterUID string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	store := &memStore{projects: map[string][]domain.Project{
		"u1": {
			{ID: "p1", Name: "Open", Slug: "open", OwnerID: "u1", IsPublic: true},
			{ID: "p2", Name: "Secret", Slug: "secret", OwnerID: "u1", IsPublic: false},
		},
	}}
	svc := service.NewProjectService(store, staticResolver{"dev": "u1"})
	h := New(svc, nil)

	r := gin.New()
	if requesterUID != "" {
		r.Use(func(c *gin.Context) { c.Set("firebase_uid", requesterUID) })
	}
	h.RegisterPublic(r.Group("/api/v1/users"))
	return r
}

func doGet(t *testing.T, r *gin.Engine, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req, err := nethttp.NewRequest("GET", path, nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	var body map[string]interface{}
	if len(rr.Body.Bytes()) > 0 {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	}
	return rr, body
}

func TestPublicProjectPage(t *testing.T) {
	t.Run("public project visible to anyone", func(t *testing.T) {
		rr, body := doGet(t, publicRouter(""), "/api/v1/users/dev/projects/open")
		assert.Equal(t, nethttp.StatusOK, rr.Code)
		assert.Equal(t, true, body["visible"])
	})

	t.Run("private project forbidden for strangers, not hidden", func(t *testing.T) {
		rr, body := doGet(t, publicRouter("u2"), "/api/v1/users/dev/projects/secret")
		assert.Equal(t, nethttp.StatusForbidden, rr.Code, "existence is disclosed, content is not")
		assert.Equal(t, false, body["visible"])
	})

	t.Run("private project visible to its owner", func(t *testing.T) {
		rr, body := doGet(t, publicRouter("u1"), "/api/v1/users/dev/projects/secret")
		assert.Equal(t, nethttp.StatusOK, rr.Code)
		assert.Equal(t, true, body["visible"])
	})

	t.Run("unknown slug is 404", func(t *testing.T) {
		rr, _ := doGet(t, publicRouter(""), "/api/v1/users/dev/projects/nope")
		assert.Equal(t, nethttp.StatusNotFound, rr.Code)
	})

	t.Run("unknown username is 404", func(t *testing.T) {
		rr, _ := doGet(t, publicRouter(""), "/api/v1/users/ghost/projects/open")
		assert.Equal(t, nethttp.StatusNotFound, rr.Code)
	})
}

func TestPublicProjectList(t *testing.T) {
	rr, body := doGet(t, publicRouter(""), "/api/v1/users/dev/projects")
	require.Equal(t, nethttp.StatusOK, rr.Code)

	items, ok := body["projects"].([]interface{})
	require.True(t, ok)
	require.Len(t, items, 1, "private projects never appear in the public list")

	first := items[0].(map[string]interface{})
	assert.Equal(t, "open", first["slug"])
}
