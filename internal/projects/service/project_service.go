package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	accounts "github.com/devlog-app/devlog-backend/internal/accounts/domain"
	"github.com/devlog-app/devlog-backend/internal/projects/domain"
)

// Store is the persistence surface the service needs. Implemented by
// repository.ProjectRepository; tests substitute an in-memory fake.
type Store interface {
	Insert(ctx context.Context, ownerID string, p *domain.Project) (*domain.Project, error)
	GetByID(ctx context.Context, ownerID, projectID string) (*domain.Project, error)
	GetBySlug(ctx context.Context, ownerID, slug string) (*domain.Project, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Project, error)
	ListPublic(ctx context.Context, ownerID string) ([]domain.Project, error)
	SlugTaken(ctx context.Context, ownerID, slug string) (bool, error)
	SlugsWithPrefix(ctx context.Context, ownerID, prefix string) ([]string, error)
	Update(ctx context.Context, ownerID, projectID string, patch domain.Patch) (*domain.Project, error)
	Delete(ctx context.Context, ownerID, projectID string) error
}

// UsernameResolver maps public usernames to account IDs. Implemented by the
// accounts service.
type UsernameResolver interface {
	ResolveUsername(ctx context.Context, username string) (string, error)
}

// ProjectService handles project business logic: slug assignment, CRUD and
// the ownership/visibility contract.
type ProjectService struct {
	store     Store
	usernames UsernameResolver
}

// NewProjectService creates a new project service.
func NewProjectService(store Store, usernames UsernameResolver) *ProjectService {
	return &ProjectService{store: store, usernames: usernames}
}

// CreateInput carries the caller-supplied fields for a new project.
type CreateInput struct {
	Name          string
	IsPublic      bool
	Details       string
	EstimatedTime string
	AvailableTime string
	Timeline      string
	Status        domain.Status
}

// Create persists a new project for account, assigning a per-owner-unique
// slug derived from the name.
func (s *ProjectService) Create(ctx context.Context, account *accounts.Account, in CreateInput) (*domain.Project, error) {
	if account == nil {
		return nil, domain.ErrUnauthenticated
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("project name required")
	}
	status := in.Status
	if status == "" {
		status = domain.StatusActive
	}
	if !status.Valid() {
		return nil, fmt.Errorf("invalid status %q", status)
	}

	slug, err := s.AssignUniqueSlug(ctx, account.UID, name)
	if err != nil {
		return nil, err
	}

	p := &domain.Project{
		Name:          name,
		Slug:          slug,
		Owner:         account.DisplayNameOrEmail(),
		OwnerID:       account.UID,
		IsPublic:      in.IsPublic,
		Details:       in.Details,
		EstimatedTime: in.EstimatedTime,
		AvailableTime: in.AvailableTime,
		Timeline:      in.Timeline,
		Status:        status,
		Archived:      status == domain.StatusArchived,
	}
	return s.store.Insert(ctx, account.UID, p)
}

// GetByID returns the project at the owner/id pair. It does not check the
// caller's identity; the HTTP layer only routes here with the requester's own
// uid as ownerID.
func (s *ProjectService) GetByID(ctx context.Context, ownerID, projectID string) (*domain.Project, error) {
	return s.store.GetByID(ctx, ownerID, projectID)
}

// GetBySlugForOwnerUsername resolves username and returns the matching
// project regardless of its visibility. Callers decide what the requester may
// see; the same lookup backs the public page and the owner's preview.
func (s *ProjectService) GetBySlugForOwnerUsername(ctx context.Context, username, slug string) (*domain.Project, error) {
	ownerID, err := s.usernames.ResolveUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.store.GetBySlug(ctx, ownerID, slug)
}

// ListByOwner returns all of the owner's projects, newest first.
func (s *ProjectService) ListByOwner(ctx context.Context, ownerID string) ([]domain.Project, error) {
	return s.store.ListByOwner(ctx, ownerID)
}

// ListPublicByUsername resolves username and returns only the public
// projects, newest first.
func (s *ProjectService) ListPublicByUsername(ctx context.Context, username string) ([]domain.Project, error) {
	ownerID, err := s.usernames.ResolveUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.store.ListPublic(ctx, ownerID)
}

// Update merges the patch into the stored project. A name change recomputes
// the slug; everything else leaves it alone. updatedAt is always restamped.
func (s *ProjectService) Update(ctx context.Context, ownerID, projectID string, patch domain.Patch) (*domain.Project, error) {
	current, err := s.store.GetByID(ctx, ownerID, projectID)
	if err != nil {
		return nil, err
	}

	if patch.Status != nil && !patch.Status.Valid() {
		return nil, fmt.Errorf("invalid status %q", *patch.Status)
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, fmt.Errorf("project name required")
		}
		patch.Name = &name
		if name != current.Name {
			slug, err := s.AssignUniqueSlug(ctx, ownerID, name)
			if err != nil {
				return nil, err
			}
			patch.SetSlug(slug)
		}
	}

	return s.store.Update(ctx, ownerID, projectID, patch)
}

// Delete removes the project. A missing project reports ErrNotFound so a
// repeated delete is not mistaken for success.
func (s *ProjectService) Delete(ctx context.Context, ownerID, projectID string) error {
	if _, err := s.store.GetByID(ctx, ownerID, projectID); err != nil {
		return err
	}
	return s.store.Delete(ctx, ownerID, projectID)
}

// Archive marks the project archived with the given reason.
func (s *ProjectService) Archive(ctx context.Context, ownerID, projectID, reason string) (*domain.Project, error) {
	archived := true
	status := domain.StatusArchived
	patch := domain.Patch{Archived: &archived, ArchiveReason: &reason, Status: &status}
	return s.store.Update(ctx, ownerID, projectID, patch)
}

// Unarchive clears the archived flag and reason, returning the project to
// active.
func (s *ProjectService) Unarchive(ctx context.Context, ownerID, projectID string) (*domain.Project, error) {
	archived := false
	reason := ""
	status := domain.StatusActive
	patch := domain.Patch{Archived: &archived, ArchiveReason: &reason, Status: &status}
	return s.store.Update(ctx, ownerID, projectID, patch)
}

// AssignUniqueSlug derives a slug from name that no other project of ownerID
// uses. When the base slug is taken it scans existing "base-<n>" variants and
// returns the next integer. Two concurrent calls with the same base can still
// race; that is an accepted limit of the read-then-write approach.
func (s *ProjectService) AssignUniqueSlug(ctx context.Context, ownerID, name string) (string, error) {
	base := domain.Slugify(name)

	taken, err := s.store.SlugTaken(ctx, ownerID, base)
	if err != nil {
		return "", err
	}
	if !taken {
		return base, nil
	}

	existing, err := s.store.SlugsWithPrefix(ctx, ownerID, base+"-")
	if err != nil {
		return "", err
	}

	max := 0
	for _, slug := range existing {
		suffix, ok := strings.CutPrefix(slug, base+"-")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(suffix)
		if err != nil || n <= 0 {
			continue
		}
		if n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s-%d", base, max+1), nil
}
