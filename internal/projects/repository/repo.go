package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/devlog-app/devlog-backend/internal/projects/domain"
)

// slugRangeEnd is the upper bound for slug prefix scans.  sorts after
// every character that can appear in a slug.
const slugRangeEnd = ""

// ProjectRepository provides persistence operations for projects, stored as
// documents under users/{ownerID}/projects/{projectID}.
type ProjectRepository struct {
	client *firestore.Client
}

// NewProjectRepository creates a new project repository.
func NewProjectRepository(client *firestore.Client) *ProjectRepository {
	return &ProjectRepository{client: client}
}

func (r *ProjectRepository) col(ownerID string) *firestore.CollectionRef {
	return r.client.Collection("users").Doc(ownerID).Collection("projects")
}

// Insert writes a new project document with a generated ID and returns the
// stored record, including the server-assigned timestamps.
func (r *ProjectRepository) Insert(ctx context.Context, ownerID string, p *domain.Project) (*domain.Project, error) {
	ref := r.col(ownerID).NewDoc()
	if _, err := ref.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return r.get(ctx, ref)
}

// GetByID returns the project at users/{ownerID}/projects/{projectID}.
func (r *ProjectRepository) GetByID(ctx context.Context, ownerID, projectID string) (*domain.Project, error) {
	return r.get(ctx, r.col(ownerID).Doc(projectID))
}

// GetBySlug returns the owner's project carrying the given slug.
func (r *ProjectRepository) GetBySlug(ctx context.Context, ownerID, slug string) (*domain.Project, error) {
	iter := r.col(ownerID).Where("slug", "==", slug).Limit(1).Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err == iterator.Done {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query slug: %w", err)
	}
	return decode(snap)
}

// ListByOwner returns every project owned by ownerID, newest first.
func (r *ProjectRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Project, error) {
	q := r.col(ownerID).OrderBy("createdAt", firestore.Desc)
	return r.list(ctx, q)
}

// ListPublic returns the owner's public projects, newest first.
func (r *ProjectRepository) ListPublic(ctx context.Context, ownerID string) ([]domain.Project, error) {
	q := r.col(ownerID).Where("isPublic", "==", true).OrderBy("createdAt", firestore.Desc)
	return r.list(ctx, q)
}

// SlugTaken reports whether any of the owner's projects already uses slug.
func (r *ProjectRepository) SlugTaken(ctx context.Context, ownerID, slug string) (bool, error) {
	iter := r.col(ownerID).Where("slug", "==", slug).Limit(1).Documents(ctx)
	defer iter.Stop()

	_, err := iter.Next()
	if err == iterator.Done {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("probe slug: %w", err)
	}
	return true, nil
}

// SlugsWithPrefix returns the owner's slugs in the lexicographic range
// [prefix, prefix+]. Used to find numeric-suffix variants of a base slug.
func (r *ProjectRepository) SlugsWithPrefix(ctx context.Context, ownerID, prefix string) ([]string, error) {
	iter := r.col(ownerID).
		Where("slug", ">=", prefix).
		Where("slug", "<=", prefix+slugRangeEnd).
		Select("slug").
		Documents(ctx)
	defer iter.Stop()

	var slugs []string
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("scan slugs: %w", err)
		}
		v, err := snap.DataAt("slug")
		if err != nil {
			continue
		}
		if s, ok := v.(string); ok {
			slugs = append(slugs, s)
		}
	}
	return slugs, nil
}

// Update applies the patch as a partial document update, stamps updatedAt,
// and returns the post-update record.
func (r *ProjectRepository) Update(ctx context.Context, ownerID, projectID string, patch domain.Patch) (*domain.Project, error) {
	ref := r.col(ownerID).Doc(projectID)

	updates := patchUpdates(patch)
	updates = append(updates, firestore.Update{Path: "updatedAt", Value: firestore.ServerTimestamp})

	if _, err := ref.Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update project: %w", err)
	}
	return r.get(ctx, ref)
}

// Delete removes the project document. Deleting an absent document is not an
// error at the store level; callers that care check existence first.
func (r *ProjectRepository) Delete(ctx context.Context, ownerID, projectID string) error {
	if _, err := r.col(ownerID).Doc(projectID).Delete(ctx); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}

func (r *ProjectRepository) get(ctx context.Context, ref *firestore.DocumentRef) (*domain.Project, error) {
	snap, err := ref.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return decode(snap)
}

func (r *ProjectRepository) list(ctx context.Context, q firestore.Query) ([]domain.Project, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	out := make([]domain.Project, 0, 16)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list projects: %w", err)
		}
		p, err := decode(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, nil
}

func decode(snap *firestore.DocumentSnapshot) (*domain.Project, error) {
	var p domain.Project
	if err := snap.DataTo(&p); err != nil {
		return nil, fmt.Errorf("decode project %s: %w", snap.Ref.ID, err)
	}
	p.ID = snap.Ref.ID
	return &p, nil
}

func patchUpdates(patch domain.Patch) []firestore.Update {
	var u []firestore.Update
	add := func(path string, v interface{}) {
		u = append(u, firestore.Update{Path: path, Value: v})
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if s := patch.Slug(); s != nil {
		add("slug", *s)
	}
	if patch.IsPublic != nil {
		add("isPublic", *patch.IsPublic)
	}
	if patch.Details != nil {
		add("details", *patch.Details)
	}
	if patch.EstimatedTime != nil {
		add("estimatedTime", *patch.EstimatedTime)
	}
	if patch.AvailableTime != nil {
		add("availableTime", *patch.AvailableTime)
	}
	if patch.Timeline != nil {
		add("timeline", *patch.Timeline)
	}
	if patch.Status != nil {
		add("status", string(*patch.Status))
	}
	if patch.Archived != nil {
		add("archived", *patch.Archived)
	}
	if patch.ArchiveReason != nil {
		add("archiveReason", *patch.ArchiveReason)
	}
	return u
}
