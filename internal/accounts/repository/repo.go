package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/devlog-app/devlog-backend/internal/accounts/domain"
)

const (
	usersCollection     = "users"
	usernamesCollection = "usernames"
)

// AccountRepository persists account profiles (users/{uid}) and the
// username index (usernames/{username} -> uid).
type AccountRepository struct {
	client *firestore.Client
}

// NewAccountRepository creates a new account repository.
func NewAccountRepository(client *firestore.Client) *AccountRepository {
	return &AccountRepository{client: client}
}

// CreateProfile writes the profile document for a new account.
func (r *AccountRepository) CreateProfile(ctx context.Context, a *domain.Account) error {
	if _, err := r.client.Collection(usersCollection).Doc(a.UID).Create(ctx, a); err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

// GetByID returns the profile for uid.
func (r *AccountRepository) GetByID(ctx context.Context, uid string) (*domain.Account, error) {
	snap, err := r.client.Collection(usersCollection).Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	var a domain.Account
	if err := snap.DataTo(&a); err != nil {
		return nil, fmt.Errorf("decode profile %s: %w", uid, err)
	}
	return &a, nil
}

// ProfileExists reports whether a profile document exists for uid.
func (r *AccountRepository) ProfileExists(ctx context.Context, uid string) (bool, error) {
	_, err := r.client.Collection(usersCollection).Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, fmt.Errorf("probe profile: %w", err)
	}
	return true, nil
}

// ClaimUsername atomically creates the username-index document. A concurrent
// or earlier claim surfaces as ErrUsernameTaken; Firestore's create-if-absent
// makes this the one uniqueness check that is race-free.
func (r *AccountRepository) ClaimUsername(ctx context.Context, username, uid string) error {
	entry := domain.UsernameEntry{UID: uid}
	_, err := r.client.Collection(usernamesCollection).Doc(username).Create(ctx, entry)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return domain.ErrUsernameTaken
		}
		return fmt.Errorf("claim username: %w", err)
	}
	return nil
}

// ReleaseUsername removes a username-index document. Used by the signup
// rollback path and the orphan sweeper.
func (r *AccountRepository) ReleaseUsername(ctx context.Context, username string) error {
	if _, err := r.client.Collection(usernamesCollection).Doc(username).Delete(ctx); err != nil {
		return fmt.Errorf("release username: %w", err)
	}
	return nil
}

// UsernameTaken reports whether the username index maps username to an
// account.
func (r *AccountRepository) UsernameTaken(ctx context.Context, username string) (bool, error) {
	_, err := r.client.Collection(usernamesCollection).Doc(username).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, fmt.Errorf("probe username: %w", err)
	}
	return true, nil
}

// ResolveUsername returns the uid the username maps to.
func (r *AccountRepository) ResolveUsername(ctx context.Context, username string) (string, error) {
	snap, err := r.client.Collection(usernamesCollection).Doc(username).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("resolve username: %w", err)
	}
	var entry domain.UsernameEntry
	if err := snap.DataTo(&entry); err != nil {
		return "", fmt.Errorf("decode username %s: %w", username, err)
	}
	return entry.UID, nil
}

// ListUsernames streams the whole username index, for the orphan sweeper.
func (r *AccountRepository) ListUsernames(ctx context.Context) ([]domain.UsernameEntry, error) {
	iter := r.client.Collection(usernamesCollection).Documents(ctx)
	defer iter.Stop()

	var out []domain.UsernameEntry
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list usernames: %w", err)
		}
		var entry domain.UsernameEntry
		if err := snap.DataTo(&entry); err != nil {
			return nil, fmt.Errorf("decode username %s: %w", snap.Ref.ID, err)
		}
		entry.Username = snap.Ref.ID
		out = append(out, entry)
	}
	return out, nil
}
