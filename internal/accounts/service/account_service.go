package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/devlog-app/devlog-backend/internal/accounts/cache"
	"github.com/devlog-app/devlog-backend/internal/accounts/domain"
)

// Store is the persistence surface the service needs. Implemented by
// repository.AccountRepository; tests substitute an in-memory fake.
type Store interface {
	CreateProfile(ctx context.Context, a *domain.Account) error
	GetByID(ctx context.Context, uid string) (*domain.Account, error)
	ClaimUsername(ctx context.Context, username, uid string) error
	ReleaseUsername(ctx context.Context, username string) error
	UsernameTaken(ctx context.Context, username string) (bool, error)
	ResolveUsername(ctx context.Context, username string) (string, error)
}

// IdentityProvider creates and deletes identities. Implemented against the
// Firebase Auth admin client.
type IdentityProvider interface {
	CreateUser(ctx context.Context, email, password string) (uid string, err error)
	DeleteUser(ctx context.Context, uid string) error
}

// AccountService handles signup and username resolution.
type AccountService struct {
	store    Store
	provider IdentityProvider
	cache    *cache.UsernameCache // optional
}

// NewAccountService creates a new account service. cache may be nil.
func NewAccountService(store Store, provider IdentityProvider, c *cache.UsernameCache) *AccountService {
	return &AccountService{store: store, provider: provider, cache: c}
}

// IsUsernameTaken checks the username index for an existing claim.
func (s *AccountService) IsUsernameTaken(ctx context.Context, username string) (bool, error) {
	username = normalizeUsername(username)
	if _, ok := s.cache.Get(ctx, username); ok {
		return true, nil
	}
	return s.store.UsernameTaken(ctx, username)
}

// SignUp creates the identity, claims the username, then writes the profile.
// The username claim is an atomic create-if-absent; any later failure rolls
// back what was already written, so a lost username claim (crash between the
// two document writes) is the only gap, and the sweeper repairs it.
func (s *AccountService) SignUp(ctx context.Context, email, password, username string) (*domain.Account, error) {
	username = normalizeUsername(username)
	if !domain.ValidUsername(username) {
		return nil, fmt.Errorf("invalid username %q", username)
	}

	taken, err := s.store.UsernameTaken(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrUsernameTaken
	}

	uid, err := s.provider.CreateUser(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("create identity: %w", err)
	}

	if err := s.store.ClaimUsername(ctx, username, uid); err != nil {
		s.deleteIdentity(ctx, uid)
		return nil, err
	}

	account := &domain.Account{
		UID:      uid,
		Email:    email,
		Username: username,
	}
	if err := s.store.CreateProfile(ctx, account); err != nil {
		if relErr := s.store.ReleaseUsername(ctx, username); relErr != nil {
			log.Printf("signup rollback: release username %q: %v", username, relErr)
		}
		s.deleteIdentity(ctx, uid)
		return nil, fmt.Errorf("create profile: %w", err)
	}

	s.cache.Set(ctx, username, uid)
	return account, nil
}

// ResolveUsername maps a username to its account ID, consulting the cache
// first.
func (s *AccountService) ResolveUsername(ctx context.Context, username string) (string, error) {
	username = normalizeUsername(username)
	if uid, ok := s.cache.Get(ctx, username); ok {
		return uid, nil
	}
	uid, err := s.store.ResolveUsername(ctx, username)
	if err != nil {
		return "", err
	}
	s.cache.Set(ctx, username, uid)
	return uid, nil
}

// GetByID returns the profile for uid.
func (s *AccountService) GetByID(ctx context.Context, uid string) (*domain.Account, error) {
	return s.store.GetByID(ctx, uid)
}

// GetByUsername resolves the username and returns the profile behind it.
func (s *AccountService) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	uid, err := s.ResolveUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.store.GetByID(ctx, uid)
}

func (s *AccountService) deleteIdentity(ctx context.Context, uid string) {
	if err := s.provider.DeleteUser(ctx, uid); err != nil {
		log.Printf("signup rollback: delete identity %s: %v", uid, err)
	}
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
