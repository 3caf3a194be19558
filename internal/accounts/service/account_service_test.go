package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devlog-app/devlog-backend/internal/accounts/domain"
)

type fakeAccountStore struct {
	profiles  map[string]*domain.Account
	usernames map[string]string

	failCreateProfile bool
	hideTaken         bool // UsernameTaken lies, exposing the claim as the real gate
}

func newFakeAccountStore() *fakeAccountStore {
	return &fakeAccountStore{
		profiles:  make(map[string]*domain.Account),
		usernames: make(map[string]string),
	}
}

func (f *fakeAccountStore) CreateProfile(_ context.Context, a *domain.Account) error {
	if f.failCreateProfile {
		return errors.New("firestore unavailable")
	}
	stored := *a
	f.profiles[a.UID] = &stored
	return nil
}

func (f *fakeAccountStore) GetByID(_ context.Context, uid string) (*domain.Account, error) {
	a, ok := f.profiles[uid]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *a
	return &out, nil
}

func (f *fakeAccountStore) ClaimUsername(_ context.Context, username, uid string) error {
	if _, taken := f.usernames[username]; taken {
		return domain.ErrUsernameTaken
	}
	f.usernames[username] = uid
	return nil
}

func (f *fakeAccountStore) ReleaseUsername(_ context.Context, username string) error {
	delete(f.usernames, username)
	return nil
}

func (f *fakeAccountStore) UsernameTaken(_ context.Context, username string) (bool, error) {
	if f.hideTaken {
		return false, nil
	}
	_, taken := f.usernames[username]
	return taken, nil
}

func (f *fakeAccountStore) ResolveUsername(_ context.Context, username string) (string, error) {
	uid, ok := f.usernames[username]
	if !ok {
		return "", domain.ErrNotFound
	}
	return uid, nil
}

type fakeProvider struct {
	seq     int
	created map[string]string // uid -> email
	deleted []string
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{created: make(map[string]string)}
}

func (f *fakeProvider) CreateUser(_ context.Context, email, _ string) (string, error) {
	f.seq++
	uid := fmt.Sprintf("uid-%d", f.seq)
	f.created[uid] = email
	return uid, nil
}

func (f *fakeProvider) DeleteUser(_ context.Context, uid string) error {
	delete(f.created, uid)
	f.deleted = append(f.deleted, uid)
	return nil
}

func newAccountService(t *testing.T) (*AccountService, *fakeAccountStore, *fakeProvider) {
	t.Helper()
	store := newFakeAccountStore()
	provider := newFakeProvider()
	return NewAccountService(store, provider, nil), store, provider
}

func TestSignUp(t *testing.T) {
	svc, store, provider := newAccountService(t)
	ctx := context.Background()

	account, err := svc.SignUp(ctx, "dev@example.com", "hunter22", "dev")
	require.NoError(t, err)

	assert.Equal(t, "dev", account.Username)
	assert.Equal(t, "dev@example.com", account.Email)
	assert.NotEmpty(t, account.UID)

	assert.Equal(t, account.UID, store.usernames["dev"], "username index points at the new account")
	assert.Contains(t, store.profiles, account.UID)
	assert.Empty(t, provider.deleted)
}

func TestSignUpUppercaseUsernameNormalized(t *testing.T) {
	svc, _, _ := newAccountService(t)
	ctx := context.Background()

	account, err := svc.SignUp(ctx, "dev@example.com", "hunter22", "  DeV ")
	require.NoError(t, err)
	assert.Equal(t, "dev", account.Username)

	taken, err := svc.IsUsernameTaken(ctx, "DEV")
	require.NoError(t, err)
	assert.True(t, taken)
}

func TestSignUpUsernameTaken(t *testing.T) {
	svc, _, provider := newAccountService(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "first@example.com", "hunter22", "dev")
	require.NoError(t, err)

	_, err = svc.SignUp(ctx, "second@example.com", "hunter22", "dev")
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
	assert.Len(t, provider.created, 1, "no identity survives a failed signup")
}

func TestSignUpClaimRaceRollsBackIdentity(t *testing.T) {
	svc, store, provider := newAccountService(t)
	ctx := context.Background()

	// Another signup claimed the name between our pre-check and our claim.
	// hideTaken makes the pre-check pass so the atomic claim is the gate.
	store.usernames["dev"] = "someone-else"
	store.hideTaken = true

	_, err := svc.SignUp(ctx, "b@example.com", "pw123456", "dev")
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
	assert.Len(t, provider.deleted, 1, "identity rolled back after losing the claim")
	assert.Empty(t, provider.created)
	assert.Equal(t, "someone-else", store.usernames["dev"], "winner's claim untouched")
}

func TestSignUpProfileFailureRollsBack(t *testing.T) {
	svc, store, provider := newAccountService(t)
	ctx := context.Background()

	store.failCreateProfile = true

	_, err := svc.SignUp(ctx, "dev@example.com", "hunter22", "dev")
	require.Error(t, err)

	assert.NotContains(t, store.usernames, "dev", "username claim released")
	assert.Len(t, provider.deleted, 1, "identity deleted")
	assert.Empty(t, provider.created)
}

func TestSignUpInvalidUsername(t *testing.T) {
	svc, _, provider := newAccountService(t)
	ctx := context.Background()

	for _, bad := range []string{"", "ab", "has space", "Ünïcode", "way-too-long-username-over-thirty-chars"} {
		_, err := svc.SignUp(ctx, "dev@example.com", "hunter22", bad)
		assert.Error(t, err, "username %q", bad)
	}
	assert.Empty(t, provider.created, "no identity created for rejected usernames")
}

func TestResolveUsername(t *testing.T) {
	svc, _, _ := newAccountService(t)
	ctx := context.Background()

	account, err := svc.SignUp(ctx, "dev@example.com", "hunter22", "dev")
	require.NoError(t, err)

	uid, err := svc.ResolveUsername(ctx, "dev")
	require.NoError(t, err)
	assert.Equal(t, account.UID, uid)

	_, err = svc.ResolveUsername(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetByUsername(t *testing.T) {
	svc, _, _ := newAccountService(t)
	ctx := context.Background()

	created, err := svc.SignUp(ctx, "dev@example.com", "hunter22", "dev")
	require.NoError(t, err)

	got, err := svc.GetByUsername(ctx, "dev")
	require.NoError(t, err)
	assert.Equal(t, created.UID, got.UID)
	assert.Equal(t, "dev@example.com", got.Email)
}
