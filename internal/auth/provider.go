package auth

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/auth"
)

// FirebaseProvider adapts the Firebase Auth admin client to the account
// service's IdentityProvider interface.
type FirebaseProvider struct {
	client *auth.Client
}

// NewFirebaseProvider wraps an Auth client.
func NewFirebaseProvider(client *auth.Client) *FirebaseProvider {
	return &FirebaseProvider{client: client}
}

// CreateUser creates an email/password identity and returns its uid.
func (p *FirebaseProvider) CreateUser(ctx context.Context, email, password string) (string, error) {
	params := (&auth.UserToCreate{}).Email(email).Password(password)
	rec, err := p.client.CreateUser(ctx, params)
	if err != nil {
		return "", fmt.Errorf("firebase create user: %w", err)
	}
	return rec.UID, nil
}

// DeleteUser removes an identity. Used only by the signup rollback path.
func (p *FirebaseProvider) DeleteUser(ctx context.Context, uid string) error {
	if err := p.client.DeleteUser(ctx, uid); err != nil {
		return fmt.Errorf("firebase delete user %s: %w", uid, err)
	}
	return nil
}
