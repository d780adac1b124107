package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kendall-kelly/clinic-landing-api/models"
	"github.com/kendall-kelly/clinic-landing-api/storage"
	"golang.org/x/crypto/bcrypt"
)

// TableCredentialProvider keeps bcrypt hashes in the admin_users table. Unlike the memory
// provider, password changes survive restarts.
type TableCredentialProvider struct {
	store    storage.AdminUserStore
	username string
	cost     int
}

// NewTableCredentialProvider makes sure the operator account exists, creating it with
// bootstrapPassword on first start.
func NewTableCredentialProvider(ctx context.Context, store storage.AdminUserStore, username, bootstrapPassword string, cost int) (*TableCredentialProvider, error) {
	p := &TableCredentialProvider{store: store, username: username, cost: cost}

	_, err := store.GetAdminUser(ctx, username)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to load admin user: %w", err)
	}

	if err := p.save(ctx, bootstrapPassword); err != nil {
		return nil, err
	}
	slog.Info("created admin user", "username", username)
	return p, nil
}

func (p *TableCredentialProvider) Authenticate(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return ErrInvalidCredentials
	}

	admin, err := p.store.GetAdminUser(ctx, username)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrInvalidCredentials
	}
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		return ErrInvalidCredentials
	}
	return nil
}

func (p *TableCredentialProvider) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return ErrMissingFields
	}

	admin, err := p.store.GetAdminUser(ctx, p.username)
	if err != nil {
		return fmt.Errorf("failed to load admin user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(currentPassword)) != nil {
		return ErrCurrentPasswordMismatch
	}

	return p.save(ctx, newPassword)
}

func (p *TableCredentialProvider) save(ctx context.Context, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return p.store.SaveAdminUser(ctx, &models.AdminUser{
		Username:     p.username,
		PasswordHash: string(hash),
	})
}
