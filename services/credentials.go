package services

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrInvalidCredentials is returned when a username/password pair does not match
	ErrInvalidCredentials = errors.New("Invalid credentials")
	// ErrCurrentPasswordMismatch is returned by ChangePassword when the current password is wrong
	ErrCurrentPasswordMismatch = errors.New("Current password does not match")
	// ErrMissingFields is returned when a required credential field is empty
	ErrMissingFields = errors.New("Required fields are missing")
)

// CredentialProvider checks and rotates the single operator account's password. Route
// handlers only see this interface.
type CredentialProvider interface {
	Authenticate(ctx context.Context, username, password string) error
	ChangePassword(ctx context.Context, currentPassword, newPassword string) error
}

// MemoryCredentialProvider holds one plaintext username/password pair in process memory.
// Changes are lost on restart. There is no hashing, rate limiting or complexity rule;
// concurrent changes are last-write-wins.
type MemoryCredentialProvider struct {
	mu       sync.RWMutex
	username string
	password string
}

// NewMemoryCredentialProvider seeds the provider with the configured default pair
func NewMemoryCredentialProvider(username, password string) *MemoryCredentialProvider {
	return &MemoryCredentialProvider{username: username, password: password}
}

func (p *MemoryCredentialProvider) Authenticate(ctx context.Context, username, password string) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if username == "" || password == "" || username != p.username || password != p.password {
		return ErrInvalidCredentials
	}
	return nil
}

func (p *MemoryCredentialProvider) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return ErrMissingFields
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if currentPassword != p.password {
		return ErrCurrentPasswordMismatch
	}
	p.password = newPassword
	return nil
}
