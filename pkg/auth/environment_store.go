package auth

import (
	"os"
	"strings"
	"time"

	"parsifly/pkg/profile"
)

// EnvironmentStore reads API keys from PARSIFLY_{PLATFORM}_API_KEY. It is
// read-only.
type EnvironmentStore struct{}

// NewEnvironmentStore creates an environment-based credential store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// EnvVar returns the variable holding the API key for platform
func EnvVar(platform profile.Platform) string {
	return "PARSIFLY_" + strings.ToUpper(platform.Lower()) + "_API_KEY"
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(cred *Credential) error {
	return ErrStoreUnavailable
}

// Retrieve gets the API key from the environment
func (e *EnvironmentStore) Retrieve(platform profile.Platform) (*Credential, error) {
	if !platform.Valid() {
		return nil, ErrInvalidCredentials
	}
	key := strings.TrimSpace(os.Getenv(EnvVar(platform)))
	if key == "" {
		return nil, ErrCredentialsNotFound
	}

	return &Credential{
		Platform:     platform,
		APIKey:       key,
		LastModified: time.Time{},
	}, nil
}

// List returns a credential for every platform with its variable set
func (e *EnvironmentStore) List() ([]*Credential, error) {
	creds := []*Credential{}
	for _, p := range profile.Platforms() {
		if cred, err := e.Retrieve(p); err == nil {
			creds = append(creds, cred)
		}
	}
	return creds, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete(platform profile.Platform) error {
	return ErrStoreUnavailable
}

// Exists checks if the platform's variable is set
func (e *EnvironmentStore) Exists(platform profile.Platform) bool {
	_, err := e.Retrieve(platform)
	return err == nil
}
