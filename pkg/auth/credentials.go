package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"parsifly/pkg/config"
	"parsifly/pkg/profile"
)

// Credential is the API key for one platform
type Credential struct {
	Platform     profile.Platform `json:"platform"`
	APIKey       string           `json:"api_key"`
	LastModified time.Time        `json:"last_modified"`
}

// CredentialStore is the interface for storing and retrieving API keys
type CredentialStore interface {
	// Store saves the credential for its platform
	Store(cred *Credential) error

	// Retrieve gets the credential for a platform
	Retrieve(platform profile.Platform) (*Credential, error)

	// List returns all stored credentials
	List() ([]*Credential, error)

	// Delete removes the credential for a platform
	Delete(platform profile.Platform) error

	// Exists checks if a credential exists for a platform
	Exists(platform profile.Platform) bool
}

// Manager handles credential storage with fallback mechanisms
type Manager struct {
	stores []CredentialStore
}

// NewManager creates a credential manager backed by the system keychain when
// available, an encrypted file in configDir and the environment. An empty
// configDir selects the user config directory.
func NewManager(configDir string) (*Manager, error) {
	var stores []CredentialStore

	if keyringStore, err := NewKeyringStore(); err == nil {
		stores = append(stores, keyringStore)
	}

	if configDir == "" {
		dir, err := DefaultConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get config directory: %w", err)
		}
		configDir = dir
	}

	encryptedStore, err := NewEncryptedFileStore(filepath.Join(configDir, "credentials.enc"))
	if err != nil {
		return nil, fmt.Errorf("failed to create encrypted store: %w", err)
	}
	stores = append(stores, encryptedStore)

	stores = append(stores, NewEnvironmentStore())

	return &Manager{stores: stores}, nil
}

// NewManagerWithStores creates a Manager that tries stores in order
func NewManagerWithStores(stores ...CredentialStore) *Manager {
	return &Manager{stores: stores}
}

// Store saves the credential in the first store that accepts it
func (m *Manager) Store(cred *Credential) error {
	if cred == nil || !cred.Platform.Valid() {
		return ErrInvalidCredentials
	}
	if strings.TrimSpace(cred.APIKey) == "" {
		return errors.New("API key is required")
	}

	cred.LastModified = time.Now()

	var lastErr error
	for _, store := range m.stores {
		err := store.Store(cred)
		if err == nil {
			return nil
		}
		lastErr = err
	}

	if lastErr != nil {
		return fmt.Errorf("failed to store credentials: %w", lastErr)
	}
	return errors.New("no available credential stores")
}

// Retrieve gets the credential from the first store that has it
func (m *Manager) Retrieve(platform profile.Platform) (*Credential, error) {
	for _, store := range m.stores {
		if cred, err := store.Retrieve(platform); err == nil && cred != nil {
			return cred, nil
		}
	}
	return nil, fmt.Errorf("%w for platform: %s", ErrCredentialsNotFound, platform)
}

// List returns one credential per platform across all stores, preferring the
// most recently modified, sorted by platform
func (m *Manager) List() ([]*Credential, error) {
	byPlatform := make(map[profile.Platform]*Credential)

	for _, store := range m.stores {
		creds, err := store.List()
		if err != nil {
			continue
		}
		for _, cred := range creds {
			if existing, ok := byPlatform[cred.Platform]; !ok || cred.LastModified.After(existing.LastModified) {
				byPlatform[cred.Platform] = cred
			}
		}
	}

	result := make([]*Credential, 0, len(byPlatform))
	for _, cred := range byPlatform {
		result = append(result, cred)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Platform < result[j].Platform })
	return result, nil
}

// Delete removes the credential from every store
func (m *Manager) Delete(platform profile.Platform) error {
	var deleted bool
	var lastErr error

	for _, store := range m.stores {
		if err := store.Delete(platform); err == nil {
			deleted = true
		} else {
			lastErr = err
		}
	}

	if !deleted && lastErr != nil && !errors.Is(lastErr, ErrCredentialsNotFound) && !errors.Is(lastErr, ErrStoreUnavailable) {
		return fmt.Errorf("failed to delete credentials: %w", lastErr)
	}
	if !deleted {
		return fmt.Errorf("%w for platform: %s", ErrCredentialsNotFound, platform)
	}
	return nil
}

// ApplyTo fills every platform in cfg that has no API key with a stored
// one. Keys already set in cfg are left alone. It returns the platforms
// that received a key.
func (m *Manager) ApplyTo(cfg *config.PlatformsConfig) []profile.Platform {
	var applied []profile.Platform
	for _, p := range profile.Platforms() {
		if cfg.HasAPIKey(p) {
			continue
		}
		cred, err := m.Retrieve(p)
		if err != nil {
			continue
		}
		if cfg.SetAPIKey(p, cred.APIKey) {
			applied = append(applied, p)
		}
	}
	return applied
}

// DefaultConfigDir returns the parsifly directory under the user config
// directory, creating it if needed
func DefaultConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(base, "parsifly")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return dir, nil
}

// Sanitize returns a copy of cred with the key masked
func Sanitize(cred *Credential) *Credential {
	if cred == nil {
		return nil
	}
	return &Credential{
		Platform:     cred.Platform,
		APIKey:       Mask(cred.APIKey),
		LastModified: cred.LastModified,
	}
}

// Mask hides all but the first 4 and last 4 characters of s
func Mask(s string) string {
	if len(s) <= 8 {
		return "********"
	}
	return s[:4] + "..." + s[len(s)-4:]
}

// Errors
var (
	ErrCredentialsNotFound = errors.New("credentials not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrStoreUnavailable    = errors.New("credential store unavailable")
)
