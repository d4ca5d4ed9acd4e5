package auth

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/zalando/go-keyring"

	"parsifly/pkg/profile"
)

const (
	keyringService = "parsifly"
	keyringPrefix  = "apikey_"
)

// KeyringStore implements CredentialStore using the system keychain
type KeyringStore struct{}

// NewKeyringStore creates a keyring store, failing when no keychain is
// reachable
func NewKeyringStore() (*KeyringStore, error) {
	testKey := "test_availability"
	if err := keyring.Set(keyringService, testKey, "test"); err != nil {
		return nil, fmt.Errorf("keyring not available: %w", err)
	}
	_ = keyring.Delete(keyringService, testKey)

	return &KeyringStore{}, nil
}

func keyringKey(p profile.Platform) string {
	return keyringPrefix + p.Lower()
}

// Store saves the credential to the system keychain
func (k *KeyringStore) Store(cred *Credential) error {
	if cred == nil || !cred.Platform.Valid() {
		return ErrInvalidCredentials
	}

	data, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("failed to marshal credential: %w", err)
	}

	if err := keyring.Set(keyringService, keyringKey(cred.Platform), string(data)); err != nil {
		return fmt.Errorf("failed to store in keyring: %w", err)
	}
	return nil
}

// Retrieve gets the credential from the system keychain
func (k *KeyringStore) Retrieve(platform profile.Platform) (*Credential, error) {
	if !platform.Valid() {
		return nil, ErrInvalidCredentials
	}

	data, err := keyring.Get(keyringService, keyringKey(platform))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, ErrCredentialsNotFound
		}
		return nil, fmt.Errorf("failed to retrieve from keyring: %w", err)
	}

	var cred Credential
	if err := json.Unmarshal([]byte(data), &cred); err != nil {
		return nil, fmt.Errorf("failed to unmarshal credential: %w", err)
	}
	return &cred, nil
}

// List probes every known platform, since go-keyring cannot enumerate keys
func (k *KeyringStore) List() ([]*Credential, error) {
	creds := []*Credential{}
	for _, p := range profile.Platforms() {
		if cred, err := k.Retrieve(p); err == nil {
			creds = append(creds, cred)
		}
	}
	return creds, nil
}

// Delete removes the credential from the system keychain
func (k *KeyringStore) Delete(platform profile.Platform) error {
	if !platform.Valid() {
		return ErrInvalidCredentials
	}

	err := keyring.Delete(keyringService, keyringKey(platform))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrCredentialsNotFound
		}
		return fmt.Errorf("failed to delete from keyring: %w", err)
	}
	return nil
}

// Exists checks if a credential exists in the keychain
func (k *KeyringStore) Exists(platform profile.Platform) bool {
	if !platform.Valid() {
		return false
	}
	_, err := keyring.Get(keyringService, keyringKey(platform))
	return err == nil
}
