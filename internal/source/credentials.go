package source

import (
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

const tokenKey = "github-token"

// StoreToken saves a GitHub personal access token in the system keyring so
// private content sources can be cloned.
func StoreToken(token string) error {
	token = strings.TrimSpace(token)
	if err := validateTokenFormat(token); err != nil {
		return err
	}
	if err := keyring.Set(appName, tokenKey, token); err != nil {
		return fmt.Errorf("failed to store token in system keyring: %w", err)
	}
	return nil
}

// GetToken retrieves the stored GitHub token.
func GetToken() (string, error) {
	token, err := keyring.Get(appName, tokenKey)
	if err != nil {
		if err == keyring.ErrNotFound {
			return "", fmt.Errorf("no GitHub token stored")
		}
		return "", fmt.Errorf("failed to read token from system keyring: %w", err)
	}
	return token, nil
}

// DeleteToken removes the stored token. Deleting a token that was never
// stored is not an error.
func DeleteToken() error {
	err := keyring.Delete(appName, tokenKey)
	if err != nil && err != keyring.ErrNotFound {
		return fmt.Errorf("failed to delete token from system keyring: %w", err)
	}
	return nil
}

// HasToken reports whether a token is stored.
func HasToken() bool {
	_, err := keyring.Get(appName, tokenKey)
	return err == nil
}

// validateTokenFormat applies loose sanity checks to GitHub token shapes
// (classic ghp_ tokens and fine-grained github_pat_ tokens).
func validateTokenFormat(token string) error {
	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}
	if strings.ContainsAny(token, " \t\n") {
		return fmt.Errorf("token must not contain whitespace")
	}
	if !strings.HasPrefix(token, "ghp_") && !strings.HasPrefix(token, "github_pat_") {
		return fmt.Errorf("token does not look like a GitHub personal access token")
	}
	if len(token) < 20 {
		return fmt.Errorf("token is too short to be valid")
	}
	return nil
}
