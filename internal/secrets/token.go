package secrets

import (
	"errors"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// Service groups the app's secrets in the OS keychain.
	KeyringService = "impactjobs"
	ApifyAccount   = "apify"
	ApifyTokenEnv  = "APIFY_API_TOKEN"
)

var ErrNoToken = errors.New("apify token not found (set APIFY_API_TOKEN or run `impactjobs token set`)")

// GetApifyToken prefers the environment, then the keychain.
func GetApifyToken() (string, error) {
	if tok := strings.TrimSpace(os.Getenv(ApifyTokenEnv)); tok != "" {
		return tok, nil
	}
	tok, err := keyring.Get(KeyringService, ApifyAccount)
	if err == nil && strings.TrimSpace(tok) != "" {
		return strings.TrimSpace(tok), nil
	}
	return "", ErrNoToken
}

func SetApifyToken(token string) error {
	if strings.TrimSpace(token) == "" {
		return errors.New("token is empty")
	}
	return keyring.Set(KeyringService, ApifyAccount, strings.TrimSpace(token))
}

func DeleteApifyToken() error {
	err := keyring.Delete(KeyringService, ApifyAccount)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
