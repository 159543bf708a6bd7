package authentication

// keystring.go keeps the user's TMDB API key in the OS keyring.
import (
	"errors"

	"github.com/zalando/go-keyring"
)

const (
	serviceName = "movierater-cli"
	tmdbKey     = "tmdb_api_key"
)

var ErrNoTMDBKey = errors.New("no TMDB API key stored")

func StoreTMDBKey(key string) error {
	if key == "" {
		return errors.New("TMDB API key must not be empty")
	}
	return keyring.Set(serviceName, tmdbKey, key)
}

// GetTMDBKey returns the stored key or ErrNoTMDBKey.
func GetTMDBKey() (string, error) {
	value, err := keyring.Get(serviceName, tmdbKey)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNoTMDBKey
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// DeleteTMDBKey removes the key. A missing key is not an error.
func DeleteTMDBKey() error {
	err := keyring.Delete(serviceName, tmdbKey)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
