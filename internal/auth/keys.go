// Package auth provides password hashing and access token issuance/verification.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// PASETO v4 requires a 256-bit symmetric key.
	keyLength    = 32
	keyHexLength = 64

	// Environment variable carrying the hex-encoded signing key.
	keyEnvVar = "AUTH_TOKEN_KEY"
)

// LoadKey resolves the token signing key.
//
// In production the key must come from the AUTH_TOKEN_KEY environment
// variable; a missing or malformed value is a fatal startup error, never a
// silent insecure default. Outside production a key is generated once and
// persisted to <dataPath>/auth.key so development tokens survive restarts.
func LoadKey(dataPath string, production bool) ([]byte, error) {
	if keyHex := strings.TrimSpace(os.Getenv(keyEnvVar)); keyHex != "" {
		return decodeKeyHex(keyHex)
	}

	if production {
		return nil, fmt.Errorf("%s must be set in production (64 hex characters)", keyEnvVar)
	}

	return loadOrGenerateKeyFile(dataPath)
}

func decodeKeyHex(keyHex string) ([]byte, error) {
	if len(keyHex) != keyHexLength {
		return nil, fmt.Errorf("invalid auth key length: expected %d hex chars, got %d", keyHexLength, len(keyHex))
	}
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid auth key: not valid hex: %w", err)
	}
	return key, nil
}

// loadOrGenerateKeyFile reads <dataPath>/auth.key, generating and saving a
// fresh key when the file does not exist yet.
func loadOrGenerateKeyFile(dataPath string) ([]byte, error) {
	keyPath := filepath.Join(dataPath, "auth.key")

	//#nosec G304 -- key path is derived from the validated data path
	if keyBytes, err := os.ReadFile(keyPath); err == nil {
		return decodeKeyHex(strings.TrimSpace(string(keyBytes)))
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read auth key: %w", err)
	}

	key := make([]byte, keyLength)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate auth key: %w", err)
	}

	if err := os.MkdirAll(dataPath, 0o700); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	if err := os.WriteFile(keyPath, []byte(hex.EncodeToString(key)), 0o600); err != nil {
		return nil, fmt.Errorf("save auth key: %w", err)
	}

	return key, nil
}
