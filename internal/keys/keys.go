package keys

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	SaltSize   = 32     // Salt size in bytes, also the secret key size
	KeySize    = 32     // Derived key size in bytes (AES-256)
	HashRounds = 250000 // PBKDF2 iterations
)

// alphabet is standard base64 with "+/" replaced by "./".
const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789./"

var encoding = base64.NewEncoding(alphabet).WithPadding(base64.NoPadding)

var ErrKeyLength = errors.New("keys are not the same length")

// Encode converts raw bytes to the project text encoding.
func Encode(b []byte) string {
	return encoding.EncodeToString(b)
}

// Decode converts a text-encoded value back to raw bytes.
func Decode(s string) ([]byte, error) {
	b, err := encoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("malformed key encoding: %w", err)
	}
	return b, nil
}

// Derive stretches a master password under an encoded salt and returns the
// encoded PBKDF2-HMAC-SHA256 hash. Deterministic for identical inputs.
func Derive(password, salt string) (string, error) {
	saltBytes, err := Decode(salt)
	if err != nil {
		return "", err
	}
	hash := pbkdf2.Key([]byte(password), saltBytes, HashRounds, KeySize, sha256.New)
	return Encode(hash), nil
}

// GenerateSalt returns a fresh encoded random salt.
func GenerateSalt() (string, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	return Encode(salt), nil
}

// GenerateSecret returns a fresh encoded random secret key. The secret key
// is stored in the OS keyring only, never in the database.
func GenerateSecret() (string, error) {
	secret := make([]byte, SaltSize)
	if _, err := rand.Read(secret); err != nil {
		return "", fmt.Errorf("failed to generate secret key: %w", err)
	}
	return Encode(secret), nil
}

// Combine XORs two encoded keys of equal length and re-encodes the result.
// Commutative and self-inverse: Combine(Combine(a, b), b) == a.
func Combine(a, b string) (string, error) {
	aBytes, err := Decode(a)
	if err != nil {
		return "", err
	}
	bBytes, err := Decode(b)
	if err != nil {
		return "", err
	}
	if len(aBytes) != len(bBytes) {
		return "", ErrKeyLength
	}
	combined := make([]byte, len(aBytes))
	for i := range aBytes {
		combined[i] = aBytes[i] ^ bBytes[i]
	}
	out := Encode(combined)
	ClearBytes(combined)
	return out, nil
}

// HashWithSalt recovers a derived key from its three inputs: the keyring
// secret, the master password, and the persisted salt. Used to verify the
// auth key at login and to recover the crypt key for the session.
func HashWithSalt(secretKey, password, salt string) (string, error) {
	hash, err := Derive(password, salt)
	if err != nil {
		return "", err
	}
	return Combine(secretKey, hash)
}

// GenerateHash derives a fresh (key, salt) pair for a password: a new random
// salt, the password stretched under it, XORed with the secret key.
func GenerateHash(secretKey, password string) (key, salt string, err error) {
	salt, err = GenerateSalt()
	if err != nil {
		return "", "", err
	}
	key, err = HashWithSalt(secretKey, password, salt)
	if err != nil {
		return "", "", err
	}
	return key, salt, nil
}

// ClearBytes zeroes a byte slice holding sensitive material.
func ClearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
