// Package account owns the signup, login and account-maintenance workflows.
// A successful login yields a Session, the sole holder of that login's
// derived crypt key; there is no process-wide account state.
package account

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/passkeep/passkeep/internal/keys"
	"github.com/passkeep/passkeep/internal/store"
	"github.com/passkeep/passkeep/internal/vault"
)

const (
	UsernameMaxLength = 40
	PasswordMinLength = 8
)

var (
	// ErrInvalidCredentials deliberately does not say which of the two was
	// wrong, to avoid username enumeration.
	ErrInvalidCredentials = errors.New("username or password incorrect")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrPasswordLeaked     = errors.New("password is present in a public data leak")

	ErrUsernameEmpty      = errors.New("username must be filled in")
	ErrUsernameTooLong    = fmt.Errorf("username must be at most %d characters", UsernameMaxLength)
	ErrUsernameSame       = errors.New("this username is the same as the current username")
	ErrPasswordMismatch   = errors.New("password does not match confirmation")
	ErrPasswordTooShort   = fmt.Errorf("password must be at least %d characters", PasswordMinLength)
	ErrPasswordIsUsername = errors.New("password must not equal username")
)

// SecretHolder is the OS-level secret storage for per-account secret keys.
// Get reports ok=false for a missing entry; err is reserved for holder
// unavailability.
type SecretHolder interface {
	Get(username string) (secret string, ok bool, err error)
	Set(username, secret string) error
	Delete(username string) error
}

// BreachChecker tests membership in a corpus of leaked passwords.
type BreachChecker interface {
	IsLeaked(password string) (bool, error)
}

// Engine wires the store, the secret holder and the breach checker together.
type Engine struct {
	db      *store.DB
	secrets SecretHolder
	breach  BreachChecker
}

// NewEngine returns an account engine over the given collaborators.
func NewEngine(db *store.DB, secrets SecretHolder, breach BreachChecker) *Engine {
	return &Engine{db: db, secrets: secrets, breach: breach}
}

// normalize puts a master password into NFKD form before any derivation so
// that visually identical inputs from different keyboards derive the same
// key material.
func normalize(password string) string {
	return norm.NFKD.String(password)
}

func validateUsername(username, current string) error {
	if current != "" && username == current {
		return ErrUsernameSame
	}
	if username == "" {
		return ErrUsernameEmpty
	}
	if utf8.RuneCountInString(username) > UsernameMaxLength {
		return ErrUsernameTooLong
	}
	return nil
}

func (e *Engine) validatePassword(password, confirm, username string) error {
	if password != confirm {
		return ErrPasswordMismatch
	}
	if utf8.RuneCountInString(password) < PasswordMinLength {
		return ErrPasswordTooShort
	}
	if username != "" && password == username {
		return ErrPasswordIsUsername
	}
	leaked, err := e.breach.IsLeaked(password)
	if err != nil {
		return fmt.Errorf("breach check unavailable: %w", err)
	}
	if leaked {
		return ErrPasswordLeaked
	}
	return nil
}

func (e *Engine) usernameTaken(username string) (bool, error) {
	row, err := e.db.Query("SELECT username FROM account WHERE username = ?", username)
	if err != nil {
		return false, err
	}
	return row != nil, nil
}

// Signup creates the account row and its keyring entry together. No session
// is established.
func (e *Engine) Signup(username, password, confirm string) error {
	if err := validateUsername(username, ""); err != nil {
		return err
	}
	if err := e.validatePassword(password, confirm, username); err != nil {
		return err
	}
	taken, err := e.usernameTaken(username)
	if err != nil {
		return err
	}
	if taken {
		return ErrUsernameTaken
	}

	secret, err := keys.GenerateSecret()
	if err != nil {
		return err
	}
	master := normalize(password)
	authKey, authSalt, err := keys.GenerateHash(secret, master)
	if err != nil {
		return err
	}
	_, cryptSalt, err := keys.GenerateHash(secret, master)
	if err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = e.db.Execute(
		"INSERT INTO account (username, auth_key, auth_salt, crypt_salt, created, modified) VALUES (?, ?, ?, ?, ?, ?)",
		username, authKey, authSalt, cryptSalt, now, now)
	if err != nil {
		return err
	}
	if err := e.secrets.Set(username, secret); err != nil {
		// Without the keyring half the row is unusable; take it back out.
		_, _ = e.db.Execute("DELETE FROM account WHERE username = ?", username)
		return fmt.Errorf("failed to store secret key: %w", err)
	}
	return nil
}

// Session is one authenticated login. It owns the derived crypt key and the
// vault store built from it; neither is shared across sessions.
type Session struct {
	engine   *Engine
	username string
	secret   string
	vaults   *vault.Store
}

// Login verifies the password against the stored auth key and, on success,
// recovers the crypt key and eagerly loads the vault store.
func (e *Engine) Login(username, password string) (*Session, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	row, err := e.db.Query(
		"SELECT auth_key, auth_salt, crypt_salt FROM account WHERE username = ?", username)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, ErrInvalidCredentials
	}
	storedAuthKey, authSalt, cryptSalt := row[0], row[1], row[2]

	secret, ok, err := e.secrets.Get(username)
	if err != nil {
		return nil, fmt.Errorf("secret holder unavailable: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	master := normalize(password)
	authKey, err := keys.HashWithSalt(secret, master, authSalt)
	if err != nil {
		return nil, err
	}
	if subtle.ConstantTimeCompare([]byte(authKey), []byte(storedAuthKey)) != 1 {
		return nil, ErrInvalidCredentials
	}

	cryptKey, err := keys.HashWithSalt(secret, master, cryptSalt)
	if err != nil {
		return nil, err
	}
	vaults, err := vault.New(username, e.db, cryptKey)
	if err != nil {
		return nil, err
	}
	return &Session{engine: e, username: username, secret: secret, vaults: vaults}, nil
}

// Username returns the account name this session is bound to.
func (s *Session) Username() string {
	return s.username
}

// Vaults exposes the session's vault store.
func (s *Session) Vaults() *vault.Store {
	return s.vaults
}

// EditUsername renames the account, relocates the keyring entry and rewrites
// the owner column on this user's vault records. Key material does not
// depend on the username, so nothing is re-encrypted.
func (s *Session) EditUsername(newUsername string) error {
	if err := validateUsername(newUsername, s.username); err != nil {
		return err
	}
	taken, err := s.engine.usernameTaken(newUsername)
	if err != nil {
		return err
	}
	if taken {
		return ErrUsernameTaken
	}

	// Write the new keyring entry before touching the row so that a failure
	// here leaves the account fully intact under the old name.
	if err := s.engine.secrets.Set(newUsername, s.secret); err != nil {
		return fmt.Errorf("failed to relocate secret key: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.engine.db.Execute(
		"UPDATE account SET username = ?, modified = ? WHERE username = ?",
		newUsername, now, s.username)
	if err != nil {
		// The row still carries the old name; take the stray entry back out
		// so a keyring entry exists only for a matching account row.
		_ = s.engine.secrets.Delete(newUsername)
		return err
	}
	if err := s.vaults.UpdateUsername(newUsername); err != nil {
		return err
	}
	if err := s.engine.secrets.Delete(s.username); err != nil {
		return fmt.Errorf("failed to remove old secret key: %w", err)
	}
	s.username = newUsername
	return nil
}

// EditPassword regenerates both salts and both derived keys from the
// existing secret key, then re-encrypts every vault record under the fresh
// crypt key. The account-row update and the re-encryption sweep commit or
// roll back as one unit; a half-rotated vault set would be unrecoverable.
func (s *Session) EditPassword(password, confirm string) error {
	if err := s.engine.validatePassword(password, confirm, ""); err != nil {
		return err
	}
	master := normalize(password)
	authKey, authSalt, err := keys.GenerateHash(s.secret, master)
	if err != nil {
		return err
	}
	cryptKey, cryptSalt, err := keys.GenerateHash(s.secret, master)
	if err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	return s.engine.db.Transact(func(tx *store.Tx) error {
		_, err := tx.Execute(
			"UPDATE account SET auth_key = ?, auth_salt = ?, crypt_salt = ?, modified = ? WHERE username = ?",
			authKey, authSalt, cryptSalt, now, s.username)
		if err != nil {
			return err
		}
		return s.vaults.RotateKey(tx, cryptKey)
	})
}

// DeleteUser removes the account row and the keyring entry. Vault rows are
// left behind; without the account's key material they are undecryptable.
func (s *Session) DeleteUser() error {
	if _, err := s.engine.db.Execute(
		"DELETE FROM account WHERE username = ?", s.username); err != nil {
		return err
	}
	return s.engine.secrets.Delete(s.username)
}
