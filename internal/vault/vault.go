package vault

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/passkeep/passkeep/internal/keys"
)

var (
	ErrNotFound      = errors.New("vault does not exist for this user")
	ErrAlreadyExists = errors.New("vault already exists for this user")
)

// DB is the slice of the persistence layer the vault store needs.
type DB interface {
	QueryAll(stmt string, args ...any) ([][]string, error)
	Execute(stmt string, args ...any) (int64, error)
}

// Execer runs writes, possibly inside a caller-owned transaction.
type Execer interface {
	Execute(stmt string, args ...any) (int64, error)
}

type record struct {
	id          int64
	iv          []byte
	description string
	password    string
}

// Store is the decrypted view of one user's vault records.
type Store struct {
	username string
	db       DB
	block    cipher.Block
	records  map[string]*record
}

// New decrypts every vault record owned by username under cryptKey and
// builds the session cache. Fails if any record does not decode, which
// usually means the key is wrong for the data.
func New(username string, db DB, cryptKey string) (*Store, error) {
	keyBytes, err := keys.Decode(cryptKey)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(keyBytes)
	keys.ClearBytes(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	s := &Store{
		username: username,
		db:       db,
		block:    block,
		records:  make(map[string]*record),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	rows, err := s.db.QueryAll(
		"SELECT id, iv, name, description, password FROM vault WHERE username = ?", s.username)
	if err != nil {
		return err
	}
	for _, row := range rows {
		id, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			return fmt.Errorf("malformed vault id %q: %w", row[0], err)
		}
		iv, err := keys.Decode(row[1])
		if err != nil {
			return err
		}
		name, description, password, err := s.decryptFields(iv, row[2], row[3], row[4])
		if err != nil {
			return err
		}
		s.records[name] = &record{id: id, iv: iv, description: description, password: password}
	}
	return nil
}

// Names returns the sorted vault names of this user.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.records))
	for name := range s.records {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Data returns the description and password of a vault.
func (s *Store) Data(name string) (description, password string, err error) {
	rec, ok := s.records[name]
	if !ok {
		return "", "", ErrNotFound
	}
	return rec.description, rec.password, nil
}

// Add encrypts a new record under a fresh random IV, persists it, and
// inserts it into the cache.
func (s *Store) Add(name, description, password string) error {
	if _, ok := s.records[name]; ok {
		return ErrAlreadyExists
	}
	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return fmt.Errorf("failed to generate iv: %w", err)
	}
	encName, encDescription, encPassword := s.encryptFields(s.block, iv, name, description, password)
	now := time.Now().UTC().Format(time.RFC3339)
	id, err := s.db.Execute(
		"INSERT INTO vault (iv, username, name, description, password, created, modified) VALUES (?, ?, ?, ?, ?, ?, ?)",
		keys.Encode(iv), s.username, encName, encDescription, encPassword, now, now)
	if err != nil {
		return err
	}
	s.records[name] = &record{id: id, iv: iv, description: description, password: password}
	return nil
}

// Delete removes a record from the store and the cache.
func (s *Store) Delete(name string) error {
	rec, ok := s.records[name]
	if !ok {
		return ErrNotFound
	}
	if _, err := s.db.Execute("DELETE FROM vault WHERE id = ?", rec.id); err != nil {
		return err
	}
	delete(s.records, name)
	return nil
}

// EditName renames a record, re-encrypting under its stored IV.
func (s *Store) EditName(name, newName string) error {
	rec, ok := s.records[name]
	if !ok {
		return ErrNotFound
	}
	if _, ok := s.records[newName]; ok {
		return ErrAlreadyExists
	}
	if err := s.update(s.db, s.block, rec, newName, rec.description, rec.password); err != nil {
		return err
	}
	delete(s.records, name)
	s.records[newName] = rec
	return nil
}

// EditDescription replaces a record's description, re-encrypting under its
// stored IV.
func (s *Store) EditDescription(name, newDescription string) error {
	rec, ok := s.records[name]
	if !ok {
		return ErrNotFound
	}
	if err := s.update(s.db, s.block, rec, name, newDescription, rec.password); err != nil {
		return err
	}
	rec.description = newDescription
	return nil
}

// EditPassword replaces a record's password, re-encrypting under its
// stored IV.
func (s *Store) EditPassword(name, newPassword string) error {
	rec, ok := s.records[name]
	if !ok {
		return ErrNotFound
	}
	if err := s.update(s.db, s.block, rec, name, rec.description, newPassword); err != nil {
		return err
	}
	rec.password = newPassword
	return nil
}

// RotateKey re-encrypts every cached record under newCryptKey, keeping each
// record's existing IV, writing through exec so the caller can make the
// sweep transactional. The store only switches to the new key after every
// write succeeded; on error the caller is expected to roll back.
func (s *Store) RotateKey(exec Execer, newCryptKey string) error {
	keyBytes, err := keys.Decode(newCryptKey)
	if err != nil {
		return err
	}
	block, err := aes.NewCipher(keyBytes)
	keys.ClearBytes(keyBytes)
	if err != nil {
		return fmt.Errorf("failed to create cipher: %w", err)
	}
	for name, rec := range s.records {
		if err := s.update(exec, block, rec, name, rec.description, rec.password); err != nil {
			return err
		}
	}
	s.block = block
	return nil
}

// UpdateUsername rewrites the owner column of every record. Ciphertext is
// untouched since key material is not a function of the username.
func (s *Store) UpdateUsername(newUsername string) error {
	if _, err := s.db.Execute(
		"UPDATE vault SET username = ? WHERE username = ?", newUsername, s.username); err != nil {
		return err
	}
	s.username = newUsername
	return nil
}

func (s *Store) update(exec Execer, block cipher.Block, rec *record, name, description, password string) error {
	encName, encDescription, encPassword := s.encryptFields(block, rec.iv, name, description, password)
	_, err := exec.Execute(
		"UPDATE vault SET name = ?, description = ?, password = ? WHERE id = ?",
		encName, encDescription, encPassword, rec.id)
	return err
}

// encryptFields encrypts the three fields as one CBC stream in fixed order.
func (s *Store) encryptFields(block cipher.Block, iv []byte, name, description, password string) (encName, encDescription, encPassword string) {
	enc := cipher.NewCBCEncrypter(block, iv)
	encName = sealField(enc, name)
	encDescription = sealField(enc, description)
	encPassword = sealField(enc, password)
	return encName, encDescription, encPassword
}

// decryptFields mirrors encryptFields: same order, same chaining.
func (s *Store) decryptFields(iv []byte, encName, encDescription, encPassword string) (name, description, password string, err error) {
	dec := cipher.NewCBCDecrypter(s.block, iv)
	if name, err = openField(dec, encName); err != nil {
		return "", "", "", err
	}
	if description, err = openField(dec, encDescription); err != nil {
		return "", "", "", err
	}
	if password, err = openField(dec, encPassword); err != nil {
		return "", "", "", err
	}
	return name, description, password, nil
}

func sealField(enc cipher.BlockMode, plaintext string) string {
	padded := zeroPad([]byte(plaintext))
	enc.CryptBlocks(padded, padded)
	return keys.Encode(padded)
}

func openField(dec cipher.BlockMode, ciphertext string) (string, error) {
	data, err := keys.Decode(ciphertext)
	if err != nil {
		return "", err
	}
	if len(data) == 0 || len(data)%aes.BlockSize != 0 {
		return "", fmt.Errorf("ciphertext length %d is not a block multiple", len(data))
	}
	dec.CryptBlocks(data, data)
	return string(bytes.TrimRight(data, "\x00")), nil
}

// zeroPad pads with NUL to the next block boundary, always adding at least
// one byte.
func zeroPad(b []byte) []byte {
	pad := aes.BlockSize - len(b)%aes.BlockSize
	return append(b, make([]byte, pad)...)
}
