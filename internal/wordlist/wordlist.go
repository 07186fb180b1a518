// Package wordlist keeps the diceware dictionary in a bbolt database: one
// bucket maps words to their index for membership tests, the other maps
// indexes back to words so a uniform random word can be drawn.
package wordlist

import (
	"bufio"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"

	bolt "go.etcd.io/bbolt"
)

var (
	wordsBucket = []byte("words") // word -> index
	indexBucket = []byte("index") // big-endian uint64 index -> word
)

var ErrEmpty = errors.New("wordlist is empty")

// DB is the diceware dictionary.
type DB struct {
	db *bolt.DB
}

// Open opens or creates the wordlist database.
func Open(path string) (*DB, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open wordlist database: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{wordsBucket, indexBucket} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create buckets: %w", err)
	}
	return &DB{db: db}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// IsWord reports whether token is in the dictionary.
func (d *DB) IsWord(token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	var found bool
	err := d.db.View(func(tx *bolt.Tx) error {
		found = tx.Bucket(wordsBucket).Get([]byte(token)) != nil
		return nil
	})
	return found, err
}

// Count returns the number of words in the dictionary.
func (d *DB) Count() (int, error) {
	var count int
	err := d.db.View(func(tx *bolt.Tx) error {
		count = tx.Bucket(indexBucket).Stats().KeyN
		return nil
	})
	return count, err
}

// RandomWord draws a uniformly random dictionary word using a
// cryptographically secure source.
func (d *DB) RandomWord() (string, error) {
	count, err := d.Count()
	if err != nil {
		return "", err
	}
	if count == 0 {
		return "", ErrEmpty
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(count)))
	if err != nil {
		return "", fmt.Errorf("failed to draw random index: %w", err)
	}

	var word string
	err = d.db.View(func(tx *bolt.Tx) error {
		value := tx.Bucket(indexBucket).Get(indexKey(n.Uint64() + 1))
		if value == nil {
			return fmt.Errorf("index %d missing from wordlist", n.Uint64()+1)
		}
		word = string(value)
		return nil
	})
	return word, err
}

// Import consumes the EFF wordlist format, "NNNNN<tab>word" per line,
// stripping any dashes from the word. Returns the number of words stored.
func (d *DB) Import(r io.Reader) (int, error) {
	added := 0
	scanner := bufio.NewScanner(r)
	err := d.db.Update(func(tx *bolt.Tx) error {
		words := tx.Bucket(wordsBucket)
		index := tx.Bucket(indexBucket)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			_, word, ok := strings.Cut(line, "\t")
			if !ok {
				return fmt.Errorf("malformed line %q", line)
			}
			word = strings.ReplaceAll(strings.TrimSpace(word), "-", "")
			if word == "" {
				continue
			}
			id, err := index.NextSequence()
			if err != nil {
				return err
			}
			if err := words.Put([]byte(word), indexKey(id)); err != nil {
				return err
			}
			if err := index.Put(indexKey(id), []byte(word)); err != nil {
				return err
			}
			added++
		}
		return scanner.Err()
	})
	return added, err
}

func indexKey(id uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, id)
	return key
}
