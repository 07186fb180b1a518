// Package breach answers "has this password appeared in a public data
// leak?" against a local corpus of SHA-1 digests. The corpus is imported
// from the haveibeenpwned password dump and kept in a bbolt database, so
// lookups never leave the machine.
package breach

import (
	"bufio"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	bolt "go.etcd.io/bbolt"
)

// MinOccurrences filters the import: hashes seen fewer times than this in
// the source dump are not worth the disk space.
const MinOccurrences = 100

var leakedBucket = []byte("leaked")

// DB is the leaked-password corpus.
type DB struct {
	db *bolt.DB
}

// Open opens or creates the corpus database.
func Open(path string) (*DB, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open breach database: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(leakedBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}
	return &DB{db: db}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

func digest(password string) []byte {
	sum := sha1.Sum([]byte(password))
	return []byte(strings.ToUpper(hex.EncodeToString(sum[:])))
}

// IsLeaked reports whether the password's digest is in the corpus.
func (d *DB) IsLeaked(password string) (bool, error) {
	var found bool
	err := d.db.View(func(tx *bolt.Tx) error {
		found = tx.Bucket(leakedBucket).Get(digest(password)) != nil
		return nil
	})
	return found, err
}

// Add inserts a single password into the corpus.
func (d *DB) Add(password string) error {
	return d.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(leakedBucket).Put(digest(password), []byte{})
	})
}

// Import consumes the haveibeenpwned dump format, one "HASH:COUNT" entry
// per line, skipping entries below MinOccurrences. Returns the number of
// digests stored.
func (d *DB) Import(r io.Reader) (int, error) {
	added := 0
	scanner := bufio.NewScanner(r)

	// Batch lines per transaction; one Update per digest would be painfully
	// slow on a multi-gigabyte dump.
	const batchSize = 50000
	batch := make([][]byte, 0, batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		err := d.db.Update(func(tx *bolt.Tx) error {
			bucket := tx.Bucket(leakedBucket)
			for _, hash := range batch {
				if err := bucket.Put(hash, []byte{}); err != nil {
					return err
				}
			}
			return nil
		})
		batch = batch[:0]
		return err
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		hash, count, ok := strings.Cut(line, ":")
		if !ok {
			return added, fmt.Errorf("malformed line %q", line)
		}
		occurrences, err := strconv.Atoi(strings.TrimSpace(count))
		if err != nil {
			return added, fmt.Errorf("malformed count in %q: %w", line, err)
		}
		if occurrences < MinOccurrences {
			continue
		}
		batch = append(batch, []byte(strings.ToUpper(hash)))
		added++
		if len(batch) == batchSize {
			if err := flush(); err != nil {
				return added, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return added, err
	}
	return added, flush()
}
