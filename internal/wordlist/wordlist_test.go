package wordlist

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

const effSample = "11111\tabacus\n11112\tabdomen\n11113\tabdominal\n11114\tabide\n11115\tabiding\n"

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "diceware.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func imported(t *testing.T) *DB {
	t.Helper()
	db := openTemp(t)
	added, err := db.Import(strings.NewReader(effSample))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if added != 5 {
		t.Fatalf("added = %d, want 5", added)
	}
	return db
}

func TestIsWord(t *testing.T) {
	db := imported(t)

	for word, want := range map[string]bool{
		"abacus":  true,
		"abiding": true,
		"zebra":   false,
		"":        false,
	} {
		ok, err := db.IsWord(word)
		if err != nil {
			t.Fatalf("IsWord failed: %v", err)
		}
		if ok != want {
			t.Errorf("IsWord(%q) = %v, want %v", word, ok, want)
		}
	}
}

func TestCount(t *testing.T) {
	db := imported(t)

	count, err := db.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 5 {
		t.Errorf("Count = %d, want 5", count)
	}
}

func TestRandomWordMembership(t *testing.T) {
	db := imported(t)

	for i := 0; i < 20; i++ {
		word, err := db.RandomWord()
		if err != nil {
			t.Fatalf("RandomWord failed: %v", err)
		}
		ok, err := db.IsWord(word)
		if err != nil {
			t.Fatalf("IsWord failed: %v", err)
		}
		if !ok {
			t.Fatalf("RandomWord returned %q, which is not in the list", word)
		}
	}
}

func TestRandomWordEmptyList(t *testing.T) {
	db := openTemp(t)

	if _, err := db.RandomWord(); !errors.Is(err, ErrEmpty) {
		t.Errorf("expected ErrEmpty, got %v", err)
	}
}

func TestImportStripsDashes(t *testing.T) {
	db := openTemp(t)

	if _, err := db.Import(strings.NewReader("21111\tre-entry\n")); err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	ok, err := db.IsWord("reentry")
	if err != nil {
		t.Fatalf("IsWord failed: %v", err)
	}
	if !ok {
		t.Error("dashes must be stripped on import")
	}
}

func TestImportMalformedLine(t *testing.T) {
	db := openTemp(t)

	if _, err := db.Import(strings.NewReader("word-without-index\n")); err == nil {
		t.Error("expected error for malformed input")
	}
}
