package vault

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/passkeep/passkeep/internal/keys"
	"github.com/passkeep/passkeep/internal/store"
)

func testStore(t *testing.T) (*store.DB, string) {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "passkeep.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cryptKey, err := keys.GenerateSecret()
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	return db, cryptKey
}

func seeded(t *testing.T) (*Store, *store.DB, string) {
	t.Helper()
	db, cryptKey := testStore(t)
	vaults, err := New("alice", db, cryptKey)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if len(vaults.Names()) != 0 {
		t.Fatalf("new user must start with no vaults, got %v", vaults.Names())
	}
	if err := vaults.Add("bank", "my bank", "s3cret"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := vaults.Add("email", "personal email", "hunter2"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	return vaults, db, cryptKey
}

func TestAddAndGet(t *testing.T) {
	vaults, _, _ := seeded(t)

	description, password, err := vaults.Data("bank")
	if err != nil {
		t.Fatalf("Data failed: %v", err)
	}
	if description != "my bank" || password != "s3cret" {
		t.Errorf("Data = (%q, %q), want (%q, %q)", description, password, "my bank", "s3cret")
	}
}

func TestAddDuplicate(t *testing.T) {
	vaults, _, _ := seeded(t)

	if err := vaults.Add("bank", "other", "x"); !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestNamesSorted(t *testing.T) {
	vaults, _, _ := seeded(t)
	if err := vaults.Add("archive", "old stuff", "pw"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	names := vaults.Names()
	want := []string{"archive", "bank", "email"}
	if len(names) != len(want) {
		t.Fatalf("Names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestReloadFromStore(t *testing.T) {
	_, db, cryptKey := seeded(t)

	reloaded, err := New("alice", db, cryptKey)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	description, password, err := reloaded.Data("email")
	if err != nil {
		t.Fatalf("Data failed: %v", err)
	}
	if description != "personal email" || password != "hunter2" {
		t.Errorf("reloaded Data = (%q, %q)", description, password)
	}
}

func TestDelete(t *testing.T) {
	vaults, db, cryptKey := seeded(t)

	if err := vaults.Delete("bank"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, _, err := vaults.Data("bank"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := vaults.Delete("bank"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	reloaded, err := New("alice", db, cryptKey)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, _, err := reloaded.Data("bank"); !errors.Is(err, ErrNotFound) {
		t.Error("deleted vault must not survive a reload")
	}
}

func TestEditName(t *testing.T) {
	vaults, db, cryptKey := seeded(t)

	if err := vaults.EditName("bank", "credit-union"); err != nil {
		t.Fatalf("EditName failed: %v", err)
	}
	if _, _, err := vaults.Data("bank"); !errors.Is(err, ErrNotFound) {
		t.Error("old name must be gone")
	}
	description, password, err := vaults.Data("credit-union")
	if err != nil {
		t.Fatalf("Data failed: %v", err)
	}
	if description != "my bank" || password != "s3cret" {
		t.Errorf("renamed vault Data = (%q, %q)", description, password)
	}

	if err := vaults.EditName("email", "credit-union"); !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}

	reloaded, err := New("alice", db, cryptKey)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, _, err := reloaded.Data("credit-union"); err != nil {
		t.Errorf("rename must persist: %v", err)
	}
}

func TestEditDescriptionAndPassword(t *testing.T) {
	vaults, db, cryptKey := seeded(t)

	if err := vaults.EditDescription("bank", "the big bank"); err != nil {
		t.Fatalf("EditDescription failed: %v", err)
	}
	if err := vaults.EditPassword("bank", "n3w-s3cret"); err != nil {
		t.Fatalf("EditPassword failed: %v", err)
	}

	reloaded, err := New("alice", db, cryptKey)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	description, password, err := reloaded.Data("bank")
	if err != nil {
		t.Fatalf("Data failed: %v", err)
	}
	if description != "the big bank" || password != "n3w-s3cret" {
		t.Errorf("edited Data = (%q, %q)", description, password)
	}
}

func TestEditKeepsStoredIV(t *testing.T) {
	vaults, db, _ := seeded(t)

	before, err := db.Query("SELECT iv FROM vault WHERE username = ? ORDER BY id LIMIT 1", "alice")
	if err != nil || before == nil {
		t.Fatalf("iv query failed: %v %v", before, err)
	}
	if err := vaults.EditPassword("bank", "different"); err != nil {
		t.Fatalf("EditPassword failed: %v", err)
	}
	after, err := db.Query("SELECT iv FROM vault WHERE username = ? ORDER BY id LIMIT 1", "alice")
	if err != nil || after == nil {
		t.Fatalf("iv query failed: %v %v", after, err)
	}
	if before[0] != after[0] {
		t.Error("iv must stay fixed for the lifetime of a record")
	}
}

func TestRotateKey(t *testing.T) {
	vaults, db, oldKey := seeded(t)

	newKey, err := keys.GenerateSecret()
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	err = db.Transact(func(tx *store.Tx) error {
		return vaults.RotateKey(tx, newKey)
	})
	if err != nil {
		t.Fatalf("RotateKey failed: %v", err)
	}

	// Cache still serves plaintext, and the store reads back under the new key.
	description, password, err := vaults.Data("bank")
	if err != nil || description != "my bank" || password != "s3cret" {
		t.Errorf("post-rotation cache Data = (%q, %q, %v)", description, password, err)
	}
	reloaded, err := New("alice", db, newKey)
	if err != nil {
		t.Fatalf("New with rotated key failed: %v", err)
	}
	description, password, err = reloaded.Data("bank")
	if err != nil || description != "my bank" || password != "s3cret" {
		t.Errorf("post-rotation reload Data = (%q, %q, %v)", description, password, err)
	}

	// The old key no longer yields the records.
	stale, err := New("alice", db, oldKey)
	if err == nil {
		if _, _, err := stale.Data("bank"); err == nil {
			t.Error("old key must not decrypt rotated records")
		}
	}
}

type failingExec struct{}

func (failingExec) Execute(string, ...any) (int64, error) {
	return 0, errors.New("write refused")
}

func TestRotateKeyKeepsOldKeyOnFailure(t *testing.T) {
	vaults, db, oldKey := seeded(t)

	newKey, err := keys.GenerateSecret()
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	if err := vaults.RotateKey(failingExec{}, newKey); err == nil {
		t.Fatal("expected RotateKey to fail")
	}

	// The store must still be on the old key: a write after the failed
	// rotation has to stay readable under it.
	if err := vaults.EditDescription("bank", "still old key"); err != nil {
		t.Fatalf("EditDescription failed: %v", err)
	}
	reloaded, err := New("alice", db, oldKey)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	description, _, err := reloaded.Data("bank")
	if err != nil || description != "still old key" {
		t.Errorf("Data = (%q, %v), want old-key readable", description, err)
	}
}

func TestUpdateUsernameIdempotent(t *testing.T) {
	vaults, db, cryptKey := seeded(t)

	if err := vaults.UpdateUsername("alice2"); err != nil {
		t.Fatalf("UpdateUsername failed: %v", err)
	}
	if err := vaults.UpdateUsername("alice2"); err != nil {
		t.Fatalf("second UpdateUsername failed: %v", err)
	}

	reloaded, err := New("alice2", db, cryptKey)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	description, password, err := reloaded.Data("bank")
	if err != nil || description != "my bank" || password != "s3cret" {
		t.Errorf("Data after rename = (%q, %q, %v)", description, password, err)
	}

	orphaned, err := New("alice", db, cryptKey)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if len(orphaned.Names()) != 0 {
		t.Error("old username must own no records after rename")
	}
}

func TestEmptyAndBoundaryValues(t *testing.T) {
	vaults, db, cryptKey := seeded(t)

	// Empty description, block-length name, multi-block password.
	long := "0123456789abcdef0123456789abcdef plus change"
	if err := vaults.Add("0123456789abcdef", "", long); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	reloaded, err := New("alice", db, cryptKey)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	description, password, err := reloaded.Data("0123456789abcdef")
	if err != nil {
		t.Fatalf("Data failed: %v", err)
	}
	if description != "" || password != long {
		t.Errorf("Data = (%q, %q)", description, password)
	}
}
