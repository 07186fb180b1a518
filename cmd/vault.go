package cmd

import (
	"fmt"
	"os"

	"github.com/passkeep/passkeep/internal/breach"
)

// Vaults lists the names of all vault entries for an account.
func Vaults(username string) {
	engine, _, cleanup := OpenEngine()
	defer cleanup()

	session := Login(engine, username)
	names := session.Vaults().Names()
	if len(names) == 0 {
		fmt.Println("No vaults")
		return
	}
	for _, name := range names {
		fmt.Println(name)
	}
}

// VaultGet prints the description and password of one vault entry.
func VaultGet(username, name string) {
	engine, _, cleanup := OpenEngine()
	defer cleanup()

	session := Login(engine, username)
	description, password, err := session.Vaults().Data(name)
	if err != nil {
		Fail(err)
	}
	fmt.Printf("Description: %s\n", description)
	fmt.Printf("Password: %s\n", password)
}

// VaultAdd creates a vault entry, prompting for its description and
// password. A password found in the breach corpus produces a warning but
// is stored anyway; the choice is the user's for third-party credentials.
func VaultAdd(username, name string) {
	engine, leaked, cleanup := OpenEngine()
	defer cleanup()

	session := Login(engine, username)
	description := ReadLine("Description: ")
	password := ReadPassword("Vault Password: ")
	warnIfLeaked(leaked, password)
	if err := session.Vaults().Add(name, description, password); err != nil {
		Fail(err)
	}
	fmt.Printf("Added vault %q\n", name)
}

// VaultDelete removes a vault entry after a typed confirmation.
func VaultDelete(username, name string) {
	engine, _, cleanup := OpenEngine()
	defer cleanup()

	session := Login(engine, username)
	Confirm(fmt.Sprintf("deleting vault %q", name))
	if err := session.Vaults().Delete(name); err != nil {
		Fail(err)
	}
	fmt.Printf("Deleted vault %q\n", name)
}

// VaultEditName renames a vault entry.
func VaultEditName(username, name string) {
	engine, _, cleanup := OpenEngine()
	defer cleanup()

	session := Login(engine, username)
	newName := ReadLine("New Name: ")
	if err := session.Vaults().EditName(name, newName); err != nil {
		Fail(err)
	}
	fmt.Printf("Renamed vault to %q\n", newName)
}

// VaultEditDescription replaces the description of a vault entry.
func VaultEditDescription(username, name string) {
	engine, _, cleanup := OpenEngine()
	defer cleanup()

	session := Login(engine, username)
	description := ReadLine("New Description: ")
	if err := session.Vaults().EditDescription(name, description); err != nil {
		Fail(err)
	}
	fmt.Println("Description updated")
}

// VaultEditPassword replaces the password of a vault entry.
func VaultEditPassword(username, name string) {
	engine, leaked, cleanup := OpenEngine()
	defer cleanup()

	session := Login(engine, username)
	password := ReadPassword("New Vault Password: ")
	warnIfLeaked(leaked, password)
	if err := session.Vaults().EditPassword(name, password); err != nil {
		Fail(err)
	}
	fmt.Println("Password updated")
}

func warnIfLeaked(leaked *breach.DB, password string) {
	found, err := leaked.IsLeaked(password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: breach check unavailable: %s\n", err)
		return
	}
	if found {
		fmt.Fprintln(os.Stderr, "Warning: this password appears in a public data leak")
	}
}
