// Package cmd implements the pk subcommands: prompting, collaborator
// wiring, and user-facing error reporting. Core packages never print;
// everything the user sees comes from here.
package cmd

import (
	"bufio"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/passkeep/passkeep/internal/account"
	"github.com/passkeep/passkeep/internal/breach"
	"github.com/passkeep/passkeep/internal/keyring"
	"github.com/passkeep/passkeep/internal/store"
	"github.com/passkeep/passkeep/internal/wordlist"
)

const (
	storeFile    = "passkeep.db"
	breachFile   = "leaked.db"
	wordlistFile = "diceware.db"
)

var stdin = bufio.NewReader(os.Stdin)

// DataDir resolves where the databases live: $PASSKEEP_HOME if set,
// otherwise ~/.passkeep.
func DataDir() string {
	if dir := os.Getenv("PASSKEEP_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		Fail(fmt.Errorf("cannot resolve home directory: %w", err))
	}
	return filepath.Join(home, ".passkeep")
}

// Fail prints an error and exits.
func Fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	os.Exit(1)
}

func ensureDataDir() string {
	dir := DataDir()
	if err := os.MkdirAll(dir, 0700); err != nil {
		Fail(fmt.Errorf("cannot create data directory: %w", err))
	}
	return dir
}

// OpenEngine wires the account engine to its collaborators. The breach
// corpus is returned alongside because bbolt holds an exclusive file lock;
// commands that want a breach lookup must reuse this handle. The returned
// cleanup must be called before exit.
func OpenEngine() (*account.Engine, *breach.DB, func()) {
	dir := ensureDataDir()
	db, err := store.Open(filepath.Join(dir, storeFile))
	if err != nil {
		Fail(err)
	}
	leaked, err := breach.Open(filepath.Join(dir, breachFile))
	if err != nil {
		db.Close()
		Fail(err)
	}
	engine := account.NewEngine(db, keyring.New(), leaked)
	return engine, leaked, func() {
		leaked.Close()
		db.Close()
	}
}

// OpenWordlist opens the diceware dictionary.
func OpenWordlist() (*wordlist.DB, func()) {
	dir := ensureDataDir()
	words, err := wordlist.Open(filepath.Join(dir, wordlistFile))
	if err != nil {
		Fail(err)
	}
	return words, func() { words.Close() }
}

// OpenBreach opens the leaked-password corpus on its own, for commands
// that only need the breach check.
func OpenBreach() (*breach.DB, func()) {
	dir := ensureDataDir()
	leaked, err := breach.Open(filepath.Join(dir, breachFile))
	if err != nil {
		Fail(err)
	}
	return leaked, func() { leaked.Close() }
}

// ReadPassword reads a password from the terminal without echoing.
func ReadPassword(prompt string) string {
	fmt.Print(prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		Fail(fmt.Errorf("failed to read password: %w", err))
	}
	return string(password)
}

// ReadLine reads a single echoed line from the terminal.
func ReadLine(prompt string) string {
	fmt.Print(prompt)
	line, err := stdin.ReadString('\n')
	if err != nil {
		Fail(fmt.Errorf("failed to read input: %w", err))
	}
	return strings.TrimRight(line, "\r\n")
}

// Confirm requires the user to type back a random number before a
// destructive action proceeds.
func Confirm(action string) {
	number := 100 + rand.IntN(900)
	fmt.Printf("To confirm %s, enter the number %d\n", action, number)
	entered := ReadLine("Confirmation: ")
	if entered != fmt.Sprint(number) {
		Fail(fmt.Errorf("input does not match confirmation number"))
	}
}

// Login prompts for the master password and opens a session.
func Login(engine *account.Engine, username string) *account.Session {
	password := ReadPassword("User Password: ")
	session, err := engine.Login(username, password)
	if err != nil {
		Fail(err)
	}
	return session
}
