package cmd

import (
	"fmt"
	"os"

	"github.com/passkeep/passkeep/internal/strength"
)

// Signup creates a new account after prompting for a master password twice.
// A password that clears the engine's validation but rates below 50 bits of
// entropy still produces a warning.
func Signup(username string) {
	engine, _, cleanup := OpenEngine()
	defer cleanup()

	password := ReadPassword("User Password: ")
	confirm := ReadPassword("Repeat Password: ")
	if err := engine.Signup(username, password, confirm); err != nil {
		Fail(err)
	}
	fmt.Printf("Created account %q\n", username)
	warnIfWeak(password)
}

func warnIfWeak(password string) {
	list, cleanup := OpenWordlist()
	defer cleanup()

	estimate, err := strength.Classify(password, list)
	if err != nil {
		return
	}
	if estimate.Entropy < 50 {
		fmt.Fprintf(os.Stderr, "Warning: master password rates %s (%.1f bits); consider 'pk dice'\n",
			rating(estimate.Entropy), estimate.Entropy)
	}
}
