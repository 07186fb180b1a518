package cmd

import (
	"fmt"

	"github.com/passkeep/passkeep/internal/passgen"
)

// Generate prints a random password drawn from the selected character
// categories.
func Generate(sets passgen.Charsets, length int) {
	password, err := passgen.Random(sets, length)
	if err != nil {
		Fail(err)
	}
	fmt.Println(password)
}

// Dice prints a diceware passphrase assembled from the local wordlist.
func Dice(words int, separator string) {
	list, cleanup := OpenWordlist()
	defer cleanup()

	passphrase, err := passgen.Diceware(list, words, separator)
	if err != nil {
		Fail(err)
	}
	fmt.Println(passphrase)
}
