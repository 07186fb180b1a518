package cmd

import (
	"fmt"
	"os"
)

// ImportWords loads an EFF-format wordlist file into the diceware
// dictionary.
func ImportWords(path string) {
	list, cleanup := OpenWordlist()
	defer cleanup()

	file, err := os.Open(path)
	if err != nil {
		Fail(err)
	}
	defer file.Close()

	added, err := list.Import(file)
	if err != nil {
		Fail(err)
	}
	fmt.Printf("Imported %d words\n", added)
}

// ImportLeaks loads a hash:count breach dump into the leaked-password
// corpus. Entries below the occurrence floor are skipped.
func ImportLeaks(path string) {
	leaked, cleanup := OpenBreach()
	defer cleanup()

	file, err := os.Open(path)
	if err != nil {
		Fail(err)
	}
	defer file.Close()

	added, err := leaked.Import(file)
	if err != nil {
		Fail(err)
	}
	fmt.Printf("Imported %d leaked password hashes\n", added)
}
