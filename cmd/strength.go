package cmd

import (
	"fmt"

	"github.com/passkeep/passkeep/internal/strength"
)

// Strength reads a candidate password without echo, classifies it and
// prints its entropy with a rating.
func Strength() {
	list, cleanup := OpenWordlist()
	defer cleanup()

	password := ReadPassword("Password to rate: ")
	estimate, err := strength.Classify(password, list)
	if err != nil {
		Fail(err)
	}

	if estimate.Diceware {
		fmt.Printf("Looks like a diceware passphrase of %d words\n", estimate.WordCount)
	}
	fmt.Printf("Entropy: %.1f bits\n", estimate.Entropy)
	fmt.Printf("Rating: %s\n", rating(estimate.Entropy))
}

func rating(entropy float64) string {
	switch {
	case entropy < 25:
		return "very weak"
	case entropy < 50:
		return "weak"
	case entropy < 75:
		return "reasonable"
	case entropy < 100:
		return "strong"
	default:
		return "very strong"
	}
}
