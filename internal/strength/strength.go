// Package strength estimates password entropy. A password is either
// diceware-style (dictionary words joined by one repeated punctuation
// delimiter) or treated as unstructured, and the entropy model differs
// accordingly.
package strength

import (
	"math"
	"strings"
)

// punctuation is the ASCII punctuation set; it decides both diceware
// delimiters and the unstructured punctuation category.
const punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

const (
	lowercaseSize   = 26
	uppercaseSize   = 26
	digitSize       = 10
	punctuationSize = len(punctuation)
)

// Dictionary is the wordlist membership collaborator.
type Dictionary interface {
	IsWord(word string) (bool, error)
	Count() (int, error)
}

// Estimate is the classification of one candidate password.
type Estimate struct {
	Diceware  bool
	WordCount int
	Entropy   float64
}

// Classify decides whether a password is diceware-style and computes its
// entropy in bits under the matching model.
func Classify(password string, dict Dictionary) (Estimate, error) {
	words, ok, err := dicewareWords(password, dict)
	if err != nil {
		return Estimate{}, err
	}
	if ok {
		size, err := dict.Count()
		if err != nil {
			return Estimate{}, err
		}
		return Estimate{
			Diceware:  true,
			WordCount: words,
			Entropy:   entropyDiceware(words, size),
		}, nil
	}
	return Estimate{Entropy: entropyRandom(password)}, nil
}

// dicewareWords reports the word count of a diceware-style password. More
// than one distinct punctuation character, or any segment missing from the
// dictionary, disqualifies it.
func dicewareWords(password string, dict Dictionary) (int, bool, error) {
	var delimiter rune
	for _, c := range password {
		if strings.ContainsRune(punctuation, c) {
			if delimiter != 0 && delimiter != c {
				return 0, false, nil
			}
			delimiter = c
		}
	}
	if delimiter == 0 {
		return 0, false, nil
	}
	words := strings.Split(password, string(delimiter))
	for _, word := range words {
		ok, err := dict.IsWord(word)
		if err != nil {
			return 0, false, err
		}
		if !ok {
			return 0, false, nil
		}
	}
	return len(words), true, nil
}

func entropyDiceware(wordCount, dictionarySize int) float64 {
	if dictionarySize == 0 {
		return 0
	}
	return float64(wordCount) * math.Log2(float64(dictionarySize))
}

// entropyRandom grows the effective alphabet by each character category the
// first time it appears: the four ASCII categories contribute their full
// alphabet size, anything else contributes 1 per distinct character.
func entropyRandom(password string) float64 {
	runes := []rune(password)
	if len(runes) == 0 {
		return 0
	}

	var sawLower, sawUpper, sawDigit, sawPunct bool
	seenOther := make(map[rune]bool)
	alphabet := 0
	for _, c := range runes {
		switch {
		case c >= 'a' && c <= 'z':
			if !sawLower {
				alphabet += lowercaseSize
				sawLower = true
			}
		case c >= 'A' && c <= 'Z':
			if !sawUpper {
				alphabet += uppercaseSize
				sawUpper = true
			}
		case c >= '0' && c <= '9':
			if !sawDigit {
				alphabet += digitSize
				sawDigit = true
			}
		case strings.ContainsRune(punctuation, c):
			if !sawPunct {
				alphabet += punctuationSize
				sawPunct = true
			}
		default:
			if !seenOther[c] {
				alphabet++
				seenOther[c] = true
			}
		}
	}
	return float64(len(runes)) * math.Log2(float64(alphabet))
}
