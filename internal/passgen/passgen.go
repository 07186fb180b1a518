// Package passgen generates random passwords and diceware passphrases.
package passgen

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

const (
	MaxPasswordLength = 250
	MaxDicewareWords  = 12
)

const (
	lowercase   = "abcdefghijklmnopqrstuvwxyz"
	uppercase   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits      = "0123456789"
	punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"
)

var (
	ErrLengthNotPositive = errors.New("length must be a positive integer")
	ErrLengthTooLong     = fmt.Errorf("max password length is %d characters", MaxPasswordLength)
	ErrEmptyCharacterSet = errors.New("no characters in permitted set")
	ErrWordsNotPositive  = errors.New("words must be a positive integer")
	ErrTooManyWords      = fmt.Errorf("max words length is %d words", MaxDicewareWords)
	ErrBadSeparator      = errors.New("separator is not a special character")
)

// Charsets selects which character categories a random password draws from.
type Charsets struct {
	Lower       bool
	Upper       bool
	Digits      bool
	Punctuation bool
}

// AllCharsets enables every category.
func AllCharsets() Charsets {
	return Charsets{Lower: true, Upper: true, Digits: true, Punctuation: true}
}

// Random generates a password of the given length with each character drawn
// uniformly from the permitted set.
func Random(sets Charsets, length int) (string, error) {
	if length <= 0 {
		return "", ErrLengthNotPositive
	}
	if length > MaxPasswordLength {
		return "", ErrLengthTooLong
	}
	var characters string
	if sets.Punctuation {
		characters += punctuation
	}
	if sets.Digits {
		characters += digits
	}
	if sets.Upper {
		characters += uppercase
	}
	if sets.Lower {
		characters += lowercase
	}
	if characters == "" {
		return "", ErrEmptyCharacterSet
	}

	var password strings.Builder
	for i := 0; i < length; i++ {
		index, err := rand.Int(rand.Reader, big.NewInt(int64(len(characters))))
		if err != nil {
			return "", fmt.Errorf("failed to draw random character: %w", err)
		}
		password.WriteByte(characters[index.Int64()])
	}
	return password.String(), nil
}

// WordSource supplies random dictionary words.
type WordSource interface {
	RandomWord() (string, error)
}

// Diceware joins random dictionary words with a single punctuation
// separator.
func Diceware(source WordSource, words int, separator string) (string, error) {
	if words <= 0 {
		return "", ErrWordsNotPositive
	}
	if words > MaxDicewareWords {
		return "", ErrTooManyWords
	}
	if len(separator) != 1 || !strings.Contains(punctuation, separator) {
		return "", ErrBadSeparator
	}

	parts := make([]string, 0, words)
	for i := 0; i < words; i++ {
		word, err := source.RandomWord()
		if err != nil {
			return "", err
		}
		parts = append(parts, word)
	}
	return strings.Join(parts, separator), nil
}
