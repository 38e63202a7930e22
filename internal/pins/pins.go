// Package pins generates the short public codes spectators use to follow a live match.
package pins

import (
	"errors"
	"math/rand/v2"
)

const DefaultLength = 6

var (
	ErrPinSpaceExhausted = errors.New("could not generate an unused pin")
	letterRunes          = []rune("abcdefghijklmnopqrstuvwxyz1234567890")
	maxAttempts          = 32
)

func GeneratePin(l int) string {
	b := make([]rune, l)
	for i := range b {
		b[i] = letterRunes[rand.IntN(len(letterRunes))]
	}
	return string(b)
}

// GenerateUnique returns a pin of length l for which taken reports false.
func GenerateUnique(l int, taken func(pin string) bool) (string, error) {
	for i := 0; i < maxAttempts; i++ {
		pin := GeneratePin(l)
		if !taken(pin) {
			return pin, nil
		}
	}
	return "", ErrPinSpaceExhausted
}

// Valid reports whether s could have been produced by GeneratePin.
func Valid(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		if !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}
