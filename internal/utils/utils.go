package utils

import (
	"math/rand"
	"strings"
)

const digits = "0123456789"

// GeneratePin returns a random numeric PIN of the given length. Uniqueness
// against live games is the store's job, not ours.
func GeneratePin(length int) string {
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		b.WriteByte(digits[rand.Intn(len(digits))])
	}
	return b.String()
}

// IsNumericPin reports whether s is exactly length digits.
func IsNumericPin(s string, length int) bool {
	if len(s) != length {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
