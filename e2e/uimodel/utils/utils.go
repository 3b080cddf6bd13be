package utils

import (
	"math/rand"
)

// Alphabet lists the characters of generated strings
const Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*()"

// RandomString returns n characters drawn uniformly from Alphabet
func RandomString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = Alphabet[rand.Intn(len(Alphabet))]
	}
	return string(b)
}
