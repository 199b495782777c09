// internal/utils/random.go
package utils

import (
	"crypto/rand"
	"math/big"
)

const passwordCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomPassword generates a random alphanumeric replacement password
// for the forgot-password flow.
func RandomPassword(length int) string {
	b := make([]byte, length)
	for i := range b {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(passwordCharset))))
		if err != nil {
			panic(err)
		}
		b[i] = passwordCharset[num.Int64()]
	}
	return string(b)
}
