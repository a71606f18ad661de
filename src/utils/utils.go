package utils

import (
	"crypto/rand"
	"math/big"
	"os"
	"path/filepath"
	"runtime"
)

const tokenCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomString returns a random token of length n over [a-zA-Z0-9], suitable
// for API keys and note-service passwords.
func RandomString(n int) string {
	out := make([]byte, n)
	max := big.NewInt(int64(len(tokenCharset)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the platform source is broken
			panic(err)
		}
		out[i] = tokenCharset[idx.Int64()]
	}
	return string(out)
}

func FindProjectRoot() string {
	_, filename, _, _ := runtime.Caller(0)
	dir := filepath.Dir(filename)

	// Walk up the directory tree to find go.mod
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root without finding go.mod
			panic("Could not find project root (go.mod not found)")
		}
		dir = parent
	}
}
