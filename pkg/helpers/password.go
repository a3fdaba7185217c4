package helpers

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

const (
	pbkdf2Iterations = 100000
	pbkdf2KeyLen     = 64
	pbkdf2SaltLen    = 32
)

// HashPassword derives a PBKDF2-SHA512 key from plain with a fresh random
// salt and returns it as "saltHex:keyHex".
func HashPassword(plain string) (string, error) {
	salt := make([]byte, pbkdf2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	saltHex := hex.EncodeToString(salt)
	return saltHex + ":" + deriveKeyHex(plain, saltHex), nil
}

// DummyPasswordHash is a well-formed PBKDF2 hash no password derives to.
// Comparing against it costs as much as checking a real account.
var DummyPasswordHash = strings.Repeat("0", 2*pbkdf2SaltLen) + ":" + strings.Repeat("0", 2*pbkdf2KeyLen)

// CompareHashAndPassword reports whether plain matches hash. Hashes issued
// by the old bcrypt scheme are still accepted.
func CompareHashAndPassword(hash string, plain string) bool {
	if isBcrypt(hash) {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
	}
	saltHex, keyHex, ok := strings.Cut(hash, ":")
	if !ok || saltHex == "" || keyHex == "" {
		return false
	}
	// the salt string itself is the PBKDF2 salt, not its decoded bytes
	got := deriveKeyHex(plain, saltHex)
	return subtle.ConstantTimeCompare([]byte(got), []byte(keyHex)) == 1
}

func deriveKeyHex(plain, salt string) string {
	key := pbkdf2.Key([]byte(plain), []byte(salt), pbkdf2Iterations, pbkdf2KeyLen, sha512.New)
	return hex.EncodeToString(key)
}

func isBcrypt(hash string) bool {
	return strings.HasPrefix(hash, "$2a$") || strings.HasPrefix(hash, "$2b$") || strings.HasPrefix(hash, "$2y$")
}
