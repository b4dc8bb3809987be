// Package cryptox derives and checks the one-way password verifiers stored
// in account records.
package cryptox

import (
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"github.com/dmitrijs2005/gophticket/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	verifierScheme = "argon2id"
	saltSize       = 16
	keySize        = 32
)

// DeriveKey stretches password with salt using argon2id.
func DeriveKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, keySize)
}

// HashPassword returns "argon2id$<salt-hex>$<key-hex>" for password using a
// fresh random salt.
func HashPassword(password string) string {
	salt := common.GenerateRandByteArray(saltSize)
	return encodeVerifier(salt, DeriveKey([]byte(password), salt))
}

// VerifyPassword reports whether password produces the stored verifier.
// Malformed verifiers never match.
func VerifyPassword(verifier string, password string) bool {
	parts := strings.Split(verifier, "$")
	if len(parts) != 3 || parts[0] != verifierScheme {
		return false
	}
	salt, err := hex.DecodeString(parts[1])
	if err != nil {
		return false
	}
	want, err := hex.DecodeString(parts[2])
	if err != nil || len(want) != keySize {
		return false
	}

	pw := []byte(password)
	defer common.WipeByteArray(pw)

	got := DeriveKey(pw, salt)
	return subtle.ConstantTimeCompare(want, got) == 1
}

// IsVerifier reports whether s has the verifier shape produced by HashPassword.
func IsVerifier(s string) bool {
	parts := strings.Split(s, "$")
	return len(parts) == 3 && parts[0] == verifierScheme && parts[1] != "" && parts[2] != ""
}

func encodeVerifier(salt, key []byte) string {
	return verifierScheme + "$" + hex.EncodeToString(salt) + "$" + hex.EncodeToString(key)
}
