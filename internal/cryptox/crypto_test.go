package cryptox

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveKey_Deterministic(t *testing.T) {
	password := []byte("secret-password")
	salt := []byte("fixed-salt")

	key1 := DeriveKey(password, salt)
	key2 := DeriveKey(password, salt)

	require.Len(t, key1, keySize)
	require.True(t, bytes.Equal(key1, key2), "same inputs must give the same key")
}

func TestDeriveKey_DifferentSalts(t *testing.T) {
	password := []byte("secret-password")
	require.NotEqual(t, DeriveKey(password, []byte("salt-1")), DeriveKey(password, []byte("salt-2")))
}

func TestHashPassword_VerifyRoundTrip(t *testing.T) {
	v := HashPassword("pw")

	require.True(t, IsVerifier(v))
	require.True(t, VerifyPassword(v, "pw"))
	require.False(t, VerifyPassword(v, "PW"), "match is case-sensitive")
	require.False(t, VerifyPassword(v, ""))
}

func TestHashPassword_FreshSaltEachTime(t *testing.T) {
	require.NotEqual(t, HashPassword("pw"), HashPassword("pw"))
}

func TestVerifyPassword_MalformedVerifier(t *testing.T) {
	tests := []string{
		"",
		"pw",
		"bcrypt$00$00",
		"argon2id$zz$00",
		"argon2id$00$zz",
		"argon2id$00$00",
	}
	for _, v := range tests {
		require.False(t, VerifyPassword(v, "pw"), "verifier %q", v)
	}
}

func TestIsVerifier(t *testing.T) {
	require.False(t, IsVerifier("plaintext"))
	require.False(t, IsVerifier("argon2id$$"))
	require.True(t, IsVerifier("argon2id$ab$cd"))
}
