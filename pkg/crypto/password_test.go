package crypto

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCheckPassword(t *testing.T) {
	Cost = bcrypt.MinCost
	t.Cleanup(func() { Cost = DefaultCost })

	hash, err := HashPassword("Password123!")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotContains(t, hash, "Password123!")

	assert.True(t, CheckPassword("Password123!", hash))
	assert.False(t, CheckPassword("WrongPass", hash))
}

func TestGenerateRandomToken(t *testing.T) {
	token, err := GenerateRandomToken(16)
	require.NoError(t, err)
	assert.Len(t, token, 32)
}

func TestGenerateReferralCode(t *testing.T) {
	code, err := GenerateReferralCode(8)
	require.NoError(t, err)
	assert.Len(t, code, 8)
	for _, r := range code {
		assert.True(t, strings.ContainsRune(referralAlphabet, r), "unexpected rune %q", r)
	}
}

func TestSecureCompareAndHMAC(t *testing.T) {
	assert.True(t, SecureCompare("secret", "secret"))
	assert.False(t, SecureCompare("secret", "secreT"))
	assert.False(t, SecureCompare("secret", ""))

	sig := HMACSHA512Hex("key", []byte(`{"a":1}`))
	assert.Len(t, sig, 128)
	assert.Equal(t, sig, HMACSHA512Hex("key", []byte(`{"a":1}`)))
	assert.NotEqual(t, sig, HMACSHA512Hex("other", []byte(`{"a":1}`)))
}

func TestHashPasswordAndRandom_ErrorBranches(t *testing.T) {
	origBcrypt := bcryptGenerateFromPassword
	origRandRead := randomRead
	t.Cleanup(func() {
		bcryptGenerateFromPassword = origBcrypt
		randomRead = origRandRead
	})

	bcryptGenerateFromPassword = func([]byte, int) ([]byte, error) {
		return nil, errors.New("bcrypt failed")
	}
	_, err := HashPassword("Password123!")
	assert.Error(t, err)

	randomRead = func([]byte) (int, error) {
		return 0, errors.New("rand failed")
	}
	_, err = GenerateRandomToken(16)
	assert.Error(t, err)
	_, err = GenerateReferralCode(8)
	assert.Error(t, err)
}
