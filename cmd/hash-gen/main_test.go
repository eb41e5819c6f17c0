package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"fxvault.backend/pkg/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureOutput(t *testing.T) *strings.Builder {
	t.Helper()
	var out strings.Builder
	orig := printfFn
	printfFn = func(format string, a ...interface{}) (int, error) {
		return fmt.Fprintf(&out, format, a...)
	}
	t.Cleanup(func() { printfFn = orig })
	return &out
}

func TestResolvePassword(t *testing.T) {
	_, err := resolvePassword(nil)
	assert.ErrorIs(t, err, errNoPassword)

	got, err := resolvePassword([]string{"abc"})
	require.NoError(t, err)
	assert.Equal(t, "abc", got)
}

func TestRun_PrintsHashAndKey(t *testing.T) {
	out := captureOutput(t)

	require.NoError(t, run([]string{"my-pass"}))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	hash := strings.TrimPrefix(lines[0], "Bcrypt Hash: ")
	assert.True(t, crypto.CheckPassword("my-pass", hash))

	key := strings.TrimPrefix(lines[1], "SESSION_ENCRYPTION_KEY=")
	assert.Len(t, key, sessionKeyBytes*2)
}

func TestRun_Errors(t *testing.T) {
	captureOutput(t)
	origHash, origKey := generateHashFn, generateKeyFn
	t.Cleanup(func() {
		generateHashFn, generateKeyFn = origHash, origKey
	})

	assert.ErrorIs(t, run(nil), errNoPassword)

	generateHashFn = func(string) (string, error) { return "", errors.New("boom") }
	assert.ErrorContains(t, run([]string{"x"}), "hash password")

	generateHashFn = origHash
	generateKeyFn = func() (string, error) { return "", errors.New("no entropy") }
	assert.ErrorContains(t, run([]string{"x"}), "session key")
}

func TestMain_ReportsUsage(t *testing.T) {
	var msg string
	orig := fatalfFn
	fatalfFn = func(format string, a ...interface{}) { msg = fmt.Sprintf(format, a...) }
	origArgs := os.Args
	t.Cleanup(func() {
		fatalfFn = orig
		os.Args = origArgs
	})

	os.Args = []string{"hash-gen"}
	captureOutput(t)
	main()
	assert.Contains(t, msg, "usage")
}
