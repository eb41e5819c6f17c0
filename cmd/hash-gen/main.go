package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"fxvault.backend/pkg/crypto"
)

// sessionKeyBytes matches the AES-256 key the session store expects.
const sessionKeyBytes = 32

var (
	printfFn       = fmt.Printf
	generateHashFn = crypto.HashPassword
	generateKeyFn  = func() (string, error) { return crypto.GenerateRandomToken(sessionKeyBytes) }
	fatalfFn       = log.Fatalf
)

var errNoPassword = errors.New("usage: hash-gen <password>")

func resolvePassword(args []string) (string, error) {
	if len(args) == 0 || args[0] == "" {
		return "", errNoPassword
	}
	return args[0], nil
}

func run(args []string) error {
	password, err := resolvePassword(args)
	if err != nil {
		return err
	}

	hash, err := generateHashFn(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	key, err := generateKeyFn()
	if err != nil {
		return fmt.Errorf("failed to generate session key: %w", err)
	}

	printfFn("Bcrypt Hash: %s\n", hash)
	printfFn("SESSION_ENCRYPTION_KEY=%s\n", key)
	return nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fatalfFn("%v", err)
	}
}
