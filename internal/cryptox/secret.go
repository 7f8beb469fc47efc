// Package cryptox isolates how account secrets are stored and compared.
//
// Every credential check in taskboard goes through SecretMatcher.Match, so
// switching from the plaintext-equivalent behavior to a salted hash is a
// configuration change, not a code hunt.
package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Mode names accepted by NewSecretMatcher.
const (
	ModePlaintext = "plaintext"
	ModeArgon2    = "argon2"
)

const argon2Prefix = "argon2id"

// SecretMatcher turns a raw secret into its stored form and checks candidates
// against a stored form.
type SecretMatcher interface {
	Seal(secret string) (string, error)
	Match(stored, candidate string) bool
}

// NewSecretMatcher returns the matcher for mode. An empty mode is plaintext.
func NewSecretMatcher(mode string) (SecretMatcher, error) {
	switch strings.ToLower(mode) {
	case "", ModePlaintext:
		return Plaintext{}, nil
	case ModeArgon2:
		return Argon2{}, nil
	default:
		return nil, fmt.Errorf("unknown credential mode %q", mode)
	}
}

// Plaintext stores secrets verbatim and compares them byte for byte.
// No normalization, no hashing.
type Plaintext struct{}

func (Plaintext) Seal(secret string) (string, error) { return secret, nil }

func (Plaintext) Match(stored, candidate string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1
}

// Argon2 stores "argon2id$<salt>$<verifier>" where verifier is the SHA-256 of
// the argon2id key derived from the secret and a random salt.
type Argon2 struct{}

func (Argon2) Seal(secret string) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	verifier := MakeVerifier(DeriveKey([]byte(secret), salt))
	enc := base64.RawStdEncoding
	return argon2Prefix + "$" + enc.EncodeToString(salt) + "$" + enc.EncodeToString(verifier), nil
}

func (Argon2) Match(stored, candidate string) bool {
	parts := strings.Split(stored, "$")
	if len(parts) != 3 || parts[0] != argon2Prefix {
		return false
	}
	enc := base64.RawStdEncoding
	salt, err := enc.DecodeString(parts[1])
	if err != nil {
		return false
	}
	want, err := enc.DecodeString(parts[2])
	if err != nil {
		return false
	}
	got := MakeVerifier(DeriveKey([]byte(candidate), salt))
	return subtle.ConstantTimeCompare(want, got) == 1
}

// DeriveKey stretches secret with argon2id.
func DeriveKey(secret, salt []byte) []byte {
	return argon2.IDKey(secret, salt, 1, 64*1024, 4, 32)
}

func MakeVerifier(key []byte) []byte {
	hash := sha256.Sum256(key)
	return hash[:]
}
