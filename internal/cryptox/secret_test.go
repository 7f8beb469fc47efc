package cryptox

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSecretMatcher(t *testing.T) {
	tests := []struct {
		mode    string
		want    SecretMatcher
		wantErr bool
	}{
		{mode: "", want: Plaintext{}},
		{mode: "plaintext", want: Plaintext{}},
		{mode: "ARGON2", want: Argon2{}},
		{mode: "rot13", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			m, err := NewSecretMatcher(tt.mode)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, m)
		})
	}
}

func TestPlaintext_ComparesVerbatim(t *testing.T) {
	var m Plaintext
	stored, err := m.Seal("p4ss")
	require.NoError(t, err)
	assert.Equal(t, "p4ss", stored)

	assert.True(t, m.Match(stored, "p4ss"))
	assert.False(t, m.Match(stored, "P4ss"), "no case folding")
	assert.False(t, m.Match(stored, "p4ss "), "no trimming")
	assert.False(t, m.Match(stored, ""))
}

func TestArgon2_SealAndMatch(t *testing.T) {
	var m Argon2
	stored, err := m.Seal("correct horse")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(stored, "argon2id$"))
	assert.NotContains(t, stored, "correct horse")

	assert.True(t, m.Match(stored, "correct horse"))
	assert.False(t, m.Match(stored, "battery staple"))
}

func TestArgon2_SaltsDiffer(t *testing.T) {
	var m Argon2
	a, err := m.Seal("same")
	require.NoError(t, err)
	b, err := m.Seal("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestArgon2_RejectsMalformedStoredValues(t *testing.T) {
	var m Argon2
	for _, stored := range []string{"", "plain", "argon2id$$", "argon2id$!!$!!", "bcrypt$aaaa$bbbb"} {
		assert.False(t, m.Match(stored, "plain"), "stored=%q", stored)
	}
}

func TestDeriveKey_Deterministic(t *testing.T) {
	k1 := DeriveKey([]byte("pw"), []byte("salt"))
	k2 := DeriveKey([]byte("pw"), []byte("salt"))
	k3 := DeriveKey([]byte("pw"), []byte("other"))

	if !bytes.Equal(k1, k2) {
		t.Errorf("expected same result for same inputs")
	}
	if bytes.Equal(k1, k3) {
		t.Errorf("expected different keys for different salts")
	}
	if len(MakeVerifier(k1)) != 32 {
		t.Errorf("verifier must be 32 bytes")
	}
}
