package crypto

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	svc, err := New(strings.Repeat("ab", 32))
	require.NoError(t, err)
	require.True(t, svc.Configured())

	sealed, err := svc.Encrypt([]byte("%PDF-1.3 quote"))
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), "quote")

	plain, err := svc.Decrypt(sealed)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.3 quote", string(plain))

	other, err := New(base64.StdEncoding.EncodeToString([]byte(strings.Repeat("z", 32))))
	require.NoError(t, err)
	_, err = other.Decrypt(sealed)
	require.Error(t, err)
}

func TestKeyFormats(t *testing.T) {
	_, err := New(strings.Repeat("r", 32))
	require.NoError(t, err)

	_, err = New("too-short")
	require.Error(t, err)
}

func TestUnconfiguredPassesThrough(t *testing.T) {
	svc, err := New("")
	require.NoError(t, err)
	assert.False(t, svc.Configured())

	out, err := svc.Encrypt([]byte("plain"))
	require.NoError(t, err)
	assert.Equal(t, "plain", string(out))
}

func TestDecryptRejectsShortInput(t *testing.T) {
	svc, err := New(strings.Repeat("ab", 32))
	require.NoError(t, err)
	_, err = svc.Decrypt([]byte("abc"))
	require.ErrorIs(t, err, ErrCiphertextTooShort)
}
