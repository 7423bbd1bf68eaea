package config

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pkcs8PEM(t *testing.T, key any) []byte {
	t.Helper()
	der, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)
	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})
}

func TestParseKeyPair(t *testing.T) {
	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	tests := []struct {
		name    string
		input   []byte
		wantErr error
	}{
		{"pkcs8 rsa key", pkcs8PEM(t, rsaKey), nil},
		{"encrypted pkcs8 block", pem.EncodeToMemory(&pem.Block{Type: "ENCRYPTED PRIVATE KEY", Bytes: []byte{1, 2, 3}}), ErrEncryptedKey},
		{"legacy encrypted header", pem.EncodeToMemory(&pem.Block{
			Type:    "PRIVATE KEY",
			Headers: map[string]string{"Proc-Type": "4,ENCRYPTED", "DEK-Info": "AES-256-CBC,00"},
			Bytes:   []byte{1, 2, 3},
		}), ErrEncryptedKey},
		{"pkcs1 block", pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(rsaKey)}), ErrUnsupportedKeyPEM},
		{"ec key", pkcs8PEM(t, ecKey), ErrNotRSAKey},
		{"not pem", []byte("definitely not a key"), ErrUnsupportedKeyPEM},
		{"corrupt der", pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: []byte{0x30, 0x01}}), ErrUnsupportedKeyPEM},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pair, err := ParseKeyPair(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, pair)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 0, rsaKey.N.Cmp(pair.Public.N))
			assert.Equal(t, rsaKey.E, pair.Public.E)
			assert.True(t, pair.Public.Equal(&pair.Private.PublicKey))
		})
	}
}

func TestLoadKeyPair(t *testing.T) {
	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "access.pem")
	require.NoError(t, os.WriteFile(path, pkcs8PEM(t, rsaKey), 0o600))

	pair, err := LoadKeyPair(path)
	require.NoError(t, err)
	assert.True(t, pair.Public.Equal(&rsaKey.PublicKey))

	pair, err = LoadKeyPair("file:" + path)
	require.NoError(t, err)
	assert.NotNil(t, pair)

	_, err = LoadKeyPair(filepath.Join(t.TempDir(), "missing.pem"))
	assert.Error(t, err)
}
