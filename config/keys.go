package config

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2/log"
)

var (
	ErrEncryptedKey      = errors.New("encrypted private keys are not supported")
	ErrUnsupportedKeyPEM = errors.New("unsupported PEM format")
	ErrNotRSAKey         = errors.New("private key is not an RSA CRT key")
)

// KeyPair is one signing domain: the private key signs, the derived public key verifies.
type KeyPair struct {
	Private *rsa.PrivateKey
	Public  *rsa.PublicKey
}

type SigningKeys struct {
	Access  *KeyPair
	Refresh *KeyPair
}

func LoadKeyPair(path string) (*KeyPair, error) {
	raw, err := os.ReadFile(strings.TrimPrefix(path, "file:"))
	if err != nil {
		return nil, fmt.Errorf("read key %s: %w", path, err)
	}
	return ParseKeyPair(raw)
}

// ParseKeyPair accepts an unencrypted PKCS#8 PEM block holding an RSA key.
func ParseKeyPair(pemBytes []byte) (*KeyPair, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, fmt.Errorf("%w: no PEM block found", ErrUnsupportedKeyPEM)
	}
	if block.Type == "ENCRYPTED PRIVATE KEY" || strings.Contains(block.Headers["Proc-Type"], "ENCRYPTED") {
		return nil, ErrEncryptedKey
	}
	if block.Type != "PRIVATE KEY" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKeyPEM, block.Type)
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedKeyPEM, err)
	}
	private, ok := parsed.(*rsa.PrivateKey)
	if !ok || len(private.Primes) < 2 || private.Precomputed.Dp == nil {
		return nil, ErrNotRSAKey
	}

	// NOTE: public half comes from the modulus and public exponent, no separate file
	return &KeyPair{
		Private: private,
		Public:  &rsa.PublicKey{N: private.N, E: private.E},
	}, nil
}

// MustLoadSigningKeys loads both signing domains and stops the process when either is unusable.
func MustLoadSigningKeys() *SigningKeys {
	log.Info("Loading signing keys...")
	access, err := LoadKeyPair(Conf.Application.Security.AccessPrivateKeyLocation)
	if err != nil {
		log.Panic("failed to load access signing key: ", err)
	}
	refresh, err := LoadKeyPair(Conf.Application.Security.RefreshPrivateKeyLocation)
	if err != nil {
		log.Panic("failed to load refresh signing key: ", err)
	}
	log.Info("Signing keys loaded successfully")
	return &SigningKeys{Access: access, Refresh: refresh}
}
