// Package cryptox holds the credential-protection primitives: per-user secret
// key generation, the reversible AES-GCM codec for stored secrets, argon2 key
// derivation for the server master key, and bcrypt login password hashing.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/dmitrijs2005/passvault/internal/common"
	"golang.org/x/crypto/argon2"
)

// SecretKeySize is the length of per-user secret keys (AES-256).
const SecretKeySize = 32

// GenerateSecretKey returns a fresh random AES-256 key.
func GenerateSecretKey() ([]byte, error) {
	key := make([]byte, SecretKeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("entropy source: %w", err)
	}
	return key, nil
}

// DeriveMasterKey stretches a passphrase into a 32-byte key with argon2id.
func DeriveMasterKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

// Encode seals plaintext with AES-GCM under key and returns
// base64(nonce || ciphertext). Every call draws a new random nonce, so equal
// plaintexts never produce equal ciphertexts.
//
// The key must be 16, 24 or 32 bytes long.
func Encode(plaintext, key []byte) (string, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aesgcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	sealed := aesgcm.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decode reverses Encode. A ciphertext that was not produced under key, or
// was tampered with, yields common.ErrDecryptionFailure.
func Decode(ciphertext string, key []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed ciphertext", common.ErrDecryptionFailure)
	}
	if len(raw) < aesgcm.NonceSize()+aesgcm.Overhead() {
		return nil, fmt.Errorf("%w: ciphertext too short", common.ErrDecryptionFailure)
	}

	nonce, sealed := raw[:aesgcm.NonceSize()], raw[aesgcm.NonceSize():]
	plaintext, err := aesgcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, common.ErrDecryptionFailure
	}
	return plaintext, nil
}

// EncodeString is Encode for string payloads.
func EncodeString(plaintext string, key []byte) (string, error) {
	return Encode([]byte(plaintext), key)
}

// DecodeString is Decode for string payloads.
func DecodeString(ciphertext string, key []byte) (string, error) {
	b, err := Decode(ciphertext, key)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
