// Package encryption provides AES-256-GCM encryption utilities for the
// credential and session blob store.
package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// KeyDerivationIterations is the PBKDF2 iteration count for the
	// deterministic credential-store key.
	KeyDerivationIterations = 100000

	keySize = 32
)

// Blob is an encrypted value at rest: a random nonce and the ciphertext,
// each base64-encoded and stored together. This is local tamper resistance,
// not a security boundary against whoever can read the store itself.
type Blob struct {
	IV         string `json:"iv"`
	Ciphertext string `json:"ciphertext"`
}

// Encryptor provides methods for encrypting and decrypting data.
type Encryptor interface {
	// Seal encrypts the plaintext under a fresh random nonce.
	Seal(plaintext []byte) (*Blob, error)

	// Open decrypts a blob and returns the plaintext.
	Open(blob *Blob) ([]byte, error)
}

// AESEncryptor implements Encryptor using AES-256-GCM.
type AESEncryptor struct {
	gcm cipher.AEAD
}

// NewAESEncryptor creates a new AES-256-GCM encryptor from a 32-byte key.
// The key may be raw bytes or base64-encoded.
func NewAESEncryptor(key string) (*AESEncryptor, error) {
	keyBytes, err := base64.StdEncoding.DecodeString(key)
	if err != nil {
		keyBytes = []byte(key)
	}

	if len(keyBytes) != keySize {
		return nil, fmt.Errorf("encryption key must be %d bytes, got %d", keySize, len(keyBytes))
	}

	return newFromKey(keyBytes)
}

// NewDerivedEncryptor creates an AES-256-GCM encryptor whose key is derived
// deterministically from the application's client credentials: PBKDF2 over
// the client secret with the client id as salt, SHA-256, a fixed iteration
// count. The same id/secret pair always derives the same key, so the stored
// blob survives restarts without any key material on disk.
func NewDerivedEncryptor(clientID, clientSecret string) (*AESEncryptor, error) {
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("client id and secret are required to derive the store key")
	}

	key := pbkdf2.Key([]byte(clientSecret), []byte(clientID), KeyDerivationIterations, keySize, sha256.New)
	return newFromKey(key)
}

func newFromKey(key []byte) (*AESEncryptor, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &AESEncryptor{gcm: gcm}, nil
}

// Seal encrypts the plaintext under a fresh random nonce and returns the
// nonce and ciphertext as a base64-encoded blob.
func (e *AESEncryptor) Seal(plaintext []byte) (*Blob, error) {
	nonce := make([]byte, e.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext := e.gcm.Seal(nil, nonce, plaintext, nil)

	return &Blob{
		IV:         base64.StdEncoding.EncodeToString(nonce),
		Ciphertext: base64.StdEncoding.EncodeToString(ciphertext),
	}, nil
}

// Open decrypts a blob and returns the plaintext. Any tampering with either
// part fails the GCM authentication check.
func (e *AESEncryptor) Open(blob *Blob) ([]byte, error) {
	if blob == nil {
		return nil, fmt.Errorf("blob is required")
	}

	nonce, err := base64.StdEncoding.DecodeString(blob.IV)
	if err != nil {
		return nil, fmt.Errorf("failed to decode nonce: %w", err)
	}
	if len(nonce) != e.gcm.NonceSize() {
		return nil, fmt.Errorf("nonce must be %d bytes, got %d", e.gcm.NonceSize(), len(nonce))
	}

	ciphertext, err := base64.StdEncoding.DecodeString(blob.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ciphertext: %w", err)
	}

	plaintext, err := e.gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: %w", err)
	}

	return plaintext, nil
}

// GenerateKey generates a new random 32-byte key for AES-256.
// Returns the key as base64-encoded string.
func GenerateKey() (string, error) {
	key := make([]byte, keySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return "", fmt.Errorf("failed to generate key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(key), nil
}
