// Package secrets seals small blobs kept on disk, such as the cached user record.
// Not a replacement for OS keychains but avoids plain-text storage.
package secrets

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

var ErrCorrupt = errors.New("sealed value is corrupt")

// Sealer encrypts with XChaCha20-Poly1305 under a fixed key.
type Sealer struct {
	key []byte
}

// NewSealer derives the key from passphrase. An empty passphrase uses the per-user machine key.
func NewSealer(passphrase string) (*Sealer, error) {
	if passphrase == "" {
		passphrase = fmt.Sprintf("ruralcare-%s-%s", runtime.GOOS, os.Getenv("USER"))
	}
	key := make([]byte, chacha20poly1305.KeySize)
	r := hkdf.New(sha256.New, []byte(passphrase), nil, []byte("ruralcare prefs"))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, err
	}
	return &Sealer{key: key}, nil
}

// Seal returns nonce||ciphertext. label is bound as associated data.
func (s *Sealer) Seal(label string, plain []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plain)+aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return aead.Seal(nonce, nonce, plain, []byte(label)), nil
}

func (s *Sealer) Open(label string, sealed []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return nil, err
	}
	if len(sealed) < aead.NonceSize() {
		return nil, ErrCorrupt
	}
	nonce, body := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, body, []byte(label))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return plain, nil
}
