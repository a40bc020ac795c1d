package sqlite

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/nacl/secretbox"

	"github.com/example/campus-events/internal/persistence"
)

const (
	sealPrefix = "sb1:"
	nonceSize  = 24
	keySize    = 32
	saltSize   = 16
)

// KeyParams tunes the argon2id derivation of the sealing key.
type KeyParams struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
}

// DefaultKeyParams is used outside tests.
var DefaultKeyParams = KeyParams{
	Memory:      64 * 1024,
	Iterations:  3,
	Parallelism: 2,
}

// Sealer encrypts values at rest with secretbox under a key derived from the
// configured secret and a per-database salt.
type Sealer struct {
	key [keySize]byte
}

// NewSealer derives the key. secret must be non-empty and salt must be
// saltSize bytes.
func NewSealer(secret string, salt []byte, params KeyParams) (*Sealer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("sealer: secret is required")
	}
	if len(salt) != saltSize {
		return nil, fmt.Errorf("sealer: salt must be %d bytes", saltSize)
	}
	derived := argon2.IDKey([]byte(secret), salt, params.Iterations, params.Memory, params.Parallelism, keySize)
	sealer := &Sealer{}
	copy(sealer.key[:], derived)
	return sealer, nil
}

func newSalt() ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	return salt, nil
}

// Seal encrypts plaintext with a fresh nonce.
func (s *Sealer) Seal(plaintext string) (string, error) {
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	box := secretbox.Seal(nonce[:], []byte(plaintext), &nonce, &s.key)
	return sealPrefix + base64.RawStdEncoding.EncodeToString(box), nil
}

// Open reverses Seal. Values sealed under another secret fail with
// persistence.ErrSealed.
func (s *Sealer) Open(sealed string) (string, error) {
	encoded, ok := strings.CutPrefix(sealed, sealPrefix)
	if !ok {
		return "", persistence.ErrSealed
	}
	box, err := base64.RawStdEncoding.DecodeString(encoded)
	if err != nil || len(box) < nonceSize+secretbox.Overhead {
		return "", persistence.ErrSealed
	}
	var nonce [nonceSize]byte
	copy(nonce[:], box[:nonceSize])
	plaintext, ok := secretbox.Open(nil, box[nonceSize:], &nonce, &s.key)
	if !ok {
		return "", persistence.ErrSealed
	}
	return string(plaintext), nil
}
