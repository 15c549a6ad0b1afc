package domain

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"hash"
)

const (
	SaltBytes = 32

	separator = ":"
)

type HashFactory func() hash.Hash

type PasswordHasher struct {
	createHash HashFactory
}

func NewPasswordHasher(hashFactory HashFactory) *PasswordHasher {
	return &PasswordHasher{createHash: hashFactory}
}

func NewSHA256PasswordHasher() *PasswordHasher {
	return NewPasswordHasher(sha256.New)
}

// HashPassword returns "<base64 salt>:<base64 hash>".
func (h *PasswordHasher) HashPassword(password string) (string, error) {
	salt := make([]byte, SaltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	hashedBytes, err := hashPassword(h.createHash(), salt, []byte(password))
	if err != nil {
		return "", err
	}

	base64Hash := base64.StdEncoding.EncodeToString(hashedBytes)
	base64Salt := base64.StdEncoding.EncodeToString(salt)

	return fmt.Sprintf("%s%s%s", base64Salt, separator, base64Hash), nil
}

func hashPassword(h hash.Hash, salt, password []byte) ([]byte, error) {
	inputBytes := make([]byte, 0, len(salt)+len(password))
	inputBytes = append(inputBytes, salt...)
	inputBytes = append(inputBytes, password...)

	if _, err := h.Write(inputBytes); err != nil {
		return nil, err
	}

	return h.Sum(nil), nil
}
