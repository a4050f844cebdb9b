// Package hasher produces and checks argon2id password digests.
package hasher

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/dtroode/taskhub-server/internal/config"
	"github.com/dtroode/taskhub-server/internal/model"
)

// ErrMalformedDigest is returned when a stored digest cannot be parsed.
var ErrMalformedDigest = errors.New("malformed password digest")

// Argon2 hashes passwords with argon2id and encodes them as PHC strings:
// $argon2id$v=19$m=65536,t=1,p=4$<salt>$<key>
type Argon2 struct {
	params config.KDF
}

var _ model.PasswordHasher = (*Argon2)(nil)

func NewArgon2(params config.KDF) *Argon2 {
	return &Argon2{params: params}
}

func (h *Argon2) Hash(plaintext string) (string, error) {
	salt := make([]byte, h.params.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(plaintext), salt, h.params.Time, h.params.MemKiB, h.params.Par, h.params.KeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.params.MemKiB, h.params.Time, h.params.Par,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Compare recomputes the key with the parameters stored in digest, so
// digests made under older settings keep verifying. Stored parameters outside
// the bounds of config.KDF.Validate make the digest malformed.
func (h *Argon2) Compare(digest, plaintext string) (bool, error) {
	parts := strings.Split(digest, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false, ErrMalformedDigest
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false, ErrMalformedDigest
	}

	var (
		mem, iterations uint32
		par             uint8
	)
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &iterations, &par); err != nil {
		return false, ErrMalformedDigest
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, ErrMalformedDigest
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(want) == 0 {
		return false, ErrMalformedDigest
	}

	stored := config.KDF{Time: iterations, MemKiB: mem, Par: par, SaltLen: uint32(len(salt)), KeyLen: uint32(len(want))}
	if err := stored.Validate(); err != nil {
		return false, fmt.Errorf("%w: %v", ErrMalformedDigest, err)
	}

	got := argon2.IDKey([]byte(plaintext), salt, iterations, mem, par, uint32(len(want)))

	return subtle.ConstantTimeCompare(got, want) == 1, nil
}
