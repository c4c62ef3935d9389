package cryptox

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// ErrMismatch is returned by Verify when the password does not match.
var ErrMismatch = errors.New("password does not match")

// ErrMalformedHash is returned by Verify when the stored hash cannot be parsed.
var ErrMalformedHash = errors.New("malformed password hash")

// Params are the argon2id cost parameters baked into every encoded hash.
type Params struct {
	Memory      uint32 // KiB
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultParams follows the OWASP argon2id minimum (19 MiB, t=2, p=1).
var DefaultParams = Params{
	Memory:      19 * 1024,
	Iterations:  2,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

// Hasher hashes and verifies passwords with argon2id plus a server-side
// pepper. At most `concurrency` derivations run at once; callers beyond that
// wait on the context.
type Hasher struct {
	params Params
	pepper []byte
	sem    chan struct{}
}

func NewHasher(pepper string, concurrency int, params Params) *Hasher {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Hasher{
		params: params,
		pepper: []byte(pepper),
		sem:    make(chan struct{}, concurrency),
	}
}

func (h *Hasher) acquire(ctx context.Context) error {
	select {
	case h.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Hasher) release() { <-h.sem }

func (h *Hasher) derive(password string, salt []byte, p Params) []byte {
	material := make([]byte, 0, len(password)+len(h.pepper))
	material = append(material, password...)
	material = append(material, h.pepper...)
	return argon2.IDKey(material, salt, p.Iterations, p.Memory, p.Parallelism, p.KeyLength)
}

// Hash returns a PHC-formatted argon2id hash:
// $argon2id$v=19$m=<mem>,t=<iters>,p=<par>$<salt>$<hash>
func (h *Hasher) Hash(ctx context.Context, password string) (string, error) {
	salt := make([]byte, h.params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("read salt: %w", err)
	}

	if err := h.acquire(ctx); err != nil {
		return "", err
	}
	sum := h.derive(password, salt, h.params)
	h.release()

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.Memory, h.params.Iterations, h.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(sum),
	), nil
}

// Verify checks password against an encoded hash using the parameters stored
// in the hash itself, so older hashes keep verifying after DefaultParams move.
func (h *Hasher) Verify(ctx context.Context, password, encoded string) error {
	p, salt, want, err := decodeHash(encoded)
	if err != nil {
		return err
	}

	if err := h.acquire(ctx); err != nil {
		return err
	}
	got := h.derive(password, salt, p)
	h.release()

	if subtle.ConstantTimeCompare(got, want) != 1 {
		return ErrMismatch
	}
	return nil
}

func decodeHash(encoded string) (Params, []byte, []byte, error) {
	var p Params

	// ["", "argon2id", "v=19", "m=..,t=..,p=..", salt, hash]
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return p, nil, nil, ErrMalformedHash
	}
	if parts[2] != fmt.Sprintf("v=%d", argon2.Version) {
		return p, nil, nil, fmt.Errorf("%w: unsupported version %q", ErrMalformedHash, parts[2])
	}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Iterations, &p.Parallelism); err != nil {
		return p, nil, nil, fmt.Errorf("%w: parameters: %v", ErrMalformedHash, err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return p, nil, nil, fmt.Errorf("%w: salt: %v", ErrMalformedHash, err)
	}
	sum, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(sum) == 0 {
		return p, nil, nil, fmt.Errorf("%w: digest", ErrMalformedHash)
	}

	p.SaltLength = uint32(len(salt)) // #nosec G115 -- bounded by the encoded string
	p.KeyLength = uint32(len(sum))   // #nosec G115
	return p, salt, sum, nil
}
