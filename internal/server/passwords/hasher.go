// Package passwords implements one-way, salted, memory-hard password hashing.
//
// Hashes are argon2id encoded in the PHC string format:
//
//	$argon2id$v=19$m=65536,t=1,p=4$<salt>$<key>
//
// The parameters travel inside the hash, so hashes produced with older
// parameters keep verifying after the defaults change.
package passwords

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/samber/oops"
	"golang.org/x/crypto/argon2"
	"golang.org/x/sync/semaphore"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

const (
	codeHashingFailure = "PASSWORD_HASHING_FAILURE"
	codeMalformedHash  = "PASSWORD_MALFORMED_HASH"
)

// Params are the argon2id cost settings.
type Params struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
	SaltLen int
	KeyLen  uint32
}

// DefaultParams mirrors the OWASP argon2id baseline: 64 MiB, one pass, four lanes.
var DefaultParams = Params{
	Time:    1,
	Memory:  64 * 1024,
	Threads: 4,
	SaltLen: 16,
	KeyLen:  32,
}

// Hasher hashes and verifies passwords. Implementations are safe for
// concurrent use.
type Hasher interface {
	// Hash returns an encoded hash with a fresh random salt.
	Hash(ctx context.Context, password string) (string, error)

	// Verify reports whether password matches encodedHash. A mismatch is
	// (false, nil); a hash this package did not produce is an error
	// matching common.ErrHashingFailure.
	Verify(ctx context.Context, encodedHash, password string) (bool, error)
}

// Argon2idHasher implements Hasher. Each computation allocates Params.Memory,
// so the number of computations in flight is capped by a semaphore.
type Argon2idHasher struct {
	params Params
	slots  *semaphore.Weighted
}

// NewArgon2idHasher returns a hasher with DefaultParams running at most
// concurrency computations at a time.
func NewArgon2idHasher(concurrency int) *Argon2idHasher {
	return NewArgon2idHasherWithParams(DefaultParams, concurrency)
}

// NewArgon2idHasherWithParams is NewArgon2idHasher with explicit cost settings.
func NewArgon2idHasherWithParams(p Params, concurrency int) *Argon2idHasher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Argon2idHasher{params: p, slots: semaphore.NewWeighted(int64(concurrency))}
}

func (h *Argon2idHasher) Hash(ctx context.Context, password string) (string, error) {
	salt := make([]byte, h.params.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", hashingFailure("read salt", err)
	}

	key, err := h.derive(ctx, []byte(password), salt, h.params.Time, h.params.Memory, h.params.Threads, h.params.KeyLen)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.Memory,
		h.params.Time,
		h.params.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func (h *Argon2idHasher) Verify(ctx context.Context, encodedHash, password string) (bool, error) {
	d, err := decode(encodedHash)
	if err != nil {
		return false, err
	}

	key, err := h.derive(ctx, []byte(password), d.salt, d.time, d.memory, d.threads, uint32(len(d.key)))
	if err != nil {
		return false, err
	}

	return subtle.ConstantTimeCompare(key, d.key) == 1, nil
}

func (h *Argon2idHasher) derive(ctx context.Context, password, salt []byte, time, memory uint32, threads uint8, keyLen uint32) ([]byte, error) {
	if err := h.slots.Acquire(ctx, 1); err != nil {
		return nil, hashingFailure("wait for hashing slot", err)
	}
	defer h.slots.Release(1)

	return argon2.IDKey(password, salt, time, memory, threads, keyLen), nil
}

type decoded struct {
	time    uint32
	memory  uint32
	threads uint8
	salt    []byte
	key     []byte
}

func decode(encodedHash string) (*decoded, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[0] != "" {
		return nil, malformed("unexpected number of hash segments")
	}
	if parts[1] != "argon2id" {
		return nil, malformed("unsupported hash algorithm", "algorithm", parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, malformed("unparsable version")
	}
	if version != argon2.Version {
		return nil, malformed("unsupported argon2 version", "version", version)
	}

	var d decoded
	var threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &d.memory, &d.time, &threads); err != nil {
		return nil, malformed("unparsable parameters")
	}
	if threads == 0 || threads > 255 || d.time == 0 || d.memory == 0 {
		return nil, malformed("parameters out of range")
	}
	d.threads = uint8(threads)

	var err error
	if d.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil || len(d.salt) == 0 {
		return nil, malformed("bad salt encoding")
	}
	if d.key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil || len(d.key) == 0 {
		return nil, malformed("bad key encoding")
	}

	return &d, nil
}

func hashingFailure(operation string, err error) error {
	return oops.Code(codeHashingFailure).
		With("operation", operation).
		Wrap(fmt.Errorf("%w: %w", common.ErrHashingFailure, err))
}

func malformed(reason string, kv ...any) error {
	return oops.Code(codeMalformedHash).
		With(kv...).
		Wrapf(common.ErrHashingFailure, "malformed password hash: %s", reason)
}
