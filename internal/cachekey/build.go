package cachekey

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/jhzhu89/azure-client-pool/internal/domain"
)

// Two distinct seeds run the same input through xxhash.Sum64 twice,
// producing 16 bytes of digest. xxhash itself is only 64-bit; there is no
// 128-bit variant in cespare/xxhash/v2, so this is the standard
// double-seeding trick to widen the collision space for a stored cache key.
const (
	seedOne uint64 = 0x9e3779b97f4a7c15
	seedTwo uint64 = 0xc2b2ae3d27d4eb4f
)

// maxRawKeyLogLength bounds how much of a raw key is ever written to a log
// line; the full raw key can be arbitrarily long once options are inlined.
const maxRawKeyLogLength = 50

// Build produces the raw, human-readable key and its stable digest for a
// client cache lookup. prefix is the configured key prefix;
// mode/tenantID/userObjectID come from a validated domain.AuthContext;
// fingerprint is the value returned by a ClientFactory's Fingerprint method
// (empty string if the factory declines to provide one); options is
// the caller-supplied options value, or nil.
func Build(prefix string, mode domain.AuthMode, tenantID, userObjectID, fingerprint string, options any) (raw string, stable string, err error) {
	segments := []string{prefix, mode.String()}

	if mode != domain.Application {
		segments = append(segments, "tenant:"+tenantID, "user:"+userObjectID)
	}

	switch {
	case fingerprint != "":
		segments = append(segments, "fingerprint:"+fingerprint)
	case options != nil:
		hash, hashErr := canonicalHash(options)
		if hashErr != nil {
			return "", "", fmt.Errorf("cachekey: hashing options: %w", hashErr)
		}
		segments = append(segments, "options:"+hash)
	}

	raw = strings.Join(segments, "::")
	return raw, stableDigest(raw), nil
}

// canonicalHash serializes options with encoding/json, whose Marshal already
// emits map keys in sorted order and struct fields in declaration order —
// sufficient determinism for "deeply equal modulo key order" inputs — then
// runs the serialization through stableDigest.
func canonicalHash(options any) (string, error) {
	data, err := json.Marshal(options)
	if err != nil {
		return "", err
	}
	return stableDigestBytes(data), nil
}

// stableDigest hashes raw with two independently seeded xxhash instances
// and concatenates their outputs into a 16-byte, URL-safe base64 string.
func stableDigest(raw string) string {
	return stableDigestBytes([]byte(raw))
}

func stableDigestBytes(raw []byte) string {
	d1 := xxhash.NewWithSeed(seedOne)
	d1.Write(raw) //nolint:errcheck // xxhash.Digest.Write never errors
	d2 := xxhash.NewWithSeed(seedTwo)
	d2.Write(raw) //nolint:errcheck

	buf := make([]byte, 16)
	binary.BigEndian.PutUint64(buf[0:8], d1.Sum64())
	binary.BigEndian.PutUint64(buf[8:16], d2.Sum64())

	return base64.RawURLEncoding.EncodeToString(buf)
}

// Truncate shortens a raw key for inclusion in a log line, per the cache's
// "retain the raw key for logs, truncated past 50 chars" convention.
func Truncate(rawKey string) string {
	if len(rawKey) <= maxRawKeyLogLength {
		return rawKey
	}
	return rawKey[:maxRawKeyLogLength] + "..."
}
