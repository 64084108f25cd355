// Package fingerprint derives the stable storage key for a source item from
// its path string.
package fingerprint

import "github.com/google/uuid"

// namespace is a fixed, arbitrary UUID used to seed the deterministic name-based
// hash below. It never changes across versions of this program: changing it
// would silently re-fingerprint every source item and orphan existing bundles.
var namespace = uuid.MustParse("6f9c3a6e-6e0b-4b6e-8e6a-9d9f6a8e7a1c")

// Of returns the 128-bit fingerprint of path, rendered as a 32-character hex
// identifier. It depends only on the bytes of path: no canonicalization,
// symlink resolution, or case folding is performed, matching spec.md's
// "string-based path identity" design note. Equal paths always produce equal
// fingerprints; unrelated paths collide with negligible probability.
func Of(path string) string {
	id := uuid.NewMD5(namespace, []byte(path))
	return hexNoDashes(id)
}

func hexNoDashes(id uuid.UUID) string {
	buf := make([]byte, 0, 32)
	for _, b := range id {
		buf = appendHexByte(buf, b)
	}
	return string(buf)
}

const hexDigits = "0123456789abcdef"

func appendHexByte(buf []byte, b byte) []byte {
	return append(buf, hexDigits[b>>4], hexDigits[b&0x0f])
}
