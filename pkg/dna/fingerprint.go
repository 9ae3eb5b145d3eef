package dna

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// FingerprintSize is the byte length of a Fingerprint.
const FingerprintSize = sha256.Size

// Fingerprint is the SHA-256 digest of a grid's row-major base sequence.
// It is the deduplication key for stored classifications.
type Fingerprint [FingerprintSize]byte

// Fingerprint hashes the concatenated rows. Grids of equal size with the same
// rows in the same order share a fingerprint; grids of different size never
// concatenate to the same length.
func (g Grid) Fingerprint() Fingerprint {
	h := sha256.New()
	for _, row := range g.rows {
		h.Write([]byte(row))
	}

	var fp Fingerprint
	h.Sum(fp[:0])
	return fp
}

// String returns the lowercase hex encoding.
func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}

// MarshalText encodes the fingerprint as lowercase hex.
func (f Fingerprint) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText decodes a hex fingerprint.
func (f *Fingerprint) UnmarshalText(text []byte) error {
	parsed, err := ParseFingerprint(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// ParseFingerprint decodes a 64-character hex string.
func ParseFingerprint(s string) (Fingerprint, error) {
	var fp Fingerprint

	raw, err := hex.DecodeString(s)
	if err != nil {
		return fp, fmt.Errorf("decode fingerprint: %w", err)
	}
	if len(raw) != FingerprintSize {
		return fp, fmt.Errorf("fingerprint must be %d bytes, got %d", FingerprintSize, len(raw))
	}

	copy(fp[:], raw)
	return fp, nil
}
