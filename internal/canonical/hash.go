package canonical

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainDocument prefixes result document digests.
// The version suffix leaves room for an algorithm change.
const DomainDocument = "testis/document/v1"

// Digest computes SHA-256 over domain + 0x00 + data and returns it hex encoded.
// The null separator prevents domain/data boundary ambiguity.
func Digest(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// DigestValue marshals v canonically and digests it under domain.
func DigestValue(domain string, v any) (string, error) {
	data, err := Marshal(v)
	if err != nil {
		return "", fmt.Errorf("digest %s: %w", domain, err)
	}
	return Digest(domain, data), nil
}
