// Package fingerprint computes entity tags for response payloads.
//
// A fingerprint is a 64-bit xxhash of the value's canonical JSON form,
// hex-encoded and quoted as required by the ETag grammar. Callers are
// responsible for handing in canonical structures: encoding/json already
// sorts map keys and keeps struct field order fixed, so logically-equal
// maps and structs serialize identically.
package fingerprint

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

const weakPrefix = "W/"

// Compute returns the quoted fingerprint of value's JSON serialization.
// When weak is true the result is prefixed with "W/".
func Compute(value any, weak bool) (string, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSerializing, err)
	}
	return ComputeBytes(payload, weak), nil
}

// ComputeBytes returns the quoted fingerprint of raw bytes.
func ComputeBytes(payload []byte, weak bool) string {
	sum := xxhash.Sum64(payload)
	tag := `"` + fmt.Sprintf("%016x", sum) + `"`
	if weak {
		return weakPrefix + tag
	}
	return tag
}

// Opaque strips the weak prefix and the surrounding quotes from an entity
// tag, so that two tags can be compared weakly.
func Opaque(tag string) string {
	tag = strings.TrimPrefix(strings.TrimSpace(tag), weakPrefix)
	if len(tag) >= 2 && strings.HasPrefix(tag, `"`) && strings.HasSuffix(tag, `"`) {
		return tag[1 : len(tag)-1]
	}
	return tag
}
