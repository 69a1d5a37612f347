package geo

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

var (
	nonAddressChars = regexp.MustCompile(`[^a-z0-9 ]`)
	multiSpace      = regexp.MustCompile(` +`)
)

// NormalizeAddress produces the canonical form of a free-text address:
// lowercase, punctuation stripped, runs of whitespace collapsed. Visually
// equivalent inputs ("123 Main St." / "123  main st") normalize identically.
func NormalizeAddress(address string) string {
	normalized := strings.ToLower(strings.TrimSpace(address))
	normalized = strings.NewReplacer(",", " ", ".", " ", "#", " ", "-", " ", "/", " ").Replace(normalized)
	normalized = nonAddressChars.ReplaceAllString(normalized, "")
	normalized = multiSpace.ReplaceAllString(normalized, " ")
	return strings.TrimSpace(normalized)
}

// HashAddress returns the deterministic digest of the normalized address,
// used as the property cache's primary key.
func HashAddress(address string) string {
	sum := sha256.Sum256([]byte(NormalizeAddress(address)))
	return hex.EncodeToString(sum[:])
}
