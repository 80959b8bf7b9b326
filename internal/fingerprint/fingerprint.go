// Package fingerprint computes the stable identity used to merge repeat
// detections of the same underlying issue.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Compute derives a deterministic 64-character lowercase hex identity from
// the (tool, title, asset) triple. Each field is trimmed and lowercased, then
// joined with "|" in fixed order before hashing. The joined-string format is
// a versioned wire contract: changing the delimiter or field order changes
// every fingerprint in the store.
func Compute(tool, title, asset string) string {
	raw := normalize(tool) + "|" + normalize(title) + "|" + normalize(asset)
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
