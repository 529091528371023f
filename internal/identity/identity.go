// Package identity derives a coarse visitor token from connection metadata.
// The token gates edit and like permissions; it is a spoofable heuristic,
// not an authentication mechanism.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
)

// FromRequest produces a deterministic opaque token for the requester from
// its network address and declared user agent. The same pair always yields
// the same token; nothing about the inputs is recoverable from it.
func FromRequest(clientIP, userAgent string) string {
	sum := sha256.Sum256([]byte(clientIP + "|" + userAgent))
	return hex.EncodeToString(sum[:8])
}
