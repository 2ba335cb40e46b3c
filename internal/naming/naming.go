// Package naming provides the deterministic name derivations used across
// zoneacme: zone configuration keys, token fingerprints, cache file names and
// zone-relative record labels. Keeping them here allows changing an encoding
// without touching call sites.
package naming

import (
	"crypto/sha256"
	"encoding/hex"
)

// fingerprintLength is the hex length of token fingerprints (48 bits).
const fingerprintLength = 12

// ShortHash returns the hex SHA-256 prefix of length n (clamped to digest size).
func ShortHash(s string, n int) string {
	sum := sha256.Sum256([]byte(s))
	h := hex.EncodeToString(sum[:])
	if n > len(h) {
		n = len(h)
	}
	return h[:n]
}

// TokenFingerprint returns the stable short identifier of a credential token.
// It is safe to log and to use in file names.
func TokenFingerprint(token string) string {
	return ShortHash(token, fingerprintLength)
}

// KubeconfigCacheFile returns the cache file name for the kubeconfig
// provisioned for token:
//
//	kubeconfig-<fingerprint>.yaml
func KubeconfigCacheFile(token string) string {
	return "kubeconfig-" + TokenFingerprint(token) + ".yaml"
}
