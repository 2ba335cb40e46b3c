package naming

import "strings"

const (
	tokenKeyPrefix     = "TOKEN_"
	namespaceKeyPrefix = "NAMESPACE_"

	// GlobalTokenKey names the fallback token in the environment and the account config.
	GlobalTokenKey = "GLOBAL_TOKEN"
	// GlobalNamespaceKey names the fallback namespace in the environment and the account config.
	GlobalNamespaceKey = "GLOBAL_NAMESPACE"
)

var zoneKeyReplacer = strings.NewReplacer(".", "_", "-", "_")

// ZoneKey canonicalizes a zone or domain name into its configuration lookup
// key: upper case, with every "." and "-" replaced by "_".
//
// The encoding is not injective: "a-b.com" and "a.b.com" share the key A_B_COM.
func ZoneKey(name string) string {
	return zoneKeyReplacer.Replace(strings.ToUpper(name))
}

// TokenKey returns TOKEN_<zoneKey>.
func TokenKey(zoneKey string) string { return tokenKeyPrefix + zoneKey }

// NamespaceKey returns NAMESPACE_<zoneKey>.
func NamespaceKey(zoneKey string) string { return namespaceKeyPrefix + zoneKey }

// SplitCredentialKey parses TOKEN_<zoneKey> or NAMESPACE_<zoneKey>.
// field is "token" or "namespace"; ok is false for any other key.
func SplitCredentialKey(key string) (field, zoneKey string, ok bool) {
	switch {
	case strings.HasPrefix(key, tokenKeyPrefix) && len(key) > len(tokenKeyPrefix):
		return "token", strings.TrimPrefix(key, tokenKeyPrefix), true
	case strings.HasPrefix(key, namespaceKeyPrefix) && len(key) > len(namespaceKeyPrefix):
		return "namespace", strings.TrimPrefix(key, namespaceKeyPrefix), true
	default:
		return "", "", false
	}
}
