package naming

import (
	"fmt"
	"strings"

	"github.com/miekg/dns"
)

// NormalizeHostname lower-cases name and strips the trailing root dot.
// It fails for names that are not syntactically valid domain names.
func NormalizeHostname(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == "." {
		return "", fmt.Errorf("hostname is empty")
	}
	if _, ok := dns.IsDomainName(name); !ok {
		return "", fmt.Errorf("invalid hostname %q", name)
	}
	return strings.ToLower(strings.TrimSuffix(dns.Fqdn(name), ".")), nil
}

// ParentCandidate strips the leftmost label of name. ok is false when name
// is a single label.
func ParentCandidate(name string) (parent string, ok bool) {
	i := strings.IndexByte(name, '.')
	if i < 0 {
		return "", false
	}
	return name[i+1:], true
}

// RecordLabel converts a hostname to its zone-relative label. The apex is "@".
func RecordLabel(hostname, zone string) string {
	hostname = strings.TrimSuffix(hostname, ".")
	zone = strings.TrimSuffix(zone, ".")

	if hostname == zone {
		return "@"
	}
	if dns.IsSubDomain(zone, hostname) {
		return strings.TrimSuffix(hostname, "."+zone)
	}
	// Not under the zone; the resolver never selects such a zone.
	return hostname
}
