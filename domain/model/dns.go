package model

// DNSRecordType represents DNS record types found in zone documents.
type DNSRecordType string

const (
	DNSRecordTypeA     DNSRecordType = "A"
	DNSRecordTypeAAAA  DNSRecordType = "AAAA"
	DNSRecordTypeCNAME DNSRecordType = "CNAME"
	DNSRecordTypeTXT   DNSRecordType = "TXT"
	DNSRecordTypeMX    DNSRecordType = "MX"
	DNSRecordTypeNS    DNSRecordType = "NS"
	DNSRecordTypeSRV   DNSRecordType = "SRV"
	DNSRecordTypeCAA   DNSRecordType = "CAA"
)

const (
	// ApexLabel denotes the zone root in a record map.
	ApexLabel = "@"
	// DefaultTXTTTL is the TTL in seconds used for challenge records.
	DefaultTXTTTL = 300
)
