package model

// Record is a single DNS record stored under a label of a zone document.
type Record struct {
	Type  DNSRecordType
	Value string
	TTL   int
}

// ZoneDocument is the authoritative representation of one DNS zone as stored
// by the zone backend. Records maps a zone-relative label ("@" for the apex)
// to its ordered records.
//
// ResourceVersion is opaque and backend specific. When set, writes are rejected
// with ErrWriteConflict if the zone changed since it was read. When empty, the
// last writer wins.
type ZoneDocument struct {
	Name            string
	Namespace       string
	ResourceVersion string
	Records         map[string][]Record
}

// DeepCopy returns a copy of d that shares no slices or maps with it.
func (d *ZoneDocument) DeepCopy() *ZoneDocument {
	if d == nil {
		return nil
	}
	out := *d
	if d.Records != nil {
		out.Records = make(map[string][]Record, len(d.Records))
		for label, recs := range d.Records {
			out.Records[label] = append([]Record(nil), recs...)
		}
	}
	return &out
}

// Equal reports whether d and o hold the same records under the same labels.
// Metadata fields are ignored.
func (d *ZoneDocument) Equal(o *ZoneDocument) bool {
	if d == nil || o == nil {
		return d == o
	}
	if len(d.Records) != len(o.Records) {
		return false
	}
	for label, recs := range d.Records {
		other, ok := o.Records[label]
		if !ok || len(other) != len(recs) {
			return false
		}
		for i := range recs {
			if recs[i] != other[i] {
				return false
			}
		}
	}
	return true
}

// AddTXT returns a copy of doc with a TXT record appended at label.
// The label is created when absent. Adding a value that already exists appends
// a duplicate; the backend does not deduplicate. A non-positive ttl selects
// DefaultTXTTTL.
func AddTXT(doc *ZoneDocument, label, value string, ttl int) *ZoneDocument {
	if ttl <= 0 {
		ttl = DefaultTXTTTL
	}
	out := doc.DeepCopy()
	if out == nil {
		out = &ZoneDocument{}
	}
	if out.Records == nil {
		out.Records = map[string][]Record{}
	}
	out.Records[label] = append(out.Records[label], Record{Type: DNSRecordTypeTXT, Value: value, TTL: ttl})
	return out
}

// RemoveTXT returns a copy of doc without any TXT record matching value at label.
// A label left with no records is removed from the map. When nothing matches
// the returned document is structurally equal to doc.
func RemoveTXT(doc *ZoneDocument, label, value string) *ZoneDocument {
	out := doc.DeepCopy()
	if out == nil {
		return nil
	}
	recs, ok := out.Records[label]
	if !ok {
		return out
	}
	kept := recs[:0]
	for _, r := range recs {
		if r.Type == DNSRecordTypeTXT && r.Value == value {
			continue
		}
		kept = append(kept, r)
	}
	if len(kept) == len(recs) {
		return out
	}
	if len(kept) == 0 {
		delete(out.Records, label)
	} else {
		out.Records[label] = kept
	}
	return out
}
