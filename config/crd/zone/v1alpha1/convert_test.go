package v1alpha1

import (
	"testing"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/kompox/zoneacme/domain/model"
)

func TestRecordsRoundTripPreservesSpec(t *testing.T) {
	obj := &unstructured.Unstructured{Object: map[string]any{
		"apiVersion": "dns.kompox.dev/v1alpha1",
		"kind":       "Zone",
		"metadata":   map[string]any{"name": "example.com", "namespace": "tenant-a"},
		"spec": map[string]any{
			"soa": map[string]any{"refresh": int64(7200)},
			"records": map[string]any{
				"@":   []any{map[string]any{"type": "A", "value": "192.0.2.1", "ttl": int64(3600)}},
				"www": []any{map[string]any{"type": "CNAME", "value": "example.com."}},
			},
		},
	}}

	recs, err := RecordsFromUnstructured(obj)
	if err != nil {
		t.Fatalf("RecordsFromUnstructured error: %v", err)
	}
	if got := recs["www"]; len(got) != 1 || got[0].TTL != 0 || got[0].Type != model.DNSRecordTypeCNAME {
		t.Fatalf("unexpected www records: %+v", got)
	}

	doc := model.AddTXT(&model.ZoneDocument{Records: recs}, "_acme-challenge", "v1", 0)
	if err := SetRecords(obj, doc.Records); err != nil {
		t.Fatalf("SetRecords error: %v", err)
	}
	if v, _, _ := unstructured.NestedInt64(obj.Object, "spec", "soa", "refresh"); v != 7200 {
		t.Errorf("spec.soa.refresh = %d, want 7200", v)
	}
	again, err := RecordsFromUnstructured(obj)
	if err != nil {
		t.Fatal(err)
	}
	if !(&model.ZoneDocument{Records: again}).Equal(doc) {
		t.Fatalf("records after round trip = %+v, want %+v", again, doc.Records)
	}
}

func TestRecordsFromUnstructuredRejectsMalformed(t *testing.T) {
	obj := &unstructured.Unstructured{Object: map[string]any{
		"spec": map[string]any{"records": "not-a-map"},
	}}
	if _, err := RecordsFromUnstructured(obj); err == nil {
		t.Fatal("expected error for malformed records")
	}
}

func TestParseGroupVersionResource(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"", "dns.kompox.dev/v1alpha1, Resource=zones", true},
		{"zones.v1alpha1.dns.kompox.dev", "dns.kompox.dev/v1alpha1, Resource=zones", true},
		{"dnszones.v1.example.org", "example.org/v1, Resource=dnszones", true},
		{"zones", "", false},
	}
	for _, tt := range tests {
		gvr, ok := ParseGroupVersionResource(tt.in)
		if ok != tt.wantOK {
			t.Errorf("ParseGroupVersionResource(%q) ok = %v", tt.in, ok)
			continue
		}
		if ok && gvr.String() != tt.want {
			t.Errorf("ParseGroupVersionResource(%q) = %q, want %q", tt.in, gvr.String(), tt.want)
		}
	}
}
