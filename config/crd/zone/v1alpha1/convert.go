package v1alpha1

import (
	"fmt"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"

	"github.com/kompox/zoneacme/domain/model"
)

// RecordsFromUnstructured decodes spec.records of a Zone object.
func RecordsFromUnstructured(obj *unstructured.Unstructured) (map[string][]model.Record, error) {
	raw, found, err := unstructured.NestedMap(obj.Object, "spec")
	if err != nil {
		return nil, fmt.Errorf("read spec of zone %s/%s: %w", obj.GetNamespace(), obj.GetName(), err)
	}
	var spec ZoneSpec
	if found {
		if err := runtime.DefaultUnstructuredConverter.FromUnstructured(raw, &spec); err != nil {
			return nil, fmt.Errorf("decode spec of zone %s/%s: %w", obj.GetNamespace(), obj.GetName(), err)
		}
	}
	return SpecToModel(spec), nil
}

// SetRecords replaces spec.records of a Zone object, leaving other fields untouched.
func SetRecords(obj *unstructured.Unstructured, records map[string][]model.Record) error {
	spec := ModelToSpec(records)
	out, err := runtime.DefaultUnstructuredConverter.ToUnstructured(&spec)
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	recs, ok := out["records"]
	if !ok {
		recs = map[string]any{}
	}
	return unstructured.SetNestedField(obj.Object, recs, "spec", "records")
}

// SpecToModel converts CRD records to the domain representation.
func SpecToModel(spec ZoneSpec) map[string][]model.Record {
	out := make(map[string][]model.Record, len(spec.Records))
	for label, recs := range spec.Records {
		converted := make([]model.Record, 0, len(recs))
		for _, r := range recs {
			converted = append(converted, model.Record{Type: model.DNSRecordType(r.Type), Value: r.Value, TTL: int(r.TTL)})
		}
		out[label] = converted
	}
	return out
}

// ModelToSpec converts domain records to the CRD representation.
func ModelToSpec(records map[string][]model.Record) ZoneSpec {
	spec := ZoneSpec{Records: make(map[string][]Record, len(records))}
	for label, recs := range records {
		converted := make([]Record, 0, len(recs))
		for _, r := range recs {
			converted = append(converted, Record{Type: string(r.Type), Value: r.Value, TTL: int64(r.TTL)})
		}
		spec.Records[label] = converted
	}
	return spec
}
