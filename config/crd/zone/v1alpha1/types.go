package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

const (
	// Group is the API group of the Zone resource.
	Group = "dns.kompox.dev"
	// Version is the API version of the Zone resource.
	Version = "v1alpha1"
	// Kind is the kind of the Zone resource.
	Kind = "Zone"
	// Resource is the plural resource name of Zone.
	Resource = "zones"
)

// GroupVersionResource is the default location of Zone objects.
var GroupVersionResource = schema.GroupVersionResource{Group: Group, Version: Version, Resource: Resource}

// Zone holds the records of one DNS zone.
// +kubebuilder:object:root=true
// +kubebuilder:resource:scope=Namespaced
type Zone struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec ZoneSpec `json:"spec,omitempty"`
}

// ZoneSpec defines the records of a zone keyed by zone-relative label.
type ZoneSpec struct {
	// Records maps a label ("@" for the apex) to its records.
	Records map[string][]Record `json:"records,omitempty"`
}

// Record is one DNS record in presentation form.
type Record struct {
	Type  string `json:"type"`
	Value string `json:"value"`
	// TTL in seconds; zero means the server default.
	TTL int64 `json:"ttl,omitempty"`
}

// ParseGroupVersionResource parses "resource.version.group" (e.g.
// "zones.v1alpha1.dns.kompox.dev"). The empty string selects
// GroupVersionResource.
func ParseGroupVersionResource(s string) (schema.GroupVersionResource, bool) {
	if s == "" {
		return GroupVersionResource, true
	}
	gvr, _ := schema.ParseResourceArg(s)
	if gvr == nil || gvr.Resource == "" || gvr.Version == "" {
		return schema.GroupVersionResource{}, false
	}
	return *gvr, true
}
