// Package v1alpha1 defines the dns.kompox.dev/v1alpha1 Zone resource as read
// and written by zoneacme.
//
// A Zone object is named after the DNS zone it holds (e.g. "example.com") and
// lives in the tenant namespace its credential is scoped to:
//
//	apiVersion: dns.kompox.dev/v1alpha1
//	kind: Zone
//	metadata:
//	  name: example.com
//	  namespace: tenant-a
//	spec:
//	  records:
//	    "@":
//	    - {type: A, value: 192.0.2.1, ttl: 3600}
//	    _acme-challenge:
//	    - {type: TXT, value: xyz123, ttl: 300}
//
// Only spec.records is modeled; other fields of the object are left untouched
// on write.
package v1alpha1
