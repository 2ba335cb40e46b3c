package naming

import (
	"fmt"
	"strings"

	utilvalidation "k8s.io/apimachinery/pkg/util/validation"
)

// ValidateZoneObjectName checks that a zone name can be used as the name of
// the zone object in the cluster.
func ValidateZoneObjectName(name string) error {
	if name == "" {
		return fmt.Errorf("zone name must not be empty")
	}
	if errs := utilvalidation.IsDNS1123Subdomain(name); len(errs) > 0 {
		return fmt.Errorf("invalid zone name %q: %s", name, strings.Join(errs, ", "))
	}
	return nil
}

// ValidateNamespace checks that ns is a valid namespace name.
func ValidateNamespace(ns string) error {
	if ns == "" {
		return fmt.Errorf("namespace must not be empty")
	}
	if errs := utilvalidation.IsDNS1123Label(ns); len(errs) > 0 {
		return fmt.Errorf("invalid namespace %q: %s", ns, strings.Join(errs, ", "))
	}
	return nil
}
