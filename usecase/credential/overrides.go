package credential

import (
	"strings"

	"github.com/kompox/zoneacme/domain/model"
	"github.com/kompox/zoneacme/internal/naming"
)

// OverridesFromEnviron collects GLOBAL_TOKEN, GLOBAL_NAMESPACE, TOKEN_<KEY> and
// NAMESPACE_<KEY> from environ (os.Environ format). Empty values are ignored.
func OverridesFromEnviron(environ []string) *Overrides {
	o := &Overrides{Zones: map[string]model.Credential{}}
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || value == "" {
			continue
		}
		switch key {
		case naming.GlobalTokenKey:
			o.Global.Token = value
			continue
		case naming.GlobalNamespaceKey:
			o.Global.Namespace = value
			continue
		}
		field, zoneKey, ok := naming.SplitCredentialKey(key)
		if !ok {
			continue
		}
		c := o.Zones[zoneKey]
		if field == "token" {
			c.Token = value
		} else {
			c.Namespace = value
		}
		o.Zones[zoneKey] = c
	}
	return o
}

func (o *Overrides) zone(zoneKey string) model.Credential {
	if o == nil {
		return model.Credential{}
	}
	return o.Zones[zoneKey]
}

func (o *Overrides) global() model.Credential {
	if o == nil {
		return model.Credential{}
	}
	return o.Global
}
