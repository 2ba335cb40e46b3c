package credential

import (
	"context"
	"fmt"
	"strings"

	"github.com/kompox/zoneacme/domain/model"
	"github.com/kompox/zoneacme/internal/naming"
)

type field int

const (
	fieldToken field = iota
	fieldNamespace
)

func (f field) zoneKey(zoneKey string) string {
	if f == fieldToken {
		return naming.TokenKey(zoneKey)
	}
	return naming.NamespaceKey(zoneKey)
}

func (f field) globalKey() string {
	if f == fieldToken {
		return naming.GlobalTokenKey
	}
	return naming.GlobalNamespaceKey
}

func (f field) of(c model.Credential) string {
	if f == fieldToken {
		return c.Token
	}
	return c.Namespace
}

// ResolveToken returns the token for zoneKey. Lookup order, first non-empty wins:
//  1. TOKEN_<zoneKey> from the environment
//  2. TOKEN_<zoneKey> from the account config
//  3. GLOBAL_TOKEN from the environment
//  4. GLOBAL_TOKEN from the account config
func (u *UseCase) ResolveToken(ctx context.Context, zoneKey string) (string, error) {
	v, _, err := u.resolve(ctx, zoneKey, fieldToken)
	return v, err
}

// ResolveNamespace is ResolveToken for NAMESPACE_<zoneKey> and GLOBAL_NAMESPACE.
func (u *UseCase) ResolveNamespace(ctx context.Context, zoneKey string) (string, error) {
	v, _, err := u.resolve(ctx, zoneKey, fieldNamespace)
	return v, err
}

// Resolve returns the token and namespace for zoneKey. Each field is resolved
// independently, so a zone token may pair with the global namespace.
func (u *UseCase) Resolve(ctx context.Context, zoneKey string) (model.Credential, error) {
	token, err := u.ResolveToken(ctx, zoneKey)
	if err != nil {
		return model.Credential{}, err
	}
	ns, err := u.ResolveNamespace(ctx, zoneKey)
	if err != nil {
		return model.Credential{}, err
	}
	return model.Credential{Token: token, Namespace: ns}, nil
}

// Global returns the global credential from the environment or the account
// config. Both fields are required.
func (u *UseCase) Global(ctx context.Context) (model.Credential, error) {
	var c model.Credential
	var missing []string
	for _, f := range []field{fieldToken, fieldNamespace} {
		v, _, err := u.lookupGlobal(ctx, f)
		if err != nil {
			return model.Credential{}, err
		}
		if v == "" {
			missing = append(missing, f.globalKey())
		}
		if f == fieldToken {
			c.Token = v
		} else {
			c.Namespace = v
		}
	}
	if len(missing) > 0 {
		return model.Credential{}, fmt.Errorf("%w: must set credentials %s", model.ErrCredentialNotFound, strings.Join(missing, " and "))
	}
	return c, nil
}

// ExplainOutput reports the resolved credential of a zone key and where each
// value came from.
type ExplainOutput struct {
	ZoneKey         string
	Credential      model.Credential
	TokenSource     Source
	NamespaceSource Source
}

// Explain resolves both fields of zoneKey without failing on absent values.
func (u *UseCase) Explain(ctx context.Context, zoneKey string) (*ExplainOutput, error) {
	out := &ExplainOutput{ZoneKey: zoneKey}
	var err error
	if out.Credential.Token, out.TokenSource, err = u.lookup(ctx, zoneKey, fieldToken); err != nil {
		return nil, err
	}
	if out.Credential.Namespace, out.NamespaceSource, err = u.lookup(ctx, zoneKey, fieldNamespace); err != nil {
		return nil, err
	}
	return out, nil
}

// ExplainGlobal is Explain for the global tier alone. ZoneKey is empty.
func (u *UseCase) ExplainGlobal(ctx context.Context) (*ExplainOutput, error) {
	out := &ExplainOutput{}
	var err error
	if out.Credential.Token, out.TokenSource, err = u.lookupGlobal(ctx, fieldToken); err != nil {
		return nil, err
	}
	if out.Credential.Namespace, out.NamespaceSource, err = u.lookupGlobal(ctx, fieldNamespace); err != nil {
		return nil, err
	}
	return out, nil
}

func (u *UseCase) resolve(ctx context.Context, zoneKey string, f field) (string, Source, error) {
	v, src, err := u.lookup(ctx, zoneKey, f)
	if err != nil {
		return "", SourceNone, err
	}
	if v == "" {
		return "", SourceNone, fmt.Errorf("%w: set %s or %s", model.ErrCredentialNotFound, f.zoneKey(zoneKey), f.globalKey())
	}
	return v, src, nil
}

// lookup walks the four tiers and returns "" when all are empty.
func (u *UseCase) lookup(ctx context.Context, zoneKey string, f field) (string, Source, error) {
	if v := f.of(u.Overrides.zone(zoneKey)); v != "" {
		return v, SourceZoneEnv, nil
	}
	v, err := u.Repos.AccountConfig.Get(ctx, f.zoneKey(zoneKey))
	if err != nil {
		return "", SourceNone, fmt.Errorf("read %s: %w", f.zoneKey(zoneKey), err)
	}
	if v != "" {
		return v, SourceZoneStore, nil
	}
	return u.lookupGlobal(ctx, f)
}

func (u *UseCase) lookupGlobal(ctx context.Context, f field) (string, Source, error) {
	if v := f.of(u.Overrides.global()); v != "" {
		return v, SourceGlobalEnv, nil
	}
	v, err := u.Repos.AccountConfig.Get(ctx, f.globalKey())
	if err != nil {
		return "", SourceNone, fmt.Errorf("read %s: %w", f.globalKey(), err)
	}
	if v != "" {
		return v, SourceGlobalStore, nil
	}
	return "", SourceNone, nil
}
