package credential

import (
	"context"
	"fmt"

	"github.com/kompox/zoneacme/domain/model"
	"github.com/kompox/zoneacme/internal/naming"
)

// Persist writes cred to the account config as TOKEN_<zoneKey> and
// NAMESPACE_<zoneKey>. Empty fields are skipped.
func (u *UseCase) Persist(ctx context.Context, zoneKey string, cred model.Credential) error {
	if zoneKey == "" {
		return fmt.Errorf("zone key is empty")
	}
	return u.persist(ctx, naming.TokenKey(zoneKey), naming.NamespaceKey(zoneKey), cred)
}

// PersistGlobal writes cred as GLOBAL_TOKEN and GLOBAL_NAMESPACE.
func (u *UseCase) PersistGlobal(ctx context.Context, cred model.Credential) error {
	return u.persist(ctx, naming.GlobalTokenKey, naming.GlobalNamespaceKey, cred)
}

// Forget deletes the persisted credential of zoneKey.
func (u *UseCase) Forget(ctx context.Context, zoneKey string) error {
	for _, key := range []string{naming.TokenKey(zoneKey), naming.NamespaceKey(zoneKey)} {
		if err := u.Repos.AccountConfig.Delete(ctx, key); err != nil {
			return fmt.Errorf("delete %s: %w", key, err)
		}
	}
	return nil
}

// Persisted returns all persisted keys. Callers must not print token values.
func (u *UseCase) Persisted(ctx context.Context) (map[string]string, error) {
	return u.Repos.AccountConfig.List(ctx)
}

func (u *UseCase) persist(ctx context.Context, tokenKey, nsKey string, cred model.Credential) error {
	if cred.Token != "" {
		if err := u.Repos.AccountConfig.Set(ctx, tokenKey, cred.Token); err != nil {
			return fmt.Errorf("write %s: %w", tokenKey, err)
		}
	}
	if cred.Namespace != "" {
		if err := u.Repos.AccountConfig.Set(ctx, nsKey, cred.Namespace); err != nil {
			return fmt.Errorf("write %s: %w", nsKey, err)
		}
	}
	return nil
}
