package zone

import (
	"context"

	"github.com/kompox/zoneacme/domain"
)

// CredentialResolver resolves the credential fields of a zone key.
// Both methods return an error wrapping model.ErrCredentialNotFound when no
// value is configured.
type CredentialResolver interface {
	ResolveToken(ctx context.Context, zoneKey string) (string, error)
	ResolveNamespace(ctx context.Context, zoneKey string) (string, error)
}

// UseCase locates the zone owning a hostname.
type UseCase struct {
	Credentials CredentialResolver
	Clients     domain.ClientResolver
}
