package domain

import (
	"context"

	"github.com/kompox/zoneacme/domain/model"
)

// AccountConfigRepository is the durable key-value store holding persisted
// credentials (GLOBAL_TOKEN, TOKEN_<ZONEKEY>, ...). Get returns an empty string
// and no error for absent keys.
type AccountConfigRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string]string, error)
}

// ZoneClient reads and replaces zone documents under one credential.
//
// GetZone returns an error wrapping model.ErrZoneNotFound or model.ErrZoneForbidden
// when the zone is absent or not readable with the credential; other failures
// wrap model.ErrBackend.
//
// PutZone submits doc as a full replacement of the zone's records. It returns an
// error wrapping model.ErrWriteConflict when doc.ResourceVersion is stale, and
// model.ErrWrite when the backend rejects the write.
type ZoneClient interface {
	GetZone(ctx context.Context, namespace, zone string) (*model.ZoneDocument, error)
	PutZone(ctx context.Context, doc *model.ZoneDocument) error
	// Fingerprint identifies the token the client is authorized with.
	Fingerprint() string
}

// ClientResolver yields a ready ZoneClient for a credential token.
// Implementations cache clients by token fingerprint.
type ClientResolver interface {
	Resolve(ctx context.Context, token string) (ZoneClient, error)
}
