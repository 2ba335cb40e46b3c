package challenge

import (
	"context"
	"time"

	"github.com/kompox/zoneacme/domain"
	"github.com/kompox/zoneacme/domain/model"
	"github.com/kompox/zoneacme/usecase/zone"
)

// CredentialStore is the part of the credential use case needed here.
type CredentialStore interface {
	Global(ctx context.Context) (model.Credential, error)
	PersistGlobal(ctx context.Context, cred model.Credential) error
	Persist(ctx context.Context, zoneKey string, cred model.Credential) error
}

// ZoneFinder locates the zone owning a hostname.
type ZoneFinder interface {
	FindZone(ctx context.Context, in *zone.FindZoneInput) (*zone.FindZoneOutput, error)
}

// UseCase publishes and withdraws DNS-01 challenge records.
type UseCase struct {
	Credentials CredentialStore
	Zones       ZoneFinder
	Clients     domain.ClientResolver
	// PropagationDelay is waited after publishing a record. Zero disables the wait.
	PropagationDelay time.Duration
	// TTL of published records; non-positive selects model.DefaultTXTTTL.
	TTL int
	// Sleep waits for d or until ctx is done. Defaults to a timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Result describes the record an operation touched.
type Result struct {
	Hostname    string `json:"hostname"`
	Zone        string `json:"zone"`
	Namespace   string `json:"namespace"`
	Label       string `json:"label"`
	Fingerprint string `json:"fingerprint"`
	Changed     bool   `json:"changed"`
}

func (u *UseCase) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	if u.Sleep != nil {
		return u.Sleep(ctx, d)
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
