package challenge

import (
	"context"
	"fmt"

	"github.com/kompox/zoneacme/domain"
	"github.com/kompox/zoneacme/domain/model"
	"github.com/kompox/zoneacme/internal/logging"
	"github.com/kompox/zoneacme/internal/naming"
	"github.com/kompox/zoneacme/usecase/zone"
)

// AddInput holds parameters for Add.
type AddInput struct {
	Hostname string `json:"hostname"` // fully-qualified challenge hostname
	Value    string `json:"value"`    // TXT record value
}

// AddOutput holds the result of Add.
type AddOutput struct {
	Result
}

// Add publishes a TXT record for in.Hostname and waits PropagationDelay.
func (u *UseCase) Add(ctx context.Context, in *AddInput) (*AddOutput, error) {
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	if in.Hostname == "" || in.Value == "" {
		return nil, fmt.Errorf("hostname and value are required")
	}

	target, err := u.locate(ctx, in.Hostname, true)
	if err != nil {
		return nil, fmt.Errorf("add %s: %w", in.Hostname, err)
	}
	out := &AddOutput{Result: target.result}
	logger := logging.FromContext(ctx).With("zone", out.Zone, "label", out.Label, "fingerprint", out.Fingerprint)

	updated := model.AddTXT(target.doc, out.Label, in.Value, u.TTL)
	if err := target.client.PutZone(ctx, updated); err != nil {
		return nil, fmt.Errorf("add %s: write zone %s: %w", in.Hostname, out.Zone, err)
	}
	out.Changed = true
	logger.Info(ctx, "Challenge:Add/published")

	if err := u.sleep(ctx, u.PropagationDelay); err != nil {
		return nil, fmt.Errorf("add %s: wait for propagation: %w", in.Hostname, err)
	}
	return out, nil
}

type target struct {
	result Result
	doc    *model.ZoneDocument
	client domain.ZoneClient
}

// locate runs the steps shared by Add and Remove: require and persist the
// global credential, find the owning zone, then fetch its document with a
// client for the zone credential. persistZone also stores the zone credential.
func (u *UseCase) locate(ctx context.Context, hostname string, persistZone bool) (*target, error) {
	global, err := u.Credentials.Global(ctx)
	if err != nil {
		return nil, err
	}
	if err := u.Credentials.PersistGlobal(ctx, global); err != nil {
		return nil, fmt.Errorf("persist global credential: %w", err)
	}

	found, err := u.Zones.FindZone(ctx, &zone.FindZoneInput{Hostname: hostname})
	if err != nil {
		return nil, err
	}
	zoneName := found.Zone.Name
	cred := found.Credential
	if persistZone {
		if err := u.Credentials.Persist(ctx, found.ZoneKey, cred); err != nil {
			return nil, fmt.Errorf("persist credential for %s: %w", zoneName, err)
		}
	}

	client, err := u.Clients.Resolve(ctx, cred.Token)
	if err != nil {
		return nil, fmt.Errorf("resolve client for %s: %w", zoneName, err)
	}
	doc, err := client.GetZone(ctx, cred.Namespace, zoneName)
	if err != nil {
		return nil, fmt.Errorf("fetch zone %s: %w", zoneName, err)
	}
	return &target{
		result: Result{
			Hostname:    found.Hostname,
			Zone:        zoneName,
			Namespace:   cred.Namespace,
			Label:       naming.RecordLabel(found.Hostname, zoneName),
			Fingerprint: client.Fingerprint(),
		},
		doc:    doc,
		client: client,
	}, nil
}
