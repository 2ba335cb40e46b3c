package challenge

import (
	"context"
	"fmt"

	"github.com/kompox/zoneacme/domain/model"
	"github.com/kompox/zoneacme/internal/logging"
)

// RemoveInput holds parameters for Remove.
type RemoveInput struct {
	Hostname string `json:"hostname"` // fully-qualified challenge hostname
	Value    string `json:"value"`    // TXT record value
}

// RemoveOutput holds the result of Remove.
type RemoveOutput struct {
	Result
}

// Remove withdraws every TXT record with in.Value at in.Hostname. Removing an
// absent record succeeds without writing.
func (u *UseCase) Remove(ctx context.Context, in *RemoveInput) (*RemoveOutput, error) {
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	if in.Hostname == "" || in.Value == "" {
		return nil, fmt.Errorf("hostname and value are required")
	}

	target, err := u.locate(ctx, in.Hostname, false)
	if err != nil {
		return nil, fmt.Errorf("remove %s: %w", in.Hostname, err)
	}
	out := &RemoveOutput{Result: target.result}
	logger := logging.FromContext(ctx).With("zone", out.Zone, "label", out.Label, "fingerprint", out.Fingerprint)

	updated := model.RemoveTXT(target.doc, out.Label, in.Value)
	if updated.Equal(target.doc) {
		logger.Info(ctx, "Challenge:Remove/absent")
		return out, nil
	}
	if err := target.client.PutZone(ctx, updated); err != nil {
		return nil, fmt.Errorf("remove %s: write zone %s: %w", in.Hostname, out.Zone, err)
	}
	out.Changed = true
	logger.Info(ctx, "Challenge:Remove/withdrawn")
	return out, nil
}
