package zone

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kompox/zoneacme/domain"
	"github.com/kompox/zoneacme/domain/model"
	"github.com/kompox/zoneacme/internal/logging"
	"github.com/kompox/zoneacme/internal/naming"
)

// FindZoneInput holds parameters for FindZone.
type FindZoneInput struct {
	Hostname string `json:"hostname"`
}

// FindZoneOutput describes the zone owning the hostname.
type FindZoneOutput struct {
	Hostname   string              `json:"hostname"` // normalized
	Zone       *model.ZoneDocument `json:"-"`
	ZoneKey    string              `json:"zoneKey"`
	Credential model.Credential    `json:"-"`
	Client     domain.ZoneClient   `json:"-"`
	Attempts   []Attempt           `json:"attempts"`
}

// Attempt records the outcome for one candidate zone name.
type Attempt struct {
	Zone        string `json:"zone"`
	ZoneKey     string `json:"zoneKey"`
	Fingerprint string `json:"fingerprint,omitempty"`
	Namespace   string `json:"namespace,omitempty"`
	Result      string `json:"result"` // "found", "no-credential", "not-found", "forbidden"
}

// FindZone walks the candidate zones of in.Hostname from the most specific to
// the top-level label. The first candidate whose credential resolves and whose
// zone document can be read wins.
//
// Missing credentials and unreadable zones advance to the next candidate.
// Client provisioning failures and other backend errors abort the search.
// When no candidate matches the error wraps model.ErrCredentialNotFound if no
// candidate had a credential, and model.ErrZoneNotFound otherwise.
func (u *UseCase) FindZone(ctx context.Context, in *FindZoneInput) (*FindZoneOutput, error) {
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	host, err := naming.NormalizeHostname(in.Hostname)
	if err != nil {
		return nil, err
	}
	logger := logging.FromContext(ctx).With("hostname", host)
	out := &FindZoneOutput{Hostname: host}
	credentialed := false

	for candidate := host; ; {
		key := naming.ZoneKey(candidate)
		att := Attempt{Zone: candidate, ZoneKey: key}

		found, err := u.tryCandidate(ctx, &att)
		if err != nil {
			return nil, fmt.Errorf("find zone for %s: candidate %s: %w", host, candidate, err)
		}
		out.Attempts = append(out.Attempts, att)
		logger.Debug(ctx, "FindZone:Candidate", "zone", candidate, "result", att.Result, "fingerprint", att.Fingerprint)
		if att.Result != resultNoCredential {
			credentialed = true
		}
		if found != nil {
			out.Zone = found.doc
			out.ZoneKey = key
			out.Credential = found.cred
			out.Client = found.client
			logger.Info(ctx, "FindZone:Found", "zone", candidate, "namespace", found.cred.Namespace, "fingerprint", att.Fingerprint)
			return out, nil
		}

		parent, ok := naming.ParentCandidate(candidate)
		if !ok {
			break
		}
		candidate = parent
	}

	tried := make([]string, 0, len(out.Attempts))
	for _, a := range out.Attempts {
		tried = append(tried, a.Zone)
	}
	if !credentialed {
		keys := make([]string, 0, 2*len(out.Attempts))
		for _, a := range out.Attempts {
			keys = append(keys, naming.TokenKey(a.ZoneKey)+"/"+naming.NamespaceKey(a.ZoneKey))
		}
		return out, fmt.Errorf("no owning zone located for %s: %w: set GLOBAL_TOKEN/GLOBAL_NAMESPACE or one of %s",
			host, model.ErrCredentialNotFound, strings.Join(keys, ", "))
	}
	return out, fmt.Errorf("no owning zone located for %s: %w: tried %s", host, model.ErrZoneNotFound, strings.Join(tried, ", "))
}

const (
	resultFound        = "found"
	resultNoCredential = "no-credential"
	resultNotFound     = "not-found"
	resultForbidden    = "forbidden"
)

type candidateMatch struct {
	doc    *model.ZoneDocument
	cred   model.Credential
	client domain.ZoneClient
}

// tryCandidate returns a match, or nil with att.Result explaining why the
// candidate was skipped. A non-nil error aborts the search.
func (u *UseCase) tryCandidate(ctx context.Context, att *Attempt) (*candidateMatch, error) {
	token, err := u.Credentials.ResolveToken(ctx, att.ZoneKey)
	if errors.Is(err, model.ErrCredentialNotFound) {
		att.Result = resultNoCredential
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve token: %w", err)
	}
	ns, err := u.Credentials.ResolveNamespace(ctx, att.ZoneKey)
	if errors.Is(err, model.ErrCredentialNotFound) {
		att.Result = resultNoCredential
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve namespace: %w", err)
	}
	att.Namespace = ns
	att.Fingerprint = naming.TokenFingerprint(token)

	client, err := u.Clients.Resolve(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("resolve client: %w", err)
	}
	doc, err := client.GetZone(ctx, ns, att.Zone)
	switch {
	case err == nil:
		att.Result = resultFound
		return &candidateMatch{doc: doc, cred: model.Credential{Token: token, Namespace: ns}, client: client}, nil
	case errors.Is(err, model.ErrZoneNotFound):
		att.Result = resultNotFound
		return nil, nil
	case errors.Is(err, model.ErrZoneForbidden):
		att.Result = resultForbidden
		return nil, nil
	default:
		return nil, fmt.Errorf("fetch zone: %w", err)
	}
}
