package credential

import (
	"github.com/kompox/zoneacme/domain"
	"github.com/kompox/zoneacme/domain/model"
)

// Repos groups repositories required by credential use cases.
type Repos struct {
	AccountConfig domain.AccountConfigRepository
}

// Overrides holds credentials supplied by the process environment. They take
// precedence over persisted values of the same tier.
type Overrides struct {
	Global model.Credential
	// Zones maps a zone key to its credential overrides.
	Zones map[string]model.Credential
}

// UseCase resolves and persists zone credentials.
type UseCase struct {
	Repos     *Repos
	Overrides *Overrides
}

// Source names where a resolved credential value came from.
type Source string

const (
	SourceNone        Source = ""
	SourceZoneEnv     Source = "env:zone"
	SourceZoneStore   Source = "store:zone"
	SourceGlobalEnv   Source = "env:global"
	SourceGlobalStore Source = "store:global"
)
