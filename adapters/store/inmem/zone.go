package inmem

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/kompox/zoneacme/domain"
	"github.com/kompox/zoneacme/domain/model"
	"github.com/kompox/zoneacme/internal/naming"
)

type zoneID struct{ namespace, name string }

// ZoneWrite records one successful PutZone.
type ZoneWrite struct {
	Fingerprint string
	Namespace   string
	Zone        string
}

// ZoneBackend is an in-memory multi-tenant zone store. Tokens are granted
// access to namespaces; reading a namespace without a grant is forbidden.
type ZoneBackend struct {
	mu      sync.Mutex
	zones   map[zoneID]*model.ZoneDocument
	grants  map[string]map[string]bool
	clients map[string]*ZoneClient
	version int

	writes   []ZoneWrite
	resolves int

	// ResolveErr, GetErr and PutErr inject failures when set.
	ResolveErr error
	GetErr     error
	PutErr     error
}

func NewZoneBackend() *ZoneBackend {
	return &ZoneBackend{
		zones:   map[zoneID]*model.ZoneDocument{},
		grants:  map[string]map[string]bool{},
		clients: map[string]*ZoneClient{},
	}
}

// Grant allows token to access zones in namespace.
func (b *ZoneBackend) Grant(token, namespace string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.grants[token] == nil {
		b.grants[token] = map[string]bool{}
	}
	b.grants[token][namespace] = true
}

// SetZone stores a copy of doc under (doc.Namespace, doc.Name).
func (b *ZoneBackend) SetZone(doc *model.ZoneDocument) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.store(doc)
}

// Zone returns a copy of the stored zone, or nil.
func (b *ZoneBackend) Zone(namespace, name string) *model.ZoneDocument {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.zones[zoneID{namespace, name}].DeepCopy()
}

// Writes returns the successful writes in order.
func (b *ZoneBackend) Writes() []ZoneWrite {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]ZoneWrite(nil), b.writes...)
}

// Resolves returns how many clients were provisioned.
func (b *ZoneBackend) Resolves() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.resolves
}

// Resolve implements domain.ClientResolver.
func (b *ZoneBackend) Resolve(_ context.Context, token string) (domain.ZoneClient, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ResolveErr != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrBackend, b.ResolveErr)
	}
	fp := naming.TokenFingerprint(token)
	if c, ok := b.clients[fp]; ok {
		return c, nil
	}
	b.resolves++
	c := &ZoneClient{backend: b, token: token, fingerprint: fp}
	b.clients[fp] = c
	return c, nil
}

func (b *ZoneBackend) store(doc *model.ZoneDocument) {
	b.version++
	cp := doc.DeepCopy()
	cp.ResourceVersion = strconv.Itoa(b.version)
	b.zones[zoneID{doc.Namespace, doc.Name}] = cp
}

// ZoneClient is a ZoneBackend view authorized by one token.
type ZoneClient struct {
	backend     *ZoneBackend
	token       string
	fingerprint string
}

func (c *ZoneClient) Fingerprint() string { return c.fingerprint }

func (c *ZoneClient) GetZone(_ context.Context, namespace, zone string) (*model.ZoneDocument, error) {
	b := c.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.GetErr != nil {
		return nil, fmt.Errorf("get zone %s/%s: %w: %w", namespace, zone, model.ErrBackend, b.GetErr)
	}
	if !b.grants[c.token][namespace] {
		return nil, fmt.Errorf("get zone %s/%s: %w", namespace, zone, model.ErrZoneForbidden)
	}
	doc, ok := b.zones[zoneID{namespace, zone}]
	if !ok {
		return nil, fmt.Errorf("get zone %s/%s: %w", namespace, zone, model.ErrZoneNotFound)
	}
	return doc.DeepCopy(), nil
}

func (c *ZoneClient) PutZone(_ context.Context, doc *model.ZoneDocument) error {
	b := c.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.PutErr != nil {
		return fmt.Errorf("update zone %s/%s: %w", doc.Namespace, doc.Name, b.PutErr)
	}
	if !b.grants[c.token][doc.Namespace] {
		return fmt.Errorf("update zone %s/%s: %w", doc.Namespace, doc.Name, model.ErrZoneForbidden)
	}
	cur, ok := b.zones[zoneID{doc.Namespace, doc.Name}]
	if !ok {
		return fmt.Errorf("update zone %s/%s: %w", doc.Namespace, doc.Name, model.ErrZoneNotFound)
	}
	if doc.ResourceVersion != "" && doc.ResourceVersion != cur.ResourceVersion {
		return fmt.Errorf("update zone %s/%s: %w", doc.Namespace, doc.Name, model.ErrWriteConflict)
	}
	b.store(doc)
	b.writes = append(b.writes, ZoneWrite{Fingerprint: c.fingerprint, Namespace: doc.Namespace, Zone: doc.Name})
	return nil
}

var _ domain.ClientResolver = (*ZoneBackend)(nil)
var _ domain.ZoneClient = (*ZoneClient)(nil)
