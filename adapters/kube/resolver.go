package kube

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"k8s.io/apimachinery/pkg/runtime/schema"

	zonev1 "github.com/kompox/zoneacme/config/crd/zone/v1alpha1"
	"github.com/kompox/zoneacme/domain"
	"github.com/kompox/zoneacme/domain/model"
	"github.com/kompox/zoneacme/internal/kubeconfig"
	"github.com/kompox/zoneacme/internal/logging"
	"github.com/kompox/zoneacme/internal/naming"
)

// ResolverOptions configures a Resolver.
type ResolverOptions struct {
	// CacheDir holds per-token kubeconfig files. Empty disables the disk cache.
	CacheDir string
	// Template is the kubeconfig template source used on cache miss.
	Template TemplateSource
	// Resource is the Zone resource; the zero value selects zonev1.GroupVersionResource.
	Resource schema.GroupVersionResource
	// Client tunes the underlying REST clients.
	Client *Options
}

// Resolver provisions zone clients per credential token. Clients are cached in
// memory by token fingerprint for the life of the process, and their
// kubeconfigs on disk as <CacheDir>/kubeconfig-<fingerprint>.yaml.
type Resolver struct {
	cacheDir string
	template TemplateSource
	gvr      schema.GroupVersionResource
	opts     *Options

	newClient func(ctx context.Context, kubeconfig []byte, fingerprint string) (domain.ZoneClient, error)

	mu      sync.Mutex
	clients map[string]domain.ZoneClient
}

var _ domain.ClientResolver = (*Resolver)(nil)

// NewResolver returns a Resolver.
func NewResolver(opts ResolverOptions) *Resolver {
	gvr := opts.Resource
	if gvr == (schema.GroupVersionResource{}) {
		gvr = zonev1.GroupVersionResource
	}
	r := &Resolver{
		cacheDir: opts.CacheDir,
		template: opts.Template,
		gvr:      gvr,
		opts:     opts.Client,
		clients:  map[string]domain.ZoneClient{},
	}
	r.newClient = r.buildClient
	return r
}

// Resolve implements domain.ClientResolver.
func (r *Resolver) Resolve(ctx context.Context, token string) (client domain.ZoneClient, err error) {
	if token == "" {
		return nil, fmt.Errorf("%w: token is empty", model.ErrBackend)
	}
	fp := naming.TokenFingerprint(token)

	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.clients[fp]; ok {
		return c, nil
	}

	logger := logging.FromContext(ctx).With("fingerprint", fp)
	msgSym := "KubeResolver:Resolve"
	logger.Debug(ctx, msgSym+"/s")
	defer func() {
		if err == nil {
			logger.Debug(ctx, msgSym+"/eok")
		} else {
			logger.Info(ctx, msgSym+"/efail", "err", err)
		}
	}()

	kc, err := r.kubeconfig(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: provision kubeconfig for token %s: %w", model.ErrBackend, fp, err)
	}
	c, err := r.newClient(ctx, kc, fp)
	if err != nil {
		return nil, fmt.Errorf("%w: build client for token %s: %w", model.ErrBackend, fp, err)
	}
	r.clients[fp] = c
	return c, nil
}

// CachePath returns the disk cache file of token, or "" when caching is disabled.
func (r *Resolver) CachePath(token string) string {
	if r.cacheDir == "" {
		return ""
	}
	return filepath.Join(r.cacheDir, naming.KubeconfigCacheFile(token))
}

// kubeconfig returns the kubeconfig for token from the disk cache, or
// provisions it from the template.
func (r *Resolver) kubeconfig(ctx context.Context, token string) ([]byte, error) {
	logger := logging.FromContext(ctx)
	if data, ok := r.readCache(token); ok {
		logger.Debug(ctx, "KubeResolver:CacheHit", "path", r.CachePath(token))
		return data, nil
	}
	if r.template == nil {
		return nil, fmt.Errorf("kubeconfig template is not configured")
	}
	tmpl, err := r.template.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	cfg, err := kubeconfig.InjectToken(tmpl, token)
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", r.template, err)
	}
	data, err := kubeconfig.Write(cfg)
	if err != nil {
		return nil, err
	}
	if err := r.writeCache(token, data); err != nil {
		logger.Warn(ctx, "KubeResolver:CacheWrite/efail", "err", err)
	}
	return data, nil
}

// readCache returns the cached kubeconfig when it parses and carries token.
func (r *Resolver) readCache(token string) ([]byte, bool) {
	path := r.CachePath(token)
	if path == "" {
		return nil, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	cfg, err := kubeconfig.Load(data)
	if err != nil || kubeconfig.Token(cfg) != token {
		return nil, false
	}
	return data, true
}

func (r *Resolver) writeCache(token string, data []byte) error {
	path := r.CachePath(token)
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(r.cacheDir, 0o700); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	f, err := os.CreateTemp(r.cacheDir, ".kubeconfig-*")
	if err != nil {
		return fmt.Errorf("create cache file: %w", err)
	}
	tmp := f.Name()
	defer os.Remove(tmp)
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write cache file: %w", err)
	}
	if err := f.Chmod(0o600); err != nil {
		f.Close()
		return fmt.Errorf("chmod cache file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close cache file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename cache file: %w", err)
	}
	return nil
}

func (r *Resolver) buildClient(ctx context.Context, kc []byte, fingerprint string) (domain.ZoneClient, error) {
	c, err := NewClientFromKubeconfig(ctx, kc, r.opts)
	if err != nil {
		return nil, err
	}
	return NewZoneClient(c.Dynamic, r.gvr, fingerprint), nil
}
