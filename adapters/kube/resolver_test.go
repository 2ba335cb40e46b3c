package kube

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/kompox/zoneacme/domain"
	"github.com/kompox/zoneacme/domain/model"
	"github.com/kompox/zoneacme/internal/kubeconfig"
	"github.com/kompox/zoneacme/internal/naming"
)

const testTemplate = `apiVersion: v1
kind: Config
clusters:
- name: zones
  cluster:
    server: https://zones.example.net:6443
    insecure-skip-tls-verify: true
users:
- name: tenant
  user:
    token: __TOKEN__
contexts:
- name: zones
  context:
    cluster: zones
    user: tenant
current-context: zones
`

type countingTemplate struct {
	data    []byte
	err     error
	fetches int
}

func (c *countingTemplate) String() string { return "test:" }

func (c *countingTemplate) Fetch(context.Context) ([]byte, error) {
	c.fetches++
	return c.data, c.err
}

// newTestResolver returns a resolver whose clients are backed by a fake
// dynamic client. built receives the kubeconfig each client was built from.
func newTestResolver(t *testing.T, dir string, tmpl TemplateSource, built *[][]byte) *Resolver {
	t.Helper()
	r := NewResolver(ResolverOptions{CacheDir: dir, Template: tmpl})
	r.newClient = func(_ context.Context, kc []byte, fp string) (domain.ZoneClient, error) {
		if built != nil {
			*built = append(*built, kc)
		}
		return NewZoneClient(newFakeDynamic(), testGVR, fp), nil
	}
	return r
}

func TestResolverProvisionsAndCaches(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	tmpl := &countingTemplate{data: []byte(testTemplate)}
	var built [][]byte
	r := newTestResolver(t, dir, tmpl, &built)

	c1, err := r.Resolve(ctx, "T1")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if c1.Fingerprint() != naming.TokenFingerprint("T1") {
		t.Errorf("Fingerprint() = %q", c1.Fingerprint())
	}
	c2, err := r.Resolve(ctx, "T1")
	if err != nil {
		t.Fatalf("second Resolve error: %v", err)
	}
	if c1 != c2 {
		t.Errorf("expected the same client for the same token")
	}
	if tmpl.fetches != 1 || len(built) != 1 {
		t.Errorf("fetches=%d builds=%d, want 1 and 1", tmpl.fetches, len(built))
	}

	path := filepath.Join(dir, naming.KubeconfigCacheFile("T1"))
	if r.CachePath("T1") != path {
		t.Errorf("CachePath() = %q, want %q", r.CachePath("T1"), path)
	}
	st, err := os.Stat(path)
	if err != nil {
		t.Fatalf("cache file missing: %v", err)
	}
	if st.Mode().Perm() != 0o600 {
		t.Errorf("cache file mode = %v, want 0600", st.Mode().Perm())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := kubeconfig.Load(data)
	if err != nil {
		t.Fatalf("cached kubeconfig does not parse: %v", err)
	}
	if kubeconfig.Token(cfg) != "T1" {
		t.Errorf("cached token = %q, want T1", kubeconfig.Token(cfg))
	}
	if string(built[0]) != string(data) {
		t.Errorf("client built from a kubeconfig different from the cached one")
	}
}

func TestResolverDistinctTokens(t *testing.T) {
	ctx := context.Background()
	tmpl := &countingTemplate{data: []byte(testTemplate)}
	r := newTestResolver(t, t.TempDir(), tmpl, nil)

	c1, err := r.Resolve(ctx, "T1")
	if err != nil {
		t.Fatal(err)
	}
	c2, err := r.Resolve(ctx, "T2")
	if err != nil {
		t.Fatal(err)
	}
	if c1 == c2 || c1.Fingerprint() == c2.Fingerprint() {
		t.Fatalf("tokens T1 and T2 share a client")
	}
	if c2.Fingerprint() != naming.TokenFingerprint("T2") {
		t.Errorf("Fingerprint() = %q", c2.Fingerprint())
	}
}

func TestResolverReusesDiskCache(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	if _, err := newTestResolver(t, dir, &countingTemplate{data: []byte(testTemplate)}, nil).Resolve(ctx, "T1"); err != nil {
		t.Fatal(err)
	}

	// A fresh process with an unreachable template source.
	broken := &countingTemplate{err: fmt.Errorf("offline")}
	if _, err := newTestResolver(t, dir, broken, nil).Resolve(ctx, "T1"); err != nil {
		t.Fatalf("Resolve from disk cache error: %v", err)
	}
	if broken.fetches != 0 {
		t.Errorf("template fetched %d times despite a valid cache", broken.fetches)
	}
}

func TestResolverReplacesStaleCache(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	cfg, err := kubeconfig.InjectToken([]byte(testTemplate), "rotated")
	if err != nil {
		t.Fatal(err)
	}
	stale, err := kubeconfig.Write(cfg)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, naming.KubeconfigCacheFile("T1"))
	if err := os.WriteFile(path, stale, 0o600); err != nil {
		t.Fatal(err)
	}

	tmpl := &countingTemplate{data: []byte(testTemplate)}
	if _, err := newTestResolver(t, dir, tmpl, nil).Resolve(ctx, "T1"); err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if tmpl.fetches != 1 {
		t.Fatalf("expected the template to be fetched, got %d fetches", tmpl.fetches)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err = kubeconfig.Load(data)
	if err != nil || kubeconfig.Token(cfg) != "T1" {
		t.Fatalf("cache not rewritten for T1: %v", err)
	}
}

func TestResolverWithoutCacheDir(t *testing.T) {
	tmpl := &countingTemplate{data: []byte(testTemplate)}
	r := newTestResolver(t, "", tmpl, nil)
	if _, err := r.Resolve(context.Background(), "T1"); err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if r.CachePath("T1") != "" {
		t.Errorf("CachePath() = %q, want empty", r.CachePath("T1"))
	}
}

func TestResolverErrors(t *testing.T) {
	tests := []struct {
		name  string
		tmpl  TemplateSource
		token string
	}{
		{name: "empty token", tmpl: &countingTemplate{data: []byte(testTemplate)}, token: ""},
		{name: "no template", tmpl: nil, token: "T1"},
		{name: "fetch failure", tmpl: &countingTemplate{err: fmt.Errorf("offline")}, token: "T1"},
		{name: "bad template", tmpl: &countingTemplate{data: []byte("{{{")}, token: "T1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestResolver(t, t.TempDir(), tt.tmpl, nil)
			_, err := r.Resolve(context.Background(), tt.token)
			if !errors.Is(err, model.ErrBackend) {
				t.Fatalf("Resolve error = %v, want ErrBackend", err)
			}
		})
	}
}

func TestResolverClientFactoryFailure(t *testing.T) {
	r := newTestResolver(t, t.TempDir(), &countingTemplate{data: []byte(testTemplate)}, nil)
	r.newClient = func(context.Context, []byte, string) (domain.ZoneClient, error) {
		return nil, fmt.Errorf("dial failed")
	}
	if _, err := r.Resolve(context.Background(), "T1"); !errors.Is(err, model.ErrBackend) {
		t.Fatalf("Resolve error = %v, want ErrBackend", err)
	}
}

func TestResolverBuildsRealClient(t *testing.T) {
	r := NewResolver(ResolverOptions{CacheDir: t.TempDir(), Template: &countingTemplate{data: []byte(testTemplate)}})
	c, err := r.Resolve(context.Background(), "T1")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	zc, ok := c.(*ZoneClient)
	if !ok {
		t.Fatalf("Resolve returned %T", c)
	}
	if zc.gvr != testGVR {
		t.Errorf("gvr = %v, want %v", zc.gvr, testGVR)
	}
}
