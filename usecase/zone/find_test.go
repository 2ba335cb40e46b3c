package zone

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/kompox/zoneacme/adapters/store/inmem"
	"github.com/kompox/zoneacme/domain/model"
	"github.com/kompox/zoneacme/internal/naming"
	"github.com/kompox/zoneacme/usecase/credential"
)

type fixture struct {
	backend *inmem.ZoneBackend
	creds   *credential.UseCase
	uc      *UseCase
}

func newFixture(t *testing.T, environ ...string) *fixture {
	t.Helper()
	b := inmem.NewZoneBackend()
	creds := &credential.UseCase{
		Repos:     &credential.Repos{AccountConfig: inmem.NewAccountConfigRepository()},
		Overrides: credential.OverridesFromEnviron(environ),
	}
	return &fixture{backend: b, creds: creds, uc: &UseCase{Credentials: creds, Clients: b}}
}

func (f *fixture) zone(namespace, name string) {
	f.backend.SetZone(&model.ZoneDocument{Name: name, Namespace: namespace})
}

func attemptZones(out *FindZoneOutput) string {
	var zs []string
	for _, a := range out.Attempts {
		zs = append(zs, a.Zone+":"+a.Result)
	}
	return strings.Join(zs, " ")
}

func TestFindZoneWalksToParent(t *testing.T) {
	f := newFixture(t, "GLOBAL_TOKEN=T0", "GLOBAL_NAMESPACE=tenant-a")
	f.backend.Grant("T0", "tenant-a")
	f.zone("tenant-a", "example.com")

	out, err := f.uc.FindZone(context.Background(), &FindZoneInput{Hostname: "a.b.example.com"})
	if err != nil {
		t.Fatalf("FindZone error: %v", err)
	}
	if out.Zone.Name != "example.com" || out.ZoneKey != "EXAMPLE_COM" {
		t.Fatalf("found %s (%s)", out.Zone.Name, out.ZoneKey)
	}
	if got, want := attemptZones(out), "a.b.example.com:not-found b.example.com:not-found example.com:found"; got != want {
		t.Errorf("attempts = %q, want %q", got, want)
	}
	if out.Credential != (model.Credential{Token: "T0", Namespace: "tenant-a"}) {
		t.Errorf("credential = %+v", out.Credential)
	}
	if out.Client.Fingerprint() != naming.TokenFingerprint("T0") {
		t.Errorf("client fingerprint = %s", out.Client.Fingerprint())
	}
}

func TestFindZoneDeeperZoneWins(t *testing.T) {
	f := newFixture(t,
		"GLOBAL_TOKEN=T0", "GLOBAL_NAMESPACE=tenant-a",
		"TOKEN_SUB_EXAMPLE_COM=T1", "NAMESPACE_SUB_EXAMPLE_COM=tenant-b")
	f.backend.Grant("T0", "tenant-a")
	f.backend.Grant("T1", "tenant-b")
	f.zone("tenant-a", "example.com")
	f.zone("tenant-b", "sub.example.com")

	out, err := f.uc.FindZone(context.Background(), &FindZoneInput{Hostname: "_acme-challenge.sub.example.com."})
	if err != nil {
		t.Fatalf("FindZone error: %v", err)
	}
	if out.Zone.Name != "sub.example.com" || out.Credential.Token != "T1" || out.Credential.Namespace != "tenant-b" {
		t.Fatalf("found %s with %+v", out.Zone.Name, out.Credential)
	}
	if out.Hostname != "_acme-challenge.sub.example.com" {
		t.Errorf("hostname = %q", out.Hostname)
	}
}

func TestFindZoneSkipsForbiddenAndMissingCredentials(t *testing.T) {
	// Only the zone credential can read example.com; the global credential
	// is forbidden in its namespace.
	f := newFixture(t, "TOKEN_EXAMPLE_COM=T1", "NAMESPACE_EXAMPLE_COM=tenant-b")
	if err := f.creds.PersistGlobal(context.Background(), model.Credential{Token: "T0", Namespace: "tenant-a"}); err != nil {
		t.Fatal(err)
	}
	f.backend.Grant("T1", "tenant-b")
	f.zone("tenant-a", "www.example.com")
	f.zone("tenant-b", "example.com")

	out, err := f.uc.FindZone(context.Background(), &FindZoneInput{Hostname: "www.example.com"})
	if err != nil {
		t.Fatalf("FindZone error: %v", err)
	}
	if got, want := attemptZones(out), "www.example.com:forbidden example.com:found"; got != want {
		t.Errorf("attempts = %q, want %q", got, want)
	}
}

func TestFindZoneNoCredentials(t *testing.T) {
	f := newFixture(t)
	out, err := f.uc.FindZone(context.Background(), &FindZoneInput{Hostname: "a.example.com"})
	if !errors.Is(err, model.ErrCredentialNotFound) {
		t.Fatalf("FindZone error = %v, want ErrCredentialNotFound", err)
	}
	for _, key := range []string{"TOKEN_A_EXAMPLE_COM", "NAMESPACE_EXAMPLE_COM", "TOKEN_COM", "GLOBAL_TOKEN"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("error does not mention %s: %v", key, err)
		}
	}
	if got := attemptZones(out); got != "a.example.com:no-credential example.com:no-credential com:no-credential" {
		t.Errorf("attempts = %q", got)
	}
	if f.backend.Resolves() != 0 {
		t.Errorf("clients provisioned without credentials")
	}
}

func TestFindZoneNotFound(t *testing.T) {
	f := newFixture(t, "GLOBAL_TOKEN=T0", "GLOBAL_NAMESPACE=tenant-a")
	f.backend.Grant("T0", "tenant-a")
	_, err := f.uc.FindZone(context.Background(), &FindZoneInput{Hostname: "a.example.com"})
	if !errors.Is(err, model.ErrZoneNotFound) {
		t.Fatalf("FindZone error = %v, want ErrZoneNotFound", err)
	}
	if !strings.Contains(err.Error(), "a.example.com, example.com, com") {
		t.Errorf("error does not list candidates: %v", err)
	}
}

func TestFindZoneAbortsOnBackendErrors(t *testing.T) {
	tests := []struct {
		name   string
		inject func(b *inmem.ZoneBackend)
	}{
		{"client provisioning", func(b *inmem.ZoneBackend) { b.ResolveErr = fmt.Errorf("template unreachable") }},
		{"zone fetch", func(b *inmem.ZoneBackend) { b.GetErr = fmt.Errorf("connection refused") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "GLOBAL_TOKEN=T0", "GLOBAL_NAMESPACE=tenant-a")
			f.backend.Grant("T0", "tenant-a")
			f.zone("tenant-a", "example.com")
			tt.inject(f.backend)

			_, err := f.uc.FindZone(context.Background(), &FindZoneInput{Hostname: "www.example.com"})
			if !errors.Is(err, model.ErrBackend) {
				t.Fatalf("FindZone error = %v, want ErrBackend", err)
			}
			if !strings.Contains(err.Error(), "candidate www.example.com") {
				t.Errorf("error does not name the failing candidate: %v", err)
			}
		})
	}
}

func TestFindZoneRejectsInvalidHostname(t *testing.T) {
	f := newFixture(t)
	for _, h := range []string{"", ".", "a..b"} {
		if _, err := f.uc.FindZone(context.Background(), &FindZoneInput{Hostname: h}); err == nil {
			t.Errorf("FindZone(%q): expected error", h)
		}
	}
	if _, err := f.uc.FindZone(context.Background(), nil); err == nil {
		t.Errorf("FindZone(nil): expected error")
	}
}
