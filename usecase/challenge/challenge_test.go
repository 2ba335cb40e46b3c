package challenge

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kompox/zoneacme/adapters/store/inmem"
	"github.com/kompox/zoneacme/domain/model"
	"github.com/kompox/zoneacme/internal/naming"
	"github.com/kompox/zoneacme/usecase/credential"
	"github.com/kompox/zoneacme/usecase/zone"
)

type fixture struct {
	backend *inmem.ZoneBackend
	account *inmem.AccountConfigRepository
	uc      *UseCase
	slept   []time.Duration
}

func newFixture(t *testing.T, environ ...string) *fixture {
	t.Helper()
	f := &fixture{backend: inmem.NewZoneBackend(), account: inmem.NewAccountConfigRepository()}
	creds := &credential.UseCase{
		Repos:     &credential.Repos{AccountConfig: f.account},
		Overrides: credential.OverridesFromEnviron(environ),
	}
	f.uc = &UseCase{
		Credentials:      creds,
		Zones:            &zone.UseCase{Credentials: creds, Clients: f.backend},
		Clients:          f.backend,
		PropagationDelay: 15 * time.Second,
		Sleep: func(_ context.Context, d time.Duration) error {
			f.slept = append(f.slept, d)
			return nil
		},
	}
	return f
}

// standard grants T0 access to an empty example.com in tenant-a.
func standard(t *testing.T, environ ...string) *fixture {
	t.Helper()
	f := newFixture(t, append([]string{"GLOBAL_TOKEN=T0", "GLOBAL_NAMESPACE=tenant-a"}, environ...)...)
	f.backend.Grant("T0", "tenant-a")
	f.backend.SetZone(&model.ZoneDocument{Name: "example.com", Namespace: "tenant-a"})
	return f
}

func TestAddRemoveEndToEnd(t *testing.T) {
	ctx := context.Background()
	f := standard(t)

	out, err := f.uc.Add(ctx, &AddInput{Hostname: "_acme-challenge.example.com", Value: "xyz123"})
	if err != nil {
		t.Fatalf("Add error: %v", err)
	}
	if out.Zone != "example.com" || out.Label != "_acme-challenge" || !out.Changed {
		t.Fatalf("Add output = %+v", out)
	}
	doc := f.backend.Zone("tenant-a", "example.com")
	want := []model.Record{{Type: model.DNSRecordTypeTXT, Value: "xyz123", TTL: 300}}
	if got := doc.Records["_acme-challenge"]; len(got) != 1 || got[0] != want[0] {
		t.Fatalf("records after add = %+v", doc.Records)
	}
	if len(f.slept) != 1 || f.slept[0] != 15*time.Second {
		t.Errorf("propagation waits = %v, want [15s]", f.slept)
	}

	rm, err := f.uc.Remove(ctx, &RemoveInput{Hostname: "_acme-challenge.example.com", Value: "xyz123"})
	if err != nil {
		t.Fatalf("Remove error: %v", err)
	}
	if !rm.Changed {
		t.Errorf("Remove reported no change")
	}
	doc = f.backend.Zone("tenant-a", "example.com")
	if len(doc.Records) != 0 {
		t.Fatalf("records after remove = %+v", doc.Records)
	}
	if len(f.slept) != 1 {
		t.Errorf("Remove must not wait for propagation")
	}
}

func TestAddApexAndPreservesOtherRecords(t *testing.T) {
	f := standard(t)
	f.backend.SetZone(&model.ZoneDocument{Name: "example.com", Namespace: "tenant-a", Records: map[string][]model.Record{
		"@":   {{Type: model.DNSRecordTypeA, Value: "192.0.2.1", TTL: 3600}},
		"www": {{Type: model.DNSRecordTypeCNAME, Value: "example.com.", TTL: 3600}},
	}})

	out, err := f.uc.Add(context.Background(), &AddInput{Hostname: "EXAMPLE.COM.", Value: "apex"})
	if err != nil {
		t.Fatalf("Add error: %v", err)
	}
	if out.Label != model.ApexLabel {
		t.Fatalf("label = %q, want @", out.Label)
	}
	doc := f.backend.Zone("tenant-a", "example.com")
	if len(doc.Records["@"]) != 2 || doc.Records["@"][1].Value != "apex" || len(doc.Records["www"]) != 1 {
		t.Fatalf("records = %+v", doc.Records)
	}
}

func TestAddTwiceAppendsAndRemoveDropsAll(t *testing.T) {
	ctx := context.Background()
	f := standard(t)
	in := &AddInput{Hostname: "_acme-challenge.example.com", Value: "dup"}
	for i := 0; i < 2; i++ {
		if _, err := f.uc.Add(ctx, in); err != nil {
			t.Fatalf("Add #%d error: %v", i+1, err)
		}
	}
	if got := f.backend.Zone("tenant-a", "example.com").Records["_acme-challenge"]; len(got) != 2 {
		t.Fatalf("records after two adds = %+v", got)
	}
	if _, err := f.uc.Remove(ctx, &RemoveInput{Hostname: in.Hostname, Value: in.Value}); err != nil {
		t.Fatal(err)
	}
	if got := f.backend.Zone("tenant-a", "example.com").Records; len(got) != 0 {
		t.Fatalf("records after remove = %+v", got)
	}
}

func TestRemoveAbsentSkipsWrite(t *testing.T) {
	f := standard(t)
	out, err := f.uc.Remove(context.Background(), &RemoveInput{Hostname: "_acme-challenge.example.com", Value: "never-added"})
	if err != nil {
		t.Fatalf("Remove error: %v", err)
	}
	if out.Changed {
		t.Errorf("Remove reported a change")
	}
	if w := f.backend.Writes(); len(w) != 0 {
		t.Fatalf("unexpected writes: %+v", w)
	}
}

func TestAddRequiresGlobalCredential(t *testing.T) {
	f := newFixture(t, "TOKEN_EXAMPLE_COM=T1", "NAMESPACE_EXAMPLE_COM=tenant-a")
	_, err := f.uc.Add(context.Background(), &AddInput{Hostname: "example.com", Value: "v"})
	if !errors.Is(err, model.ErrCredentialNotFound) || !strings.Contains(err.Error(), "must set credentials") {
		t.Fatalf("Add error = %v", err)
	}
	_, err = f.uc.Remove(context.Background(), &RemoveInput{Hostname: "example.com", Value: "v"})
	if !errors.Is(err, model.ErrCredentialNotFound) {
		t.Fatalf("Remove error = %v", err)
	}
}

func TestAddPersistsCredentials(t *testing.T) {
	ctx := context.Background()
	f := standard(t, "TOKEN_EXAMPLE_COM=T1", "NAMESPACE_EXAMPLE_COM=tenant-b")
	f.backend.Grant("T1", "tenant-b")
	f.backend.SetZone(&model.ZoneDocument{Name: "example.com", Namespace: "tenant-b"})

	if _, err := f.uc.Remove(ctx, &RemoveInput{Hostname: "example.com", Value: "v"}); err != nil {
		t.Fatal(err)
	}
	if v, _ := f.account.Get(ctx, "GLOBAL_TOKEN"); v != "T0" {
		t.Errorf("GLOBAL_TOKEN = %q after Remove, want T0", v)
	}
	if v, _ := f.account.Get(ctx, "TOKEN_EXAMPLE_COM"); v != "" {
		t.Errorf("Remove persisted the zone credential")
	}

	if _, err := f.uc.Add(ctx, &AddInput{Hostname: "example.com", Value: "v"}); err != nil {
		t.Fatal(err)
	}
	all, _ := f.account.List(ctx)
	want := map[string]string{
		"GLOBAL_TOKEN": "T0", "GLOBAL_NAMESPACE": "tenant-a",
		"TOKEN_EXAMPLE_COM": "T1", "NAMESPACE_EXAMPLE_COM": "tenant-b",
	}
	for k, v := range want {
		if all[k] != v {
			t.Errorf("%s = %q, want %q", k, all[k], v)
		}
	}
}

func TestMultiZoneTokenIsolation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t,
		"GLOBAL_TOKEN=T0", "GLOBAL_NAMESPACE=tenant-0",
		"TOKEN_A_COM=T1", "NAMESPACE_A_COM=tenant-a",
		"TOKEN_B_COM=T2", "NAMESPACE_B_COM=tenant-b")
	f.backend.Grant("T1", "tenant-a")
	f.backend.Grant("T2", "tenant-b")
	f.backend.SetZone(&model.ZoneDocument{Name: "a.com", Namespace: "tenant-a"})
	f.backend.SetZone(&model.ZoneDocument{Name: "b.com", Namespace: "tenant-b"})

	if _, err := f.uc.Add(ctx, &AddInput{Hostname: "_acme-challenge.a.com", Value: "va"}); err != nil {
		t.Fatalf("Add a.com error: %v", err)
	}
	if _, err := f.uc.Add(ctx, &AddInput{Hostname: "_acme-challenge.b.com", Value: "vb"}); err != nil {
		t.Fatalf("Add b.com error: %v", err)
	}

	w := f.backend.Writes()
	if len(w) != 2 {
		t.Fatalf("writes = %+v", w)
	}
	if w[0].Zone != "a.com" || w[0].Fingerprint != naming.TokenFingerprint("T1") {
		t.Errorf("write to a.com used %+v", w[0])
	}
	if w[1].Zone != "b.com" || w[1].Fingerprint != naming.TokenFingerprint("T2") {
		t.Errorf("write to b.com used %+v", w[1])
	}
}

func TestAddFailsOnWriteConflict(t *testing.T) {
	f := standard(t)
	f.backend.PutErr = model.ErrWriteConflict
	_, err := f.uc.Add(context.Background(), &AddInput{Hostname: "_acme-challenge.example.com", Value: "v"})
	if !errors.Is(err, model.ErrWriteConflict) {
		t.Fatalf("Add error = %v, want ErrWriteConflict", err)
	}
	if !strings.Contains(err.Error(), "example.com") {
		t.Errorf("error does not name the zone: %v", err)
	}
	if len(f.slept) != 0 {
		t.Errorf("waited for propagation after a failed write")
	}
}

func TestAddZoneNotFound(t *testing.T) {
	f := newFixture(t, "GLOBAL_TOKEN=T0", "GLOBAL_NAMESPACE=tenant-a")
	f.backend.Grant("T0", "tenant-a")
	_, err := f.uc.Add(context.Background(), &AddInput{Hostname: "_acme-challenge.example.com", Value: "v"})
	if !errors.Is(err, model.ErrZoneNotFound) {
		t.Fatalf("Add error = %v, want ErrZoneNotFound", err)
	}
}

func TestAddPropagationHonorsContext(t *testing.T) {
	f := standard(t)
	f.uc.Sleep = nil
	f.uc.PropagationDelay = time.Hour
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.uc.Add(ctx, &AddInput{Hostname: "_acme-challenge.example.com", Value: "v"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Add error = %v, want context.Canceled", err)
	}
	// The record was published before the wait.
	if len(f.backend.Writes()) != 1 {
		t.Errorf("expected the record to be written")
	}
}

func TestInputValidation(t *testing.T) {
	f := standard(t)
	ctx := context.Background()
	if _, err := f.uc.Add(ctx, nil); err == nil {
		t.Error("Add(nil): expected error")
	}
	if _, err := f.uc.Add(ctx, &AddInput{Hostname: "example.com"}); err == nil {
		t.Error("Add without value: expected error")
	}
	if _, err := f.uc.Remove(ctx, &RemoveInput{Value: "v"}); err == nil {
		t.Error("Remove without hostname: expected error")
	}
}
