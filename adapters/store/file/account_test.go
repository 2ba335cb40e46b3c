package file

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAccountConfigRepositoryPersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state", "account.yml")
	r := NewAccountConfigRepository(path)

	if v, err := r.Get(ctx, "GLOBAL_TOKEN"); err != nil || v != "" {
		t.Fatalf("Get on missing file = (%q, %v)", v, err)
	}
	if err := r.Set(ctx, "GLOBAL_TOKEN", "t0"); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if err := r.Set(ctx, "NAMESPACE_EXAMPLE_COM", "tenant-a"); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	st, err := os.Stat(path)
	if err != nil {
		t.Fatalf("account file missing: %v", err)
	}
	if st.Mode().Perm() != 0o600 {
		t.Errorf("account file mode = %v, want 0600", st.Mode().Perm())
	}

	// A second repository on the same path observes the writes.
	r2 := NewAccountConfigRepository(path)
	all, err := r2.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if all["GLOBAL_TOKEN"] != "t0" || all["NAMESPACE_EXAMPLE_COM"] != "tenant-a" || len(all) != 2 {
		t.Fatalf("List = %v", all)
	}

	if err := r2.Delete(ctx, "GLOBAL_TOKEN"); err != nil {
		t.Fatal(err)
	}
	if v, _ := r.Get(ctx, "GLOBAL_TOKEN"); v != "" {
		t.Fatalf("Get after delete = %q", v)
	}
	if err := r.Delete(ctx, "ABSENT"); err != nil {
		t.Fatalf("Delete absent error: %v", err)
	}
}

func TestAccountConfigRepositoryRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "account.yml")
	if err := os.WriteFile(path, []byte("- not\n- a map\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := NewAccountConfigRepository(path).Get(context.Background(), "GLOBAL_TOKEN")
	if err == nil || !strings.Contains(err.Error(), path) {
		t.Fatalf("expected parse error naming the file, got %v", err)
	}
}
