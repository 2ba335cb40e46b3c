// Package file stores account configuration in a single YAML file.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/kompox/zoneacme/domain"
)

// AccountConfigRepository persists keys as a flat YAML mapping:
//
//	GLOBAL_TOKEN: ...
//	NAMESPACE_EXAMPLE_COM: tenant-a
//
// Every operation reads the file; writes replace it atomically with mode 0600.
type AccountConfigRepository struct {
	path string
	mu   sync.Mutex
}

func NewAccountConfigRepository(path string) *AccountConfigRepository {
	return &AccountConfigRepository{path: path}
}

// Path returns the backing file path.
func (r *AccountConfigRepository) Path() string { return r.path }

func (r *AccountConfigRepository) Get(_ context.Context, key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items, err := r.load()
	if err != nil {
		return "", err
	}
	return items[key], nil
}

func (r *AccountConfigRepository) Set(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	items, err := r.load()
	if err != nil {
		return err
	}
	if v, ok := items[key]; ok && v == value {
		return nil
	}
	items[key] = value
	return r.save(items)
}

func (r *AccountConfigRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	items, err := r.load()
	if err != nil {
		return err
	}
	if _, ok := items[key]; !ok {
		return nil
	}
	delete(items, key)
	return r.save(items)
}

func (r *AccountConfigRepository) List(_ context.Context) (map[string]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

func (r *AccountConfigRepository) load() (map[string]string, error) {
	items := map[string]string{}
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return items, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read account config: %w", err)
	}
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse account config %s: %w", r.path, err)
	}
	if items == nil {
		items = map[string]string{}
	}
	return items, nil
}

func (r *AccountConfigRepository) save(items map[string]string) error {
	data, err := yaml.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode account config: %w", err)
	}
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create account config dir: %w", err)
	}
	f, err := os.CreateTemp(dir, ".account-*.yml")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmp := f.Name()
	defer os.Remove(tmp)
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write account config: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close account config: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("replace account config: %w", err)
	}
	return nil
}

var _ domain.AccountConfigRepository = (*AccountConfigRepository)(nil)
