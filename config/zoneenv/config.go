// Package zoneenv resolves the zoneacme home directory and loads its config.yml.
package zoneenv

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variable names
const (
	HomeEnvKey               = "ZONEACME_HOME"
	StoreURLEnvKey           = "ZONEACME_STORE_URL"
	KubeconfigTemplateEnvKey = "ZONEACME_KUBECONFIG_TEMPLATE"
	ZoneResourceEnvKey       = "ZONEACME_ZONE_RESOURCE"
	PropagationDelayEnvKey   = "ZONEACME_PROPAGATION_DELAY"
)

// Directory and file names
const (
	HomeDirName         = ".zoneacme"
	ConfigFileName      = "config.yml"
	AccountFileName     = "account.yml"
	CacheDirName        = "cache"
	LogDirName          = "logs"
	DefaultZoneResource = "zones.v1alpha1.dns.kompox.dev"
)

// DefaultPropagationDelay is the wait after publishing a TXT record.
const DefaultPropagationDelay = 15 * time.Second

// Env holds the resolved home directory and the loaded config.yml contents.
type Env struct {
	Home             string     // Resolved ZONEACME_HOME
	Version          int        // config.yml version
	Store            Store      // config.yml store configuration
	Kubeconfig       Kubeconfig // config.yml kubeconfig configuration
	Zone             Zone       // config.yml zone configuration
	PropagationDelay string     // config.yml propagationDelay (Go duration)
	Logging          Logging    // config.yml logging configuration
}

// Store represents the store configuration from config.yml
type Store struct {
	URL string `yaml:"url,omitempty"` // file:<path> | sqlite:<dsn> | mem:
}

// Kubeconfig represents the kubeconfig template configuration from config.yml
type Kubeconfig struct {
	Template string `yaml:"template,omitempty"` // https://..., file:<path>, aks:<resource id>
}

// Zone represents the zone resource configuration from config.yml
type Zone struct {
	Resource string `yaml:"resource,omitempty"` // resource.version.group
}

// Logging represents the logging configuration from config.yml
type Logging struct {
	Dir           string `yaml:"dir,omitempty"`           // Log directory (default: $ZONEACME_HOME/logs)
	Format        string `yaml:"format,omitempty"`        // Log format: human (default), text, json
	Level         string `yaml:"level,omitempty"`         // Log level: DEBUG, INFO (default), WARN, ERROR
	RetentionDays int    `yaml:"retentionDays,omitempty"` // Days to retain log files (default: 7)
}

// configFile represents the structure of config.yml for unmarshaling
type configFile struct {
	Version          int        `yaml:"version"`
	Store            Store      `yaml:"store,omitempty"`
	Kubeconfig       Kubeconfig `yaml:"kubeconfig,omitempty"`
	Zone             Zone       `yaml:"zone,omitempty"`
	PropagationDelay string     `yaml:"propagationDelay,omitempty"`
	Logging          Logging    `yaml:"logging,omitempty"`
}

// Resolve determines the home directory and loads config.yml from it.
//
// Resolution order for ZONEACME_HOME:
//  1. home parameter (from --home flag or ZONEACME_HOME env)
//  2. Default: $HOME/.zoneacme
//
// The directory does not need to exist; a missing config.yml is not an error.
func Resolve(home string) (*Env, error) {
	if home == "" {
		userHome, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving user home directory: %w", err)
		}
		home = filepath.Join(userHome, HomeDirName)
	}
	home, err := filepath.Abs(home)
	if err != nil {
		return nil, fmt.Errorf("resolving ZONEACME_HOME to absolute path: %w", err)
	}
	home = filepath.Clean(home)

	if info, err := os.Stat(home); err == nil && !info.IsDir() {
		return nil, fmt.Errorf("ZONEACME_HOME %q is not a directory", home)
	}

	e := &Env{Home: home}
	if err := e.loadConfigFile(); err != nil {
		return nil, err
	}
	return e, nil
}

// loadConfigFile loads config.yml into the Env.
// Does nothing if the file doesn't exist (not an error).
func (e *Env) loadConfigFile() error {
	configPath := e.ConfigPath()
	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading config file %q: %w", configPath, err)
	}

	var cf configFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return fmt.Errorf("parsing config file %q: %w", configPath, err)
	}
	if cf.PropagationDelay != "" {
		if _, err := time.ParseDuration(cf.PropagationDelay); err != nil {
			return fmt.Errorf("parsing config file %q: propagationDelay: %w", configPath, err)
		}
	}

	e.Version = cf.Version
	e.Store = cf.Store
	e.Kubeconfig = cf.Kubeconfig
	e.Zone = cf.Zone
	e.PropagationDelay = cf.PropagationDelay
	e.Logging = cf.Logging
	return nil
}

// ExpandVars replaces $ZONEACME_HOME in the given string.
func (e *Env) ExpandVars(s string) string {
	return strings.ReplaceAll(s, "$"+HomeEnvKey, e.Home)
}

// ConfigPath returns the path of config.yml.
func (e *Env) ConfigPath() string { return filepath.Join(e.Home, ConfigFileName) }

// CacheDir returns the kubeconfig cache directory.
func (e *Env) CacheDir() string { return filepath.Join(e.Home, CacheDirName) }

// LogDir returns the log directory, honoring logging.dir.
func (e *Env) LogDir() string {
	if e.Logging.Dir != "" {
		return e.ExpandVars(e.Logging.Dir)
	}
	return filepath.Join(e.Home, LogDirName)
}

// StoreURL returns store.url with variables expanded, defaulting to the
// account file under the home directory.
func (e *Env) StoreURL() string {
	if e.Store.URL != "" {
		return e.ExpandVars(e.Store.URL)
	}
	return "file:" + filepath.Join(e.Home, AccountFileName)
}

// ZoneResource returns zone.resource or DefaultZoneResource.
func (e *Env) ZoneResource() string {
	if e.Zone.Resource != "" {
		return e.Zone.Resource
	}
	return DefaultZoneResource
}

// KubeconfigTemplate returns kubeconfig.template with variables expanded.
func (e *Env) KubeconfigTemplate() string {
	return e.ExpandVars(e.Kubeconfig.Template)
}

// PropagationDelayDuration returns propagationDelay or DefaultPropagationDelay.
func (e *Env) PropagationDelayDuration() time.Duration {
	if e.PropagationDelay == "" {
		return DefaultPropagationDelay
	}
	d, err := time.ParseDuration(e.PropagationDelay)
	if err != nil {
		return DefaultPropagationDelay
	}
	return d
}

// InitialConfigYAML generates the initial config.yml content as YAML bytes.
// The generated YAML has proper field ordering and 2-space indentation.
func InitialConfigYAML(kubeconfigTemplate string) ([]byte, error) {
	defaultConfig := configFile{
		Version:          1,
		Store:            Store{URL: "file:$" + HomeEnvKey + "/" + AccountFileName},
		Kubeconfig:       Kubeconfig{Template: kubeconfigTemplate},
		Zone:             Zone{Resource: DefaultZoneResource},
		PropagationDelay: DefaultPropagationDelay.String(),
	}

	var buf strings.Builder
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&defaultConfig); err != nil {
		return nil, fmt.Errorf("encoding default config: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("closing yaml encoder: %w", err)
	}
	return []byte(buf.String()), nil
}
