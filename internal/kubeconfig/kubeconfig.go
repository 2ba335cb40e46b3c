package kubeconfig

import (
	"fmt"

	"k8s.io/client-go/tools/clientcmd"
	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"
)

// Load parses kubeconfig bytes and returns a minimal, flattened config holding
// only the current context with its cluster and user.
func Load(data []byte) (*clientcmdapi.Config, error) {
	cfg, err := clientcmd.Load(data)
	if err != nil {
		return nil, fmt.Errorf("parse kubeconfig: %w", err)
	}

	// A single-context template may omit current-context.
	if cfg.CurrentContext == "" {
		if len(cfg.Contexts) != 1 {
			return nil, fmt.Errorf("kubeconfig has no current context")
		}
		for k := range cfg.Contexts {
			cfg.CurrentContext = k
		}
	} else if cfg.Contexts[cfg.CurrentContext] == nil {
		return nil, fmt.Errorf("context %q not found in kubeconfig", cfg.CurrentContext)
	}

	if err := clientcmdapi.MinifyConfig(cfg); err != nil {
		return nil, fmt.Errorf("minify kubeconfig: %w", err)
	}
	if err := clientcmdapi.FlattenConfig(cfg); err != nil {
		return nil, fmt.Errorf("flatten kubeconfig: %w", err)
	}

	ctx := cfg.Contexts[cfg.CurrentContext]
	if _, ok := cfg.Clusters[ctx.Cluster]; !ok {
		return nil, fmt.Errorf("referenced cluster %q not found", ctx.Cluster)
	}
	if ctx.AuthInfo == "" {
		ctx.AuthInfo = cfg.CurrentContext
	}
	if _, ok := cfg.AuthInfos[ctx.AuthInfo]; !ok {
		cfg.AuthInfos[ctx.AuthInfo] = clientcmdapi.NewAuthInfo()
	}
	return cfg, nil
}

// InjectToken loads a kubeconfig template and makes token the only credential
// of its current user. Client certificates, exec plugins and other auth methods
// carried by the template are dropped.
func InjectToken(template []byte, token string) (*clientcmdapi.Config, error) {
	if token == "" {
		return nil, fmt.Errorf("token is empty")
	}
	cfg, err := Load(template)
	if err != nil {
		return nil, err
	}
	user := cfg.Contexts[cfg.CurrentContext].AuthInfo
	auth := clientcmdapi.NewAuthInfo()
	auth.Token = token
	cfg.AuthInfos[user] = auth
	return cfg, nil
}

// Token returns the bearer token of the current user, or "" when absent.
func Token(cfg *clientcmdapi.Config) string {
	if cfg == nil {
		return ""
	}
	ctx := cfg.Contexts[cfg.CurrentContext]
	if ctx == nil {
		return ""
	}
	auth := cfg.AuthInfos[ctx.AuthInfo]
	if auth == nil {
		return ""
	}
	return auth.Token
}

// Server returns the API server URL of the current cluster.
func Server(cfg *clientcmdapi.Config) string {
	if cfg == nil || cfg.Contexts[cfg.CurrentContext] == nil {
		return ""
	}
	if c := cfg.Clusters[cfg.Contexts[cfg.CurrentContext].Cluster]; c != nil {
		return c.Server
	}
	return ""
}

// Write serializes cfg to YAML.
func Write(cfg *clientcmdapi.Config) ([]byte, error) {
	data, err := clientcmd.Write(*cfg)
	if err != nil {
		return nil, fmt.Errorf("serialize kubeconfig: %w", err)
	}
	return data, nil
}
