package kube

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// maxTemplateSize bounds kubeconfig templates read from any source.
const maxTemplateSize = 1 << 20

// TemplateSource yields the kubeconfig template that credential tokens are
// injected into. The template names the API server and its CA; its user
// credentials are replaced.
type TemplateSource interface {
	Fetch(ctx context.Context) ([]byte, error)
	String() string
}

// NewTemplateSource parses a template reference:
//
//	https://host/path, http://host/path    fetched with GET
//	file:/path/to/kubeconfig, /path/...    read from the local filesystem
//	aks:/subscriptions/.../managedClusters/<name>
//	                                       user kubeconfig of an AKS cluster
func NewTemplateSource(ref string) (TemplateSource, error) {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return nil, fmt.Errorf("kubeconfig template is not configured")
	case strings.HasPrefix(ref, "https://"), strings.HasPrefix(ref, "http://"):
		return &httpTemplate{url: ref, client: http.DefaultClient}, nil
	case strings.HasPrefix(ref, "aks:"):
		return newAKSTemplate(strings.TrimPrefix(ref, "aks:"))
	case strings.HasPrefix(ref, "file:"):
		path := strings.TrimPrefix(ref, "file:")
		if path == "" {
			return nil, fmt.Errorf("file template path is empty")
		}
		return fileTemplate(path), nil
	default:
		return fileTemplate(ref), nil
	}
}

type fileTemplate string

func (f fileTemplate) String() string { return "file:" + string(f) }

func (f fileTemplate) Fetch(_ context.Context) ([]byte, error) {
	st, err := os.Stat(string(f))
	if err != nil {
		return nil, fmt.Errorf("read kubeconfig template: %w", err)
	}
	if st.Size() > maxTemplateSize {
		return nil, fmt.Errorf("kubeconfig template %s exceeds %d bytes", f, maxTemplateSize)
	}
	data, err := os.ReadFile(string(f))
	if err != nil {
		return nil, fmt.Errorf("read kubeconfig template: %w", err)
	}
	return data, nil
}

type httpTemplate struct {
	url    string
	client *http.Client
}

func (h *httpTemplate) String() string { return h.url }

func (h *httpTemplate) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build template request: %w", err)
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch kubeconfig template: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch kubeconfig template %s: %s", h.url, resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxTemplateSize+1))
	if err != nil {
		return nil, fmt.Errorf("read kubeconfig template: %w", err)
	}
	if len(data) > maxTemplateSize {
		return nil, fmt.Errorf("kubeconfig template %s exceeds %d bytes", h.url, maxTemplateSize)
	}
	return data, nil
}
