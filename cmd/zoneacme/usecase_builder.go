package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kompox/zoneacme/adapters/kube"
	zonev1 "github.com/kompox/zoneacme/config/crd/zone/v1alpha1"
	"github.com/kompox/zoneacme/usecase/challenge"
	"github.com/kompox/zoneacme/usecase/credential"
	"github.com/kompox/zoneacme/usecase/zone"
)

// buildCredentialUseCase creates the credential use case with environment overrides.
func buildCredentialUseCase(cmd *cobra.Command) (*credential.UseCase, error) {
	repo, err := buildAccountConfig(cmd)
	if err != nil {
		return nil, err
	}
	return &credential.UseCase{
		Repos:     &credential.Repos{AccountConfig: repo},
		Overrides: credential.OverridesFromEnviron(os.Environ()),
	}, nil
}

// buildClientResolver creates the Kubernetes client resolver from settings.
func buildClientResolver(cmd *cobra.Command) (*kube.Resolver, error) {
	s, err := settingsFromContext(cmd.Context())
	if err != nil {
		return nil, err
	}
	gvr, ok := zonev1.ParseGroupVersionResource(s.ZoneResource)
	if !ok {
		return nil, fmt.Errorf("invalid zone resource %q: want resource.version.group", s.ZoneResource)
	}
	opts := kube.ResolverOptions{
		CacheDir: s.Env.CacheDir(),
		Resource: gvr,
		Client:   &kube.Options{UserAgent: "zoneacme/" + version},
	}
	if s.KubeconfigTemplate != "" {
		tmpl, err := kube.NewTemplateSource(s.KubeconfigTemplate)
		if err != nil {
			return nil, err
		}
		opts.Template = tmpl
	}
	return kube.NewResolver(opts), nil
}

// buildZoneUseCase creates the zone use case.
func buildZoneUseCase(cmd *cobra.Command) (*zone.UseCase, error) {
	cred, err := buildCredentialUseCase(cmd)
	if err != nil {
		return nil, err
	}
	clients, err := buildClientResolver(cmd)
	if err != nil {
		return nil, err
	}
	return &zone.UseCase{Credentials: cred, Clients: clients}, nil
}

// buildChallengeUseCase creates the challenge use case sharing one client resolver
// between zone lookup and record editing.
func buildChallengeUseCase(cmd *cobra.Command) (*challenge.UseCase, error) {
	s, err := settingsFromContext(cmd.Context())
	if err != nil {
		return nil, err
	}
	cred, err := buildCredentialUseCase(cmd)
	if err != nil {
		return nil, err
	}
	clients, err := buildClientResolver(cmd)
	if err != nil {
		return nil, err
	}
	return &challenge.UseCase{
		Credentials:      cred,
		Zones:            &zone.UseCase{Credentials: cred, Clients: clients},
		Clients:          clients,
		PropagationDelay: s.PropagationDelay,
	}, nil
}
