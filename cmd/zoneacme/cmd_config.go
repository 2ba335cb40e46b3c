package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kompox/zoneacme/domain/model"
	"github.com/kompox/zoneacme/internal/naming"
	"github.com/kompox/zoneacme/internal/terminal"
	"github.com/kompox/zoneacme/usecase/credential"
)

func newCmdConfig() *cobra.Command {
	cmd := &cobra.Command{
		Use:                "config",
		Short:              "Show and edit settings and persisted credentials",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE:               func(cmd *cobra.Command, args []string) error { return fmt.Errorf("invalid command") },
	}
	cmd.AddCommand(newCmdConfigShow(), newCmdConfigSetGlobal(), newCmdConfigSetZone(), newCmdConfigUnsetZone())
	return cmd
}

// redact replaces credential tokens by their fingerprint.
func redact(key, value string) string {
	if value == "" {
		return ""
	}
	if key == naming.GlobalTokenKey {
		return "fp:" + naming.TokenFingerprint(value)
	}
	if field, _, ok := naming.SplitCredentialKey(key); ok && field == "token" {
		return "fp:" + naming.TokenFingerprint(value)
	}
	return value
}

type configShowOutput struct {
	Home               string            `json:"home"`
	StoreURL           string            `json:"storeURL"`
	KubeconfigTemplate string            `json:"kubeconfigTemplate"`
	ZoneResource       string            `json:"zoneResource"`
	PropagationDelay   string            `json:"propagationDelay"`
	Stored             map[string]string `json:"stored"`
	Zone               *credentialView   `json:"zone,omitempty"`
	Global             *credentialView   `json:"global"`
}

type credentialView struct {
	Name            string `json:"name,omitempty"`
	ZoneKey         string `json:"zoneKey,omitempty"`
	Token           string `json:"token"`
	TokenSource     string `json:"tokenSource"`
	Namespace       string `json:"namespace"`
	NamespaceSource string `json:"namespaceSource"`
}

func viewOf(name string, ex *credential.ExplainOutput) *credentialView {
	return &credentialView{
		Name:            name,
		ZoneKey:         ex.ZoneKey,
		Token:           redact(naming.GlobalTokenKey, ex.Credential.Token),
		TokenSource:     string(ex.TokenSource),
		Namespace:       ex.Credential.Namespace,
		NamespaceSource: string(ex.NamespaceSource),
	}
}

func newCmdConfigShow() *cobra.Command {
	return &cobra.Command{
		Use:   "show [zone]",
		Short: "Show effective settings and credential sources",
		Long: `Show the effective settings, the persisted account config and where the
credential of [zone] (or the global credential) comes from. Tokens are shown
as fingerprints.`,
		Args:               cobra.MaximumNArgs(1),
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := settingsFromContext(ctx)
			if err != nil {
				return err
			}
			uc, err := buildCredentialUseCase(cmd)
			if err != nil {
				return err
			}
			stored, err := uc.Persisted(ctx)
			if err != nil {
				return err
			}
			out := configShowOutput{
				Home:               s.Env.Home,
				StoreURL:           s.StoreURL,
				KubeconfigTemplate: s.KubeconfigTemplate,
				ZoneResource:       s.ZoneResource,
				PropagationDelay:   s.PropagationDelay.String(),
				Stored:             make(map[string]string, len(stored)),
			}
			for k, v := range stored {
				out.Stored[k] = redact(k, v)
			}
			global, err := uc.ExplainGlobal(ctx)
			if err != nil {
				return err
			}
			out.Global = viewOf("", global)
			if len(args) == 1 {
				name, err := naming.NormalizeHostname(args[0])
				if err != nil {
					return err
				}
				ex, err := uc.Explain(ctx, naming.ZoneKey(name))
				if err != nil {
					return err
				}
				out.Zone = viewOf(name, ex)
			}
			return printJSON(cmd, out)
		},
	}
}

func credentialFlags(cmd *cobra.Command, cred *model.Credential) {
	cmd.Flags().StringVar(&cred.Token, "token", "", "Service account token (- reads it from stdin)")
	cmd.Flags().StringVar(&cred.Namespace, "namespace", "", "Namespace holding the zone resources")
}

// readTokenArg replaces a "-" token by a line read from stdin.
func readTokenArg(cmd *cobra.Command, cred *model.Credential) error {
	if cred.Token != "-" {
		return nil
	}
	token, err := terminal.ReadSecret(os.Stdin, cmd.ErrOrStderr(), "Token: ")
	if err != nil {
		return err
	}
	cred.Token = token
	return nil
}

func newCmdConfigSetGlobal() *cobra.Command {
	var cred model.Credential
	cmd := &cobra.Command{
		Use:                "set-global",
		Short:              "Persist GLOBAL_TOKEN and GLOBAL_NAMESPACE",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cred.IsZero() {
				return fmt.Errorf("--token or --namespace is required")
			}
			if err := readTokenArg(cmd, &cred); err != nil {
				return err
			}
			uc, err := buildCredentialUseCase(cmd)
			if err != nil {
				return err
			}
			if err := uc.PersistGlobal(cmd.Context(), cred); err != nil {
				return err
			}
			printSet(cmd, naming.GlobalTokenKey, naming.GlobalNamespaceKey, cred)
			return nil
		},
	}
	credentialFlags(cmd, &cred)
	return cmd
}

func newCmdConfigSetZone() *cobra.Command {
	var cred model.Credential
	cmd := &cobra.Command{
		Use:                "set-zone <zone>",
		Short:              "Persist TOKEN_<ZONEKEY> and NAMESPACE_<ZONEKEY> for a zone",
		Args:               cobra.ExactArgs(1),
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cred.IsZero() {
				return fmt.Errorf("--token or --namespace is required")
			}
			if err := readTokenArg(cmd, &cred); err != nil {
				return err
			}
			name, err := naming.NormalizeHostname(args[0])
			if err != nil {
				return err
			}
			uc, err := buildCredentialUseCase(cmd)
			if err != nil {
				return err
			}
			key := naming.ZoneKey(name)
			if err := uc.Persist(cmd.Context(), key, cred); err != nil {
				return err
			}
			printSet(cmd, naming.TokenKey(key), naming.NamespaceKey(key), cred)
			return nil
		},
	}
	credentialFlags(cmd, &cred)
	return cmd
}

func newCmdConfigUnsetZone() *cobra.Command {
	return &cobra.Command{
		Use:                "unset-zone <zone>",
		Short:              "Delete the persisted credential of a zone",
		Args:               cobra.ExactArgs(1),
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := naming.NormalizeHostname(args[0])
			if err != nil {
				return err
			}
			uc, err := buildCredentialUseCase(cmd)
			if err != nil {
				return err
			}
			key := naming.ZoneKey(name)
			if err := uc.Forget(cmd.Context(), key); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s\n", naming.TokenKey(key), naming.NamespaceKey(key))
			return nil
		},
	}
}

func printSet(cmd *cobra.Command, tokenKey, nsKey string, cred model.Credential) {
	var set []string
	if cred.Token != "" {
		set = append(set, tokenKey+"="+redact(tokenKey, cred.Token))
	}
	if cred.Namespace != "" {
		set = append(set, nsKey+"="+cred.Namespace)
	}
	sort.Strings(set)
	fmt.Fprintf(cmd.OutOrStdout(), "Set %s\n", strings.Join(set, " "))
}
