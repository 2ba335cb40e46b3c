package main

import (
	"fmt"

	"github.com/spf13/cobra"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/yaml"

	zonev1 "github.com/kompox/zoneacme/config/crd/zone/v1alpha1"
	"github.com/kompox/zoneacme/usecase/zone"
)

func newCmdZone() *cobra.Command {
	cmd := &cobra.Command{
		Use:                "zone",
		Short:              "Inspect DNS zones",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE:               func(cmd *cobra.Command, args []string) error { return fmt.Errorf("invalid command") },
	}
	cmd.AddCommand(newCmdZoneFind(), newCmdZoneShow())
	return cmd
}

// zoneFindOutput is FindZoneOutput with the located zone flattened in.
type zoneFindOutput struct {
	*zone.FindZoneOutput
	Zone        string `json:"zone,omitempty"`
	Namespace   string `json:"namespace,omitempty"`
	Fingerprint string `json:"fingerprint,omitempty"`
}

func newCmdZoneFind() *cobra.Command {
	return &cobra.Command{
		Use:   "find <hostname>",
		Short: "Locate the zone owning a hostname",
		Long: `Walk the candidate zones of <hostname> and report, for each candidate, whether
a credential was configured and whether the zone could be read. The attempts
are printed even when no zone is found.`,
		Args:               cobra.ExactArgs(1),
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx, cleanup := withCmdRunLogger(cmd.Context(), "zone.find", args[0])
			defer func() { cleanup(err) }()

			uc, err := buildZoneUseCase(cmd)
			if err != nil {
				return err
			}
			out, findErr := uc.FindZone(ctx, &zone.FindZoneInput{Hostname: args[0]})
			if out == nil {
				return findErr
			}
			view := zoneFindOutput{FindZoneOutput: out}
			if findErr == nil {
				view.Zone = out.Zone.Name
				view.Namespace = out.Credential.Namespace
				view.Fingerprint = out.Client.Fingerprint()
			}
			if err := printJSON(cmd, view); err != nil {
				return err
			}
			return findErr
		},
	}
}

func newCmdZoneShow() *cobra.Command {
	return &cobra.Command{
		Use:                "show <hostname>",
		Short:              "Print the zone owning a hostname as a Zone resource",
		Args:               cobra.ExactArgs(1),
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx, cleanup := withCmdRunLogger(cmd.Context(), "zone.show", args[0])
			defer func() { cleanup(err) }()

			uc, err := buildZoneUseCase(cmd)
			if err != nil {
				return err
			}
			out, err := uc.FindZone(ctx, &zone.FindZoneInput{Hostname: args[0]})
			if err != nil {
				return err
			}
			obj := zonev1.Zone{
				TypeMeta: metav1.TypeMeta{APIVersion: zonev1.Group + "/" + zonev1.Version, Kind: zonev1.Kind},
				ObjectMeta: metav1.ObjectMeta{
					Name:            out.Zone.Name,
					Namespace:       out.Zone.Namespace,
					ResourceVersion: out.Zone.ResourceVersion,
				},
				Spec: zonev1.ModelToSpec(out.Zone.Records),
			}
			b, err := yaml.Marshal(&obj)
			if err != nil {
				return fmt.Errorf("marshal zone %s: %w", out.Zone.Name, err)
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}
}
