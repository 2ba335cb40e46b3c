package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kompox/zoneacme/adapters/lego"
	"github.com/kompox/zoneacme/usecase/challenge"
)

// rawModeEnvKey selects lego exec RAW mode, where the hook receives
// <domain> <token> <keyAuth> instead of <fqdn> <value>.
const rawModeEnvKey = "EXEC_MODE"

func rawMode(cmd *cobra.Command) bool {
	if f := findFlag(cmd, "raw"); f != nil && f.Changed {
		return f.Value.String() == "true"
	}
	return strings.EqualFold(os.Getenv(rawModeEnvKey), "RAW")
}

func challengeArgs(cmd *cobra.Command, args []string) error {
	if rawMode(cmd) {
		return cobra.ExactArgs(3)(cmd, args)
	}
	return cobra.ExactArgs(2)(cmd, args)
}

func printJSON(cmd *cobra.Command, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return nil
}

func newCmdAdd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "add <hostname> <value>",
		Aliases: []string{"present"},
		Short:   "Publish a DNS-01 challenge TXT record",
		Long: `Publish a TXT record with <value> at <hostname> in its owning zone, then
wait for the propagation delay.

With --raw or EXEC_MODE=RAW the arguments are <domain> <token> <keyAuth> as
passed by a lego exec provider in RAW mode, and the record name and value are
derived from them.`,
		Args:               challengeArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx, cleanup := withCmdRunLogger(cmd.Context(), "challenge.add", args[0])
			defer func() { cleanup(err) }()

			uc, err := buildChallengeUseCase(cmd)
			if err != nil {
				return err
			}
			if rawMode(cmd) {
				return lego.NewProvider(ctx, uc, 0, 0).Present(args[0], args[1], args[2])
			}
			out, err := uc.Add(ctx, &challenge.AddInput{Hostname: args[0], Value: args[1]})
			if err != nil {
				return err
			}
			return printJSON(cmd, out)
		},
	}
	cmd.Flags().Bool("raw", false, "Arguments are <domain> <token> <keyAuth> (env EXEC_MODE=RAW)")
	return cmd
}

func newCmdRm() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rm <hostname> <value>",
		Aliases: []string{"remove", "cleanup"},
		Short:   "Withdraw a DNS-01 challenge TXT record",
		Long: `Withdraw every TXT record with <value> at <hostname> in its owning zone.
Withdrawing a record that is not present succeeds.

With --raw or EXEC_MODE=RAW the arguments are <domain> <token> <keyAuth>.`,
		Args:               challengeArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx, cleanup := withCmdRunLogger(cmd.Context(), "challenge.rm", args[0])
			defer func() { cleanup(err) }()

			uc, err := buildChallengeUseCase(cmd)
			if err != nil {
				return err
			}
			if rawMode(cmd) {
				return lego.NewProvider(ctx, uc, 0, 0).CleanUp(args[0], args[1], args[2])
			}
			out, err := uc.Remove(ctx, &challenge.RemoveInput{Hostname: args[0], Value: args[1]})
			if err != nil {
				return err
			}
			return printJSON(cmd, out)
		},
	}
	cmd.Flags().Bool("raw", false, "Arguments are <domain> <token> <keyAuth> (env EXEC_MODE=RAW)")
	return cmd
}

type timeoutOutput struct {
	Timeout  int `json:"timeout"`  // seconds
	Interval int `json:"interval"` // seconds
}

func newCmdTimeout() *cobra.Command {
	return &cobra.Command{
		Use:                "timeout",
		Short:              "Print the propagation timeout and polling interval in seconds",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			timeout, interval := lego.NewProvider(cmd.Context(), nil, 0, 0).Timeout()
			return printJSON(cmd, timeoutOutput{
				Timeout:  int(timeout.Seconds()),
				Interval: int(interval.Seconds()),
			})
		},
	}
}
