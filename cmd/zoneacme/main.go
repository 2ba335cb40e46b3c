package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/kompox/zoneacme/internal/logging"
)

// logFile is the log destination opened for the current run.
var logFile *logging.LogFile

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "zoneacme",
		Short: "DNS-01 challenge records for Kubernetes-hosted DNS zones",
		Long: `zoneacme publishes and withdraws ACME DNS-01 challenge TXT records in DNS
zones stored as Kubernetes custom resources.

The owning zone of a challenge hostname is found by walking its parent names.
Credentials are looked up per zone as TOKEN_<ZONEKEY>/NAMESPACE_<ZONEKEY>, then
GLOBAL_TOKEN/GLOBAL_NAMESPACE, first in the environment and then in the
account config store.`,
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Show help by default when no subcommand is provided.
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.String("home", "", "zoneacme home directory (env ZONEACME_HOME) (default $HOME/.zoneacme)")
	pf.String("store-url", "", "Account config store (env ZONEACME_STORE_URL) (file:<path> | sqlite:<path> | mem:)")
	pf.String("kubeconfig-template", "", "Kubeconfig template (env ZONEACME_KUBECONFIG_TEMPLATE) (https://... | file:<path> | aks:<resource id>)")
	pf.String("zone-resource", "", "Zone resource as resource.version.group (env ZONEACME_ZONE_RESOURCE)")
	pf.String("propagation-delay", "", "Wait after publishing a record (env ZONEACME_PROPAGATION_DELAY) (default 15s)")
	pf.String("log-format", "human", "Log format (human|text|json) (env ZONEACME_LOG_FORMAT)")
	pf.String("log-level", "INFO", "Log level (DEBUG|INFO|WARN|ERROR) (env ZONEACME_LOG_LEVEL)")
	pf.String("log-output", "-", "Log output (- for stderr | none | auto | <path>) (env ZONEACME_LOG_OUTPUT)")

	cmd.PersistentPreRunE = func(c *cobra.Command, _ []string) error {
		s, err := loadSettings(c)
		if err != nil {
			return err
		}
		level, err := logging.ParseLevel(s.Log.Level)
		if err != nil {
			return err
		}
		lf, err := logging.NewLogFile(&s.Log)
		if err != nil {
			return err
		}
		logFile = lf
		if strings.EqualFold(s.Log.Output, "auto") {
			_ = logging.CleanupOldLogFiles(s.Log.Dir, s.Log.RetentionDays)
		}
		l, err := logging.NewWithWriter(s.Log.Format, level, lf.Writer())
		if err != nil {
			return err
		}
		l = l.With("runId", uuid.NewString())
		if !strings.EqualFold(s.Log.Level, "DEBUG") {
			quietKlog()
		}
		ctx := logging.WithLogger(c.Context(), l)
		ctx = withSettings(ctx, s)
		c.SetContext(ctx)
		return nil
	}

	cmd.AddCommand(newCmdVersion())
	cmd.AddCommand(newCmdInit())
	cmd.AddCommand(newCmdAdd())
	cmd.AddCommand(newCmdRm())
	cmd.AddCommand(newCmdTimeout())
	cmd.AddCommand(newCmdZone())
	cmd.AddCommand(newCmdConfig())
	return cmd
}

func main() {
	root := newRootCmd()
	root.SetContext(context.Background())
	executed, err := root.ExecuteC()
	if err != nil {
		ctx := root.Context()
		if executed != nil {
			ctx = executed.Context()
		}
		logging.FromContext(ctx).Errorf(ctx, "Failed: %s", err)
		if logFile != nil && logFile.Writer() != io.Writer(os.Stderr) {
			// The diagnostic must reach the caller even when logs go elsewhere.
			fmt.Fprintf(os.Stderr, "zoneacme: %s\n", err)
		}
	}
	if logFile != nil {
		_ = logFile.Close()
	}
	if err != nil {
		os.Exit(1)
	}
}
