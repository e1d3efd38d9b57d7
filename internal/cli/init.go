package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/cabinet/pkg/sqlite"
	"github.com/mesh-intelligence/cabinet/pkg/types"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize cabinet storage",
		Long:  "Create the configuration file and data directory, then initialize the storage backend.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			written, err := writeConfigIfMissing(a.configDir, cfg)
			if err != nil {
				return sysError(fmt.Errorf("write config: %w", err))
			}
			if written {
				a.logger.Info("config written", "dir", a.configDir)
			}
			if cfg.Backend == types.BackendSQLite {
				// Attaching creates the data directory and schema.
				if err := a.withBackend(func(sqlite.Backend) error { return nil }); err != nil {
					return err
				}
			}
			fmt.Fprintln(out(cmd), "Cabinet initialized successfully")
			return nil
		},
	}
}
