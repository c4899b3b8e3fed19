package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turtacn/titleorder/internal/config"
	"github.com/turtacn/titleorder/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/titleorder/pkg/errors"
)

type schemaOpener func(cfg *config.Config, log logging.Logger) (SchemaMigrator, error)

// MigrationStatus is the output of `migrate status`.
type MigrationStatus struct {
	Version uint `json:"version"`
	Dirty   bool `json:"dirty"`
}

func (s MigrationStatus) String() string {
	if s.Dirty {
		return fmt.Sprintf("version %d (dirty)\n", s.Version)
	}
	return fmt.Sprintf("version %d\n", s.Version)
}

// NewMigrateCmd manages the order ledger schema.
func NewMigrateCmd(open schemaOpener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the order ledger schema",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSchema(cmd, open, func(m SchemaMigrator) error {
				if err := m.Migrate(); err != nil {
					return err
				}
				return printStatus(cmd, m)
			})
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if steps < 1 {
				return errors.InvalidParam("steps must be positive")
			}
			return withSchema(cmd, open, func(m SchemaMigrator) error {
				if err := m.Rollback(steps); err != nil {
					return err
				}
				return printStatus(cmd, m)
			})
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	status := &cobra.Command{
		Use:   "status",
		Short: "Print the applied schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSchema(cmd, open, func(m SchemaMigrator) error {
				return printStatus(cmd, m)
			})
		},
	}

	cmd.AddCommand(up, down, status)
	return cmd
}

func withSchema(cmd *cobra.Command, open schemaOpener, fn func(SchemaMigrator) error) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	m, err := open(cliCtx.Config, cliCtx.Logger)
	if err != nil {
		return err
	}
	defer m.Close()
	return fn(m)
}

func printStatus(cmd *cobra.Command, m SchemaMigrator) error {
	st, err := m.MigrationStatus()
	if err != nil {
		return err
	}
	return PrintResult(cmd, MigrationStatus{Version: st.Version, Dirty: st.Dirty})
}
