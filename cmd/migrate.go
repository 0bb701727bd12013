package cmd

import (
	"github.com/majawitosz/tab-backend/internal/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		return database.Migrate(cmd.Context(), a.pool, a.log)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
