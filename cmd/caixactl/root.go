package main

import (
	"database/sql"

	"caixa-be/internal/config"
	"caixa-be/internal/db"

	"github.com/spf13/cobra"
)

// openDB is swapped in tests.
var openDB = func() (*sql.DB, error) {
	return db.NewDatabase(config.LoadConfig())
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "caixactl",
		Short: "Operator tools for the caixa backend",
		Long: `caixactl runs sales reports, issues order numbers and mints
development tokens against the caixa database.

Database settings are read from the environment (DB_HOST, DB_USER, ...)
or a .env file in the working directory.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newReportCmd(),
		newNextNumberCmd(),
		newTokenCmd(),
	)
	return root
}
