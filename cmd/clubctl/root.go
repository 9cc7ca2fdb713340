package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/aiclub-backend/internal/app"
	"github.com/yungbote/aiclub-backend/internal/data/db"
	"github.com/yungbote/aiclub-backend/internal/platform/logger"
)

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "clubctl <command> [flags]",
		Short:         "Operator tasks for the AI club backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	rootCmd.AddCommand(newMigrateCommand())
	rootCmd.AddCommand(newCreateSuperAdminCommand())
	rootCmd.AddCommand(newListManualsCommand())
	return rootCmd
}

// openDatabase connects with the same env the server reads.
func openDatabase() (*db.DatabaseService, *logger.Logger, error) {
	cfg := app.LoadConfig()
	log, err := logger.New("test")
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	dbs, err := db.NewDatabaseService(cfg.DB, log)
	if err != nil {
		return nil, nil, err
	}
	return dbs, log, nil
}
