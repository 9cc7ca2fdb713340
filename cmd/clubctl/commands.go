package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/yungbote/aiclub-backend/internal/data/aggregates"
	"github.com/yungbote/aiclub-backend/internal/data/db"
	"github.com/yungbote/aiclub-backend/internal/data/repos"
	types "github.com/yungbote/aiclub-backend/internal/domain"
	"github.com/yungbote/aiclub-backend/internal/platform/dbctx"
	"github.com/yungbote/aiclub-backend/internal/services"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update tables and indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			dbs, log, err := openDatabase()
			if err != nil {
				return err
			}
			defer dbs.Close()
			defer log.Sync()

			if err := db.AutoMigrateAll(dbs.DB()); err != nil {
				return err
			}
			color.Green("✓ Schema migrated (%s)", dbs.Driver())
			return nil
		},
	}
}

type superAdminFlags struct {
	Email     string
	FirstName string
	LastName  string
	Password  string
}

func newCreateSuperAdminCommand() *cobra.Command {
	flags := &superAdminFlags{}
	cmd := &cobra.Command{
		Use:   "create-super-admin",
		Short: "Create the first super admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			dbs, log, err := openDatabase()
			if err != nil {
				return err
			}
			defer dbs.Close()
			defer log.Sync()

			users := services.NewUserService(log, repos.NewUserRepo(dbs.DB(), log), repos.NewClubRepo(dbs.DB(), log))
			var created *types.User
			err = aggregates.NewGormTxRunner(dbs.DB(), log).InTx(cmd.Context(), func(dbc dbctx.Context) error {
				u, err := users.CreateUser(dbc, services.RegisterInput{
					Email:     flags.Email,
					Password:  flags.Password,
					FirstName: flags.FirstName,
					LastName:  flags.LastName,
					Role:      types.RoleSuperAdmin,
				})
				created = u
				return err
			})
			if err != nil {
				return err
			}
			color.Green("✓ Super admin %s created (id %s)", created.Email, created.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&flags.Email, "email", "", "Login email")
	cmd.Flags().StringVar(&flags.FirstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&flags.LastName, "last-name", "", "Last name")
	cmd.Flags().StringVar(&flags.Password, "password", "", "Initial password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("first-name")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newListManualsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list-manuals",
		Short: "List uploaded trainer manual versions",
		RunE: func(cmd *cobra.Command, args []string) error {
			dbs, log, err := openDatabase()
			if err != nil {
				return err
			}
			defer dbs.Close()
			defer log.Sync()

			manuals, err := repos.NewManualRepo(dbs.DB(), log).List(dbctx.From(cmd.Context()))
			if err != nil {
				return err
			}
			if len(manuals) == 0 {
				color.Yellow("No manuals uploaded yet")
				return nil
			}
			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "VERSION\tFILE\tSIZE\tUPLOADED")
			for _, m := range manuals {
				fmt.Fprintf(tw, "v%d\t%s\t%d\t%s\n", m.Version, m.FileName, m.SizeBytes, m.CreatedAt.Format("2006-01-02 15:04"))
			}
			return tw.Flush()
		},
	}
}
