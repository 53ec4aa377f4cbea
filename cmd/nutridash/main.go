package main

import (
	"fmt"
	"os"

	"github.com/aussiebroadwan/nutridash/internal/nutridash/app"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "nutridash",
	Short:         "Nutrition dashboard API server",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := app.New(app.LoadConfig())
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}
		return application.Run()
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := app.OpenStore(app.LoadConfig())
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		version, dirty, err := db.MigrationVersion()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "schema at version %d (dirty=%t)\n", version, dirty)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, userCmd)
}
