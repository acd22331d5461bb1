package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "user-service",
	Short: "User accounts and avatars service",
	// без подкоманды запускаем сервер
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP API, gRPC health and audit worker",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Database migration commands",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Run all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate("up")
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Rollback the last migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate("down")
	},
}

var importDir string

var importAvatarsCmd = &cobra.Command{
	Use:   "import-avatars",
	Short: "Assign avatars from a directory to users that have none",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImportAvatars(cmd.Context(), importDir)
	},
}

func init() {
	importAvatarsCmd.Flags().StringVar(&importDir, "dir", "", "directory with jpg, jpeg or png files")
	_ = importAvatarsCmd.MarkFlagRequired("dir")

	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
	rootCmd.AddCommand(serveCmd, migrateCmd, importAvatarsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
