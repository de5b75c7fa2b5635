package main

import (
	"os"

	"github.com/spf13/cobra"

	"learnhub/internal/interfaces/cli/migrate"
	"learnhub/internal/interfaces/cli/seed"
	"learnhub/internal/interfaces/cli/server"
)

// @title LearnHub API
// @version 1.0
// @description Multi-tenant learning platform with per-tenant roles and a global permission catalog.
// @host localhost:8080
// @BasePath /
func main() {
	rootCmd := &cobra.Command{
		Use:   "learnhub",
		Short: "LearnHub - multi-tenant learning platform",
		Long:  `LearnHub is a multi-tenant learning platform with per-tenant roles, a global permission catalog, and tenant-scoped course and quiz management.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		seed.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
