package seed

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"learnhub/internal/infrastructure/config"
	"learnhub/internal/infrastructure/database"
	"learnhub/internal/infrastructure/repository"
	"learnhub/internal/infrastructure/seed"
	"learnhub/internal/shared/logger"
)

var env string

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the permission catalog",
		Long:  `Insert the built-in permission catalog. Safe to run repeatedly; existing rows are left untouched.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, ""); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	permissionRepo := repository.NewPermissionRepository(database.Get())
	seeder := seed.NewSeeder(permissionRepo)

	if err := seeder.SeedPermissions(context.Background()); err != nil {
		return fmt.Errorf("failed to seed permissions: %w", err)
	}

	fmt.Println("Permission catalog seeded successfully")
	return nil
}
