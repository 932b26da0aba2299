package cmd

import (
	"context"
	"fmt"

	"github.com/frahmantamala/training-management/internal/eid"
	"github.com/frahmantamala/training-management/internal/seed"
	"github.com/frahmantamala/training-management/internal/transport/rest"
	"github.com/frahmantamala/training-management/pkg/logger"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed system roles, route permissions and the first administrator",
	Long: `Create the five system roles, one permission per protected route with the
default grants, and the administrator account from the seed config section.
Existing rows are left untouched, so the command is safe to re-run after new
routes are added.`,
	RunE: runSeed,
}

func runSeed(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := loadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := initDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to init db: %w", err)
	}
	defer db.Close()

	gdb, err := initGorm(db)
	if err != nil {
		return fmt.Errorf("failed to init gorm: %w", err)
	}

	catalogue := rest.Catalogue()
	specs := make([]seed.PermissionSpec, 0, len(catalogue))
	for _, rt := range catalogue {
		specs = append(specs, seed.PermissionSpec{
			Method: rt.Method,
			Path:   rt.PermissionPath(),
			Module: rt.Module,
			Name:   rt.Name,
			Grants: rt.Grants,
		})
	}

	seeder := seed.NewSeeder(gdb, eid.NewGenerator(gdb), cfg.Security.BCryptCost, logger.LoggerWrapper())
	if _, err := seeder.Run(ctx, specs, cfg.Seed); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	return nil
}
