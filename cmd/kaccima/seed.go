package main

import (
	"context"
	"fmt"

	"github.com/umphart/kaccimapro-sub001/internal/db"
	"github.com/umphart/kaccimapro-sub001/internal/seed"
	"github.com/umphart/kaccimapro-sub001/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed the database with the admin review team",
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx := context.Background()

		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		logrus.Info("Connected to database")

		adminRepo := store.NewAdminRepository(pool)

		logrus.Info("Seeding admins...")
		if err := seed.SeedAdmins(ctx, adminRepo); err != nil {
			return fmt.Errorf("failed to seed admins: %w", err)
		}

		logrus.Info("Admins seeded successfully")

		return nil
	},
}
