package main

import (
	"fmt"
	"os"

	"parcel-logistics/config"
	"parcel-logistics/database"
	"parcel-logistics/database/seeders"
	"parcel-logistics/logger"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func connect() (*gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if _, err := logger.Init(logger.Options{Mode: cfg.AppEnv}); err != nil {
		return nil, err
	}
	// InitDB migrates the schema and creates the constraints.
	return database.InitDB(cfg.Database)
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "migrate",
		Short: "Database tooling for the parcel ledger",
	}

	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Migrate the schema, indexes and foreign keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("🚀 Running database migrations...")
			if _, err := connect(); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Println("✅ Migration completed successfully!")
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "seed",
		Short: "Migrate, then create the demo tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := connect()
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			t, err := seeders.SeedDemoTenant(db)
			if err != nil {
				return err
			}
			fmt.Printf("agency=%s departure=%s destination=%s operator=%s customer=%s\n",
				t.Agency.ID, t.Departure.ID, t.Destination.ID, t.Operator.ID, t.Customer.ID)
			return nil
		},
	})

	return root
}

func main() {
	defer logger.Close()
	if err := newRootCommand().Execute(); err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
}
