package database

import (
	"fmt"
	"time"

	"parcel-logistics/config"
	"parcel-logistics/logger"
	"parcel-logistics/models/admin"
	"parcel-logistics/models/agency"
	"parcel-logistics/models/counter"
	"parcel-logistics/models/log"
	"parcel-logistics/models/office"
	"parcel-logistics/models/operator"
	"parcel-logistics/models/parcel"
	"parcel-logistics/models/tag"
	"parcel-logistics/models/tracking"
	"parcel-logistics/models/transaction"
	"parcel-logistics/models/user"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// InitDB opens the PostgreSQL connection, migrates the schema and creates indexes and constraints.
func InitDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var err error
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Warn),
	})
	if err != nil {
		logger.Error("Failed to connect to the database", err)
		return nil, err
	}
	logger.Success("Successfully connected to the database")

	sqlDB, err := DB.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := Migrate(DB); err != nil {
		logger.Error("Failed to migrate schema", err)
		return nil, err
	}
	logger.Success("All migrations completed successfully")

	if err := createForeignKeyConstraints(DB); err != nil {
		logger.Error("Failed to create foreign key constraints", err)
		return nil, err
	}
	logger.Success("All foreign key constraints created successfully")

	return DB, nil
}

// Migrate runs auto migration in dependency stages followed by the extra indexes.
func Migrate(db *gorm.DB) error {
	stages := [][]interface{}{
		// Stage 1: accounts and tenants
		{&admin.Admin{}, &agency.Agency{}},
		// Stage 2: entities owned by an agency
		{&office.Office{}, &operator.Operator{}, &user.User{}, &tag.Tag{}},
		// Stage 3: ledger
		{&parcel.Parcel{}, &transaction.Transaction{}, &counter.Counter{}},
		// Stage 4: append-only history and request logs
		{&tracking.ParcelTracking{}, &tracking.TransactionTracking{}, &log.Log{}},
	}

	for _, models := range stages {
		for _, model := range models {
			if err := db.AutoMigrate(model); err != nil {
				return fmt.Errorf("failed to migrate %T: %w", model, err)
			}
		}
	}

	return createIndexes(db)
}

// createIndexes creates indexes that gorm tags cannot express
func createIndexes(db *gorm.DB) error {
	indexes := []struct {
		name string
		sql  string
	}{
		{"idx_parcels_tag_scope", "CREATE INDEX IF NOT EXISTS idx_parcels_tag_scope ON parcels(tag_id, agency_id, office_id) WHERE tag_id IS NOT NULL"},
		{"idx_parcels_created_at", "CREATE INDEX IF NOT EXISTS idx_parcels_created_at ON parcels(created_at)"},
		{"idx_parcel_trackings_parcel_created", "CREATE INDEX IF NOT EXISTS idx_parcel_trackings_parcel_created ON parcel_trackings(parcel_id, created_at)"},
		{"idx_transaction_trackings_tx_created", "CREATE INDEX IF NOT EXISTS idx_transaction_trackings_tx_created ON transaction_trackings(transaction_id, created_at)"},
		{"idx_logs_method", "CREATE INDEX IF NOT EXISTS idx_logs_method ON logs(method)"},
		{"idx_logs_status_code", "CREATE INDEX IF NOT EXISTS idx_logs_status_code ON logs(status_code)"},
		{"idx_logs_created_at", "CREATE INDEX IF NOT EXISTS idx_logs_created_at ON logs(created_at)"},
	}

	for _, idx := range indexes {
		if err := db.Exec(idx.sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}
	return nil
}

// createForeignKeyConstraints creates foreign key constraints after auto migration.
// Only PostgreSQL exposes information_schema, other dialects are skipped.
func createForeignKeyConstraints(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}

	constraints := []struct {
		name string
		sql  string
	}{
		{
			name: "fk_offices_agency",
			sql: `ALTER TABLE offices ADD CONSTRAINT fk_offices_agency
				  FOREIGN KEY (agency_id) REFERENCES agencies(id)
				  ON UPDATE CASCADE ON DELETE RESTRICT`,
		},
		{
			name: "fk_parcels_tag",
			sql: `ALTER TABLE parcels ADD CONSTRAINT fk_parcels_tag
				  FOREIGN KEY (tag_id) REFERENCES tags(id)
				  ON UPDATE CASCADE ON DELETE RESTRICT`,
		},
		{
			name: "fk_transactions_parcel",
			sql: `ALTER TABLE transactions ADD CONSTRAINT fk_transactions_parcel
				  FOREIGN KEY (parcel_id) REFERENCES parcels(id)
				  ON UPDATE CASCADE ON DELETE RESTRICT`,
		},
		{
			name: "fk_parcel_trackings_parcel",
			sql: `ALTER TABLE parcel_trackings ADD CONSTRAINT fk_parcel_trackings_parcel
				  FOREIGN KEY (parcel_id) REFERENCES parcels(id)
				  ON UPDATE CASCADE ON DELETE RESTRICT`,
		},
		{
			name: "fk_transaction_trackings_transaction",
			sql: `ALTER TABLE transaction_trackings ADD CONSTRAINT fk_transaction_trackings_transaction
				  FOREIGN KEY (transaction_id) REFERENCES transactions(id)
				  ON UPDATE CASCADE ON DELETE RESTRICT`,
		},
	}

	for _, constraint := range constraints {
		var exists bool
		checkSQL := `
			SELECT EXISTS (
				SELECT 1 FROM information_schema.table_constraints
				WHERE constraint_name = $1
			)
		`

		if err := db.Raw(checkSQL, constraint.name).Scan(&exists).Error; err != nil {
			logger.Warning(fmt.Sprintf("Failed to check constraint existence: %s - Error: %v", constraint.name, err))
			continue
		}

		if exists {
			logger.Debug(fmt.Sprintf("Constraint already exists: %s", constraint.name))
			continue
		}
		if err := db.Exec(constraint.sql).Error; err != nil {
			logger.Warning(fmt.Sprintf("Failed to create constraint: %s - Error: %v", constraint.name, err))
		} else {
			logger.Success(fmt.Sprintf("Successfully created constraint: %s", constraint.name))
		}
	}

	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
