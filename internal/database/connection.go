// Package database wires the Postgres connection pool used by the durable
// write/read paths of spec.md §4.8. Grounded on
// order_service/src/database/connection.go: a gorm.DB wrapper, AutoMigrate,
// HealthCheck, and connection-pool stats.
package database

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/rtnapps/Loyalty-Program/internal/config"
	"github.com/rtnapps/Loyalty-Program/internal/models"
)

// Database wraps the gorm connection plus a raw *sql.DB pool used for the
// one path gorm can't express cleanly: the daily-count atomic
// upsert-returning-count (see repository.DailyCountRepository).
type Database struct {
	DB  *gorm.DB
	Raw *sql.DB
}

var db *Database

func dsn(cfg *config.Config) string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode,
	)
}

// Connect establishes both the gorm connection and the raw lib/pq pool the
// daily-count upsert uses, sharing one DSN.
func Connect(cfg *config.Config) (*Database, error) {
	gormLogger := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)

	gormDB, err := gorm.Open(postgres.Open(dsn(cfg)), &gorm.Config{
		Logger: gormLogger,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxConnections)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConnections)
	sqlDB.SetConnMaxLifetime(cfg.DBConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	rawDB, err := sql.Open("postgres", dsn(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open raw pq pool: %w", err)
	}
	rawDB.SetMaxOpenConns(cfg.DBMaxConnections)

	db = &Database{DB: gormDB, Raw: rawDB}
	return db, nil
}

// GetDB returns the shared gorm connection.
func GetDB() *gorm.DB {
	if db == nil {
		log.Fatal("database not initialized. Call Connect() first.")
	}
	return db.DB
}

// GetRaw returns the shared raw lib/pq pool.
func GetRaw() *sql.DB {
	if db == nil {
		log.Fatal("database not initialized. Call Connect() first.")
	}
	return db.Raw
}

// AutoMigrate creates/updates the tables this service owns. This is a
// dev/test convenience distinct from the production schema installer, which
// spec.md §1 places out of scope as a separate operator tool; catalog and
// allowance tables are never migrated here since the synchronizer owns them.
func AutoMigrate() error {
	gormDB := GetDB()

	if err := gormDB.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		log.Printf("warning: could not create uuid-ossp extension: %v", err)
	}

	err := gormDB.AutoMigrate(
		&models.CustomerProfile{},
		&models.DailyCount{},
		&models.ValidationLogEntry{},
		&models.AVTRecord{},
		&models.Transaction{},
		&models.TransactionLine{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return createIndexes(gormDB)
}

func createIndexes(gormDB *gorm.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_validation_log_created_at ON loyalty_validation_log(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_avt_transactions_transaction_id ON avt_transactions(transaction_id)",
		"CREATE INDEX IF NOT EXISTS idx_transactions_loyalty_id ON transactions(loyalty_id)",
	}
	for _, idx := range indexes {
		if err := gormDB.Exec(idx).Error; err != nil {
			return err
		}
	}
	return nil
}

// Close closes both pools.
func Close() error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.Close(); err != nil {
		return err
	}
	return db.Raw.Close()
}

// HealthCheck pings the gorm pool.
func HealthCheck() error {
	if db == nil {
		return fmt.Errorf("database not initialized")
	}
	sqlDB, err := db.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Ping()
}

// Stats returns connection-pool statistics for the admin health endpoint.
func Stats() map[string]interface{} {
	if db == nil {
		return map[string]interface{}{"error": "database not initialized"}
	}
	sqlDB, err := db.DB.DB()
	if err != nil {
		return map[string]interface{}{"error": err.Error()}
	}
	stats := sqlDB.Stats()
	return map[string]interface{}{
		"max_open_connections": stats.MaxOpenConnections,
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"wait_count":           stats.WaitCount,
		"wait_duration":        stats.WaitDuration.String(),
	}
}
