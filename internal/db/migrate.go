package db

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	migrate "github.com/golang-migrate/migrate/v4"
	// Blank imports register the postgres driver and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/quietbill/quietbill/internal/config"
	"github.com/quietbill/quietbill/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models in dependency order for AutoMigrate.
func allModels() []any {
	return []any{
		&models.User{}, &models.Settings{}, &models.Client{}, &models.Invoice{}, &models.LineItem{},
	}
}

// Connect opens the database named by dsn, retrying briefly, and applies the
// schema. With MIGRATIONS=1 (postgres only) the SQL files in ./migrations
// run via golang-migrate, which installs the ON DELETE CASCADE constraints;
// otherwise AutoMigrate keeps dev and test databases current.
func Connect(dsn string) (*gorm.DB, error) {
	dsn = NormalizeDSN(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_DSN is empty; check the environment")
	}
	logLevel := logger.Silent
	if config.ParseBool("DB_DEBUG", false) {
		logLevel = logger.Info
	}
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	var db *gorm.DB
	var err error
	open := func() (*gorm.DB, error) {
		if IsSQLite(dsn) {
			return gorm.Open(sqlite.Open(dsn), cfg)
		}
		return gorm.Open(postgres.Open(dsn), cfg)
	}
	for i := 0; i < 10; i++ {
		db, err = open()
		if err == nil {
			break
		}
		fmt.Println("Retrying DB connection...", err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database after retries: %w", err)
	}
	if pingErr := db.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}
	fmt.Println("[DB] Using DSN:", maskDSN(dsn))

	if config.ParseBool("MIGRATIONS", false) && !IsSQLite(dsn) {
		if err := runSQLMigrations(dsn); err != nil {
			return nil, fmt.Errorf("sql migrations failed: %w", err)
		}
	} else {
		for _, m := range allModels() {
			if migErr := db.AutoMigrate(m); migErr != nil {
				return nil, fmt.Errorf("automigrate %T: %w", m, migErr)
			}
		}
	}

	for _, table := range []string{"users", "clients", "invoices", "line_items", "settings"} {
		if !db.Migrator().HasTable(table) {
			return nil, fmt.Errorf("missing table after migration: %s", table)
		}
	}
	return db, nil
}

func maskDSN(dsn string) string {
	masked := dsn
	if strings.Contains(masked, "password=") {
		re := regexp.MustCompile(`(password=)(\S+)`)
		masked = re.ReplaceAllString(masked, `${1}***`)
	}
	if u := regexp.MustCompile(`(://[^:]+:)([^@]+)(@)`); u.MatchString(masked) {
		masked = u.ReplaceAllString(masked, `${1}***${3}`)
	}
	return masked
}

// runSQLMigrations executes migrations in ./migrations via golang-migrate.
func runSQLMigrations(dsn string) error {
	m, err := migrate.New("file://migrations", dsn)
	if err != nil {
		return err
	}
	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
