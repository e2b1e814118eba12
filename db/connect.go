package db

import (
	"finance-server/confs"
	"finance-server/entities"
	"fmt"
	"log"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the configured database, sizes the pool and migrates the schema.
func Connect(cfg confs.DatabaseConfig, production bool) (Database, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	logLevel := logger.Info
	if production {
		logLevel = logger.Warn
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	if cfg.Driver == "sqlite" {
		// a single writer avoids SQLITE_BUSY under concurrent requests
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(0)
	}

	log.Printf("Database connection established (driver=%s)", cfg.Driver)

	if err := Migrate(db); err != nil {
		return nil, err
	}
	log.Println("Database migrations completed successfully!")

	return &GormDatabase{DB: db}, nil
}

// OpenSQLite opens a SQLite database at path (":memory:" for a private
// in-memory one) and migrates it. Used by local tooling and tests.
func OpenSQLite(path string) (Database, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	// every new connection to ":memory:" would see an empty database
	sqlDB.SetMaxOpenConns(1)

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return &GormDatabase{DB: db}, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&entities.User{}, &entities.Transaction{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func dialectorFor(cfg confs.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "sqlite":
		log.Printf("Opening SQLite database at %s...", cfg.SQLitePath)
		return sqlite.Open(cfg.SQLitePath), nil
	case "mysql":
		dsn := cfg.URL
		if dsn == "" {
			if cfg.Host == "" || cfg.User == "" || cfg.Name == "" {
				return nil, fmt.Errorf("missing required database configuration: DB_URL or (DB_HOST, DB_USER, DB_NAME)")
			}
			port := cfg.Port
			if port == "" {
				port = "3306"
			}
			dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
				cfg.User, cfg.Password, cfg.Host, port, cfg.Name)
		}
		log.Println("Connecting to MySQL database...")
		return mysql.Open(dsn), nil
	case "postgres", "":
		return postgres.Open(postgresDSN(cfg)), nil
	}
	return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
}

func postgresDSN(cfg confs.DatabaseConfig) string {
	if cfg.URL != "" {
		dsn := cfg.URL
		// hosted databases expect TLS unless told otherwise
		if !strings.Contains(dsn, "sslmode=") {
			if strings.Contains(dsn, "?") {
				dsn += "&sslmode=require"
			} else {
				dsn += "?sslmode=require"
			}
		}
		log.Println("Connecting to database using DB_URL...")
		return dsn
	}

	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == "" {
		port = "5432"
	}
	sslMode := "require"
	if host == "localhost" || host == "127.0.0.1" {
		sslMode = "disable"
	}
	log.Printf("Connecting to database using individual parameters (sslmode=%s)...", sslMode)
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		host, cfg.User, cfg.Password, cfg.Name, port, sslMode)
}
