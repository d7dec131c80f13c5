package database

import (
	"fmt"
	"time"

	"coderr/config"
	"coderr/models"
	"coderr/utils"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DbInstance struct holds the database connection instance
type DbInstance struct {
	Db *gorm.DB
}

// Database is the global database instance
var Database DbInstance

// ConnectDb opens the configured database, runs migrations and stores the
// connection in Database.
func ConnectDb() {
	log := utils.GetLogger()

	db, err := Open(config.AppConfig)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.String("driver", config.AppConfig.DBDriver), zap.Error(err))
	}

	// Set up connection pooling
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("Failed to get database instance", zap.Error(err))
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Info("Running Migrations...")
	if err := Migrate(db); err != nil {
		log.Fatal("Migration failed", zap.Error(err))
	}
	log.Info("Migrations completed successfully.")

	Database = DbInstance{Db: db}
}

// Open connects to the database described by cfg without migrating it
func Open(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}
	return gorm.Open(dialector, GormConfig(cfg.Env))
}

// GormConfig is shared by the server and the tests. TranslateError turns
// driver unique violations into gorm.ErrDuplicatedKey.
func GormConfig(env string) *gorm.Config {
	level := logger.Warn
	if env == "production" {
		level = logger.Error
	}
	return &gorm.Config{
		TranslateError: true,
		Logger: logger.New(
			zap.NewStdLog(utils.GetLogger()),
			logger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  level,
				IgnoreRecordNotFoundError: true,
			},
		),
	}
}

func dialectorFor(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case "postgres", "":
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode,
		)
		return postgres.Open(dsn), nil
	case "mysql":
		dsn := fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName,
		)
		return mysql.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(cfg.DBName + "?_foreign_keys=on"), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// Migrate creates or updates every table the application uses
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Offer{},
		&models.OfferDetail{},
		&models.Order{},
		&models.OrderStatusChange{},
		&models.Review{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
