package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultJWTKey = "defaultSecret"

// Config holds application configuration
type Config struct {
	Port string `mapstructure:"PORT"`
	Env  string `mapstructure:"ENV"`

	DBDriver   string `mapstructure:"DB_DRIVER"` // postgres, mysql or sqlite
	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	DBSSLMode  string `mapstructure:"DB_SSLMODE"`

	JWTKey    string `mapstructure:"JWT_SECRET_KEY"`
	SaltRound int    `mapstructure:"SALT_ROUND"`

	PageSize    int `mapstructure:"PAGE_SIZE"`
	MaxPageSize int `mapstructure:"MAX_PAGE_SIZE"`

	UploadDir         string `mapstructure:"UPLOAD_DIR"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
}

// AppConfig is a global variable to access configuration
var AppConfig = Defaults()

// Defaults returns the configuration used when nothing is set in the environment.
func Defaults() *Config {
	return &Config{
		Port:              "3000",
		Env:               "development",
		DBDriver:          "postgres",
		DBHost:            "localhost",
		DBPort:            "5432",
		DBUser:            "postgres",
		DBPassword:        "postgres",
		DBName:            "coderr",
		DBSSLMode:         "disable",
		JWTKey:            defaultJWTKey,
		SaltRound:         10,
		PageSize:          10,
		MaxPageSize:       100,
		UploadDir:         "./public/uploads",
		MaxRequestsPerMin: 200,
	}
}

// LoadConfig initializes configuration from a .env file, environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := Defaults()
	v.SetDefault("PORT", defaults.Port)
	v.SetDefault("ENV", defaults.Env)
	v.SetDefault("DB_DRIVER", defaults.DBDriver)
	v.SetDefault("DB_HOST", defaults.DBHost)
	v.SetDefault("DB_PORT", defaults.DBPort)
	v.SetDefault("DB_USER", defaults.DBUser)
	v.SetDefault("DB_PASSWORD", defaults.DBPassword)
	v.SetDefault("DB_NAME", defaults.DBName)
	v.SetDefault("DB_SSLMODE", defaults.DBSSLMode)
	v.SetDefault("JWT_SECRET_KEY", defaults.JWTKey)
	v.SetDefault("SALT_ROUND", defaults.SaltRound)
	v.SetDefault("PAGE_SIZE", defaults.PageSize)
	v.SetDefault("MAX_PAGE_SIZE", defaults.MaxPageSize)
	v.SetDefault("UPLOAD_DIR", defaults.UploadDir)
	v.SetDefault("MAX_REQUESTS_PER_MIN", defaults.MaxRequestsPerMin)

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Page size bounds must stay usable even with a broken environment
	if cfg.MaxPageSize < 1 {
		cfg.MaxPageSize = defaults.MaxPageSize
	}
	if cfg.PageSize < 1 || cfg.PageSize > cfg.MaxPageSize {
		cfg.PageSize = min(defaults.PageSize, cfg.MaxPageSize)
	}

	AppConfig = cfg

	if AppConfig.JWTKey == defaultJWTKey {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
}

// IsProduction checks if the environment is production
func IsProduction() bool {
	return AppConfig.Env == "production"
}
