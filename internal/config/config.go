package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/gohealthalbania/booking-api/internal/logger"
	"github.com/gohealthalbania/booking-api/internal/validator"
)

type SlogConfig struct {
	Level int `mapstructure:"level"`
}

type LoggingConfig struct {
	App     SlogConfig `mapstructure:"app"`
	UseOTLP bool       `mapstructure:"use_otlp"`
}

type SheetsConfig struct {
	SpreadsheetID   string `mapstructure:"spreadsheet_id"   validate:"required"`
	CredentialsFile string `mapstructure:"credentials_file" validate:"required"`
}

type StorageConfig struct {
	// Which Store implementation backs submissions.
	Backend string `mapstructure:"backend"     validate:"required,oneof=csv sqlite sheets"`
	// Directory holding the per-form-type CSV files (csv backend).
	DataDir string `mapstructure:"data_dir"`
	// Path of the sqlite database file (sqlite backend).
	SQLitePath string        `mapstructure:"sqlite_path"`
	Sheets     *SheetsConfig `mapstructure:"sheets"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"     validate:"required"`
	Port     int    `mapstructure:"port"     validate:"required"`
	User     string `mapstructure:"user"     validate:"required"`
	Password string `mapstructure:"password" validate:"required"`
	From     string `mapstructure:"from"     validate:"required"`
	To       string `mapstructure:"to"       validate:"required,email"`
}

type CaptchaConfig struct {
	SecretKey string `mapstructure:"secret_key" validate:"required"`
	// Override for the siteverify endpoint, used by tests. Empty means Google.
	Endpoint string `mapstructure:"endpoint"`
}

type AdminConfig struct {
	Username string `mapstructure:"username"      validate:"required"`
	// argon2id hash of the shared admin password.
	PasswordHash string `mapstructure:"password_hash" validate:"required"`
}

// See bookingapi.yaml for an example config
type Config struct {
	Environment          string         `mapstructure:"environment"`
	ListenAddress        string         `mapstructure:"listen_address" validate:"required"`
	AllowedOrigins       []string       `mapstructure:"allowed_origins"`
	Storage              *StorageConfig `mapstructure:"storage"        validate:"required"`
	SMTP                 *SMTPConfig    `mapstructure:"smtp"           validate:"required"`
	Captcha              *CaptchaConfig `mapstructure:"captcha"        validate:"required"`
	Admin                *AdminConfig   `mapstructure:"admin"          validate:"required"`
	Logging              *LoggingConfig `mapstructure:"logging"`
	GracefulShutdownSecs int64          `mapstructure:"graceful_shutdown_secs"`
}

const (
	AdminPasswordHash string = "admin.password_hash"
	AppLogLevel       string = "logging.app.level"
	CaptchaSecretKey  string = "captcha.secret_key" // #nosec
	EnvPrefix         string = "bookingapi"
	ListenAddress     string = "listen_address"
	SMTPPassword      string = "smtp.password"
	SheetsSpreadsheet string = "storage.sheets.spreadsheet_id"
	StorageBackend    string = "storage.backend"
	UseOTLP           string = "logging.use_otlp"
)

var configReady = false
var config Config

func GetConfig() (*Config, error) {
	if configReady {
		logger.Logger.Debug("returning already-loaded config")
		return &config, nil
	}
	logger.Logger.Info("loading config")

	v := viper.New()

	v.SetConfigName("bookingapi")

	v.AddConfigPath("/etc/bookingapi/")
	v.AddConfigPath(".")

	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.AutomaticEnv()

	// workaround for https://github.com/spf13/viper/issues/761
	// bind secret env vars explicitly so they unmarshal into the nested structs
	for _, key := range []string{
		AdminPasswordHash,
		CaptchaSecretKey,
		SMTPPassword,
		SheetsSpreadsheet,
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	v.SetDefault(ListenAddress, ":8080")
	v.SetDefault(StorageBackend, "csv")
	v.SetDefault("storage.data_dir", "data")
	v.SetDefault("environment", "development")
	v.SetDefault("graceful_shutdown_secs", 10)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		logger.Logger.Warn("no config file found, relying on env and defaults")
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	validate := validator.Create()
	if err := validate.Validate(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if err := validateStorage(config.Storage); err != nil {
		return nil, err
	}

	configReady = true
	return &config, nil
}

// Backend specific required fields that validator tags cannot express.
func validateStorage(s *StorageConfig) error {
	switch s.Backend {
	case "csv":
		if s.DataDir == "" {
			return fmt.Errorf("storage.data_dir is required for the csv backend")
		}
	case "sqlite":
		if s.SQLitePath == "" {
			return fmt.Errorf("storage.sqlite_path is required for the sqlite backend")
		}
	case "sheets":
		if s.Sheets == nil {
			return fmt.Errorf("storage.sheets is required for the sheets backend")
		}
		validate := validator.Create()
		if err := validate.Validate(*s.Sheets); err != nil {
			return fmt.Errorf("invalid sheets config: %w", err)
		}
	}

	return nil
}
