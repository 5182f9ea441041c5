package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Source drivers.
const (
	DriverSheets = "sheets"
	DriverMongo  = "mongo"
	DriverFile   = "file"
)

// Config holds all configuration for the application.
// The values are read by Viper from config.yaml or environment variables
// (nested keys use "_", e.g. SHEETS_SPREADSHEET_ID).
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Source   SourceConfig   `mapstructure:"source"`
	Sheets   SheetsConfig   `mapstructure:"sheets"`
	Database DatabaseConfig `mapstructure:"database"`
	File     FileConfig     `mapstructure:"file"`
	S3       S3Config       `mapstructure:"s3"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Export   ExportConfig   `mapstructure:"export"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

type SourceConfig struct {
	Driver string `mapstructure:"driver"` // sheets | mongo | file
}

type SheetsConfig struct {
	SpreadsheetID   string `mapstructure:"spreadsheet_id"`
	Worksheet       string `mapstructure:"worksheet"`
	CredentialsJSON string `mapstructure:"credentials_json"`
	CredentialsFile string `mapstructure:"credentials_file"`
}

// Credentials returns the inline service account key, else the key file contents.
func (c SheetsConfig) Credentials() ([]byte, error) {
	if strings.TrimSpace(c.CredentialsJSON) != "" {
		return []byte(c.CredentialsJSON), nil
	}
	if c.CredentialsFile == "" {
		return nil, nil
	}
	data, err := os.ReadFile(c.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read sheets credentials: %w", err)
	}
	return data, nil
}

type DatabaseConfig struct {
	URI        string        `mapstructure:"uri"`
	Name       string        `mapstructure:"name"`
	Collection string        `mapstructure:"collection"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type FileConfig struct {
	Path string `mapstructure:"path"`
}

type S3Config struct {
	Endpoint        string        `mapstructure:"endpoint"`
	Region          string        `mapstructure:"region"`
	AccessKeyID     string        `mapstructure:"access_key_id"`
	SecretAccessKey string        `mapstructure:"secret_access_key"`
	BucketName      string        `mapstructure:"bucket_name"`
	Prefix          string        `mapstructure:"prefix"`
	PresignExpiry   time.Duration `mapstructure:"presign_expiry"`
}

// Enabled reports whether exported plans can be published to object storage.
func (c S3Config) Enabled() bool {
	return c.BucketName != ""
}

// JWTConfig verifies bearer tokens issued elsewhere. An empty secret disables the check.
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

type ExportConfig struct {
	Title          string `mapstructure:"title"`
	MaxTokenLength int    `mapstructure:"max_token_length"`
	TruncateLength int    `mapstructure:"truncate_length"`
}

// LoadConfig reads configuration from path/config.yaml and the environment.
// A missing file is not an error.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	v.SetDefault("server.address", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("source.driver", DriverSheets)
	v.SetDefault("sheets.spreadsheet_id", "")
	v.SetDefault("sheets.worksheet", "repositorio_ejercicios")
	v.SetDefault("sheets.credentials_json", "")
	v.SetDefault("sheets.credentials_file", "credentials.json")
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "session_planner")
	v.SetDefault("database.collection", "exercises")
	v.SetDefault("database.timeout", "10s")
	v.SetDefault("file.path", "catalog.yaml")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.bucket_name", "")
	v.SetDefault("s3.prefix", "session-plans")
	v.SetDefault("s3.presign_expiry", "15m")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("export.title", "Training session plan")
	v.SetDefault("export.max_token_length", 40)
	v.SetDefault("export.truncate_length", 80)

	var config Config
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return config, fmt.Errorf("read config: %w", err)
		}
	}
	if err := v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("decode config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

// Validate checks settings that would otherwise fail later and less clearly.
func (c Config) Validate() error {
	switch c.Source.Driver {
	case DriverSheets:
		if c.Sheets.SpreadsheetID == "" {
			return fmt.Errorf("config: sheets.spreadsheet_id is required for the %q source", DriverSheets)
		}
	case DriverMongo:
		if c.Database.URI == "" || c.Database.Name == "" {
			return fmt.Errorf("config: database.uri and database.name are required for the %q source", DriverMongo)
		}
	case DriverFile:
		if c.File.Path == "" {
			return fmt.Errorf("config: file.path is required for the %q source", DriverFile)
		}
	default:
		return fmt.Errorf("config: unknown source.driver %q", c.Source.Driver)
	}
	if c.Export.MaxTokenLength < 0 || c.Export.TruncateLength < 0 {
		return fmt.Errorf("config: export lengths must not be negative")
	}
	return nil
}
