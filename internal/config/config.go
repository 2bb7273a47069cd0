package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Env        string   `mapstructure:"app_env" validate:"oneof=development staging production"`
	LogLevel   string   `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	HTTPAddr   string   `mapstructure:"http_addr" validate:"required"`
	DBType     string   `mapstructure:"storage_backend" validate:"oneof=file sqlite postgres s3 memory"`
	DBDSN      string   `mapstructure:"postgres_dsn"`
	FileSleep  string   `mapstructure:"sleep_file"`
	SQLitePath string   `mapstructure:"sqlite_path"`
	S3         S3Config `mapstructure:",squash"`
}

type S3Config struct {
	Bucket          string `mapstructure:"s3_bucket"`
	Region          string `mapstructure:"s3_region"`
	Endpoint        string `mapstructure:"s3_endpoint"`
	AccessKeyID     string `mapstructure:"s3_access_key_id"`
	SecretAccessKey string `mapstructure:"s3_secret_access_key"`
	PathStyle       bool   `mapstructure:"s3_path_style"`
	Prefix          string `mapstructure:"s3_prefix"`
}

// ConfigName is the base name of the optional config file (sleeptracker.yaml, .json, .toml).
const ConfigName = "sleeptracker"

var defaults = map[string]interface{}{
	"app_env":              "development",
	"log_level":            "info",
	"http_addr":            ":8088",
	"storage_backend":      "file",
	"postgres_dsn":         "",
	"sleep_file":           "data/sleep-storage.json",
	"sqlite_path":          "data/sleeptracker.db",
	"s3_bucket":            "",
	"s3_region":            "us-east-1",
	"s3_endpoint":          "",
	"s3_access_key_id":     "",
	"s3_secret_access_key": "",
	"s3_path_style":        false,
	"s3_prefix":            "",
}

var validate = validator.New()

// Load reads configuration from defaults, an optional .env file, an optional
// config file and the environment, in increasing order of precedence.
// When configFile is empty, sleeptracker.* is looked up in the working directory.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	if err := mergeDotEnv(v, ".env"); err != nil {
		return nil, err
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(ConfigName)
		v.AddConfigPath(".")
	}
	if err := v.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read %s: %w", v.ConfigFileUsed(), err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: invalid: %w", err)
	}
	return &cfg, nil
}

// mergeDotEnv folds KEY=value pairs from a .env file into v when the file exists.
func mergeDotEnv(v *viper.Viper, path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	env := viper.New()
	env.SetConfigFile(path)
	env.SetConfigType("env")
	if err := env.ReadInConfig(); err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	return v.MergeConfigMap(env.AllSettings())
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	switch c.DBType {
	case "postgres":
		if c.DBDSN == "" {
			return errors.New("POSTGRES_DSN is required when STORAGE_BACKEND=postgres")
		}
	case "file":
		if c.FileSleep == "" {
			return errors.New("file storage requires SLEEP_FILE to be set")
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return errors.New("sqlite storage requires SQLITE_PATH to be set")
		}
	case "s3":
		if c.S3.Bucket == "" {
			return errors.New("S3_BUCKET is required when STORAGE_BACKEND=s3")
		}
	}
	return nil
}
