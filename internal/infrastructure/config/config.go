package config

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/spf13/viper"
)

// AppConfig holds the configuration shared by the API and the worker.
// Tags used:
//   - mapstructure: the environment key
//   - default: value used when the key is missing
//   - required: "true" fails Load when the value is empty
type AppConfig struct {
	Environment string `mapstructure:"APP_ENV" default:"development"`
	LogLevel    string `mapstructure:"LOG_LEVEL" default:"info"`
	ServerPort  int    `mapstructure:"SERVER_PORT" default:"8080"`
	// CORSOrigins is a comma separated allow-list; "*" allows any origin.
	CORSOrigins []string `mapstructure:"CORS_ORIGINS" default:"*"`

	// DefaultValidityDays is applied on send when a quotation has no valid_until.
	DefaultValidityDays int `mapstructure:"DEFAULT_VALIDITY_DAYS" default:"30"`

	AWS       AWSConfig       `mapstructure:",squash"`
	Tables    TablesConfig    `mapstructure:",squash"`
	Redis     RedisConfig     `mapstructure:",squash"`
	Auth      AuthConfig      `mapstructure:",squash"`
	Documents DocumentsConfig `mapstructure:",squash"`
	Scheduler SchedulerConfig `mapstructure:",squash"`
}

type AWSConfig struct {
	Region          string `mapstructure:"AWS_REGION" default:"us-east-1"`
	AccessKeyID     string `mapstructure:"AWS_ACCESS_KEY_ID" default:"local"`
	SecretAccessKey string `mapstructure:"AWS_SECRET_ACCESS_KEY" default:"local"`
	// DynamoDBEndpoint and S3Endpoint point the SDK at local emulators when set.
	DynamoDBEndpoint string `mapstructure:"DYNAMODB_ENDPOINT"`
	S3Endpoint       string `mapstructure:"S3_ENDPOINT"`
}

type TablesConfig struct {
	Quotations string `mapstructure:"QUOTATIONS_TABLE" default:"quotations"`
	Warehouses string `mapstructure:"WAREHOUSES_TABLE" default:"warehouses"`
	Users      string `mapstructure:"USERS_TABLE" default:"users"`
}

type RedisConfig struct {
	URL string `mapstructure:"REDIS_URL" default:"redis://localhost:6379/0"`
}

type AuthConfig struct {
	JWTSecret  string        `mapstructure:"JWT_SECRET" required:"true"`
	SessionTTL time.Duration `mapstructure:"SESSION_TTL" default:"24h"`
	// The bootstrap admin is created on startup when both values are set and
	// the email is not registered yet.
	BootstrapAdminEmail    string `mapstructure:"BOOTSTRAP_ADMIN_EMAIL"`
	BootstrapAdminPassword string `mapstructure:"BOOTSTRAP_ADMIN_PASSWORD"`
}

// DocumentsConfig enables PDF generation on send when GotenbergURL and Bucket are set.
type DocumentsConfig struct {
	GotenbergURL  string `mapstructure:"GOTENBERG_URL"`
	Bucket        string `mapstructure:"DOCUMENTS_BUCKET"`
	PublicBaseURL string `mapstructure:"DOCUMENTS_PUBLIC_BASE_URL"`
}

func (d DocumentsConfig) Enabled() bool {
	return d.GotenbergURL != "" && d.Bucket != ""
}

type SchedulerConfig struct {
	ExpirySweepCron     string `mapstructure:"EXPIRY_SWEEP_CRON" default:"0 0 * * *"`
	ExpirySweepTimezone string `mapstructure:"EXPIRY_SWEEP_TIMEZONE" default:"UTC"`
	// MetricsPort serves the worker's /metrics; 0 disables it.
	MetricsPort int `mapstructure:"WORKER_METRICS_PORT" default:"9091"`
}

// Load reads a .env file from path, when present, and the process environment.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	if _, err := time.LoadLocation(config.Scheduler.ExpirySweepTimezone); err != nil {
		return nil, fmt.Errorf("invalid EXPIRY_SWEEP_TIMEZONE: %w", err)
	}
	if config.DefaultValidityDays <= 0 {
		return nil, fmt.Errorf("DEFAULT_VALIDITY_DAYS must be positive, got %d", config.DefaultValidityDays)
	}

	return &config, nil
}

// processTags binds every tagged key to the environment and registers its default.
func processTags(v *viper.Viper, config any) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		if key == "" {
			continue
		}
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("bind %s: %w", key, err)
		}
		if def := field.Tag.Get("default"); def != "" {
			v.SetDefault(key, def)
		}
	}
	return nil
}

func validateRequired(config any) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		if field.Tag.Get("required") == "true" && val.Field(i).IsZero() {
			return fmt.Errorf("missing required configuration: %s", field.Tag.Get("mapstructure"))
		}
	}
	return nil
}
