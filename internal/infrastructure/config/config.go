package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment variable overrides
const EnvPrefix = "CLASSIFIER"

// Model backends
const (
	BackendHuggingFace = "huggingface"
	BackendRemote      = "remote"
	BackendKeyword     = "keyword"
)

// DefaultModelName is the pretrained expense category classifier
const DefaultModelName = "mrm8488/bert-mini-finetuned-expense-category"

// Config holds all configuration for the service
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Model    ModelConfig    `mapstructure:"model"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Security SecurityConfig `mapstructure:"security"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port" validate:"min=1,max=65535"`
	Mode            string        `mapstructure:"mode" validate:"oneof=debug release test"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string        `mapstructure:"level"`
	Format string        `mapstructure:"format" validate:"oneof=json console"`
	File   LogFileConfig `mapstructure:"file"`
}

// LogFileConfig configures the optional rotating log file. An empty Path disables it.
type LogFileConfig struct {
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" validate:"min=0"`
	MaxBackups int    `mapstructure:"max_backups" validate:"min=0"`
	MaxAgeDays int    `mapstructure:"max_age_days" validate:"min=0"`
	Compress   bool   `mapstructure:"compress"`
}

// ModelConfig selects and configures the classification model
type ModelConfig struct {
	Name         string        `mapstructure:"name" validate:"required"`
	Backend      string        `mapstructure:"backend" validate:"oneof=huggingface remote keyword"`
	HubURL       string        `mapstructure:"hub_url" validate:"omitempty,url"`
	InferenceURL string        `mapstructure:"inference_url" validate:"omitempty,url"`
	Token        string        `mapstructure:"token"`
	Endpoint     string        `mapstructure:"endpoint" validate:"omitempty,url"`
	LexiconPath  string        `mapstructure:"lexicon_path"`
	WarmupText   string        `mapstructure:"warmup_text"`
	Timeout      time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

// CORSConfig holds cross-origin configuration
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// SecurityConfig holds security header configuration
type SecurityConfig struct {
	SSLRedirect bool   `mapstructure:"ssl_redirect"`
	SSLHost     string `mapstructure:"ssl_host"`
}

// Load reads configuration from defaults, an optional config file, an optional
// .env file and CLASSIFIER_* environment variables, in increasing precedence.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if path := os.Getenv(EnvPrefix + "_CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Server
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)

	// Log
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file.path", "")
	v.SetDefault("log.file.max_size_mb", 100)
	v.SetDefault("log.file.max_backups", 3)
	v.SetDefault("log.file.max_age_days", 28)
	v.SetDefault("log.file.compress", false)

	// Model
	v.SetDefault("model.name", DefaultModelName)
	v.SetDefault("model.backend", BackendHuggingFace)
	v.SetDefault("model.hub_url", "https://huggingface.co")
	v.SetDefault("model.inference_url", "https://api-inference.huggingface.co")
	v.SetDefault("model.token", "")
	v.SetDefault("model.endpoint", "http://localhost:8001")
	v.SetDefault("model.lexicon_path", "")
	v.SetDefault("model.warmup_text", "Grab to airport")
	v.SetDefault("model.timeout", 30*time.Second)

	// CORS
	v.SetDefault("cors.allow_origins", []string{"*"})

	// Security
	v.SetDefault("security.ssl_redirect", false)
	v.SetDefault("security.ssl_host", "")
}
