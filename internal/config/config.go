// Package config loads photomark's runtime configuration from defaults, an
// optional YAML file, a .env file and PHOTOMARK_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. PHOTOMARK_PEXELS_API_KEY.
const EnvPrefix = "PHOTOMARK"

// ErrMissingAPIKey is returned by RequireAPIKey when no Pexels key is set.
var ErrMissingAPIKey = errors.New("config: pexels.api_key is required (set PHOTOMARK_PEXELS_API_KEY or PEXELS_API_KEY)")

// Config holds application configuration.
type Config struct {
	Pexels PexelsConfig `mapstructure:"pexels"`
	Search SearchConfig `mapstructure:"search"`
	Editor EditorConfig `mapstructure:"editor"`
	Export ExportConfig `mapstructure:"export"`
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
}

// PexelsConfig holds photo provider settings.
type PexelsConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url" validate:"required,url"`
	PerPage int           `mapstructure:"per_page" validate:"min=1,max=40"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

// SearchConfig holds catalog search settings.
type SearchConfig struct {
	Debounce time.Duration `mapstructure:"debounce" validate:"gt=0"`
}

// EditorConfig holds annotation session settings.
type EditorConfig struct {
	Backend  string `mapstructure:"backend"`
	FontPath string `mapstructure:"font_path"`
	Shaper   string `mapstructure:"shaper" validate:"oneof=builtin gotext"`
}

// ExportConfig holds export delivery settings.
type ExportConfig struct {
	Dir         string `mapstructure:"dir"`
	S3Bucket    string `mapstructure:"s3_bucket"`
	S3Prefix    string `mapstructure:"s3_prefix"`
	JPEGQuality int    `mapstructure:"jpeg_quality" validate:"min=1,max=100"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr           string   `mapstructure:"addr" validate:"required"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("pexels.api_key", "")
	v.SetDefault("pexels.base_url", "https://api.pexels.com/v1")
	v.SetDefault("pexels.per_page", 40)
	v.SetDefault("pexels.timeout", "15s")
	v.SetDefault("search.debounce", "500ms")
	v.SetDefault("editor.backend", "")
	v.SetDefault("editor.font_path", "")
	v.SetDefault("editor.shaper", "builtin")
	v.SetDefault("export.dir", ".")
	v.SetDefault("export.s3_bucket", "")
	v.SetDefault("export.s3_prefix", "")
	v.SetDefault("export.jpeg_quality", 90)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads configuration. path names a YAML file; when empty,
// PHOTOMARK_CONFIG is consulted and then ./photomark.yaml, whose absence is
// not an error. A .env file in the working directory is loaded first and
// never overrides variables that are already set.
func Load(path string) (Config, error) {
	// .env is optional.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}
	explicit := path != ""
	if explicit {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("photomark")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if err := v.BindEnv("pexels.api_key", EnvPrefix+"_PEXELS_API_KEY", "PEXELS_API_KEY"); err != nil {
		return Config{}, fmt.Errorf("config: bind env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

var validate = validator.New()

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// RequireAPIKey reports ErrMissingAPIKey if no Pexels key is configured.
func (c Config) RequireAPIKey() error {
	if strings.TrimSpace(c.Pexels.APIKey) == "" {
		return ErrMissingAPIKey
	}
	return nil
}

func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, formatFieldError(e))
	}
	return fmt.Errorf("config: %s", strings.Join(msgs, "; "))
}

func formatFieldError(e validator.FieldError) string {
	field := strings.ToLower(e.Namespace())
	field = strings.TrimPrefix(field, "config.")
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// Logger builds a slog.Logger writing to w at the configured level and
// format.
func (l LogConfig) Logger(w io.Writer) *slog.Logger {
	var level slog.Level
	switch l.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
