package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "RESUME"

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Log      LogConfig
	HTTP     HTTPConfig
	Render   RenderConfig
	Chrome   ChromeConfig
	Database DatabaseConfig
	Storage  StorageConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string `validate:"required"`
	Env  string `validate:"oneof=development staging production test"`
	Port string `validate:"required,numeric"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `validate:"oneof=debug info warn error"`
	Format string `validate:"oneof=json console"`
	Output string `validate:"required"` // stdout, stderr, or file path
}

// HTTPConfig holds fiber server limits
type HTTPConfig struct {
	BodyLimit    int `validate:"gt=0"` // bytes
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// RenderConfig selects the canvas back-end and the typeface
type RenderConfig struct {
	Backend    string `validate:"oneof=fpdf html vector"`
	FontFamily string
	FontDir    string
	Creator    string
}

// ChromeConfig is used by the html back-end
type ChromeConfig struct {
	ExecPath  string
	Timeout   time.Duration `validate:"gt=0"`
	NoSandbox bool
}

// DatabaseConfig holds the render job store settings. An empty URL disables
// job persistence.
type DatabaseConfig struct {
	URL      string
	MaxConns int32 `validate:"gte=0"`
	Migrate  bool
}

// StorageConfig selects where produced documents are archived
type StorageConfig struct {
	Driver       string `validate:"oneof=none fs s3"`
	Path         string `validate:"required_if=Driver fs"`
	Endpoint     string
	Region       string
	Bucket       string `validate:"required_if=Driver s3"`
	AccessKey    string `validate:"required_if=Driver s3"`
	SecretKey    string `validate:"required_if=Driver s3"`
	Prefix       string
	UseSSL       bool
	UsePathStyle bool
}

// Load reads configuration from .env, an optional config.toml in . or /app,
// and RESUME_* environment variables, in increasing priority.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom is Load with an explicit config file. An empty path searches the
// default locations.
func LoadFrom(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		v.AddConfigPath("/app")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("chrome.no_sandbox", true)
	v.SetDefault("database.migrate", true)

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			BodyLimit:    v.GetInt("http.body_limit"),
			ReadTimeout:  v.GetDuration("http.read_timeout"),
			WriteTimeout: v.GetDuration("http.write_timeout"),
		},
		Render: RenderConfig{
			Backend:    v.GetString("render.backend"),
			FontFamily: v.GetString("render.font_family"),
			FontDir:    v.GetString("render.font_dir"),
			Creator:    v.GetString("render.creator"),
		},
		Chrome: ChromeConfig{
			ExecPath:  v.GetString("chrome.exec_path"),
			Timeout:   v.GetDuration("chrome.timeout"),
			NoSandbox: v.GetBool("chrome.no_sandbox"),
		},
		Database: DatabaseConfig{
			URL:      v.GetString("database.url"),
			MaxConns: v.GetInt32("database.max_conns"),
			Migrate:  v.GetBool("database.migrate"),
		},
		Storage: StorageConfig{
			Driver:       v.GetString("storage.driver"),
			Path:         v.GetString("storage.path"),
			Endpoint:     v.GetString("storage.endpoint"),
			Region:       v.GetString("storage.region"),
			Bucket:       v.GetString("storage.bucket"),
			AccessKey:    v.GetString("storage.access_key"),
			SecretKey:    v.GetString("storage.secret_key"),
			Prefix:       v.GetString("storage.prefix"),
			UseSSL:       v.GetBool("storage.use_ssl"),
			UsePathStyle: v.GetBool("storage.use_path_style"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "resume-renderer"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		// PORT is what most container platforms inject
		cfg.App.Port = os.Getenv("PORT")
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8000"
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
		if cfg.App.Env == "development" {
			cfg.Log.Format = "console"
		}
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}

	if cfg.HTTP.BodyLimit == 0 {
		cfg.HTTP.BodyLimit = 1 << 20
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 90 * time.Second
	}

	if cfg.Render.Backend == "" {
		cfg.Render.Backend = "fpdf"
	}
	if cfg.Render.FontFamily == "" && cfg.Render.FontDir != "" {
		cfg.Render.FontFamily = "Montserrat"
	}
	if cfg.Render.Creator == "" {
		cfg.Render.Creator = cfg.App.Name
	}

	if cfg.Chrome.ExecPath == "" {
		cfg.Chrome.ExecPath = os.Getenv("CHROME_PATH")
	}
	if cfg.Chrome.Timeout == 0 {
		cfg.Chrome.Timeout = 60 * time.Second
	}

	if cfg.Database.URL == "" {
		cfg.Database.URL = os.Getenv("JOBS_DATABASE_URL")
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = 10
	}

	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "none"
	}
	if cfg.Storage.Driver == "fs" && cfg.Storage.Path == "" {
		cfg.Storage.Path = "resume-data/generated"
	}
}

func (c *Config) validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}

	if c.App.Env == "production" && c.Storage.Driver == "s3" && !c.Storage.UseSSL && c.Storage.Endpoint != "" {
		return fmt.Errorf("storage.use_ssl must be true in production for custom endpoints")
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.App.Port
}
