// Package config загружает конфигурацию клиента и сервера:
// значения по умолчанию, .env, YAML файл, переменные FITSYNC_* и флаги cobra.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix префикс переменных окружения
const EnvPrefix = "FITSYNC"

const defaultDataDir = ".fitsync"

// Logging общие настройки логирования
type Logging struct {
	Level  string `mapstructure:"log_level"`
	Format string `mapstructure:"log_format"` // Format text или json
	File   string `mapstructure:"log_file"`   // File путь к файлу с ротацией, пусто = stderr
}

// Client конфигурация клиента синхронизации
type Client struct {
	Logging `mapstructure:",squash"`

	ServerURL string `mapstructure:"server_url"`
	DataDir   string `mapstructure:"data_dir"`
	InboxDir  string `mapstructure:"inbox_dir"`

	SyncInterval time.Duration `mapstructure:"sync_interval"`
	HTTPTimeout  time.Duration `mapstructure:"http_timeout"`
	RetryBase    time.Duration `mapstructure:"retry_base"`
	RetryMax     time.Duration `mapstructure:"retry_max"`
	MaxRetries   uint64        `mapstructure:"max_retries"`

	PushBatchSize int `mapstructure:"push_batch_size"`
	PullPageSize  int `mapstructure:"pull_page_size"`
	MaxPullPages  int `mapstructure:"max_pull_pages"`

	FailureBaseDelay   time.Duration `mapstructure:"failure_base_delay"`
	FailureMaxDelay    time.Duration `mapstructure:"failure_max_delay"`
	FailureMaxAttempts int           `mapstructure:"failure_max_attempts"`
}

// RecordsPath путь к sqlite файлу с записями
func (c *Client) RecordsPath() string {
	return filepath.Join(c.DataDir, "records.db")
}

// MetaPath путь к bbolt файлу с курсорами, ошибками и сессией
func (c *Client) MetaPath() string {
	return filepath.Join(c.DataDir, "meta.db")
}

// Server конфигурация эталонного сервера
type Server struct {
	Logging `mapstructure:",squash"`

	Addr      string `mapstructure:"addr"`
	Driver    string `mapstructure:"db_driver"` // Driver sqlite или postgres
	DSN       string `mapstructure:"db_dsn"`
	JWTSecret string `mapstructure:"jwt_secret"`

	RateLimit       float64       `mapstructure:"rate_limit"` // RateLimit запросов в секунду на клиента
	RateBurst       int           `mapstructure:"rate_burst"`
	MaxBatch        int           `mapstructure:"max_batch"`
	MaxPageSize     int           `mapstructure:"max_page_size"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// NewClientViper возвращает viper с умолчаниями клиента
func NewClientViper() *viper.Viper {
	v := viper.New()

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	dataDir := filepath.Join(home, defaultDataDir)

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("log_file", "")
	v.SetDefault("server_url", "http://localhost:8080")
	v.SetDefault("data_dir", dataDir)
	v.SetDefault("inbox_dir", "")
	v.SetDefault("sync_interval", 30*time.Second)
	v.SetDefault("http_timeout", 30*time.Second)
	v.SetDefault("retry_base", 500*time.Millisecond)
	v.SetDefault("retry_max", 10*time.Second)
	v.SetDefault("max_retries", 3)
	v.SetDefault("push_batch_size", 100)
	v.SetDefault("pull_page_size", 200)
	v.SetDefault("max_pull_pages", 50)
	v.SetDefault("failure_base_delay", time.Minute)
	v.SetDefault("failure_max_delay", 6*time.Hour)
	v.SetDefault("failure_max_attempts", 5)

	return v
}

// NewServerViper возвращает viper с умолчаниями сервера
func NewServerViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("log_file", "")
	v.SetDefault("addr", ":8080")
	v.SetDefault("db_driver", "sqlite")
	v.SetDefault("db_dsn", "fitsync-server.db")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("rate_limit", 20.0)
	v.SetDefault("rate_burst", 40)
	v.SetDefault("max_batch", 500)
	v.SetDefault("max_page_size", 1000)
	v.SetDefault("shutdown_timeout", 10*time.Second)

	return v
}

// LoadClient читает конфигурацию клиента. configFile пустой = без файла.
func LoadClient(v *viper.Viper, configFile string) (*Client, error) {
	var cfg Client
	if err := load(v, configFile, &cfg); err != nil {
		return nil, err
	}
	if cfg.InboxDir == "" {
		cfg.InboxDir = filepath.Join(cfg.DataDir, "inbox")
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid client config: %w", err)
	}
	return &cfg, nil
}

// LoadServer читает конфигурацию сервера
func LoadServer(v *viper.Viper, configFile string) (*Server, error) {
	var cfg Server
	if err := load(v, configFile, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid server config: %w", err)
	}
	return &cfg, nil
}

func load(v *viper.Viper, configFile string, out any) error {
	loadDotEnv(".env")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	if err := v.Unmarshal(out); err != nil {
		return fmt.Errorf("failed to decode config: %w", err)
	}
	return nil
}

// loadDotEnv подхватывает .env, если он есть. Уже заданные переменные не перезаписываются.
func loadDotEnv(paths ...string) {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		// Ошибку разбора не считаем фатальной: переменные окружения важнее
		_ = godotenv.Load(p)
	}
}

func (l Logging) validate() error {
	switch strings.ToLower(l.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log_format must be text or json, got %q", l.Format)
	}
	return nil
}

func (c *Client) validate() error {
	var errs []error
	if err := c.Logging.validate(); err != nil {
		errs = append(errs, err)
	}
	if c.ServerURL == "" {
		errs = append(errs, errors.New("server_url cannot be empty"))
	}
	if c.DataDir == "" {
		errs = append(errs, errors.New("data_dir cannot be empty"))
	}
	if c.SyncInterval < time.Second {
		errs = append(errs, errors.New("sync_interval must be at least 1s"))
	}
	if c.PushBatchSize < 1 || c.PullPageSize < 1 || c.MaxPullPages < 1 {
		errs = append(errs, errors.New("batch and page sizes must be positive"))
	}
	if c.FailureMaxAttempts < 1 {
		errs = append(errs, errors.New("failure_max_attempts must be positive"))
	}
	return errors.Join(errs...)
}

func (c *Server) validate() error {
	var errs []error
	if err := c.Logging.validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Addr == "" {
		errs = append(errs, errors.New("addr cannot be empty"))
	}
	switch c.Driver {
	case "sqlite", "postgres":
	default:
		errs = append(errs, fmt.Errorf("db_driver must be sqlite or postgres, got %q", c.Driver))
	}
	if c.DSN == "" {
		errs = append(errs, errors.New("db_dsn cannot be empty"))
	}
	if len(c.JWTSecret) < 16 {
		errs = append(errs, errors.New("jwt_secret must be at least 16 characters"))
	}
	if c.MaxBatch < 1 || c.MaxPageSize < 1 {
		errs = append(errs, errors.New("max_batch and max_page_size must be positive"))
	}
	return errors.Join(errs...)
}
