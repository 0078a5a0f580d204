package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Redirect   RedirectConfig   `mapstructure:"redirect"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	Capture    CaptureConfig    `mapstructure:"capture"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Kafka      KafkaConfig      `mapstructure:"kafka"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

type ServerConfig struct {
	RedirectPort int    `mapstructure:"redirect_port"`
	AdminPort    int    `mapstructure:"admin_port"`
	MetricsPort  int    `mapstructure:"metrics_port"`
	Host         string `mapstructure:"host"`
	SecretKey    string `mapstructure:"secret_key"`
	// TokenTTL bounds admin tokens issued by the CLI helper.
	TokenTTL time.Duration `mapstructure:"token_ttl"`
}

type RedirectConfig struct {
	HumanURL string `mapstructure:"human_url"`
	BotURL   string `mapstructure:"bot_url"`
}

type ClassifierConfig struct {
	Endpoint       string        `mapstructure:"endpoint"`
	Secret         string        `mapstructure:"secret"`
	Timeout        time.Duration `mapstructure:"timeout"`
	BreakerTimeout time.Duration `mapstructure:"breaker_timeout"`
	MaxFailures    int           `mapstructure:"max_failures"`
}

type CaptureConfig struct {
	Endpoint  string        `mapstructure:"endpoint"`
	Workers   int           `mapstructure:"workers"`
	QueueSize int           `mapstructure:"queue_size"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type CacheConfig struct {
	// Store selects the snapshot backend: "file", "redis" or "none".
	Store    string        `mapstructure:"store"`
	FilePath string        `mapstructure:"file_path"`
	RedisKey string        `mapstructure:"redis_key"`
	Debounce time.Duration `mapstructure:"debounce"`
	MaxWait  time.Duration `mapstructure:"max_wait"`
	// Sync broadcasts cache mutations to peer instances over redis pub/sub.
	Sync bool `mapstructure:"sync"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TLS      bool   `mapstructure:"tls"`
}

type DatabaseConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	DBName       string `mapstructure:"name"`
	SSLMode      string `mapstructure:"sslmode"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

type KafkaConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Host         string `mapstructure:"host"`
	Port         string `mapstructure:"port"`
	CaptureTopic string `mapstructure:"capture_topic"`
	VisitTopic   string `mapstructure:"visit_topic"`
}

type MetricsConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	EnableLatency bool `mapstructure:"enable_latency"`
	EnableProcess bool `mapstructure:"enable_process"`
}

var globalConfig Config

func Load(configPath string) error {
	if err := loadConfigFile(configPath, "config", &globalConfig); err != nil {
		return fmt.Errorf("⚠️ Warning: Could not load main config file: %v", err)
	}
	setDefaultValues(&globalConfig)
	return nil
}

func loadConfigFile(configPath, fileName string, out interface{}) error {
	viper.SetConfigName(fileName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configPath)
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("config file %s.yaml not found, using only environment variables", fileName)
		}
		return fmt.Errorf("error reading config file %s.yaml: %w", fileName, err)
	}

	if err := viper.Unmarshal(out); err != nil {
		return fmt.Errorf("failed to unmarshal %s config: %w", fileName, err)
	}

	return nil
}

func setDefaultValues(cfg *Config) {
	if cfg.Server.RedirectPort == 0 {
		cfg.Server.RedirectPort = 8080
	}
	if cfg.Server.AdminPort == 0 {
		cfg.Server.AdminPort = 8081
	}
	if cfg.Server.MetricsPort == 0 {
		cfg.Server.MetricsPort = 9090
	}
	if cfg.Server.TokenTTL == 0 {
		cfg.Server.TokenTTL = 24 * time.Hour
	}
	if cfg.Classifier.Timeout == 0 {
		cfg.Classifier.Timeout = 5 * time.Second
	}
	if cfg.Classifier.BreakerTimeout == 0 {
		cfg.Classifier.BreakerTimeout = 30 * time.Second
	}
	if cfg.Classifier.MaxFailures == 0 {
		cfg.Classifier.MaxFailures = 5
	}
	if cfg.Capture.Workers == 0 {
		cfg.Capture.Workers = 4
	}
	if cfg.Capture.QueueSize == 0 {
		cfg.Capture.QueueSize = 1000
	}
	if cfg.Capture.Timeout == 0 {
		cfg.Capture.Timeout = 5 * time.Second
	}
	if cfg.Cache.Store == "" {
		cfg.Cache.Store = "file"
	}
	if cfg.Cache.FilePath == "" {
		cfg.Cache.FilePath = "data/bot_cache.json"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
}

func GetConfig() *Config {
	return &globalConfig
}
