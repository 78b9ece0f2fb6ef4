package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gwconsole/internal/pkg/validator"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Gateway GatewayConfig `mapstructure:"gateway"`
	Session SessionConfig `mapstructure:"session"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	// AuthRateLimit caps portal login and register attempts per client per minute.
	AuthRateLimit int `mapstructure:"auth_rate_limit"`
}

type GatewayConfig struct {
	URL       string        `mapstructure:"url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

type SessionConfig struct {
	Path           string `mapstructure:"path"`
	Secret         string `mapstructure:"secret"`
	MaxConnections int    `mapstructure:"max_connections"`
}

type LoggingConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	FilePath string `mapstructure:"file_path"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.auth_rate_limit", 10)

	v.SetDefault("gateway.url", "http://localhost:8080")
	v.SetDefault("gateway.timeout", 30*time.Second)
	v.SetDefault("gateway.user_agent", "gwconsole/1.0")

	v.SetDefault("session.path", "gwconsole.db")
	v.SetDefault("session.secret", "")
	v.SetDefault("session.max_connections", 1)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.file_path", "")
}

// Load reads the YAML file at path (optional when empty or missing) and
// overlays environment variables such as GATEWAY_URL or SESSION_SECRET.
func Load(path string) (*Config, error) {
	// .env is a local development convenience; absence is fine.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
		}
	}

	// NEXT_PUBLIC_GATEWAY_URL is honoured for parity with the web console.
	if url := os.Getenv("NEXT_PUBLIC_GATEWAY_URL"); url != "" && os.Getenv("GATEWAY_URL") == "" {
		v.Set("gateway.url", url)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	config.Gateway.URL = strings.TrimRight(config.Gateway.URL, "/")
	if err := validator.HTTPURL(config.Gateway.URL); err != nil {
		return nil, fmt.Errorf("gateway.url: %w", err)
	}

	return &config, nil
}
