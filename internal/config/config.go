package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/justinabrahms/zombiechess/internal/chess"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Development DevelopmentConfig `mapstructure:"development"`
	Game        GameConfig        `mapstructure:"game"`
	Auth        AuthConfig        `mapstructure:"auth"`
	WebSocket   WebSocketConfig   `mapstructure:"websocket"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

func (s ServerConfig) Addr() string { return fmt.Sprintf("%s:%d", s.Host, s.Port) }

type DevelopmentConfig struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

type GameConfig struct {
	DefaultPreset string `mapstructure:"default_preset"`
	CapturePolicy string `mapstructure:"capture_policy"`
	// Seed fixes the convert policy's random source; 0 seeds from the clock.
	Seed       int64         `mapstructure:"seed"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`
}

type AuthConfig struct {
	KeyFile       string        `mapstructure:"key_file"`
	TokenTTL      time.Duration `mapstructure:"token_ttl"`
	RequireTokens bool          `mapstructure:"require_tokens"`
}

type WebSocketConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("development.debug", false)
	v.SetDefault("development.log_level", "info")
	v.SetDefault("game.default_preset", string(chess.PresetStandard))
	v.SetDefault("game.capture_policy", string(chess.PolicyRemove))
	v.SetDefault("game.seed", 0)
	v.SetDefault("game.session_ttl", "24h")
	v.SetDefault("auth.key_file", "")
	v.SetDefault("auth.token_ttl", "24h")
	v.SetDefault("auth.require_tokens", true)
	v.SetDefault("websocket.enabled", true)
}

// Load reads config.yaml from the working directory (or ./config, or the
// given paths) and overlays ZOMBIECHESS_* environment variables.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Enable environment variables
	v.SetEnvPrefix("ZOMBIECHESS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, defaults and environment only
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Defaults returns the configuration used when nothing is set.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
		Development: DevelopmentConfig{
			Debug:    false,
			LogLevel: "info",
		},
		Game: GameConfig{
			DefaultPreset: string(chess.PresetStandard),
			CapturePolicy: string(chess.PolicyRemove),
			SessionTTL:    24 * time.Hour,
		},
		Auth: AuthConfig{
			TokenTTL:      24 * time.Hour,
			RequireTokens: true,
		},
		WebSocket: WebSocketConfig{
			Enabled: true,
		},
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var result *multierror.Error
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		result = multierror.Append(result, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if _, err := zerolog.ParseLevel(c.Development.LogLevel); err != nil {
		result = multierror.Append(result, fmt.Errorf("development.log_level: %w", err))
	}
	if _, err := chess.ParsePreset(c.Game.DefaultPreset); err != nil {
		result = multierror.Append(result, fmt.Errorf("game.default_preset: %w", err))
	}
	if _, err := chess.ParseCapturePolicy(c.Game.CapturePolicy); err != nil {
		result = multierror.Append(result, fmt.Errorf("game.capture_policy: %w", err))
	}
	if c.Game.SessionTTL <= 0 {
		result = multierror.Append(result, fmt.Errorf("game.session_ttl must be positive"))
	}
	if c.Auth.TokenTTL <= 0 {
		result = multierror.Append(result, fmt.Errorf("auth.token_ttl must be positive"))
	}
	return result.ErrorOrNil()
}

// LogLevel is the parsed development.log_level, info if it does not parse.
func (c *Config) LogLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(c.Development.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}
