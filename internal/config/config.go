// Package config loads ganttline settings from defaults, an optional
// ganttline.yaml and GANTTLINE_* environment variables, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/alexanderramin/ganttline/internal/controller"
	"github.com/alexanderramin/ganttline/internal/domain"
)

const (
	EnvPrefix = "GANTTLINE"
	fileName  = "ganttline"
)

type Config struct {
	DB              string
	Theme           string
	DefaultZoom     domain.ZoomLevel
	ExpansionPolicy controller.ExpansionPolicy
	LogLevel        slog.Level

	Server ServerConfig
	API    APIConfig

	// File is the config file that was read, or "" when none was found.
	File string
}

type ServerConfig struct {
	Addr            string
	Mode            string
	RateLimitPerMin int
}

type APIConfig struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
}

// Load reads configFile, or searches "." and ~/.ganttline for
// ganttline.yaml when configFile is empty. A missing searched file is not
// an error; a missing explicit file is.
func Load(configFile string) (*Config, error) {
	return load(configFile, defaultSearchPaths())
}

func defaultSearchPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".ganttline"))
	}
	return paths
}

func load(configFile string, searchPaths []string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(fileName)
		v.SetConfigType("yaml")
		for _, p := range searchPaths {
			v.AddConfigPath(p)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := &Config{
		DB:    v.GetString("db"),
		Theme: v.GetString("theme"),
		File:  v.ConfigFileUsed(),
		Server: ServerConfig{
			Addr:            v.GetString("server_addr"),
			Mode:            v.GetString("server_mode"),
			RateLimitPerMin: v.GetInt("rate_limit_per_min"),
		},
		API: APIConfig{
			BaseURL:    strings.TrimRight(v.GetString("api_base_url"), "/"),
			Timeout:    v.GetDuration("api_timeout"),
			MaxRetries: v.GetInt("api_max_retries"),
		},
	}
	if cfg.DB == "" {
		path, err := defaultDBPath()
		if err != nil {
			return nil, err
		}
		cfg.DB = path
	}

	var err error
	if cfg.DefaultZoom, err = domain.ParseZoomLevel(v.GetString("default_zoom")); err != nil {
		return nil, fmt.Errorf("default_zoom: %w", err)
	}
	if cfg.ExpansionPolicy, err = controller.ParseExpansionPolicy(v.GetString("expansion_policy")); err != nil {
		return nil, fmt.Errorf("expansion_policy: %w", err)
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString("log_level"))); err != nil {
		return nil, fmt.Errorf("log_level: %w", err)
	}
	if cfg.Server.RateLimitPerMin < 0 {
		return nil, fmt.Errorf("rate_limit_per_min must not be negative, got %d", cfg.Server.RateLimitPerMin)
	}
	if cfg.API.Timeout <= 0 {
		return nil, fmt.Errorf("api_timeout must be positive, got %s", cfg.API.Timeout)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db", "")
	v.SetDefault("theme", "")
	v.SetDefault("default_zoom", string(domain.ZoomDay))
	v.SetDefault("expansion_policy", string(controller.ExpandAllOnLoad))
	v.SetDefault("log_level", "warn")
	v.SetDefault("server_addr", ":8080")
	v.SetDefault("server_mode", "release")
	v.SetDefault("rate_limit_per_min", 600)
	v.SetDefault("api_base_url", "")
	v.SetDefault("api_timeout", "10s")
	v.SetDefault("api_max_retries", 2)
}

// defaultDBPath is ~/.ganttline/ganttline.db.
func defaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".ganttline", "ganttline.db"), nil
}
