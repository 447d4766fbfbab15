package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config is loaded once at process start and never mutated afterwards; it is
// safe to share read-only across concurrent requests.
type Config struct {
	// Inventory database (read-only credentials)
	DBHost string `mapstructure:"db_host"`
	DBPort int    `mapstructure:"db_port"`
	DBName string `mapstructure:"db_name"`
	DBUser string `mapstructure:"db_user"`
	DBPass string `mapstructure:"db_pass"`

	// Archive storage
	RRDPath         string `mapstructure:"rrd_path"`
	RRDLocalEnabled bool   `mapstructure:"rrd_local_enabled"`
	RRDToolPath     string `mapstructure:"rrdtool_path"`

	// Remote archive host. Leaving rrd_ssh_host empty disables the remote
	// fallback path entirely; it is not a hard dependency.
	SSHHost string `mapstructure:"rrd_ssh_host"`
	SSHUser string `mapstructure:"rrd_ssh_user"`
	SSHPort int    `mapstructure:"rrd_ssh_port"`
	SSHKey  string `mapstructure:"rrd_ssh_key"`

	// HTTP API
	HTTPPort int    `mapstructure:"http_port"`
	GinMode  string `mapstructure:"gin_mode"`

	CommandTimeoutSec int    `mapstructure:"command_timeout_sec"`
	LogLevel          string `mapstructure:"log_level"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("/etc/observium-mcp/")
	viper.AddConfigPath("$HOME/.observium-mcp")
	viper.AddConfigPath(".")

	viper.SetDefault("db_host", "localhost")
	viper.SetDefault("db_port", 3306)
	viper.SetDefault("db_name", "observium")
	viper.SetDefault("db_user", "observium")
	viper.SetDefault("db_pass", "")
	viper.SetDefault("rrd_path", "/opt/observium/rrd")
	viper.SetDefault("rrd_local_enabled", true)
	viper.SetDefault("rrdtool_path", "rrdtool")
	viper.SetDefault("rrd_ssh_host", "")
	viper.SetDefault("rrd_ssh_user", "observium")
	viper.SetDefault("rrd_ssh_port", 22)
	viper.SetDefault("rrd_ssh_key", "")
	viper.SetDefault("http_port", 8080)
	viper.SetDefault("gin_mode", "release")
	viper.SetDefault("command_timeout_sec", 60)
	viper.SetDefault("log_level", "info")

	// OBSERVIUM_DB_HOST, OBSERVIUM_RRD_SSH_HOST, ...
	viper.SetEnvPrefix("OBSERVIUM")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// No config file; defaults and env vars apply.
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// DSN builds the MySQL connection string for the inventory database.
func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		c.DBUser, c.DBPass, c.DBHost, c.DBPort, c.DBName,
	)
}

// RemoteConfigured reports whether the SSH fallback path is available.
func (c *Config) RemoteConfigured() bool {
	return c.SSHHost != ""
}

// SSHAddr returns the remote archive host address.
func (c *Config) SSHAddr() string {
	return fmt.Sprintf("%s:%d", c.SSHHost, c.SSHPort)
}
