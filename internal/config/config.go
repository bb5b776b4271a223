package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// FileName is the host config file looked up next to the extension.
const FileName = "skip_rs_config.json"

// HostConfig holds settings for the host loop.
type HostConfig struct {
	Console        bool
	PollRate       int
	ForegroundOnly bool
	LogLevel       string
	LogsDir        string
}

// Keybinds lists the virtual key names that must all be held for each action.
type Keybinds struct {
	SaveWaypoint       []string `json:"saveWaypoint" mapstructure:"saveWaypoint"`
	TeleportToWaypoint []string `json:"teleportToWaypoint" mapstructure:"teleportToWaypoint"`
	ReloadConfig       []string `json:"reloadConfig" mapstructure:"reloadConfig"`
}

// JSONConfig holds JSON waypoint file settings
type JSONConfig struct {
	File string `json:"file" mapstructure:"file"`
}

// SQLiteConfig holds SQLite waypoint database settings
type SQLiteConfig struct {
	File    string `json:"file" mapstructure:"file"`
	History int    `json:"history" mapstructure:"history"`
}

// StorageConfig selects the waypoint backend.
type StorageConfig struct {
	Type   string       `json:"type" mapstructure:"type"`
	JSON   JSONConfig   `json:"json" mapstructure:"json"`
	SQLite SQLiteConfig `json:"sqlite" mapstructure:"sqlite"`
}

// OTelConfig holds OpenTelemetry settings
type OTelConfig struct {
	Enabled         bool
	ServiceName     string
	BatchTimeout    time.Duration
	MetricsInterval time.Duration
	Endpoint        string
	Insecure        bool
}

// GraylogConfig holds GELF sink settings
type GraylogConfig struct {
	Enabled bool
	Address string
}

// StatusConfig controls the periodic status file.
type StatusConfig struct {
	Enabled  bool
	File     string
	Interval time.Duration
}

func setDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./skiplogs")
	viper.SetDefault("console", false)
	viper.SetDefault("pollRate", 60)
	viper.SetDefault("foregroundOnly", true)

	viper.SetDefault("keybinds.saveWaypoint", []string{"VK_F9"})
	viper.SetDefault("keybinds.teleportToWaypoint", []string{"VK_F10"})
	viper.SetDefault("keybinds.reloadConfig", []string{"VK_CONTROL", "VK_SHIFT", "VK_R"})

	viper.SetDefault("storage.type", "json")
	viper.SetDefault("storage.json.file", "skip_waypoints.json")
	viper.SetDefault("storage.sqlite.file", "skip_waypoints.db")
	viper.SetDefault("storage.sqlite.history", 50)

	viper.SetDefault("status.enabled", false)
	viper.SetDefault("status.file", "skip_status.json")
	viper.SetDefault("status.interval", "1s")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "skip-runback")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.metricsInterval", "30s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)
}

// Load reads the config file in configDir and sets default values.
// A missing file is created from the defaults first. On a read error the
// defaults stay in effect and the error is returned for the caller to report.
func Load(configDir string) error {
	setDefaults()

	path := filepath.Join(configDir, FileName)
	viper.SetConfigFile(path)
	viper.SetConfigType("json")

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := viper.SafeWriteConfigAs(path); err != nil {
			return fmt.Errorf("error writing default config file: %w", err)
		}
	}

	return Reload()
}

// Reload re-reads the config file set up by Load.
func Reload() error {
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// Path returns the config file in use.
func Path() string {
	return viper.ConfigFileUsed()
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetHostConfig returns the host loop settings.
func GetHostConfig() HostConfig {
	rate := viper.GetInt("pollRate")
	if rate <= 0 {
		rate = 60
	}
	return HostConfig{
		Console:        viper.GetBool("console"),
		PollRate:       rate,
		ForegroundOnly: viper.GetBool("foregroundOnly"),
		LogLevel:       viper.GetString("logLevel"),
		LogsDir:        viper.GetString("logsDir"),
	}
}

// GetKeybinds returns the configured key combinations.
func GetKeybinds() Keybinds {
	return Keybinds{
		SaveWaypoint:       viper.GetStringSlice("keybinds.saveWaypoint"),
		TeleportToWaypoint: viper.GetStringSlice("keybinds.teleportToWaypoint"),
		ReloadConfig:       viper.GetStringSlice("keybinds.reloadConfig"),
	}
}

// GetStorageConfig returns the waypoint storage settings.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type: viper.GetString("storage.type"),
		JSON: JSONConfig{
			File: viper.GetString("storage.json.file"),
		},
		SQLite: SQLiteConfig{
			File:    viper.GetString("storage.sqlite.file"),
			History: viper.GetInt("storage.sqlite.history"),
		},
	}
}

// GetOTelConfig returns the OpenTelemetry settings.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:         viper.GetBool("otel.enabled"),
		ServiceName:     viper.GetString("otel.serviceName"),
		BatchTimeout:    viper.GetDuration("otel.batchTimeout"),
		MetricsInterval: viper.GetDuration("otel.metricsInterval"),
		Endpoint:        viper.GetString("otel.endpoint"),
		Insecure:        viper.GetBool("otel.insecure"),
	}
}

// GetGraylogConfig returns the GELF sink settings.
func GetGraylogConfig() GraylogConfig {
	return GraylogConfig{
		Enabled: viper.GetBool("graylog.enabled"),
		Address: viper.GetString("graylog.address"),
	}
}

// GetStatusConfig returns the status file settings.
func GetStatusConfig() StatusConfig {
	return StatusConfig{
		Enabled:  viper.GetBool("status.enabled"),
		File:     viper.GetString("status.file"),
		Interval: viper.GetDuration("status.interval"),
	}
}
