package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(body), 0644))
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	writeConfig(t, dir, `{
		"logLevel": "debug",
		"console": true,
		"pollRate": 30,
		"keybinds": { "saveWaypoint": ["VK_F5"], "teleportToWaypoint": ["VK_CONTROL", "VK_F6"] }
	}`)

	require.NoError(t, Load(dir))

	assert.Equal(t, "debug", viper.GetString("logLevel"))
	assert.Equal(t, filepath.Join(dir, FileName), Path())

	host := GetHostConfig()
	assert.True(t, host.Console)
	assert.Equal(t, 30, host.PollRate)
	assert.True(t, host.ForegroundOnly)

	kb := GetKeybinds()
	assert.Equal(t, []string{"VK_F5"}, kb.SaveWaypoint)
	assert.Equal(t, []string{"VK_CONTROL", "VK_F6"}, kb.TeleportToWaypoint)
	assert.Equal(t, []string{"VK_CONTROL", "VK_SHIFT", "VK_R"}, kb.ReloadConfig)
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	writeConfig(t, dir, `{}`)
	require.NoError(t, Load(dir))

	assert.Equal(t, "info", viper.GetString("logLevel"))
	assert.Equal(t, "./skiplogs", viper.GetString("logsDir"))
	assert.Equal(t, false, viper.GetBool("console"))
	assert.Equal(t, 60, viper.GetInt("pollRate"))
	assert.Equal(t, true, viper.GetBool("foregroundOnly"))
	assert.Equal(t, "json", viper.GetString("storage.type"))
	assert.Equal(t, "skip_waypoints.json", viper.GetString("storage.json.file"))
	assert.Equal(t, "skip_waypoints.db", viper.GetString("storage.sqlite.file"))
	assert.Equal(t, 50, viper.GetInt("storage.sqlite.history"))
	assert.Equal(t, false, viper.GetBool("graylog.enabled"))
	assert.Equal(t, "localhost:12201", viper.GetString("graylog.address"))
	assert.Equal(t, false, viper.GetBool("otel.enabled"))
	assert.Equal(t, "skip-runback", viper.GetString("otel.serviceName"))
	assert.Equal(t, "5s", viper.GetString("otel.batchTimeout"))
	assert.Equal(t, "", viper.GetString("otel.endpoint"))
	assert.Equal(t, true, viper.GetBool("otel.insecure"))
}

func TestLoad_MissingFileWritesDefaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, Load(dir))

	_, err := os.Stat(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.Equal(t, []string{"VK_F10"}, GetKeybinds().TeleportToWaypoint)

	// The written file reads back to the same values.
	viper.Reset()
	require.NoError(t, Load(dir))
	assert.Equal(t, []string{"VK_CONTROL", "VK_SHIFT", "VK_R"}, GetKeybinds().ReloadConfig)
	assert.Equal(t, 60, GetHostConfig().PollRate)
}

func TestLoad_InvalidFileKeepsDefaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	writeConfig(t, dir, `{ not json`)

	err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
	assert.Equal(t, "info", GetHostConfig().LogLevel)
	assert.Equal(t, []string{"VK_F9"}, GetKeybinds().SaveWaypoint)
}

func TestLoad_UnwritableDir(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Load(filepath.Join(t.TempDir(), "missing", "dir"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error writing default config file")
}

func TestReload(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	writeConfig(t, dir, `{"console": true, "pollRate": 120}`)
	require.NoError(t, Load(dir))
	assert.True(t, GetHostConfig().Console)

	writeConfig(t, dir, `{"console": false}`)
	require.NoError(t, Reload())

	host := GetHostConfig()
	assert.False(t, host.Console)
	assert.Equal(t, 60, host.PollRate, "removed keys fall back to defaults")
}

func TestGetHostConfig_InvalidPollRate(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("pollRate", -5)
	assert.Equal(t, 60, GetHostConfig().PollRate)
}

func TestGetString(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testKey", "testValue")
	assert.Equal(t, "testValue", GetString("testKey"))
}

func TestGetInt(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testInt", 42)
	assert.Equal(t, 42, GetInt("testInt"))
}

func TestGetBool(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testBool", true)
	assert.Equal(t, true, GetBool("testBool"))
}

func TestGetStorageConfig_Override(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	writeConfig(t, dir, `{
		"storage": {
			"type": "sqlite",
			"sqlite": { "file": "waypoints.sqlite", "history": 5 }
		}
	}`)
	require.NoError(t, Load(dir))

	sc := GetStorageConfig()
	assert.Equal(t, "sqlite", sc.Type)
	assert.Equal(t, "skip_waypoints.json", sc.JSON.File)
	assert.Equal(t, "waypoints.sqlite", sc.SQLite.File)
	assert.Equal(t, 5, sc.SQLite.History)
}

func TestGetOTelConfig_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	writeConfig(t, dir, `{}`)
	require.NoError(t, Load(dir))

	cfg := GetOTelConfig()
	assert.Equal(t, false, cfg.Enabled)
	assert.Equal(t, "skip-runback", cfg.ServiceName)
	assert.Equal(t, 5*time.Second, cfg.BatchTimeout)
	assert.Equal(t, 30*time.Second, cfg.MetricsInterval)
	assert.Equal(t, "", cfg.Endpoint)
	assert.Equal(t, true, cfg.Insecure)
}

func TestGetOTelConfig_Override(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	writeConfig(t, dir, `{
		"otel": {
			"enabled": true,
			"serviceName": "my-service",
			"batchTimeout": "30s",
			"endpoint": "localhost:4318",
			"insecure": false
		}
	}`)
	require.NoError(t, Load(dir))

	oc := GetOTelConfig()
	assert.Equal(t, true, oc.Enabled)
	assert.Equal(t, "my-service", oc.ServiceName)
	assert.Equal(t, 30*time.Second, oc.BatchTimeout)
	assert.Equal(t, "localhost:4318", oc.Endpoint)
	assert.Equal(t, false, oc.Insecure)
}

func TestGetGraylogConfig(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	writeConfig(t, dir, `{"graylog": {"enabled": true, "address": "graylog.lan:12201"}}`)
	require.NoError(t, Load(dir))

	assert.Equal(t, GraylogConfig{Enabled: true, Address: "graylog.lan:12201"}, GetGraylogConfig())
}

func TestGetStatusConfig(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	writeConfig(t, dir, `{}`)
	require.NoError(t, Load(dir))
	assert.Equal(t, StatusConfig{File: "skip_status.json", Interval: time.Second}, GetStatusConfig())

	writeConfig(t, dir, `{"status": {"enabled": true, "interval": "250ms"}}`)
	require.NoError(t, Reload())
	assert.Equal(t, StatusConfig{Enabled: true, File: "skip_status.json", Interval: 250 * time.Millisecond}, GetStatusConfig())
}
