package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadConfig(t *testing.T, content string) *ServerCmdConfig {
	t.Helper()

	loader := NewConfigLoader()
	var cfg ServerCmdConfig

	configPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cmd := &cobra.Command{Use: "test"}
	AddCommonFlags(cmd.Flags(), &cfg)
	require.NoError(t, cmd.Flags().Set("config", configPath))

	require.NoError(t, loader.InitializeConfig(cmd))
	require.NoError(t, loader.Load(&cfg))
	return &cfg
}

func TestConfigLoader_Defaults(t *testing.T) {
	cfg := loadConfig(t, "")

	assert.Equal(t, 8001, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.GracefulShutdown)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, true, cfg.DB.Pool.Enable)
	assert.Equal(t, 25, cfg.DB.Pool.MaxOpenConnections)
	assert.Equal(t, 10*time.Minute, cfg.DB.Pool.MaxLifetime)
	assert.Equal(t, "data_events_queue", cfg.Queue.Name)
	assert.Equal(t, true, cfg.CronJobs.Enable)
	assert.Equal(t, 5*time.Minute, cfg.CronJobs.ProcessInterval)
	assert.Equal(t, 30, cfg.CronJobs.RetentionDays)
	assert.Equal(t, 4, cfg.Workers.Count)
}

func TestConfigLoader_FileOverrides(t *testing.T) {
	cfg := loadConfig(t, `
[server]
port = 9000

[cronjobs]
process-interval = "1m"
cleanup-interval = "2d"
retention-days = 7

[queue]
name = "custom_queue"
redis-addr = "localhost:6379"
`)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, time.Minute, cfg.CronJobs.ProcessInterval)
	assert.Equal(t, 48*time.Hour, cfg.CronJobs.CleanupInterval)
	assert.Equal(t, 7, cfg.CronJobs.RetentionDays)
	assert.Equal(t, "custom_queue", cfg.Queue.Name)
	assert.Equal(t, "localhost:6379", cfg.Queue.RedisAddr)
}
