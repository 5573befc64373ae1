package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/campushq/analytics/internal/duration"
)

type ServerConfig struct {
	Port             int           `mapstructure:"port"`
	GracefulShutdown time.Duration `mapstructure:"graceful-shutdown"`
	ReadTimeout      time.Duration `mapstructure:"read-timeout"`
	WriteTimeout     time.Duration `mapstructure:"write-timeout"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type DBConfig struct {
	DataSource  string `mapstructure:"data-source"`
	PrepareStmt bool   `mapstructure:"prepare-stmt"`
	LogLevel    string `mapstructure:"log-level"`
	Pool        struct {
		Enable             bool          `mapstructure:"enable"`
		MaxOpenConnections int           `mapstructure:"max-open-connections"`
		MaxIdleConnections int           `mapstructure:"max-idle-connections"`
		MaxLifetime        time.Duration `mapstructure:"max-lifetime"`
	} `mapstructure:"pool"`
}

type CacheConfig struct {
	MaxSize   int    `mapstructure:"max-size"`
	RedisAddr string `mapstructure:"redis-addr"`
	RedisPass string `mapstructure:"redis-pass"`
}

type QueueConfig struct {
	Name      string `mapstructure:"name"`
	RedisAddr string `mapstructure:"redis-addr"`
	RedisPass string `mapstructure:"redis-pass"`
}

type CronJobConfig struct {
	Enable          bool          `mapstructure:"enable"`
	ProcessInterval time.Duration `mapstructure:"process-interval"`
	CleanupInterval time.Duration `mapstructure:"cleanup-interval"`
	RetentionDays   int           `mapstructure:"retention-days"`
}

type WorkerConfig struct {
	Count      int `mapstructure:"count"`
	BufferSize int `mapstructure:"buffer-size"`
}

type BusinessConfig struct {
	Addr    string        `mapstructure:"addr"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type ServerCmdConfig struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LoggingConfig  `mapstructure:"log"`
	DB       DBConfig       `mapstructure:"db"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Queue    QueueConfig    `mapstructure:"queue"`
	CronJobs CronJobConfig  `mapstructure:"cronjobs"`
	Workers  WorkerConfig   `mapstructure:"workers"`
	Business BusinessConfig `mapstructure:"business"`
}

type ConfigLoader struct {
	v *viper.Viper
}

func NewConfigLoader() *ConfigLoader {
	return &ConfigLoader{
		v: viper.New(),
	}
}

func StringToDurationHook() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}

		if t != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}

		str, ok := data.(string)
		if !ok {
			return data, nil
		}
		return duration.ParseDuration(str)
	}
}

func (cl *ConfigLoader) InitializeConfig(cmd *cobra.Command) error {
	cl.v.SetConfigType("toml")

	cfgFile := cmd.Flags().Lookup("config").Value.String()

	if cfgFile != "" {
		cl.v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("error getting home directory: %v", err)
		}
		cl.v.AddConfigPath(filepath.Join(home, ".analytics"))
		cl.v.AddConfigPath(".")
		cl.v.SetConfigName("config")
	}

	cl.v.SetEnvPrefix("analytics")
	cl.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	cl.v.AutomaticEnv()

	if err := cl.v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("error binding flags: %v", err)
	}

	if err := cl.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %v", err)
		}
	}

	return nil
}

func (cl *ConfigLoader) Load(cfg interface{}) error {
	config := &mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			StringToDurationHook(),
		),
		WeaklyTypedInput: true,
		Result:           cfg,
	}

	decoder, err := mapstructure.NewDecoder(config)
	if err != nil {
		return fmt.Errorf("failed to create decoder: %v", err)
	}

	if err := decoder.Decode(cl.v.AllSettings()); err != nil {
		return fmt.Errorf("failed to decode config: %v", err)
	}

	return nil
}

func AddCommonFlags(flags *pflag.FlagSet, config *ServerCmdConfig) {

	flags.StringP("config", "c", "", "Config file path (default $HOME/.analytics/config.toml)")

	// Log config
	flags.StringVar(&config.Log.Level, "log-level", zapcore.InfoLevel.String(), "Logging level")
	flags.StringVar(&config.Log.File, "log-file", "", "Logging file path")

	// Server config
	flags.IntVar(&config.Server.Port, "server-port", 8001, "Server port")
	duration.DurationVar(flags, &config.Server.GracefulShutdown, "server-graceful-shutdown", 10*time.Second, "Shutdown grace period")
	duration.DurationVar(flags, &config.Server.ReadTimeout, "server-read-timeout", time.Minute, "Server read timeout")
	duration.DurationVar(flags, &config.Server.WriteTimeout, "server-write-timeout", time.Minute, "Server write timeout")

	// DB config
	flags.StringVar(&config.DB.DataSource, "db-data-source", "", "Database connection string")
	flags.StringVar(&config.DB.LogLevel, "db-log-level", zapcore.ErrorLevel.String(), "Database log level")
	flags.BoolVar(&config.DB.PrepareStmt, "db-prepare-stmt", true, "Enable prepared statements")
	flags.BoolVar(&config.DB.Pool.Enable, "db-pool-enable", true, "Enable database pool")
	flags.IntVar(&config.DB.Pool.MaxOpenConnections, "db-pool-max-open-connections", 25, "Database max open connections")
	flags.IntVar(&config.DB.Pool.MaxIdleConnections, "db-pool-max-idle-connections", 25, "Database max idle connections")
	duration.DurationVar(flags, &config.DB.Pool.MaxLifetime, "db-pool-max-lifetime", 10*time.Minute, "Database max connection lifetime")

	// Cache config
	flags.IntVar(&config.Cache.MaxSize, "cache-max-size", 10*1024*1024, "Max in-memory cache size in bytes")
	flags.StringVar(&config.Cache.RedisAddr, "cache-redis-addr", "", "Redis address for cache")
	flags.StringVar(&config.Cache.RedisPass, "cache-redis-pass", "", "Redis password for cache")

	// Queue config
	flags.StringVar(&config.Queue.Name, "queue-name", "data_events_queue", "Redis list name for event notifications")
	flags.StringVar(&config.Queue.RedisAddr, "queue-redis-addr", "", "Redis address for event notifications")
	flags.StringVar(&config.Queue.RedisPass, "queue-redis-pass", "", "Redis password for event notifications")

	// Cron config
	flags.BoolVar(&config.CronJobs.Enable, "cronjobs-enable", true, "Enable background sweeps")
	duration.DurationVar(flags, &config.CronJobs.ProcessInterval, "cronjobs-process-interval", 5*time.Minute, "Unprocessed events sweep interval")
	duration.DurationVar(flags, &config.CronJobs.CleanupInterval, "cronjobs-cleanup-interval", 24*time.Hour, "Old events cleanup interval")
	flags.IntVar(&config.CronJobs.RetentionDays, "cronjobs-retention-days", 30, "Days of events to keep")

	// Worker config
	flags.IntVar(&config.Workers.Count, "workers-count", 4, "Background processing workers")
	flags.IntVar(&config.Workers.BufferSize, "workers-buffer-size", 1024, "Background task buffer size")

	// Business service config
	flags.StringVar(&config.Business.Addr, "business-addr", "", "Business service gRPC address")
	duration.DurationVar(flags, &config.Business.Timeout, "business-timeout", 10*time.Second, "Business service call timeout")
}
