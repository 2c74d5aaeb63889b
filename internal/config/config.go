package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Conf holds the application configuration, making it accessible globally.
var Conf *Config

// Config struct is the top-level configuration structure.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Speech   SpeechConfig   `mapstructure:"speech"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
}

// ServerConfig holds server-related settings.
type ServerConfig struct {
	Port          string `mapstructure:"port"`
	SessionSecret string `mapstructure:"session_secret"`
}

// DatabaseConfig holds database connection settings. An empty host disables
// the database entirely and the service runs local-only.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

// LoggingConfig holds settings for the logger.
type LoggingConfig struct {
	Directory  string `mapstructure:"directory"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// StorageConfig locates the local history files and uploaded audio. A
// non-empty passphrase switches the file-backed history to the encrypted
// store.
type StorageConfig struct {
	HistoryDir        string `mapstructure:"history_dir"`
	AudioDir          string `mapstructure:"audio_dir"`
	HistoryPassphrase string `mapstructure:"history_passphrase"`
}

// SpeechConfig points at the optional external speech processor.
type SpeechConfig struct {
	ProcessorURL string        `mapstructure:"processor_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// AnalysisConfig carries the result-reveal timing knobs.
type AnalysisConfig struct {
	TickInterval    time.Duration `mapstructure:"tick_interval"`
	MinimumDuration time.Duration `mapstructure:"minimum_duration"`
	FinalizeHold    time.Duration `mapstructure:"finalize_hold"`
}

// CatalogConfig optionally overrides the built-in recall word pools.
type CatalogConfig struct {
	WordPoolFile string `mapstructure:"word_pool_file"`
}

// setDefaults sets the default values for the configuration.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "5050")
	v.SetDefault("server.session_secret", "change-me-in-production")

	// Database defaults; empty host means no database.
	v.SetDefault("database.host", "")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "user")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.dbname", "mindscreen")

	// Logging defaults
	v.SetDefault("logging.directory", "logs")
	v.SetDefault("logging.max_size", 10)   // 10 MB
	v.SetDefault("logging.max_backups", 3) // Keep 3 backups
	v.SetDefault("logging.max_age", 7)     // 7 days
	v.SetDefault("logging.compress", true) // Compress old logs

	// Storage defaults
	v.SetDefault("storage.history_dir", "data/history")
	v.SetDefault("storage.audio_dir", "data/audio")
	v.SetDefault("storage.history_passphrase", "")

	// Speech processor; empty URL runs the local fallback processor.
	v.SetDefault("speech.processor_url", "")
	v.SetDefault("speech.timeout", 30*time.Second)

	// Analysis reveal timing
	v.SetDefault("analysis.tick_interval", 900*time.Millisecond)
	v.SetDefault("analysis.minimum_duration", 10*time.Second)
	v.SetDefault("analysis.finalize_hold", 800*time.Millisecond)

	v.SetDefault("catalog.word_pool_file", "")
}

// Init initializes the configuration with Viper.
func Init(projectRoot string, log *zap.Logger) error {
	v := viper.New()

	// Set default values
	setDefaults(v)

	v.AddConfigPath(filepath.Join(projectRoot, "config"))
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// --- Environment Variable Binding ---
	v.SetEnvPrefix("MINDSCREEN") // e.g., MINDSCREEN_SERVER_PORT
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read the initial configuration from the file.
	// It's okay if the file doesn't exist; defaults and env vars will be used.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Unmarshal the config into our global Conf variable
	if err := v.Unmarshal(&Conf); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	// Set up a watch for configuration changes for hot-reloading
	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		log.Info("Configuration file changed, reloading.", zap.String("file", e.Name))
		if err := v.Unmarshal(&Conf); err != nil {
			log.Error("Error reloading configuration", zap.Error(err))
		}
	})

	log.Info("Configuration loaded successfully")
	return nil
}
