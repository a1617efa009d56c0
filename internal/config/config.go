package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Log      LogConfig
	UI       UIConfig
	Sim      SimConfig
	Auth     AuthConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// LogConfig controls the zerolog sink. The terminal belongs to the TUI, so logs go to a file.
type LogConfig struct {
	Path  string
	Level string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Language    string
	PatientName string `mapstructure:"patient_name"`
}

// SimConfig holds the delays used by the simulated services.
type SimConfig struct {
	LoginDelay      time.Duration `mapstructure:"login_delay"`
	AnalysisStep    time.Duration `mapstructure:"analysis_step"`
	QualityInterval time.Duration `mapstructure:"quality_interval"`
}

// AuthConfig holds the optional bcrypt hash checked by the simulated auth service.
type AuthConfig struct {
	PasswordHash string `mapstructure:"password_hash"`
}

func dataDir() string {
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "ruralcare")
}

func configPath() string {
	if p := os.Getenv("RURALCARE_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "ruralcare", "config.toml")
}

// Load reads configuration from file and env. Env var overrides use prefix RURALCARE_.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("database.path", filepath.Join(dataDir(), "ruralcare.db"))
	v.SetDefault("log.path", filepath.Join(dataDir(), "ruralcare.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("ui.language", "en")
	v.SetDefault("ui.patient_name", "Ram Kumar")
	v.SetDefault("sim.login_delay", "1500ms")
	v.SetDefault("sim.analysis_step", "200ms")
	v.SetDefault("sim.quality_interval", "10s")
	v.SetDefault("auth.password_hash", "")

	v.SetConfigType("toml")

	if cfgPath := os.Getenv("RURALCARE_CONFIG"); cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "ruralcare"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("RURALCARE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	path := configPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)
	v.Set("ui.language", cfg.UI.Language)
	v.Set("ui.patient_name", cfg.UI.PatientName)
	v.Set("sim.login_delay", cfg.Sim.LoginDelay.String())
	v.Set("sim.analysis_step", cfg.Sim.AnalysisStep.String())
	v.Set("sim.quality_interval", cfg.Sim.QualityInterval.String())
	v.Set("auth.password_hash", cfg.Auth.PasswordHash)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
