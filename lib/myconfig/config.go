package myconfig

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port               string        `mapstructure:"port"`
	BaseURL            string        `mapstructure:"base_url"`
	Environment        string        `mapstructure:"environment"`
	LogFile            string        `mapstructure:"log_file"`
	CatalogFile        string        `mapstructure:"catalog_file"`
	ConfirmationDelay  time.Duration `mapstructure:"confirmation_delay"`
	GoogleCloudProject string        `mapstructure:"google_cloud_project"`
}

func (c Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Load reads the yaml config file (if any) and overlays environment variables (PORT, LOG_FILE, ...).
func Load(filename string) (Config, error) {
	v := viper.New()
	v.SetDefault("port", "8080")
	v.SetDefault("base_url", "")
	v.SetDefault("environment", "development")
	v.SetDefault("log_file", "")
	v.SetDefault("catalog_file", "")
	v.SetDefault("confirmation_delay", 2*time.Second)
	v.SetDefault("google_cloud_project", "")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if filename != "" {
		v.SetConfigFile(filename)
		v.SetConfigType("yaml")
		err := v.ReadInConfig()
		if err != nil {
			return Config{}, fmt.Errorf("error reading config file %s: %s", filename, err)
		}
	}

	cfg := Config{}
	err := v.Unmarshal(&cfg)
	if err != nil {
		return Config{}, fmt.Errorf("error decoding config: %s", err)
	}

	if cfg.BaseURL == "" {
		// where pubsub pushes to when nothing else is configured
		cfg.BaseURL = fmt.Sprintf("http://localhost:%s", cfg.Port)
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")

	if cfg.ConfirmationDelay <= 0 {
		return Config{}, fmt.Errorf("confirmation_delay must be positive, got %s", cfg.ConfirmationDelay)
	}

	return cfg, nil
}
