package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	appDir    = ".go_arqc"
	envPrefix = "GOARQC"
)

var (
	configData Config
	v          *viper.Viper
)

// Config holds all configuration settings.
type Config struct {
	// TCP command server configuration
	Server struct {
		Host         string
		Port         int
		MaxConns     int           `mapstructure:"max_conns"`
		ReadTimeout  time.Duration `mapstructure:"read_timeout"`
		WriteTimeout time.Duration `mapstructure:"write_timeout"`
	}
	// REST API configuration
	HTTP struct {
		Host    string
		Port    int
		Enabled bool
	}
	// Prometheus metrics configuration
	Metrics struct {
		Enabled bool
	}
	// Logging configuration
	Log struct {
		Level  string
		Format string
	}
}

// flagKeys maps command line flags to the configuration keys they override.
var flagKeys = map[string]string{
	"log-level":  "log.level",
	"log-format": "log.format",
	"host":       "server.host",
	"port":       "server.port",
	"max-conns":  "server.max_conns",
	"http-host":  "http.host",
	"http-port":  "http.port",
	"http":       "http.enabled",
	"metrics":    "metrics.enabled",
}

// Initialize sets up the configuration system. An explicit cfgFile takes precedence over the
// search paths. Flags that were set on the command line override every other source.
func Initialize(cfgFile string, flags *pflag.FlagSet) error {
	v = viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")          // name of config file (without extension)
		v.SetConfigType("yaml")            // config file type
		v.AddConfigPath(".")               // optionally look for config in working directory
		v.AddConfigPath("$HOME/" + appDir) // look for config in .go_arqc directory in home
		v.AddConfigPath("/etc/go_arqc/")   // path to look for the config file in
	}

	setDefaults()

	// Environment variables
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return fmt.Errorf("error binding flag %s: %w", name, err)
				}
			}
		}
	}

	if cfgFile == "" {
		if err := ensureConfig(); err != nil {
			return fmt.Errorf("error creating config file: %w", err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		// It's okay if we can't find a config file, we'll use defaults
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	configData = Config{}
	if err := v.Unmarshal(&configData); err != nil {
		return fmt.Errorf("unable to decode into config struct: %w", err)
	}

	return nil
}

// setDefaults sets default values for all configuration options.
func setDefaults() {
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 1500)
	v.SetDefault("server.max_conns", 100)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)

	v.SetDefault("http.host", "localhost")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.enabled", true)

	v.SetDefault("metrics.enabled", true)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "human")
}

const defaultConfig = `# GO ARQC Configuration File
server:
  host: localhost
  port: 1500
  max_conns: 100
  read_timeout: 30s
  write_timeout: 30s

http:
  host: localhost
  port: 8080
  enabled: true

metrics:
  enabled: true

log:
  level: info
  format: human
`

// ensureConfig creates a default config file if none exists.
func ensureConfig() error {
	home, err := os.UserHomeDir()
	if err != nil {
		// no home directory, defaults only.
		return nil
	}
	dir := filepath.Join(home, appDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	configFile := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		if err := os.WriteFile(configFile, []byte(defaultConfig), 0o644); err != nil {
			return err
		}
	}

	return nil
}

// Get returns the current configuration.
func Get() *Config {
	return &configData
}

// GetViper returns the viper instance.
func GetViper() *viper.Viper {
	return v
}
