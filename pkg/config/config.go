package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// DefaultEnvFile is read when no --env-file is given; it may be absent.
const DefaultEnvFile = ".env"

// Config holds the connection and logging settings.
type Config struct {
	Engine   string
	Host     string
	Port     int
	Username string
	Password string
	Database string
	LogLevel string
}

var validLogLevels = map[string]bool{"DEBUG": true, "INFO": true, "ERROR": true, "FATAL": true}

// env and flag names per key
var bindings = []struct {
	key  string
	env  string
	flag string
}{
	{"engine", "DB_ENGINE", "engine"},
	{"host", "SERVER_NAME", "host"},
	{"port", "DB_PORT", "port"},
	{"username", "USER_NAME", "user"},
	{"password", "PASSWORD", ""},
	{"database", "DB_NAME", "database"},
	{"log-level", "LOG_LEVEL", "log-level"},
}

// Load reads envFile into the process environment, then resolves every key
// from flags (when set), the environment and the defaults, in that order.
func Load(envFile string, flags *pflag.FlagSet) (*Config, error) {
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	if err := godotenv.Load(envFile); err != nil {
		if !(envFile == DefaultEnvFile && errors.Is(err, os.ErrNotExist)) {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.SetDefault("engine", "sqlserver")
	v.SetDefault("log-level", "ERROR")
	for _, b := range bindings {
		if err := v.BindEnv(b.key, b.env); err != nil {
			return nil, err
		}
		if b.flag == "" || flags == nil {
			continue
		}
		if f := flags.Lookup(b.flag); f != nil {
			if err := v.BindPFlag(b.key, f); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{
		Engine:   strings.ToLower(strings.TrimSpace(v.GetString("engine"))),
		Host:     strings.TrimSpace(v.GetString("host")),
		Port:     v.GetInt("port"),
		Username: v.GetString("username"),
		Password: v.GetString("password"),
		Database: strings.TrimSpace(v.GetString("database")),
		LogLevel: strings.ToUpper(strings.TrimSpace(v.GetString("log-level"))),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate fails on the first missing or malformed field.
func (c Config) Validate() error {
	if c.Engine == "" {
		return errors.New("must provide a non-empty Engine")
	}
	if c.Host == "" {
		return errors.New("must provide a non-empty Host (SERVER_NAME)")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid Port %d", c.Port)
	}
	if c.Username == "" {
		return errors.New("must provide a non-empty Username (USER_NAME)")
	}
	if c.Password == "" {
		return errors.New("must provide a non-empty Password (PASSWORD)")
	}
	if c.LogLevel == "" {
		return errors.New("must provide a non-empty LogLevel")
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid LogLevel %q", c.LogLevel)
	}
	return nil
}
