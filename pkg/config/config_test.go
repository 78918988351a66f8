package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, b := range bindings {
		t.Setenv(b.env, "")
		os.Unsetenv(b.env)
	}
}

func writeEnvFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_FromEnvFile(t *testing.T) {
	clearEnv(t)
	path := writeEnvFile(t, "SERVER_NAME=db.local\\SQLEXPRESS\nUSER_NAME=sa\nPASSWORD=secret\nDB_PORT=1433\n")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "sqlserver", cfg.Engine)
	assert.Equal(t, `db.local\SQLEXPRESS`, cfg.Host)
	assert.Equal(t, 1433, cfg.Port)
	assert.Equal(t, "sa", cfg.Username)
	assert.Equal(t, "secret", cfg.Password)
	assert.Equal(t, "ERROR", cfg.LogLevel)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_NAME", "env-host")
	t.Setenv("USER_NAME", "env-user")
	t.Setenv("PASSWORD", "pw")
	t.Setenv("DB_ENGINE", "mysql")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("engine", "", "")
	flags.String("host", "", "")
	flags.Int("port", 0, "")
	flags.String("user", "", "")
	flags.String("database", "", "")
	flags.String("log-level", "", "")
	require.NoError(t, flags.Parse([]string{"--host", "flag-host", "--log-level", "debug"}))

	cfg, err := Load(writeEnvFile(t, ""), flags)
	require.NoError(t, err)
	assert.Equal(t, "mysql", cfg.Engine)
	assert.Equal(t, "flag-host", cfg.Host)
	assert.Equal(t, "env-user", cfg.Username)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
}

func TestLoad_MissingHostFailsFast(t *testing.T) {
	clearEnv(t)
	path := writeEnvFile(t, "USER_NAME=sa\nPASSWORD=secret\n")

	_, err := Load(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must provide a non-empty Host")
}

func TestLoad_ExplicitEnvFileMustExist(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load env file")
}

func TestValidate(t *testing.T) {
	valid := Config{Engine: "postgres", Host: "localhost", Username: "u", Password: "p", LogLevel: "INFO"}
	require.NoError(t, valid.Validate())

	cases := map[string]func(c *Config){
		"must provide a non-empty Engine":   func(c *Config) { c.Engine = "" },
		"must provide a non-empty Username": func(c *Config) { c.Username = "" },
		"must provide a non-empty Password": func(c *Config) { c.Password = "" },
		"invalid Port":                      func(c *Config) { c.Port = 70000 },
		"invalid LogLevel":                  func(c *Config) { c.LogLevel = "TRACE" },
	}
	for msg, mutate := range cases {
		c := valid
		mutate(&c)
		err := c.Validate()
		require.Error(t, err, msg)
		assert.Contains(t, err.Error(), msg)
	}
}
