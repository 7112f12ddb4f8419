package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, 3001, cfg.HTTP.Port)
	assert.Equal(t, "127.0.0.1:3001", cfg.HTTP.Addr())
	assert.Equal(t, 1, cfg.Print.Workers)
	assert.Equal(t, 3, cfg.Print.MaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.Print.BackoffBase)
	assert.Equal(t, "windows-1252", cfg.Print.CodePage)
	assert.Equal(t, "pdf", cfg.Print.LabelMode)
	assert.Equal(t, 50, cfg.Print.LabelWidthMM)
	assert.Equal(t, 25, cfg.Print.LabelHeightMM)
	assert.Equal(t, 25, cfg.DB.MaxConns)
	assert.Equal(t, 2, cfg.DB.MinConns)
	assert.Equal(t, 10*time.Second, cfg.DB.ConnectTimeout)
}

func TestFromViper_EnvOverrides(t *testing.T) {
	v := viper.New()
	v.Set("PRINT_WORKERS", "4")
	v.Set("PRINT_BACKOFF_BASE_MS", 500)
	v.Set("DB_PORT", "6543")

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Print.Workers)
	assert.Equal(t, 500*time.Millisecond, cfg.Print.BackoffBase)
	assert.Equal(t, 6543, cfg.DB.Port)
}

func TestFromViper_WorkersInvalidos(t *testing.T) {
	v := viper.New()
	v.Set("PRINT_WORKERS", 0)

	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:w/rd", DBName: "almacen", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aw%2Frd@db:5432/almacen?sslmode=disable", c.DSN())
	assert.Equal(t, c.DSN(), c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}

func TestFromViper_LabelModeInvalido(t *testing.T) {
	v := viper.New()
	v.Set("PRINT_LABEL_MODE", "zpl")

	_, err := fromViper(v)
	assert.Error(t, err)

	v.Set("PRINT_LABEL_MODE", "TEXT")
	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.Print.LabelMode)
}
