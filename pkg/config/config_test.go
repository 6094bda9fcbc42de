package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, 24, cfg.Inventory.CancelWindowHours)
	assert.True(t, cfg.Inventory.LegacyLotFallback)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("DB_DRIVER", "MEMORY")
	v.Set("INVENTORY_CANCEL_WINDOW_HOURS", "48")
	v.Set("INVENTORY_LEGACY_LOT_FALLBACK", "false")
	v.Set("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, cfg.DB.Driver)
	assert.Equal(t, 48, cfg.Inventory.CancelWindowHours)
	assert.False(t, cfg.Inventory.LegacyLotFallback)
	assert.True(t, cfg.Redis.Enabled())
}

func TestFromViper_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"driver desconocido", "DB_DRIVER", "mysql"},
		{"ventana cero", "INVENTORY_CANCEL_WINDOW_HOURS", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			v.Set(tt.key, tt.value)
			_, err := fromViper(v)
			assert.Error(t, err)
		})
	}
}

func TestDBConfig_DSNEscapesPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "almacen", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/almacen?sslmode=disable", c.DSN())
	assert.Equal(t, c.DSN(), c.ConnectionString())

	c.DatabaseURL = "postgres://u@h/db"
	assert.Equal(t, "postgres://u@h/db", c.ConnectionString())
}
