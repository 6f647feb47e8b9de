package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPoolConfig(t *testing.T) {
	poolConfig, err := newPoolConfig(DBConfig{
		Host:         "localhost",
		Port:         5432,
		User:         "ascendance",
		Password:     "secret",
		Database:     "ascendance_db",
		PoolSize:     7,
		MaxIdleConns: 2,
		MaxLifetime:  60,
	})
	require.NoError(t, err)

	assert.Equal(t, "UTF8", poolConfig.ConnConfig.RuntimeParams["client_encoding"])
	assert.Equal(t, int32(7), poolConfig.MaxConns)
	assert.Equal(t, int32(2), poolConfig.MinConns)
	assert.Equal(t, time.Minute, poolConfig.MaxConnLifetime)
	assert.Equal(t, "ascendance_db", poolConfig.ConnConfig.Database)
}
