package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSV(t *testing.T) {
	assert.Nil(t, CSV(""))
	assert.Equal(t, []string{"a:9092", "b:9092"}, CSV(" a:9092, ,b:9092 "))
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("JWT_EXPIRES", "")
	t.Setenv("ES_INDEX", "")
	t.Setenv("CACHE_TTL", "not-a-duration")

	cfg := Load()
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpires)
	assert.Equal(t, "products", cfg.ESIndex)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_EXPIRES", "15m")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg := Load()
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, []byte("s3cret"), cfg.JWTSecret)
	assert.Equal(t, 15*time.Minute, cfg.JWTExpires)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
}

func TestMustNonEmpty(t *testing.T) {
	require.Error(t, MustNonEmpty("", "DATABASE_URL"))
	require.NoError(t, MustNonEmpty("postgres://", "DATABASE_URL"))
	require.Error(t, MustNonEmptyBytes(nil, "JWT_SECRET"))
}
