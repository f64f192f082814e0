package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFrom(m map[string]string) lookupFunc {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestApplyEnvOverridesDefaults(t *testing.T) {
	cfg := Default()
	err := cfg.applyEnv(envFrom(map[string]string{
		"PORT":              "9090",
		"DB_DRIVER":         "mysql",
		"DB_DSN":            "user:pw@tcp(localhost:3306)/meals",
		"WEATHER_CACHE_TTL": "30m",
		"CORS_ORIGINS":      "http://a.test, http://b.test,",
		"RATE_LIMIT_RPS":    "2.5",
		"SMTP_PORT":         "2525",
		"TRUSTED_PROXIES":   "10.1.0.0/16",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, 30*time.Minute, cfg.WeatherCacheTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, []string{"10.1.0.0/16"}, cfg.TrustedProxies)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
	assert.Equal(t, 2525, cfg.SMTPPort)
	assert.NoError(t, cfg.Validate())
}

func TestApplyEnvRejectsBadNumbers(t *testing.T) {
	cfg := Default()
	assert.Error(t, cfg.applyEnv(envFrom(map[string]string{"WEATHER_CACHE_TTL": "soon"})))
	assert.Error(t, cfg.applyEnv(envFrom(map[string]string{"RATE_LIMIT_BURST": "many"})))
}

func TestMergeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "port: \"7000\"\ndb_driver: postgres\ndb_dsn: host=db\nkafka_broker: kafka:9092\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg := Default()
	require.NoError(t, cfg.mergeFile(path))
	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "kafka:9092", cfg.KafkaBroker)
	// untouched keys keep their defaults
	assert.Equal(t, "moliceiro.events", cfg.KafkaTopic)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.DBDriver = "oracle"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.DBDSN = ""
	assert.Error(t, cfg.Validate())

	cfg = Default()
	assert.NoError(t, cfg.Validate())
	assert.False(t, cfg.SMTPEnabled())
}

func TestInitDBSqlite(t *testing.T) {
	cfg := Default()
	cfg.DBDSN = "file::memory:"
	db, err := InitDB(cfg)
	require.NoError(t, err)
	require.NotNil(t, db)
}
