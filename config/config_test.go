package config_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/scheduling-event-manager-go/config"
)

var allVariables = []string{
	"HTTP_ADDR", "HTTP_READ_TIMEOUT", "HTTP_WRITE_TIMEOUT", "HTTP_IDLE_TIMEOUT", "HTTP_SHUTDOWN_TIMEOUT",
	"CORS_ALLOWED_ORIGINS", "STORE_ENGINE", "DB_ADAPTER", "POSTGRES_DSN", "POSTGRES_REPLICA_DSN", "SQLITE_PATH",
	"STORE_TABLE_NAME", "AUTO_MIGRATE", "SEED_SAMPLE_DATA", "LOG_LEVEL", "LOG_FORMAT", "OBSERVABILITY_ENABLED",
	"OTEL_EXPORTER_OTLP_ENDPOINT", "SERVICE_NAME",
}

// unsetAll removes all config variables for the duration of the test.
func unsetAll(t *testing.T) {
	t.Helper()

	for _, name := range allVariables {
		t.Setenv(name, "") // registers the restore
		require.NoError(t, os.Unsetenv(name))
	}
}

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func Test_Load_Defaults(t *testing.T) {
	// setup
	unsetAll(t)

	// act
	cfg, err := config.Load(missingEnvFile(t))

	// assert
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 5*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.HTTP.WriteTimeout)
	assert.Equal(t, 60*time.Second, cfg.HTTP.IdleTimeout)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, []string{"*"}, cfg.HTTP.CORSAllowedOrigins)
	assert.Equal(t, config.StoreEnginePostgres, cfg.Store.Engine)
	assert.Equal(t, config.AdapterPGXPool, cfg.Store.Adapter)
	assert.NotEmpty(t, cfg.Store.PostgresDSN)
	assert.Empty(t, cfg.Store.PostgresReplicaDSN)
	assert.Equal(t, "data/scheduleevents.db", cfg.Store.SQLitePath)
	assert.Equal(t, "schedule_events", cfg.Store.TableName)
	assert.True(t, cfg.Store.AutoMigrate)
	assert.False(t, cfg.Store.SeedSampleData)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, config.LogFormatJSON, cfg.Log.Format)
	assert.False(t, cfg.Observability.Enabled)
	assert.Equal(t, "localhost:4317", cfg.Observability.OTLPEndpoint)
	assert.Equal(t, "scheduleevent-server", cfg.Observability.ServiceName)
}

func Test_Load_FromEnvironment(t *testing.T) {
	// setup
	unsetAll(t)

	// arrange
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("HTTP_READ_TIMEOUT", "2s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,https://example.com")
	t.Setenv("STORE_ENGINE", "sqlite")
	t.Setenv("DB_ADAPTER", "sqlx.db")
	t.Setenv("SQLITE_PATH", ":memory:")
	t.Setenv("SEED_SAMPLE_DATA", "true")
	t.Setenv("STORE_TABLE_NAME", "archived_schedule_events")
	t.Setenv("AUTO_MIGRATE", "false")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")

	// act
	cfg, err := config.Load(missingEnvFile(t))

	// assert
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, 2*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, []string{"http://localhost:3000", "https://example.com"}, cfg.HTTP.CORSAllowedOrigins)
	assert.Equal(t, config.StoreEngineSQLite, cfg.Store.Engine)
	assert.Equal(t, config.AdapterSQLXDB, cfg.Store.Adapter)
	assert.Equal(t, ":memory:", cfg.Store.SQLitePath)
	assert.True(t, cfg.Store.SeedSampleData)
	assert.Equal(t, "archived_schedule_events", cfg.Store.TableName)
	assert.False(t, cfg.Store.AutoMigrate)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, config.LogFormatText, cfg.Log.Format)
}

func Test_Load_ReadsEnvFile_WithoutOverridingTheEnvironment(t *testing.T) {
	// setup
	unsetAll(t)

	// arrange
	envFile := filepath.Join(t.TempDir(), "test.env")
	content := "HTTP_ADDR=:7070\nSERVICE_NAME=from-env-file\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))
	t.Setenv("SERVICE_NAME", "from-environment")

	// act
	cfg, err := config.Load(envFile)

	// assert
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.HTTP.Addr)
	assert.Equal(t, "from-environment", cfg.Observability.ServiceName)
}

func Test_Load_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		expectedErr error
	}{
		{
			name:        "unknown_store_engine",
			env:         map[string]string{"STORE_ENGINE": "mongodb"},
			expectedErr: config.ErrInvalidStoreEngine,
		},
		{
			name:        "unknown_db_adapter",
			env:         map[string]string{"DB_ADAPTER": "gorm"},
			expectedErr: config.ErrInvalidDBAdapter,
		},
		{
			name:        "replica_without_pgx_pool",
			env:         map[string]string{"DB_ADAPTER": "sql.db", "POSTGRES_REPLICA_DSN": "postgres://replica"},
			expectedErr: config.ErrReplicaRequiresPGXPool,
		},
		{
			name:        "custom_table_name_with_auto_migrate",
			env:         map[string]string{"STORE_TABLE_NAME": "archived_schedule_events"},
			expectedErr: config.ErrAutoMigrateRequiresDefaultTable,
		},
		{
			name:        "unknown_log_level",
			env:         map[string]string{"LOG_LEVEL": "chatty"},
			expectedErr: config.ErrInvalidLogLevel,
		},
		{
			name:        "unknown_log_format",
			env:         map[string]string{"LOG_FORMAT": "xml"},
			expectedErr: config.ErrInvalidLogFormat,
		},
		{
			name:        "unparsable_duration",
			env:         map[string]string{"HTTP_READ_TIMEOUT": "soon"},
			expectedErr: config.ErrReadingEnvFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// setup
			unsetAll(t)

			// arrange
			for name, value := range tt.env {
				t.Setenv(name, value)
			}

			// act
			_, err := config.Load(missingEnvFile(t))

			// assert
			assert.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func Test_NewLogger(t *testing.T) {
	// arrange
	var buf bytes.Buffer

	// act
	logger, err := config.NewLogger(config.LogConfig{Level: "warn", Format: config.LogFormatJSON}, &buf)
	require.NoError(t, err)

	logger.Info("not written")
	logger.Warn("written", slog.String("key", "value"))

	// assert
	assert.NotContains(t, buf.String(), "not written")
	assert.Contains(t, buf.String(), `"msg":"written"`)
	assert.Contains(t, buf.String(), `"key":"value"`)
}

func Test_NewLogger_RejectsInvalidLevel(t *testing.T) {
	// act
	_, err := config.NewLogger(config.LogConfig{Level: "loud", Format: config.LogFormatText}, &bytes.Buffer{})

	// assert
	assert.ErrorIs(t, err, config.ErrInvalidLogLevel)
}
