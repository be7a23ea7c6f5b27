package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.Equal(t, "fundguard", cfg.Database.DBName)
	assert.Equal(t, "redis://localhost:6379", cfg.Redis.URL)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessExpiry)
	assert.Equal(t, float64(0), cfg.Release.AutoApproveThreshold)
	assert.Equal(t, float64(1000), cfg.Release.Level2Threshold)
	assert.Equal(t, 365*24*time.Hour, cfg.Release.VerificationExpiry)
	assert.Equal(t, 3, cfg.Release.ConflictRetries)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("RELEASE_AUTO_APPROVE_THRESHOLD", "250.50")
	t.Setenv("KYC_LEVEL2_THRESHOLD", "2000")
	t.Setenv("KYC_VERIFICATION_EXPIRY", "720h")
	t.Setenv("RELEASE_CONFLICT_RETRIES", "5")
	t.Setenv("DEFAULT_CAUSE_ID", "0d9f9f6a-9f59-4d58-b9c1-0e8e0f6d2a11")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, 250.50, cfg.Release.AutoApproveThreshold)
	assert.Equal(t, float64(2000), cfg.Release.Level2Threshold)
	assert.Equal(t, 720*time.Hour, cfg.Release.VerificationExpiry)
	assert.Equal(t, 5, cfg.Release.ConflictRetries)
	assert.Equal(t, "0d9f9f6a-9f59-4d58-b9c1-0e8e0f6d2a11", cfg.Release.DefaultCauseID)
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("DB_PORT", "not-a-number")
	t.Setenv("RELEASE_AUTO_APPROVE_THRESHOLD", "lots")
	t.Setenv("JWT_ACCESS_EXPIRY", "soon")

	cfg := Load()
	require.Equal(t, 5432, cfg.Database.Port)
	require.Equal(t, float64(0), cfg.Release.AutoApproveThreshold)
	require.Equal(t, 15*time.Minute, cfg.JWT.AccessExpiry)
}

func TestDatabaseConfig_URL(t *testing.T) {
	cfg := DatabaseConfig{
		Host: "db.internal", Port: 5432, User: "svc", Password: "pw",
		DBName: "fundguard", SSLMode: "require",
	}
	assert.Equal(t, "postgres://svc:pw@db.internal:5432/fundguard?sslmode=require", cfg.URL())
}
