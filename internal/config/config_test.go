package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnvDefaults(t *testing.T) {
	c, err := FromEnv(envOf(nil))
	require.NoError(t, err)

	assert.Equal(t, ":8080", c.ServerAddress)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, 10*time.Second, c.ShutdownTimeout)
	assert.True(t, c.DailyTransferLimit.Equal(decimal.NewFromInt(5000)))
	assert.True(t, c.MaxDeposit.Equal(decimal.NewFromInt(50000)))
	assert.True(t, c.SavingsWithdrawLimit.Equal(decimal.NewFromInt(1000)))
	assert.True(t, c.EnforceBusinessHours)
	assert.Equal(t, 6, c.BusinessHoursStart)
	assert.Equal(t, 22, c.BusinessHoursEnd)
	assert.False(t, c.Development())
}

func TestFromEnvOverrides(t *testing.T) {
	c, err := FromEnv(envOf(map[string]string{
		"SERVER_ADDRESS":         "127.0.0.1:9000",
		"ENV_NAME":               "development",
		"LOG_LEVEL":              "DEBUG",
		"DAILY_TRANSFER_LIMIT":   "750.50",
		"ENFORCE_BUSINESS_HOURS": "false",
		"BUSINESS_HOURS_START":   "8",
		"BUSINESS_HOURS_END":     "18",
		"SHUTDOWN_TIMEOUT":       "3s",
	}))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", c.ServerAddress)
	assert.Equal(t, "debug", c.LogLevel)
	assert.True(t, c.Development())
	assert.Equal(t, "750.5", c.DailyTransferLimit.String())
	assert.False(t, c.EnforceBusinessHours)
	assert.Equal(t, 8, c.BusinessHoursStart)
	assert.Equal(t, 18, c.BusinessHoursEnd)
	assert.Equal(t, 3*time.Second, c.ShutdownTimeout)
}

func TestFromEnvInvalid(t *testing.T) {
	_, err := FromEnv(envOf(map[string]string{
		"DAILY_TRANSFER_LIMIT": "lots",
		"BUSINESS_HOURS_START": "x",
		"SHUTDOWN_TIMEOUT":     "soon",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DAILY_TRANSFER_LIMIT")
	assert.Contains(t, err.Error(), "BUSINESS_HOURS_START")
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")

	_, err = FromEnv(envOf(map[string]string{
		"BUSINESS_HOURS_START": "20",
		"BUSINESS_HOURS_END":   "10",
	}))
	assert.ErrorContains(t, err, "after BUSINESS_HOURS_END")

	_, err = FromEnv(envOf(map[string]string{"MAX_DEPOSIT": "0"}))
	assert.ErrorContains(t, err, "MAX_DEPOSIT")
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("LEDGER_TEST_ADDRESS_UNUSED=1\nSAVINGS_WITHDRAW_LIMIT=250\n"), 0o600))
	t.Setenv("SAVINGS_WITHDRAW_LIMIT", "")
	require.NoError(t, os.Unsetenv("SAVINGS_WITHDRAW_LIMIT"))
	t.Cleanup(func() { _ = os.Unsetenv("LEDGER_TEST_ADDRESS_UNUSED") })

	c, err := Load(path)
	require.NoError(t, err)
	assert.True(t, c.SavingsWithdrawLimit.Equal(decimal.NewFromInt(250)))

	// 不存在的檔案直接略過
	_, err = Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}
