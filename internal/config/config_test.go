package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/fenanpay-bridge/internal/config"
)

func baseEnv() map[string]string {
	return map[string]string{
		"DATABASE_URL":            "postgres://localhost/bridge",
		"REDIS_URL":               "redis://localhost:6379",
		"PUBLIC_BASE_URL":         "https://shop.example.com/",
		"FENANPAY_API_KEY":        "key-123",
		"FENANPAY_WEBHOOK_SECRET": "",
		"FENANPAY_CURRENCY":       "",
		"FENANPAY_TEST_MODE":      "",
		"FENANPAY_BASE_URL":       "",
		"FENANPAY_RETURN_URL":     "",
		"FENANPAY_WEBHOOK_URL":    "",
		"FENANPAY_HTTP_TIMEOUT":   "",
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.LoadForTests(baseEnv())
	require.NoError(t, err)

	require.Equal(t, "ETB", cfg.FenanCurrency)
	require.False(t, cfg.FenanTestMode)
	require.Equal(t, "https://api.fenanpay.com/api/v1", cfg.FenanBaseURL)
	require.Equal(t, 45*time.Second, cfg.FenanHTTPTimeout)
	require.Equal(t, time.Hour, cfg.FenanIntentExpire)
	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.Equal(t, "https://shop.example.com", cfg.PublicBaseURL)
}

func TestLoadRequiresAPIKey(t *testing.T) {
	env := baseEnv()
	env["FENANPAY_API_KEY"] = ""
	_, err := config.LoadForTests(env)
	require.Error(t, err)
	require.Contains(t, err.Error(), "FENANPAY_API_KEY")
}

func TestLoadRejectsBadCurrency(t *testing.T) {
	env := baseEnv()
	env["FENANPAY_CURRENCY"] = "BIRR"
	_, err := config.LoadForTests(env)
	require.Error(t, err)
}

func TestURLOverrides(t *testing.T) {
	env := baseEnv()
	cfg, err := config.LoadForTests(env)
	require.NoError(t, err)
	require.Equal(t, "https://shop.example.com/checkout/order-received/482", cfg.ReturnURL(482))
	require.Equal(t, "https://shop.example.com/webhooks/fenanpay", cfg.WebhookURL())

	env["FENANPAY_RETURN_URL"] = "https://shop.example.com/thanks"
	env["FENANPAY_WEBHOOK_URL"] = "https://edge.example.com/hooks/fenanpay"
	cfg, err = config.LoadForTests(env)
	require.NoError(t, err)
	require.Equal(t, "https://shop.example.com/thanks", cfg.ReturnURL(482))
	require.Equal(t, "https://edge.example.com/hooks/fenanpay", cfg.WebhookURL())
}

func TestSandboxToggle(t *testing.T) {
	env := baseEnv()
	env["FENANPAY_TEST_MODE"] = "yes"
	cfg, err := config.LoadForTests(env)
	require.NoError(t, err)
	require.True(t, cfg.FenanTestMode)
}
