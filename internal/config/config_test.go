package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Address())
	assert.Equal(t, 15*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, 0.2, cfg.Checkout.TaxRate)
	assert.Equal(t, "smartmedishop_sid", cfg.Session.CookieName)
	assert.Equal(t, "memory", cfg.Cache.Type)
	assert.Equal(t, "sqlite", cfg.Journal.Type)
	assert.Equal(t, []string{"http://localhost:4200"}, cfg.Server.CORSOrigins)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.example.test/api")
	t.Setenv("CHECKOUT_TAX_RATE", "0")
	t.Setenv("JOURNAL_TYPE", "postgres")
	t.Setenv("JOURNAL_DB_HOST", "db")
	t.Setenv("JOURNAL_DB_PASS", "pw")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.test/api", cfg.Upstream.BaseURL)
	assert.Zero(t, cfg.Checkout.TaxRate)
	assert.Equal(t, "postgres://storefront:pw@db:5432/smartmedishop?sslmode=disable", cfg.Journal.PostgresDSN())
	assert.Equal(t, "storefront:pw@tcp(db:3306)/smartmedishop?parseTime=true", cfg.Journal.MySQLDSN())
}

func TestLoad_RejectsUnknownBackends(t *testing.T) {
	t.Setenv("JOURNAL_TYPE", "cassandra")

	_, err := Load()
	assert.ErrorContains(t, err, "JOURNAL_TYPE")
}

func TestLoad_MongoRequiresURI(t *testing.T) {
	t.Setenv("JOURNAL_TYPE", "mongodb")

	_, err := Load()
	assert.ErrorContains(t, err, "MONGODB_URI")
}
