package db

import (
	"testing"

	"finance-server/confs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresDSN(t *testing.T) {
	t.Run("url gets sslmode", func(t *testing.T) {
		dsn := postgresDSN(confs.DatabaseConfig{URL: "postgres://u:p@db.example.com/finance"})
		assert.Equal(t, "postgres://u:p@db.example.com/finance?sslmode=require", dsn)
	})

	t.Run("url keeps explicit sslmode", func(t *testing.T) {
		dsn := postgresDSN(confs.DatabaseConfig{URL: "postgres://u:p@h/db?sslmode=disable"})
		assert.Equal(t, "postgres://u:p@h/db?sslmode=disable", dsn)
	})

	t.Run("local parameters disable ssl", func(t *testing.T) {
		dsn := postgresDSN(confs.DatabaseConfig{Host: "localhost", User: "u", Password: "p", Name: "finance"})
		assert.Contains(t, dsn, "sslmode=disable")
		assert.Contains(t, dsn, "port=5432")
	})
}

func TestDialectorFor(t *testing.T) {
	_, err := dialectorFor(confs.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)

	_, err = dialectorFor(confs.DatabaseConfig{Driver: "mysql"})
	assert.Error(t, err, "mysql without DB_URL or host needs configuration")

	d, err := dialectorFor(confs.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:"})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", d.Name())
}

func TestOpenSQLite_MigratesSchema(t *testing.T) {
	database, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer database.Close()

	m := database.GetDB().Migrator()
	assert.True(t, m.HasTable("users"))
	assert.True(t, m.HasTable("transactions"))
	assert.True(t, m.HasColumn("users", "reset_token_expiration"))
}
