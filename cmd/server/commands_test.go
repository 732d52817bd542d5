package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/policydesk/internal/models"
	"github.com/mmynk/policydesk/internal/service"
	"github.com/mmynk/policydesk/internal/storage/sqlite"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"ADDR", "DB_PATH", "PER_PAGE", "LOG_LEVEL", "METRICS_ENABLED"} {
		t.Setenv(key, "")
	}
}

func TestMigrateCreatesDatabase(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "insurance.db")

	cmd := newRootCmd()
	cmd.SetArgs([]string{"migrate", "--db", path, "--log-level", "error"})
	require.NoError(t, cmd.Execute())

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestDumpPrintsMirror(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "insurance.db")

	store, err := sqlite.New(path)
	require.NoError(t, err)
	repo := service.NewRepository(store)
	ctx := context.Background()
	personID, err := repo.AddPerson(ctx, &models.Person{FirstName: "Jan", LastName: "Novak", Email: "jan@x.cz",
		Phone: "123456", Street: "Hlavni 1", City: "Praha", PostalCode: "11000"})
	require.NoError(t, err)
	policyID, err := repo.AddPolicy(ctx, models.NewPolicy("Home", "5000", "house", "2024-01-01", "2024-12-31"))
	require.NoError(t, err)
	require.NoError(t, repo.LinkPolicy(ctx, personID, policyID))
	require.NoError(t, store.Close())

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"dump", "--db", path, "--log-level", "error"})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, "1. Jan Novak. Hlavni 1, Praha.\n    1. Home, 5000\n", out.String())
}

func TestLoadConfigPrecedence(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("addr: \":7000\"\nper_page: 5\nlog_level: warn\n"), 0o644))
	t.Setenv("PER_PAGE", "8")

	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--log-level", "debug"}))

	cfg, err := loadConfig(cmd, file)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Addr)
	assert.Equal(t, 8, cfg.PerPage)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "./data/insurance.db", cfg.DBPath)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	clearEnv(t)

	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--per-page", "0"}))

	_, err := loadConfig(cmd, "")
	assert.Error(t, err)
}
