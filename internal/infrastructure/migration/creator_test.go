package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/aidat/backend/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add dues index", "add_dues_index"},
		{"Add-Dues-Index", "add_dues_index"},
		{"ADD_DUES_INDEX", "add_dues_index"},
		{"add__dues__index", "add_dues_index"},
		{"Add Flats 2", "add_flats_2"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"gider türü", "gider_tr"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "migrations")
	now := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

	mf, err := createMigration(dir, "add payment notes", "Add a notes column to payments", now)
	require.NoError(t, err)

	assert.Equal(t, "20260304050607", mf.Version)
	assert.Equal(t, filepath.Join(dir, "20260304050607_add_payment_notes.up.sql"), mf.UpPath)
	assert.Equal(t, filepath.Join(dir, "20260304050607_add_payment_notes.down.sql"), mf.DownPath)

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- Add a notes column to payments")
	assert.Contains(t, string(up), "2026-03-04T05:06:07Z")

	down, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(down), "-- Rollback: Add a notes column to payments"))

	t.Run("same second collides", func(t *testing.T) {
		_, err := createMigration(dir, "add payment notes", "", now)
		assert.Error(t, err)
	})

	t.Run("unusable name", func(t *testing.T) {
		_, err := createMigration(dir, "!!!", "", now)
		assert.Error(t, err)
	})
}

func TestListMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"20260102000000_b.up.sql":   {},
		"20260102000000_b.down.sql": {},
		"20260101000000_a.up.sql":   {},
		"20260101000000_a.down.sql": {},
		"embed.go":                  {},
	}
	got, err := ListMigrations(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"20260101000000_a", "20260102000000_b"}, got)
}

func TestPendingCount(t *testing.T) {
	fsys := fstest.MapFS{
		"20260101000001_a.up.sql": {},
		"20260101000002_b.up.sql": {},
		"20260101000003_c.up.sql": {},
	}

	tests := []struct {
		version uint
		want    int
	}{
		{0, 3},
		{20260101000001, 2},
		{20260101000003, 0},
	}
	for _, tt := range tests {
		n, err := PendingCount(fsys, tt.version)
		require.NoError(t, err)
		assert.Equal(t, tt.want, n)
	}

	_, err := PendingCount(fstest.MapFS{"nover.up.sql": {}}, 0)
	assert.Error(t, err)
}

// Every embedded migration must come as a pair and cover every table
func TestEmbeddedMigrations(t *testing.T) {
	names, err := ListMigrations(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, names)

	var all strings.Builder
	for _, n := range names {
		_, err := parseVersion(n)
		require.NoError(t, err)

		up, err := migrations.FS.ReadFile(n + ".up.sql")
		require.NoError(t, err)
		_, err = migrations.FS.ReadFile(n + ".down.sql")
		require.NoError(t, err, "missing down migration for %s", n)
		all.Write(up)
	}

	for _, table := range []string{
		"apartments", "blocks", "flats", "residents", "dues", "payments",
		"expenses", "incomes", "audit_logs", "notifications", "admin_users",
	} {
		assert.Contains(t, all.String(), "CREATE TABLE IF NOT EXISTS "+table+" (", table)
	}
}
