package main

import (
	"context"
	"testing"

	"github.com/outwell/callscope/internal/model"
	"github.com/outwell/callscope/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTenantTestStorage(t *testing.T) *storage.SQLiteStorage {
	t.Helper()
	store, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func TestLoadOrInitTenantConfigFresh(t *testing.T) {
	store := newTenantTestStorage(t)

	cfg, err := loadOrInitTenantConfig(context.Background(), store, "acme")
	require.NoError(t, err)
	assert.Equal(t, "acme", cfg.ClientID)
	assert.Empty(t, cfg.Name)
}

func TestLoadOrInitTenantConfigExisting(t *testing.T) {
	store := newTenantTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertTenantConfig(ctx, &model.TenantConfig{
		ClientID:       "acme",
		Name:           "Acme Corp",
		ScriptTemplate: "script body",
	}))

	cfg, err := loadOrInitTenantConfig(ctx, store, "acme")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", cfg.Name)
	assert.Equal(t, "script body", cfg.ScriptTemplate)
}

func TestLoadOrInitTenantConfigReadFailure(t *testing.T) {
	store := newTenantTestStorage(t)
	require.NoError(t, store.Close())

	cfg, err := loadOrInitTenantConfig(context.Background(), store, "acme")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.ErrorContains(t, err, "failed to read tenant config")
}
