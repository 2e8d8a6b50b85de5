package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/dirk.krummacker/contact-manager/internal/config"
	"gitlab.com/dirk.krummacker/contact-manager/internal/session"
	"go.uber.org/zap"
)

func TestOpenSessionsMemory(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	options := &config.Options{SessionBackend: config.SessionMemory, SessionTTL: time.Hour}

	store, closeSessions, err := openSessions(ctx, options, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, closeSessions)
	defer closeSessions()
	assert.IsType(t, &session.MemoryStore{}, store)
}

func TestOpenSessionsRedisUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	options := &config.Options{SessionBackend: config.SessionRedis, RedisAddr: "127.0.0.1:1", SessionTTL: time.Hour}

	store, closeSessions, err := openSessions(ctx, options, zap.NewNop())
	assert.Error(t, err)
	assert.Nil(t, store)
	assert.Nil(t, closeSessions)
}

func TestOpenStorageFile(t *testing.T) {
	options := &config.Options{StorageBackend: config.BackendFile, DataDir: t.TempDir()}
	contacts, credentials, closeStorage, err := openStorage(options, zap.NewNop())
	require.NoError(t, err)
	defer closeStorage()
	assert.NotNil(t, contacts)
	assert.NotNil(t, credentials)
}
