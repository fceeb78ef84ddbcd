package container

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"propostas_service/internal/infrastructure/config"
	"propostas_service/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() config.Config {
	return config.Config{
		StoreDriver:    config.StoreMemory,
		TransitionMode: usecase.TransitionModeAtomic,
		Notifier:       config.NotifierLog,
		SignatureStore: config.SignatureStoreInline,
		PublicBaseURL:  "http://localhost:8080",
	}
}

func TestBuild_MemoryWiresEveryUseCase(t *testing.T) {
	c, err := Build(context.Background(), memoryConfig())
	require.NoError(t, err)
	defer c.Close()

	assert.NotNil(t, c.Proposals)
	assert.NotNil(t, c.Lifecycle)
	assert.NotNil(t, c.Public)
	assert.NotNil(t, c.Audit)
	assert.NotNil(t, c.Reconciler)
	assert.NotNil(t, c.Metrics)
}

func TestBuild_CompensatingMode(t *testing.T) {
	cfg := memoryConfig()
	cfg.TransitionMode = usecase.TransitionModeCompensating
	c, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	assert.NoError(t, c.Close())
}

func TestBuild_Errors(t *testing.T) {
	cfg := memoryConfig()
	cfg.MaskingPolicyFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, err := Build(context.Background(), cfg)
	assert.Error(t, err)

	cfg = memoryConfig()
	cfg.StoreDriver = "cassandra"
	_, err = Build(context.Background(), cfg)
	assert.Error(t, err)

	cfg = memoryConfig()
	cfg.Notifier = "carrier-pigeon"
	_, err = Build(context.Background(), cfg)
	assert.Error(t, err)
}

func TestBuild_CustomPolicyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("roles:\n  client:\n    fields: [id]\n"), 0o600))

	cfg := memoryConfig()
	cfg.MaskingPolicyFile = path
	c, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, []string{"id"}, c.Policy.AllowList("client"))
}
