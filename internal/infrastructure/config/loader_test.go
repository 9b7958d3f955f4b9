package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/aegis-go/internal/domain"
)

func TestLoadSeedsDefaultsWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	loader := NewFileLoader(path)

	policy, err := loader.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "1", policy.PolicyFormatVersion)
	assert.Equal(t, domain.DefaultMinConfidence, policy.Extraction.MinConfidence)
	assert.Equal(t, domain.DefaultMaxPathLength, policy.Validation.MaxPathLength)
	assert.Equal(t, domain.DefaultMaxCommandLength, policy.Validation.MaxCommandLength)
	assert.Equal(t, 30, policy.Approval.TimeoutSeconds)
	assert.NotEmpty(t, policy.RateLimits)

	// The defaults were persisted so the next run sees a real file.
	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)
}

func TestLoadHydratesSparseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	sparse := "extraction:\n  min_confidence: 0.85\n"
	require.NoError(t, os.WriteFile(path, []byte(sparse), 0o600))

	policy, err := NewFileLoader(path).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0.85, policy.Extraction.MinConfidence)
	assert.Equal(t, domain.DefaultMaxPathLength, policy.Validation.MaxPathLength)
	assert.Equal(t, 30, policy.Approval.TimeoutSeconds)
	assert.Equal(t, "memory", policy.Audit.Backend)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0o600))

	_, err := NewFileLoader(path).Load(context.Background())
	assert.Error(t, err)
}

func TestLoadClampsOutOfRangeConfidence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("extraction:\n  min_confidence: 1.5\n"), 0o600))

	policy, err := NewFileLoader(path).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultMinConfidence, policy.Extraction.MinConfidence)
}

func TestLoadHonorsEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env-policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("approval:\n  timeout_seconds: 5\n"), 0o600))
	t.Setenv("AEGIS_POLICY", path)

	policy, err := NewFileLoader("").Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, policy.Approval.TimeoutSeconds)
}
