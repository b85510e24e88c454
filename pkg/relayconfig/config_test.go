package relayconfig_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/relaychess/relaychess/pkg/relayconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	s, err := relayconfig.Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, relayconfig.Default(), s)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relay.toml")
	content := `
[Listen]
Host = "127.0.0.1"
Port = 9000

[AppService]
BaseURL = "http://app.internal/graphql"
RetryAttempts = 5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s, err := relayconfig.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", s.Listen.Addr())
	assert.Equal(t, "http://app.internal/graphql", s.AppService.BaseURL)
	assert.Equal(t, 5, s.AppService.RetryAttempts)
}
