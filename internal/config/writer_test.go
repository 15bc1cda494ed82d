package config

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigWriter_RoundTrip(t *testing.T) {
	home := t.TempDir()
	w := NewConfigWriter(home)
	assert.False(t, w.Exists())

	rpc := "https://rpc.example"
	gas := "60"
	limit := uint64(7_000_000)
	noColor := true
	require.NoError(t, w.Write(&FileConfig{
		RPCURL:       &rpc,
		GasPriceGwei: &gas,
		GasLimit:     &limit,
		NoColor:      &noColor,
	}))
	assert.True(t, w.Exists())

	data, err := os.ReadFile(w.Path())
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, `rpc_url = "https://rpc.example"`)
	assert.Contains(t, text, `# chain_id = 10143`)
	assert.Contains(t, text, `# confirm_timeout = "2m0s"`)
	assert.False(t, strings.Contains(text, "PRIVATE_KEY ="))

	loaded, _, err := NewConfigLoader(home, w.Path(), nil).LoadFileConfig()
	require.NoError(t, err)
	require.NotNil(t, loaded.RPCURL)
	assert.Equal(t, rpc, *loaded.RPCURL)
	assert.Equal(t, limit, *loaded.GasLimit)
	assert.True(t, *loaded.NoColor)
	assert.Nil(t, loaded.ChainID)
}

func TestConfigWriter_DefaultsOnly(t *testing.T) {
	home := t.TempDir()
	w := NewConfigWriter(home)
	require.NoError(t, w.Write(nil))

	loaded, _, err := NewConfigLoader(home, "", nil).LoadFileConfig()
	require.NoError(t, err)
	assert.True(t, loaded.IsEmpty())
}
