package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnv_ReadsDotEnvFiles(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, ".env")
	second := filepath.Join(dir, ".env.local")
	writeFile(t, first, "PRIVATE_KEY=0xabc\nRPC_URL=https://first.example\n")
	writeFile(t, second, "RPC_URL=https://second.example\nCONTRACT_ADDRESS=0x01\n")

	env, err := LoadEnv(first, second, filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	env.lookup = func(string) (string, bool) { return "", false }

	v, source, ok := env.Get(EnvRPCURL)
	require.True(t, ok)
	assert.Equal(t, "https://first.example", v)
	assert.Equal(t, SourceDotEnv, source)
	assert.Equal(t, "0x01", env.Value(EnvContractAddress))
	assert.Equal(t, "", env.Value(EnvPublicPinataJWT))
}

func TestEnv_ProcessEnvironmentWins(t *testing.T) {
	t.Setenv(EnvPublicDIDToken, "from-process")

	env, err := LoadEnv()
	require.NoError(t, err)
	env.dotenv[EnvPublicDIDToken] = "from-file"

	v, source, ok := env.Get(EnvPublicDIDToken)
	require.True(t, ok)
	assert.Equal(t, "from-process", v)
	assert.Equal(t, SourceEnvironment, source)
}

func TestEnv_Nil(t *testing.T) {
	var env *Env
	_, _, ok := env.Get(EnvRPCURL)
	assert.False(t, ok)
}
