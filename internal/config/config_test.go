package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("RPC_URL", "https://api.mainnet-beta.solana.com")

	cfg, err := load(viper.New(), filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "https://api.mainnet-beta.solana.com", cfg.RPC.HTTPURL)
	assert.Equal(t, "wss://api.mainnet-beta.solana.com", cfg.RPC.WsURL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "errorNewLpsLogs.txt", cfg.Log.FailureFile)

	assert.Equal(t, defaultProgramID, cfg.Protocol.ProgramID.String())
	assert.Equal(t, defaultFeeAccount, cfg.Protocol.FeeAccount.String())
	assert.Equal(t, defaultPoolOwner, cfg.Protocol.PoolOwner.String())
	assert.Equal(t, defaultNativeMint, cfg.Protocol.NativeMint.String())
	assert.True(t, cfg.Protocol.AmmConfig.IsZero())
	assert.Equal(t, uint64(236), cfg.Protocol.AmmConfigDataSize)
	assert.Equal(t, []byte("pool"), cfg.Protocol.PoolSeed)
	assert.Equal(t, []byte("pool_vault"), cfg.Protocol.VaultSeed)
}

func TestLoadFromEnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	content := "RPC_URL=http://localhost:8899\n" +
		"WS_URL=ws://localhost:8900\n" +
		"LOG_LEVEL=debug\n" +
		"AMM_CONFIG=D4FPEruKEHrG5TenZ2mpDGEfu1iUvTiqBxvpU8HLBvC2\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))

	cfg, err := load(viper.New(), envFile)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8899", cfg.RPC.HTTPURL)
	assert.Equal(t, "ws://localhost:8900", cfg.RPC.WsURL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "D4FPEruKEHrG5TenZ2mpDGEfu1iUvTiqBxvpU8HLBvC2", cfg.Protocol.AmmConfig.String())
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "missing rpc url",
			env:  map[string]string{},
		},
		{
			name: "invalid program id",
			env:  map[string]string{"RPC_URL": "http://localhost:8899", "PROGRAM_ID": "not-a-key"},
		},
		{
			name: "invalid amm config",
			env:  map[string]string{"RPC_URL": "http://localhost:8899", "AMM_CONFIG": "0OIl"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("RPC_URL", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := load(viper.New(), "")
			assert.Error(t, err)
		})
	}
}

func TestToWebsocketURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"https://rpc.example.com", "wss://rpc.example.com"},
		{"http://127.0.0.1:8899", "ws://127.0.0.1:8899"},
		{"wss://already.example.com", "wss://already.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, toWebsocketURL(tt.input))
		})
	}
}
