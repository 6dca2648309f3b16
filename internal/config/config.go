package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/viper"
)

const (
	defaultProgramID  = "CPMMoo8L3F4NbTegBCKVNunggL7H1ZpdTHKxQB5qKP1C"
	defaultFeeAccount = "DNXgeM9EiiaAbaWvwjHj9fQQLAX5ZsfHyvmYUNRAdNC8"
	defaultPoolOwner  = "GpMZbSM2GgvTKHJirzeGfMFoaZ8UR2X7F4v8vHTvxFbL"
	defaultNativeMint = "So11111111111111111111111111111111111111112"

	// Size of the CPMM AmmConfig account.
	defaultAmmConfigDataSize = 236
)

type Config struct {
	RPC      RPCConfig
	Log      LogConfig
	Protocol Protocol
}

type RPCConfig struct {
	HTTPURL string
	WsURL   string
}

type LogConfig struct {
	Level       string
	FailureFile string
}

// Protocol holds the on-chain constants of one deployment. It is built once
// at startup and never mutated.
type Protocol struct {
	ProgramID  solana.PublicKey
	FeeAccount solana.PublicKey
	PoolOwner  solana.PublicKey
	NativeMint solana.PublicKey
	// AmmConfig is zero when it should be discovered on-chain.
	AmmConfig         solana.PublicKey
	AmmConfigDataSize uint64
	PoolSeed          []byte
	VaultSeed         []byte
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("config_file", ".env")
	v.AutomaticEnv()

	return load(v, v.GetString("config_file"))
}

func load(v *viper.Viper, envFile string) (*Config, error) {
	v.SetDefault("log_level", "info")
	v.SetDefault("error_log_file", "errorNewLpsLogs.txt")
	v.SetDefault("program_id", defaultProgramID)
	v.SetDefault("fee_account", defaultFeeAccount)
	v.SetDefault("pool_owner", defaultPoolOwner)
	v.SetDefault("native_mint", defaultNativeMint)
	v.SetDefault("amm_config", "")
	v.SetDefault("amm_config_data_size", defaultAmmConfigDataSize)
	v.SetDefault("pool_seed", "pool")
	v.SetDefault("vault_seed", "pool_vault")
	v.AutomaticEnv()

	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file %s: %w", envFile, err)
		}
	}

	rpcURL := v.GetString("rpc_url")
	if rpcURL == "" {
		return nil, fmt.Errorf("RPC_URL is not set")
	}

	wsURL := v.GetString("ws_url")
	if wsURL == "" {
		wsURL = toWebsocketURL(rpcURL)
	}

	protocol, err := loadProtocol(v)
	if err != nil {
		return nil, err
	}

	return &Config{
		RPC: RPCConfig{
			HTTPURL: rpcURL,
			WsURL:   wsURL,
		},
		Log: LogConfig{
			Level:       v.GetString("log_level"),
			FailureFile: v.GetString("error_log_file"),
		},
		Protocol: protocol,
	}, nil
}

func loadProtocol(v *viper.Viper) (Protocol, error) {
	p := Protocol{
		AmmConfigDataSize: v.GetUint64("amm_config_data_size"),
		PoolSeed:          []byte(v.GetString("pool_seed")),
		VaultSeed:         []byte(v.GetString("vault_seed")),
	}

	keys := []struct {
		key string
		dst *solana.PublicKey
	}{
		{"program_id", &p.ProgramID},
		{"fee_account", &p.FeeAccount},
		{"pool_owner", &p.PoolOwner},
		{"native_mint", &p.NativeMint},
	}
	for _, k := range keys {
		pk, err := solana.PublicKeyFromBase58(v.GetString(k.key))
		if err != nil {
			return Protocol{}, fmt.Errorf("invalid %s: %w", strings.ToUpper(k.key), err)
		}
		*k.dst = pk
	}

	if raw := v.GetString("amm_config"); raw != "" {
		pk, err := solana.PublicKeyFromBase58(raw)
		if err != nil {
			return Protocol{}, fmt.Errorf("invalid AMM_CONFIG: %w", err)
		}
		p.AmmConfig = pk
	}

	if len(p.PoolSeed) == 0 || len(p.VaultSeed) == 0 {
		return Protocol{}, fmt.Errorf("derivation seeds must not be empty")
	}

	return p, nil
}

func toWebsocketURL(httpURL string) string {
	switch {
	case strings.HasPrefix(httpURL, "https://"):
		return "wss://" + strings.TrimPrefix(httpURL, "https://")
	case strings.HasPrefix(httpURL, "http://"):
		return "ws://" + strings.TrimPrefix(httpURL, "http://")
	default:
		return httpURL
	}
}
