package domain

import "math/big"

// Store backends.
const (
	BackendSQLite = "sqlite"
	BackendFiles  = "files"
)

// Default endpoints.
const (
	DefaultRPCURL          = "https://rpc.mainnet.near.org"
	DefaultContract        = "social.near"
	DefaultWalletBridgeURL = "ws://127.0.0.1:8787/sign"
	DefaultTokenEnv        = "SCRIBE_SESSION_TOKEN"
)

// Config is the resolved scribe configuration.
type Config struct {
	RPCURL    string
	Contract  string
	WalletURL string

	TokenEnv  string
	TokenFile string

	StoreBackend string
	StateDir     string

	CostPerByte         *big.Int
	ExtraStorageOptions []int64

	MetricsAddr string
	JSONLogs    bool
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		RPCURL:              DefaultRPCURL,
		Contract:            DefaultContract,
		WalletURL:           DefaultWalletBridgeURL,
		TokenEnv:            DefaultTokenEnv,
		StoreBackend:        BackendSQLite,
		StateDir:            DefaultScribePath(),
		CostPerByte:         DefaultCostPerByte(),
		ExtraStorageOptions: DefaultExtraStorageOptions(),
	}
}
