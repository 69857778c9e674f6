package config

// Scribefile is the structure of scribe.yaml.
type Scribefile struct {
	Network  NetworkDTO  `yaml:"network"`
	Wallet   WalletDTO   `yaml:"wallet"`
	Identity IdentityDTO `yaml:"identity"`
	Store    StoreDTO    `yaml:"store"`
	Deposit  DepositDTO  `yaml:"deposit"`
	Metrics  MetricsDTO  `yaml:"metrics"`
	Log      LogDTO      `yaml:"log"`
}

// NetworkDTO selects the remote registry.
type NetworkDTO struct {
	RPC      string `yaml:"rpc"`
	Contract string `yaml:"contract"`
}

// WalletDTO points at the signing bridge.
type WalletDTO struct {
	Bridge string `yaml:"bridge"`
}

// IdentityDTO tells where the session token is found.
type IdentityDTO struct {
	TokenEnv  string `yaml:"tokenEnv"`
	TokenFile string `yaml:"tokenFile"`
}

// StoreDTO configures local draft persistence.
type StoreDTO struct {
	Backend string `yaml:"backend"`
	Dir     string `yaml:"dir"`
}

// DepositDTO configures storage pricing.
type DepositDTO struct {
	CostPerByte  string  `yaml:"costPerByte"`
	ExtraStorage []int64 `yaml:"extraStorage"`
}

// MetricsDTO configures the Prometheus endpoint.
type MetricsDTO struct {
	Addr string `yaml:"addr"`
}

// LogDTO configures log output.
type LogDTO struct {
	JSON bool `yaml:"json"`
}
