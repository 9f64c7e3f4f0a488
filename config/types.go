package config

// GenesisConfig identifies the master key the initial supply is issued
// to.
type GenesisConfig struct {
	MasterPubkey  string `yaml:"master_pubkey"`   // hex, compressed G1
	MasterKeyPath string `yaml:"master_key_path"` // optional path to a hex secret key file
}

// SpentbookConfig selects and parameterizes a spentbook backend.
type SpentbookConfig struct {
	Backend     string `ini:"backend"`
	Directory   string `ini:"directory"`
	PostgresDSN string `ini:"postgres_dsn"`
}

// ConfigFile is the top-level structure for genesis.yml
type ConfigFile struct {
	Config GenesisConfig `yaml:"config"`
}
