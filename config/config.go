package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"

	"notemint/keys"
	"notemint/logx"
)

// LoadGenesisConfig reads and parses the genesis.yml file
func LoadGenesisConfig(path string) (*GenesisConfig, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var cfgFile ConfigFile
	if err := yaml.NewDecoder(file).Decode(&cfgFile); err != nil {
		return nil, err
	}
	logx.Info("CONFIG", "loaded genesis config from ", path)
	return &cfgFile.Config, nil
}

// GenesisPubkey decodes the configured master pubkey.
func (c *GenesisConfig) GenesisPubkey() (keys.MainPubkey, error) {
	if c.MasterPubkey == "" {
		return keys.MainPubkey{}, fmt.Errorf("genesis config: master_pubkey not set")
	}
	return keys.MainPubkeyFromHex(c.MasterPubkey)
}

// LoadMasterKey loads a master secret key from a file (expects hex encoding)
func LoadMasterKey(path string) (keys.MainSecretKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return keys.MainSecretKey{}, err
	}
	return keys.MainSecretKeyFromHex(strings.TrimSpace(string(data)))
}

// LoadSpentbookConfig reads spentbook settings from an .ini file
func LoadSpentbookConfig(path string) (*SpentbookConfig, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	section := cfg.Section("spentbook")
	sbCfg := &SpentbookConfig{}
	if err := section.MapTo(sbCfg); err != nil {
		return nil, err
	}
	return sbCfg, nil
}
