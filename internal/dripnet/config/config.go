package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dripnet/internal/dripnet/types"
)

const DefaultRpcPort = int(1337)

const configFilePath = "config.json"

// FaucetConfig holds the claim constants, fixed for the faucet lifetime.
// Amounts are whole tokens, cooldown is seconds.
type FaucetConfig struct {
	AMOUNT    float64
	COOLDOWN  int64
	MAX_CLAIM float64
}

// TokenConfig describes the issued test token.
type TokenConfig struct {
	NAME       string
	SYMBOL     string
	DECIMALS   uint8
	MAX_SUPPLY float64
}

type LedgerConfig struct {
	MEM  bool
	PATH string
}

type NetworkConfig struct {
	RPC  int
	ADDR types.Address // address of running node, initial faucet admin
	PRIV string        // private key of current running node
	PUB  []byte        // public key of current running node
}

type HttpSecConfig struct {
	TLS bool
}
type Sec struct {
	HTTP HttpSecConfig
}

type LogConfig struct {
	PATH    string
	LEVEL   string
	CONSOLE bool
}

// main configuration struct
type Config struct {
	Faucet  FaucetConfig
	Token   TokenConfig
	Ledger  LedgerConfig
	NetCfg  NetworkConfig
	SEC     Sec
	LOG     LogConfig
	VERSION string
	VER     int
	IN_MEM  bool
}

func GenerateConfig() *Config {
	cfg := &Config{}
	if _, err := os.Stat(configFilePath); os.IsNotExist(err) {
		cfg = DefaultConfig()
		cfg.WriteConfigToFile()
	} else {
		cfg, err = ReadConfig(configFilePath)
		if err != nil {
			panic(err)
		}
	}
	return cfg
}

// DefaultConfig returns the stock faucet parameters: 10 tokens per claim,
// 24h cooldown, 50 token lifetime cap, 1M token supply ceiling.
func DefaultConfig() *Config {
	return &Config{
		Faucet: FaucetConfig{
			AMOUNT:    10,
			COOLDOWN:  86400,
			MAX_CLAIM: 50,
		},
		Token: TokenConfig{
			NAME:       "SepoliaTestToken",
			SYMBOL:     "STT",
			DECIMALS:   types.TokenDecimals,
			MAX_SUPPLY: 1000000,
		},
		Ledger: LedgerConfig{
			MEM:  true,
			PATH: "EMPTY",
		},
		SEC: Sec{
			HTTP: HttpSecConfig{
				TLS: false,
			},
		},
		LOG: LogConfig{
			LEVEL:   "info",
			CONSOLE: true,
		},
		VERSION: "ALPHA",
		VER:     1,
		IN_MEM:  true,
	}
}

func (cfg *Config) SetPorts(rpc int) {
	if rpc == -1 || rpc == 0 {
		cfg.NetCfg.RPC = DefaultRpcPort
	} else {
		cfg.NetCfg.RPC = rpc
	}
	cfg.WriteConfigToFile()
}

// SetNodeKey loads the node key from a pem file, generating a fresh one
// when the file does not exist. The derived address becomes the initial
// faucet admin identity.
func (cfg *Config) SetNodeKey(pemFilePath string) {
	if pemFilePath == "" {
		pemFilePath = "dripnet.nodekey.pem"
	}
	var ppk string
	if data, err := os.ReadFile(pemFilePath); err == nil {
		ppk = string(data)
		nodeK, err := types.DecodePrivKey(ppk)
		if err != nil {
			panic(err)
		}
		cfg.NetCfg.ADDR = types.PrivKeyToAddress(nodeK)
		cfg.NetCfg.PUB = types.EncodePublicKeyToByte(nodeK.PublicKey())
	} else {
		nodeK, err := types.GenerateAccount()
		if err != nil {
			panic(err)
		}
		ppk = types.EncodePrivateKeyToString(nodeK)
		if err := os.WriteFile(pemFilePath, []byte(ppk), 0600); err != nil {
			panic(err)
		}
		cfg.NetCfg.ADDR = types.PrivKeyToAddress(nodeK)
		cfg.NetCfg.PUB = types.EncodePublicKeyToByte(nodeK.PublicKey())
	}
	cfg.NetCfg.PRIV = ppk

	cfg.WriteConfigToFile()
}

func (cfg *Config) CheckVersion(version string, ver int) bool {
	return (cfg.VER == ver) && (cfg.VERSION == version)
}

func (cfg *Config) GetVersion() string {
	return fmt.Sprintf("%s-%d_VERSION", cfg.VERSION, cfg.VER)
}

func (cfg *Config) UpdateLedgerPath(newPath string) {
	cfg.Ledger.PATH = newPath
	cfg.WriteConfigToFile()
}

func (cfg *Config) SetInMem(p bool) {
	cfg.IN_MEM = p
	cfg.Ledger.MEM = p
	cfg.WriteConfigToFile()
}

func (cfg *Config) WriteConfigToFile() error {
	fileData, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		panic(err)
	}
	err = os.WriteFile(configFilePath, fileData, 0644)
	if err != nil {
		panic(err)
	}
	return nil
}

func ReadConfig(filePath string) (*Config, error) {
	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config from file: %v", err)
	}
	var cfg Config
	err = json.Unmarshal(fileData, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %v", err)
	}
	return &cfg, nil
}
