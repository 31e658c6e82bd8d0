package main

import (
	"errors"
	"fmt"
	"math/big"
	"os"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/encoding/fixedn"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"gopkg.in/yaml.v3"
)

// gasPrecision is a number of decimals of the native GAS token.
const gasPrecision = 8

const defaultTimeout = 15 * time.Second

// passwordEnv is an environment variable holding the wallet password. It
// takes precedence over the configuration file.
const passwordEnv = "LEDGER_WALLET_PASSWORD"

// config is a ledgerctl configuration. It is read from the YAML file and
// then overridden by the command line flags.
type config struct {
	RPC      string        `yaml:"rpc"`
	Wallet   string        `yaml:"wallet"`
	Address  string        `yaml:"address"`
	Password string        `yaml:"password"`
	Contract string        `yaml:"contract"`
	Timeout  time.Duration `yaml:"timeout"`
	Debug    bool          `yaml:"debug"`
}

// flagSource provides values of the global command line flags.
type flagSource interface {
	IsSet(name string) bool
	String(name string) string
	Duration(name string) time.Duration
	Bool(name string) bool
}

const (
	configFlag   = "config"
	rpcFlag      = "rpc"
	walletFlag   = "wallet"
	addressFlag  = "address"
	contractFlag = "contract"
	timeoutFlag  = "timeout"
	debugFlag    = "debug"
)

func defaultConfig() config {
	return config{Timeout: defaultTimeout}
}

// loadConfig reads configuration from the YAML file. Empty path means
// defaults only.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file: %w", err)
	}

	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("decode config file %s: %w", path, err)
	}

	return cfg, nil
}

// mergeFlags overrides configuration values with explicitly set flags and
// the password environment variable.
func mergeFlags(cfg *config, fs flagSource) {
	if fs.IsSet(rpcFlag) {
		cfg.RPC = fs.String(rpcFlag)
	}
	if fs.IsSet(walletFlag) {
		cfg.Wallet = fs.String(walletFlag)
	}
	if fs.IsSet(addressFlag) {
		cfg.Address = fs.String(addressFlag)
	}
	if fs.IsSet(contractFlag) {
		cfg.Contract = fs.String(contractFlag)
	}
	if fs.IsSet(timeoutFlag) {
		cfg.Timeout = fs.Duration(timeoutFlag)
	}
	if fs.IsSet(debugFlag) {
		cfg.Debug = fs.Bool(debugFlag)
	}
	if pass, ok := os.LookupEnv(passwordEnv); ok {
		cfg.Password = pass
	}
}

func (c config) validate() error {
	if c.RPC == "" {
		return errors.New("missing Neo RPC endpoint")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("non-positive timeout %s", c.Timeout)
	}
	return nil
}

// contractHash returns Ledger contract address from the configuration. Both
// Neo address and hex-encoded LE script hash are accepted.
func (c config) contractHash() (util.Uint160, error) {
	if c.Contract == "" {
		return util.Uint160{}, errors.New("missing Ledger contract address")
	}

	if h, err := util.Uint160DecodeStringLE(c.Contract); err == nil {
		return h, nil
	}

	h, err := address.StringToUint160(c.Contract)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("invalid contract address %q: %w", c.Contract, err)
	}

	return h, nil
}

// parseGAS parses decimal GAS amount into fractional units.
func parseGAS(s string) (*big.Int, error) {
	v, err := fixedn.FromString(s, gasPrecision)
	if err != nil {
		return nil, fmt.Errorf("invalid GAS amount %q: %w", s, err)
	}
	if v.Sign() < 0 {
		return nil, fmt.Errorf("negative GAS amount %q", s)
	}
	return v, nil
}

func formatGAS(v *big.Int) string {
	return fixedn.ToString(v, gasPrecision)
}
