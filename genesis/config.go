// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"fmt"
	"math/big"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/ldstaking/ldstake/builtin/staking"
	"github.com/ldstaking/ldstake/ld"
)

// Config describes the initial deployment of the ledger contracts.
type Config struct {
	// zero means the runtime clock
	LaunchTime uint64        `yaml:"launchTime"`
	Owner      Address       `yaml:"owner"`
	Token      TokenConfig   `yaml:"token"`
	Mints      []Mint        `yaml:"mints"`
	Staking    StakingConfig `yaml:"staking"`
	Pool       PoolConfig    `yaml:"pool"`
}

type TokenConfig struct {
	Name   string `yaml:"name"`
	Symbol string `yaml:"symbol"`
}

// Mint credits an account at deployment.
type Mint struct {
	Address Address `yaml:"address"`
	Amount  *Amount `yaml:"amount"`
}

type StakingConfig struct {
	Apr           uint64  `yaml:"apr"`
	UnstakePolicy string  `yaml:"unstakePolicy"`
	Treasury      Address `yaml:"treasury"`
	SetPool       bool    `yaml:"setPool"`
	Enable        bool    `yaml:"enable"`
}

type PoolConfig struct {
	// taken from the owner balance, so the owner must be minted at least this much
	Funding *Amount `yaml:"funding"`
}

// Address accepts a hex address. It never goes through yaml int resolution.
type Address ld.Address

func (a *Address) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return errors.Errorf("line %d: address must be a scalar", value.Line)
	}
	addr, err := ld.ParseAddress(value.Value)
	if err != nil {
		return errors.Wrapf(err, "line %d", value.Line)
	}
	*a = Address(addr)
	return nil
}

func (a Address) MarshalYAML() (any, error) {
	return ld.Address(a).String(), nil
}

// Amount accepts base units or whole tokens with an "ld" suffix.
type Amount big.Int

func (a *Amount) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return errors.Errorf("line %d: amount must be a scalar", value.Line)
	}
	v, err := ld.ParseAmount(value.Value)
	if err != nil {
		return errors.Wrapf(err, "line %d", value.Line)
	}
	*a = Amount(*v)
	return nil
}

func (a *Amount) MarshalYAML() (any, error) {
	return a.Int().String(), nil
}

// Int returns the amount, zero for nil.
func (a *Amount) Int() *big.Int {
	if a == nil {
		return new(big.Int)
	}
	return new(big.Int).Set((*big.Int)(a))
}

// LoadConfig reads a deployment config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	return ParseConfig(data)
}

// ParseConfig decodes and validates a yaml deployment config.
// Missing token name and symbol fall back to the defaults.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if cfg.Token.Name == "" {
		cfg.Token.Name = ld.DefaultTokenName
	}
	if cfg.Token.Symbol == "" {
		cfg.Token.Symbol = ld.DefaultTokenSymbol
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the config without touching any state.
func (c *Config) Validate() error {
	if ld.Address(c.Owner).IsZero() {
		return errors.New("owner must be set")
	}
	if c.Staking.Apr < ld.MinAprRate {
		return fmt.Errorf("apr must be at least %d, got %d", ld.MinAprRate, c.Staking.Apr)
	}
	if _, err := staking.ParseUnstakePolicy(c.Staking.UnstakePolicy); err != nil {
		return err
	}

	minted := make(map[ld.Address]*big.Int)
	for i, m := range c.Mints {
		if ld.Address(m.Address).IsZero() {
			return fmt.Errorf("mints[%d]: address must be set", i)
		}
		amount := m.Amount.Int()
		if amount.Sign() <= 0 {
			return fmt.Errorf("mints[%d]: amount must be a non-zero integer", i)
		}
		addr := ld.Address(m.Address)
		if minted[addr] == nil {
			minted[addr] = new(big.Int)
		}
		minted[addr].Add(minted[addr], amount)
	}

	if funding := c.Pool.Funding.Int(); funding.Sign() > 0 {
		have := minted[ld.Address(c.Owner)]
		if have == nil || have.Cmp(funding) < 0 {
			return errors.New("pool funding exceeds the owner's minted balance")
		}
	}
	if c.Staking.Enable && !c.Staking.SetPool {
		return errors.New("enabling staking requires setPool")
	}
	return nil
}

// Encode renders the config as yaml.
func (c *Config) Encode() ([]byte, error) {
	return yaml.Marshal(c)
}
