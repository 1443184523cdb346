// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis deploys the ledger contracts from a config.
package genesis

import (
	"context"

	"github.com/pkg/errors"

	"github.com/ldstaking/ldstake/builtin"
	"github.com/ldstaking/ldstake/builtin/staking"
	"github.com/ldstaking/ldstake/ld"
	"github.com/ldstaking/ldstake/log"
	"github.com/ldstaking/ldstake/runtime"
	"github.com/ldstaking/ldstake/tx"
	"github.com/ldstaking/ldstake/xenv"
)

// ErrAlreadyDeployed is returned when the contracts are already initialized.
var ErrAlreadyDeployed = errors.New("contracts already deployed")

var logger = log.WithContext("pkg", "genesis")

// IsDeployed reports whether the ledger has been initialized in rt.
func IsDeployed(rt *runtime.Runtime) (bool, error) {
	var deployed bool
	err := rt.View(func(env *xenv.Environment) error {
		owner, err := builtin.Staking.WithState(env.State()).Owner()
		if err != nil {
			return err
		}
		deployed = !owner.IsZero()
		return nil
	})
	return deployed, err
}

// Deploy initializes token, pool and ledger in a single call made by the owner.
func Deploy(ctx context.Context, rt *runtime.Runtime, cfg *Config) (*tx.Receipt, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	deployed, err := IsDeployed(rt)
	if err != nil {
		return nil, err
	}
	if deployed {
		return nil, ErrAlreadyDeployed
	}
	policy, err := staking.ParseUnstakePolicy(cfg.Staking.UnstakePolicy)
	if err != nil {
		return nil, err
	}

	owner := ld.Address(cfg.Owner)
	txCtx := &xenv.TransactionContext{
		Caller: owner,
		Time:   cfg.LaunchTime,
		Method: "deploy",
	}
	receipt, err := rt.Execute(ctx, txCtx, func(env *xenv.Environment) error {
		token := builtin.Token.Native(env)
		if err := token.Initialize(owner, cfg.Token.Name, cfg.Token.Symbol); err != nil {
			return err
		}
		for _, m := range cfg.Mints {
			if err := token.Mint(owner, ld.Address(m.Address), m.Amount.Int()); err != nil {
				return err
			}
		}

		pool := builtin.RewardPool.Native(env)
		if err := pool.Initialize(owner, builtin.Staking.Address, builtin.Token.Address); err != nil {
			return err
		}

		ledger := builtin.Staking.Native(env)
		if err := ledger.Initialize(owner, cfg.Staking.Apr, builtin.Token.Address, policy); err != nil {
			return err
		}
		if treasury := ld.Address(cfg.Staking.Treasury); !treasury.IsZero() {
			if err := ledger.ChangeTreasuryAddress(owner, treasury); err != nil {
				return err
			}
		}
		if cfg.Staking.SetPool {
			if err := ledger.SetPool(owner, builtin.RewardPool.Address); err != nil {
				return err
			}
		}

		if funding := cfg.Pool.Funding.Int(); funding.Sign() > 0 {
			if err := token.Approve(owner, builtin.RewardPool.Address, funding); err != nil {
				return err
			}
			if err := pool.FundPool(owner, funding); err != nil {
				return err
			}
		}
		if cfg.Staking.Enable {
			return ledger.EnableStaking(owner)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "deploy")
	}
	logger.Info("contracts deployed",
		"owner", owner,
		"token", builtin.Token.Address,
		"pool", builtin.RewardPool.Address,
		"staking", builtin.Staking.Address,
		"events", len(receipt.Events),
	)
	return receipt, nil
}
