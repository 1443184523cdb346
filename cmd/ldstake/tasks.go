// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"math/big"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/ldstaking/ldstake/api/utils"
	"github.com/ldstaking/ldstake/builtin"
	"github.com/ldstaking/ldstake/builtin/staking"
	"github.com/ldstaking/ldstake/genesis"
	"github.com/ldstaking/ldstake/ld"
	"github.com/ldstaking/ldstake/xenv"
)

func initAction(ctx *cli.Context) error {
	cfg := genesis.NewDevnet()
	if path := ctx.String(configFlag.Name); path != "" {
		var err error
		if cfg, err = genesis.LoadConfig(path); err != nil {
			return err
		}
	}
	inst, err := openInstance(ctx)
	if err != nil {
		return err
	}
	defer inst.Close()

	receipt, err := genesis.Deploy(context.Background(), inst.rt, cfg)
	if err != nil {
		return err
	}
	return printReceipt(ctx, receipt)
}

// toggle reads a flag of the ledger and skips the call when it already has the wanted value.
func toggle(ctx *cli.Context, read func(ledger *staking.Staking) (bool, error), want bool, skipMsg, method string, op func(ledger *staking.Staking, caller ld.Address) error) error {
	var current bool
	if err := view(ctx, func(env *xenv.Environment) (err error) {
		current, err = read(builtin.Staking.WithState(env.State()))
		return err
	}); err != nil {
		return err
	}
	if current == want {
		fmt.Fprintln(ctx.App.Writer, skipMsg)
		return nil
	}
	return submit(ctx, method, func(env *xenv.Environment) (any, error) {
		return nil, op(builtin.Staking.Native(env), env.Caller())
	})
}

func enableStakingAction(ctx *cli.Context) error {
	// lock false means open
	return toggle(ctx, (*staking.Staking).Lock, false, "staking is already open", "enableStaking", (*staking.Staking).EnableStaking)
}

func disableStakingAction(ctx *cli.Context) error {
	return toggle(ctx, (*staking.Staking).Lock, true, "staking is already closed", "disableStaking", (*staking.Staking).DisableStaking)
}

func disableClaimsAction(ctx *cli.Context) error {
	return toggle(ctx, (*staking.Staking).ClaimClosed, true, "claims are already closed", "disableRewardClaims", (*staking.Staking).DisableRewardClaims)
}

func enableClaimsAction(ctx *cli.Context) error {
	return toggle(ctx, (*staking.Staking).ClaimClosed, false, "claims are already open", "enableRewardClaims", (*staking.Staking).EnableRewardClaims)
}

func changeAprAction(ctx *cli.Context) error {
	if err := requireArgs(ctx, 1); err != nil {
		return err
	}
	apr, err := uintArg(ctx, 0)
	if err != nil {
		return err
	}
	return submit(ctx, "changeApr", func(env *xenv.Environment) (any, error) {
		return nil, builtin.Staking.Native(env).ChangeApr(env.Caller(), apr)
	})
}

func setPoolAction(ctx *cli.Context) error {
	if err := requireArgs(ctx, 1); err != nil {
		return err
	}
	pool, err := addressArg(ctx, 0)
	if err != nil {
		return err
	}
	return submit(ctx, "setPool", func(env *xenv.Environment) (any, error) {
		return nil, builtin.Staking.Native(env).SetPool(env.Caller(), pool)
	})
}

func changeTreasuryAction(ctx *cli.Context) error {
	if err := requireArgs(ctx, 1); err != nil {
		return err
	}
	treasury, err := addressArg(ctx, 0)
	if err != nil {
		return err
	}
	if treasury.IsZero() {
		return errors.New("invalid treasury address: zero address")
	}
	return submit(ctx, "changeTreasuryAddress", func(env *xenv.Environment) (any, error) {
		return nil, builtin.Staking.Native(env).ChangeTreasuryAddress(env.Caller(), treasury)
	})
}

// fundPoolAction approves the pool and funds it in one call.
func fundPoolAction(ctx *cli.Context) error {
	if err := requireArgs(ctx, 1); err != nil {
		return err
	}
	amount, err := amountArg(ctx, 0)
	if err != nil {
		return err
	}
	if amount.Sign() <= 0 {
		return errors.New("amount must be greater than zero")
	}
	return submit(ctx, "fundPool", func(env *xenv.Environment) (any, error) {
		if err := builtin.Token.Native(env).Approve(env.Caller(), builtin.RewardPool.Address, amount); err != nil {
			return nil, err
		}
		return nil, builtin.RewardPool.Native(env).FundPool(env.Caller(), amount)
	})
}

func withdrawPoolAction(ctx *cli.Context) error {
	return submit(ctx, "withdrawRemainingTokens", func(env *xenv.Environment) (any, error) {
		return nil, builtin.RewardPool.Native(env).WithdrawRemainingTokens(env.Caller())
	})
}

func tokenAction(method string, op func(env *xenv.Environment, to ld.Address, amount *big.Int) error) func(ctx *cli.Context) error {
	return func(ctx *cli.Context) error {
		if err := requireArgs(ctx, 2); err != nil {
			return err
		}
		to, err := addressArg(ctx, 0)
		if err != nil {
			return err
		}
		amount, err := amountArg(ctx, 1)
		if err != nil {
			return err
		}
		return submit(ctx, method, func(env *xenv.Environment) (any, error) {
			return nil, op(env, to, amount)
		})
	}
}

var (
	mintAction = tokenAction("mint", func(env *xenv.Environment, to ld.Address, amount *big.Int) error {
		return builtin.Token.Native(env).Mint(env.Caller(), to, amount)
	})
	transferAction = tokenAction("transfer", func(env *xenv.Environment, to ld.Address, amount *big.Int) error {
		return builtin.Token.Native(env).Transfer(env.Caller(), to, amount)
	})
	approveAction = tokenAction("approve", func(env *xenv.Environment, spender ld.Address, amount *big.Int) error {
		return builtin.Token.Native(env).Approve(env.Caller(), spender, amount)
	})
)

// stakeAction approves the ledger for amount and stakes it.
func stakeAction(ctx *cli.Context) error {
	if err := requireArgs(ctx, 1); err != nil {
		return err
	}
	amount, err := amountArg(ctx, 0)
	if err != nil {
		return err
	}
	return submit(ctx, "stakeLd", func(env *xenv.Environment) (any, error) {
		if err := builtin.Token.Native(env).Approve(env.Caller(), builtin.Staking.Address, amount); err != nil {
			return nil, err
		}
		index, err := builtin.Staking.Native(env).StakeLd(env.Caller(), amount, env.Now())
		if err != nil {
			return nil, err
		}
		return utils.M{"index": index}, nil
	})
}

func claimAction(restake bool) func(ctx *cli.Context) error {
	method := "claimRewards"
	if restake {
		method = "reStake"
	}
	return func(ctx *cli.Context) error {
		if err := requireArgs(ctx, 1); err != nil {
			return err
		}
		index, err := uintArg(ctx, 0)
		if err != nil {
			return err
		}
		return submit(ctx, method, func(env *xenv.Environment) (any, error) {
			ledger := builtin.Staking.Native(env)
			claim := ledger.ClaimRewards
			if restake {
				claim = ledger.ReStake
			}
			reward, err := claim(env.Caller(), index, env.Now())
			if err != nil {
				return nil, err
			}
			return utils.M{"reward": utils.BigString(reward), "formatted": ld.FormatAmount(reward) + " LD"}, nil
		})
	}
}

func unstakeAction(ctx *cli.Context) error {
	if err := requireArgs(ctx, 2); err != nil {
		return err
	}
	index, err := uintArg(ctx, 0)
	if err != nil {
		return err
	}
	amount, err := amountArg(ctx, 1)
	if err != nil {
		return err
	}
	return submit(ctx, "unstakeLD", func(env *xenv.Environment) (any, error) {
		return nil, builtin.Staking.Native(env).UnstakeLD(env.Caller(), amount, index, env.Now())
	})
}
