// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package builtin binds the ledger contracts to their fixed addresses.
package builtin

import (
	"github.com/ldstaking/ldstake/abi"
	"github.com/ldstaking/ldstake/builtin/ldtoken"
	"github.com/ldstaking/ldstake/builtin/rewardpool"
	"github.com/ldstaking/ldstake/builtin/staking"
	"github.com/ldstaking/ldstake/ld"
	"github.com/ldstaking/ldstake/state"
	"github.com/ldstaking/ldstake/tx"
	"github.com/ldstaking/ldstake/xenv"
)

// Builtin contracts binding.
var (
	Token      = &tokenContract{mustLoadContract("LdToken")}
	RewardPool = &rewardPoolContract{mustLoadContract("RewardPool")}
	Staking    = &stakingContract{mustLoadContract("LdStaking")}
)

// Contracts lists all bindings, in deployment order.
var Contracts = []*contract{Token.contract, RewardPool.contract, Staking.contract}

// EventOf finds the ABI event of a log emitted by one of the builtin contracts.
func EventOf(ev *tx.Event) (*abi.Event, bool) {
	for _, c := range Contracts {
		if c.Address == ev.Address {
			return c.ABI.EventByID(ev.ID())
		}
	}
	return nil, false
}

type (
	tokenContract      struct{ *contract }
	rewardPoolContract struct{ *contract }
	stakingContract    struct{ *contract }
)

// Native binds the token to the env, events are emitted into it.
func (t *tokenContract) Native(env *xenv.Environment) *ldtoken.Token {
	return ldtoken.New(t.Address, env.State(), env.Emit)
}

// WithState binds the token read only.
func (t *tokenContract) WithState(st *state.State) *ldtoken.Token {
	return ldtoken.New(t.Address, st, nil)
}

func (p *rewardPoolContract) Native(env *xenv.Environment) *rewardpool.Pool {
	return rewardpool.New(p.Address, env.State(), Token.Native(env), env.Emit)
}

func (p *rewardPoolContract) WithState(st *state.State) *rewardpool.Pool {
	return rewardpool.New(p.Address, st, Token.WithState(st), nil)
}

// Native binds the ledger to the env. Rewards are paid by the builtin pool only.
func (s *stakingContract) Native(env *xenv.Environment) *staking.Staking {
	token := Token.Native(env)
	pool := rewardpool.New(RewardPool.Address, env.State(), token, env.Emit)
	return staking.New(s.Address, env.State(), token, poolLookup(pool), env.Emit)
}

func (s *stakingContract) WithState(st *state.State) *staking.Staking {
	token := Token.WithState(st)
	pool := rewardpool.New(RewardPool.Address, st, token, nil)
	return staking.New(s.Address, st, token, poolLookup(pool), nil)
}

func poolLookup(pool *rewardpool.Pool) staking.PoolLookup {
	return func(addr ld.Address) (staking.Pool, bool) {
		if addr != pool.Address() {
			return nil, false
		}
		return pool, true
	}
}
