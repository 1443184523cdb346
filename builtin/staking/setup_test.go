// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ldstaking/ldstake/builtin/ldtoken"
	"github.com/ldstaking/ldstake/builtin/rewardpool"
	"github.com/ldstaking/ldstake/ld"
	"github.com/ldstaking/ldstake/lvldb"
	"github.com/ldstaking/ldstake/state"
	"github.com/ldstaking/ldstake/test/datagen"
	"github.com/ldstaking/ldstake/tx"
)

const start = uint64(1_700_000_000)

var (
	tokenAddr   = ld.BytesToAddress([]byte("LdToken"))
	poolAddr    = ld.BytesToAddress([]byte("RewardPool"))
	stakingAddr = ld.BytesToAddress([]byte("LdStaking"))
)

type testSetup struct {
	t       *testing.T
	token   *ldtoken.Token
	pool    *rewardpool.Pool
	staking *Staking
	owner   ld.Address
	events  tx.Events
}

type setupOption func(*setupConfig)

type setupConfig struct {
	policy  UnstakePolicy
	funding *big.Int
	locked  bool
}

func withPolicy(p UnstakePolicy) setupOption {
	return func(c *setupConfig) { c.policy = p }
}

func withFunding(amount *big.Int) setupOption {
	return func(c *setupConfig) { c.funding = amount }
}

func withLock() setupOption {
	return func(c *setupConfig) { c.locked = true }
}

// newSetup deploys token, pool and ledger at apr 50.00%, funds the pool with
// 1,000,000 LD and enables staking.
func newSetup(t *testing.T, opts ...setupOption) *testSetup {
	cfg := &setupConfig{policy: PolicyKeep, funding: ld.Tokens(1_000_000)}
	for _, opt := range opts {
		opt(cfg)
	}

	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.New(db)
	s := &testSetup{t: t, owner: datagen.RandAddress()}
	emit := func(ev *tx.Event) { s.events = append(s.events, ev) }

	s.token = ldtoken.New(tokenAddr, st, emit)
	s.pool = rewardpool.New(poolAddr, st, s.token, emit)
	s.staking = New(stakingAddr, st, s.token, func(addr ld.Address) (Pool, bool) {
		if addr == poolAddr {
			return s.pool, true
		}
		return nil, false
	}, emit)

	require.NoError(t, s.token.Initialize(s.owner, ld.DefaultTokenName, ld.DefaultTokenSymbol))
	require.NoError(t, s.token.Mint(s.owner, s.owner, ld.Tokens(10_000_000)))
	require.NoError(t, s.pool.Initialize(s.owner, stakingAddr, tokenAddr))
	require.NoError(t, s.staking.Initialize(s.owner, 5000, tokenAddr, cfg.policy))
	require.NoError(t, s.staking.SetPool(s.owner, poolAddr))

	if cfg.funding.Sign() > 0 {
		require.NoError(t, s.token.Approve(s.owner, poolAddr, cfg.funding))
		require.NoError(t, s.pool.FundPool(s.owner, cfg.funding))
	}
	if !cfg.locked {
		require.NoError(t, s.staking.EnableStaking(s.owner))
	}
	s.events = nil
	return s
}

// newStaker returns an account holding balance LD, approved for the ledger.
func (s *testSetup) newStaker(balance *big.Int) ld.Address {
	account := datagen.RandAddress()
	require.NoError(s.t, s.token.Transfer(s.owner, account, balance))
	require.NoError(s.t, s.token.Approve(account, stakingAddr, balance))
	return account
}

func (s *testSetup) balance(account ld.Address) *big.Int {
	b, err := s.token.BalanceOf(account)
	require.NoError(s.t, err)
	return b
}

func (s *testSetup) position(account ld.Address, index uint64) (*big.Int, uint64) {
	pos, err := s.staking.GetUserStake(account, index)
	require.NoError(s.t, err)
	return pos.StakedAmount, pos.LastClaimed
}

func (s *testSetup) totalStaked() *big.Int {
	total, err := s.staking.TotalStakedAmount()
	require.NoError(s.t, err)
	return total
}

func mustBig(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("invalid number " + s)
	}
	return v
}
