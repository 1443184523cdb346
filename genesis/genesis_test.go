// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ldstaking/ldstake/builtin"
	"github.com/ldstaking/ldstake/genesis"
	"github.com/ldstaking/ldstake/ld"
	"github.com/ldstaking/ldstake/lvldb"
	"github.com/ldstaking/ldstake/runtime"
	"github.com/ldstaking/ldstake/xenv"
)

func newRuntime(t *testing.T) *runtime.Runtime {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	rt, err := runtime.New(db, nil, ld.FixedClock(1_700_000_000))
	require.NoError(t, err)
	return rt
}

func TestDevAccounts(t *testing.T) {
	accs := genesis.DevAccounts()
	require.Len(t, accs, 5)
	assert.Equal(t, ld.MustParseAddress("0x7567d83b7b8d80addcb281a71d54fc7b3364ffed"), accs[0].Address)
	// stable across calls
	assert.Equal(t, accs[1].Address, genesis.DevAccounts()[1].Address)
}

func TestDeployDevnet(t *testing.T) {
	rt := newRuntime(t)
	cfg := genesis.NewDevnet()

	receipt, err := genesis.Deploy(context.Background(), rt, cfg)
	require.NoError(t, err)
	assert.False(t, receipt.Reverted)
	assert.Equal(t, cfg.LaunchTime, rt.LastTime())

	deployed, err := genesis.IsDeployed(rt)
	require.NoError(t, err)
	assert.True(t, deployed)

	owner := ld.Address(cfg.Owner)
	require.NoError(t, rt.View(func(env *xenv.Environment) error {
		st := env.State()
		ledger := builtin.Staking.WithState(st)
		lock, err := ledger.Lock()
		require.NoError(t, err)
		assert.False(t, lock)
		pool, err := ledger.RewardPool()
		require.NoError(t, err)
		assert.Equal(t, builtin.RewardPool.Address, pool)
		apr, err := ledger.AprRate()
		require.NoError(t, err)
		assert.Equal(t, uint64(5000), apr)

		pooled, err := builtin.RewardPool.WithState(st).PooledAmount()
		require.NoError(t, err)
		assert.Equal(t, ld.Tokens(500_000), pooled)

		token := builtin.Token.WithState(st)
		balance, err := token.BalanceOf(owner)
		require.NoError(t, err)
		assert.Equal(t, ld.Tokens(500_000), balance)
		supply, err := token.TotalSupply()
		require.NoError(t, err)
		assert.Equal(t, ld.Tokens(5_000_000), supply)
		return nil
	}))

	_, err = genesis.Deploy(context.Background(), rt, cfg)
	assert.ErrorIs(t, err, genesis.ErrAlreadyDeployed)
}

func TestDeployLocked(t *testing.T) {
	rt := newRuntime(t)
	cfg := genesis.NewDevnet()
	cfg.LaunchTime = 0
	cfg.Staking.Enable = false
	cfg.Pool.Funding = nil

	_, err := genesis.Deploy(context.Background(), rt, cfg)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_700_000_000), rt.LastTime())

	require.NoError(t, rt.View(func(env *xenv.Environment) error {
		lock, err := builtin.Staking.WithState(env.State()).Lock()
		require.NoError(t, err)
		assert.True(t, lock)
		pooled, err := builtin.RewardPool.WithState(env.State()).PooledAmount()
		require.NoError(t, err)
		assert.Equal(t, 0, pooled.Sign())
		return nil
	}))
}
