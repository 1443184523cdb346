// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ldstaking/ldstake/builtin/staking"
	"github.com/ldstaking/ldstake/ld"
	"github.com/ldstaking/ldstake/lvldb"
	"github.com/ldstaking/ldstake/state"
	"github.com/ldstaking/ldstake/test/datagen"
	"github.com/ldstaking/ldstake/xenv"
)

func TestBindings(t *testing.T) {
	seen := make(map[ld.Address]string)
	for _, c := range Contracts {
		_, dup := seen[c.Address]
		assert.False(t, dup, c.Name())
		seen[c.Address] = c.Name()
	}
	assert.Equal(t, ld.BytesToAddress([]byte("LdStaking")), Staking.Address)
	assert.True(t, Staking.ABI.HasMethod("stakeLd"))
	assert.True(t, RewardPool.ABI.HasMethod("sendRewards"))
	assert.True(t, Token.ABI.HasMethod("transferFrom"))
}

func TestNativeFlow(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	owner := datagen.RandAddress()
	alice := datagen.RandAddress()
	const now = uint64(1_700_000_000)

	env := xenv.New(state.New(db), &xenv.TransactionContext{Caller: owner, Time: now})
	token := Token.Native(env)
	pool := RewardPool.Native(env)
	stk := Staking.Native(env)

	require.NoError(t, token.Initialize(owner, ld.DefaultTokenName, ld.DefaultTokenSymbol))
	require.NoError(t, token.Mint(owner, owner, ld.Tokens(2_000_000)))
	require.NoError(t, pool.Initialize(owner, Staking.Address, Token.Address))
	require.NoError(t, stk.Initialize(owner, 5000, Token.Address, staking.PolicyKeep))
	require.NoError(t, stk.SetPool(owner, RewardPool.Address))
	require.NoError(t, stk.EnableStaking(owner))

	require.NoError(t, token.Approve(owner, RewardPool.Address, ld.Tokens(1_000_000)))
	require.NoError(t, pool.FundPool(owner, ld.Tokens(1_000_000)))
	require.NoError(t, token.Transfer(owner, alice, ld.Tokens(10_000)))
	require.NoError(t, token.Approve(alice, Staking.Address, ld.Tokens(10_000)))

	_, err = stk.StakeLd(alice, ld.Tokens(10_000), now)
	require.NoError(t, err)
	paid, err := stk.ClaimRewards(alice, 0, now+21*ld.Day)
	require.NoError(t, err)
	assert.Equal(t, "288461538461538461538", paid.String())

	// read only bindings see the same state and emit nothing
	balance, err := Token.WithState(env.State()).BalanceOf(alice)
	require.NoError(t, err)
	assert.Equal(t, paid, balance)
	assert.NotEmpty(t, env.Events())

	// a pool set elsewhere cannot be paid from
	other := datagen.RandAddress()
	require.NoError(t, stk.SetPool(owner, other))
	require.NoError(t, token.Transfer(owner, other, ld.Tokens(1000)))
	_, err = stk.ClaimRewards(alice, 0, now+28*ld.Day)
	assert.Error(t, err)
}

func TestEventOf(t *testing.T) {
	staked := Staking.ABI.MustEventByName("Staked")
	ev, err := staked.NewLog(Staking.Address, []ld.Bytes32{datagen.RandAddress().Topic()}, ld.Tokens(1))
	require.NoError(t, err)

	found, ok := EventOf(ev)
	require.True(t, ok)
	assert.Equal(t, "Staked", found.Name())

	// same id at an unknown address
	ev.Address = datagen.RandAddress()
	_, ok = EventOf(ev)
	assert.False(t, ok)
}
