// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ldstaking/ldstake/builtin"
	"github.com/ldstaking/ldstake/builtin/ownable"
	"github.com/ldstaking/ldstake/builtin/staking"
	"github.com/ldstaking/ldstake/ld"
	"github.com/ldstaking/ldstake/logdb"
	"github.com/ldstaking/ldstake/lvldb"
	"github.com/ldstaking/ldstake/runtime"
	"github.com/ldstaking/ldstake/test/datagen"
	"github.com/ldstaking/ldstake/tx"
	"github.com/ldstaking/ldstake/xenv"
)

const start = uint64(1_700_000_000)

type fixture struct {
	rt    *runtime.Runtime
	db    *lvldb.LevelDB
	logDB *logdb.LogDB
	owner ld.Address
}

func newFixture(t *testing.T) *fixture {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	logDB, err := logdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() {
		logDB.Close()
		db.Close()
	})

	rt, err := runtime.New(db, logDB, ld.FixedClock(start))
	require.NoError(t, err)

	f := &fixture{rt: rt, db: db, logDB: logDB, owner: datagen.RandAddress()}
	_, err = rt.Execute(context.Background(), &xenv.TransactionContext{Caller: f.owner, Time: start, Method: "deploy"}, func(env *xenv.Environment) error {
		token := builtin.Token.Native(env)
		if err := token.Initialize(f.owner, ld.DefaultTokenName, ld.DefaultTokenSymbol); err != nil {
			return err
		}
		if err := token.Mint(f.owner, f.owner, ld.Tokens(1_000_000)); err != nil {
			return err
		}
		if err := builtin.RewardPool.Native(env).Initialize(f.owner, builtin.Staking.Address, builtin.Token.Address); err != nil {
			return err
		}
		return builtin.Staking.Native(env).Initialize(f.owner, 5000, builtin.Token.Address, staking.PolicyKeep)
	})
	require.NoError(t, err)
	return f
}

func (f *fixture) call(caller ld.Address, t uint64, method string, fn func(env *xenv.Environment) error) error {
	_, err := f.rt.Execute(context.Background(), &xenv.TransactionContext{Caller: caller, Time: t, Method: method}, fn)
	return err
}

func TestExecuteCommits(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, uint64(1), f.rt.Seq())
	assert.Equal(t, start, f.rt.LastTime())

	receipt, err := f.rt.Execute(context.Background(), &xenv.TransactionContext{Caller: f.owner, Time: start + 10, Method: "setPool"},
		func(env *xenv.Environment) error {
			return builtin.Staking.Native(env).SetPool(env.Caller(), builtin.RewardPool.Address)
		})
	require.NoError(t, err)
	assert.False(t, receipt.Reverted)
	assert.Equal(t, uint64(2), receipt.Seq)
	assert.Equal(t, start+10, receipt.Time)
	assert.Len(t, receipt.Events, 1)

	require.NoError(t, f.rt.View(func(env *xenv.Environment) error {
		pool, err := builtin.Staking.WithState(env.State()).RewardPool()
		require.NoError(t, err)
		assert.Equal(t, builtin.RewardPool.Address, pool)
		return nil
	}))
}

func TestRevertWritesNothing(t *testing.T) {
	f := newFixture(t)
	stranger := datagen.RandAddress()

	receipt, err := f.rt.Execute(context.Background(), &xenv.TransactionContext{Caller: stranger, Time: start + 1, Method: "changeApr"},
		func(env *xenv.Environment) error {
			// a partially applied call is rolled back as a whole
			if err := builtin.Token.Native(env).Transfer(f.owner, stranger, ld.Tokens(1)); err != nil {
				return err
			}
			return builtin.Staking.Native(env).ChangeApr(env.Caller(), 1000)
		})
	assert.ErrorIs(t, err, ownable.ErrUnauthorizedAccount)
	require.NotNil(t, receipt)
	assert.True(t, receipt.Reverted)
	assert.Contains(t, receipt.RevertReason, "OwnableUnauthorizedAccount")
	assert.Empty(t, receipt.Events)

	assert.Equal(t, uint64(1), f.rt.Seq())
	assert.Equal(t, start, f.rt.LastTime())
	require.NoError(t, f.rt.View(func(env *xenv.Environment) error {
		balance, err := builtin.Token.WithState(env.State()).BalanceOf(stranger)
		require.NoError(t, err)
		assert.Equal(t, 0, balance.Sign())
		apr, err := builtin.Staking.WithState(env.State()).AprRate()
		require.NoError(t, err)
		assert.Equal(t, uint64(5000), apr)
		return nil
	}))
}

func TestInfrastructureError(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("boom")

	receipt, err := f.rt.Execute(context.Background(), &xenv.TransactionContext{Time: start}, func(*xenv.Environment) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, receipt)
	assert.Equal(t, uint64(1), f.rt.Seq())
}

func TestTimeMonotonic(t *testing.T) {
	f := newFixture(t)
	noop := func(*xenv.Environment) error { return nil }

	require.NoError(t, f.call(f.owner, start+100, "noop", noop))
	err := f.call(f.owner, start+99, "noop", noop)
	assert.ErrorIs(t, err, runtime.ErrTimeWentBackwards)

	// equal time is allowed
	require.NoError(t, f.call(f.owner, start+100, "noop", noop))

	// zero time is taken from the clock but never behind the last call
	receipt, err := f.rt.Execute(context.Background(), &xenv.TransactionContext{}, noop)
	require.NoError(t, err)
	assert.Equal(t, start+100, receipt.Time)
	assert.Equal(t, start+100, f.rt.Now())
}

func TestCancelledContext(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.rt.Execute(ctx, &xenv.TransactionContext{Time: start}, func(*xenv.Environment) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMetaPersisted(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.call(f.owner, start+500, "noop", func(*xenv.Environment) error { return nil }))

	rt, err := runtime.New(f.db, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), rt.Seq())
	assert.Equal(t, start+500, rt.LastTime())
}

func TestSimulate(t *testing.T) {
	f := newFixture(t)
	receipt, err := f.rt.Simulate(context.Background(), &xenv.TransactionContext{Caller: f.owner, Time: start + 1}, func(env *xenv.Environment) error {
		return builtin.Staking.Native(env).ChangeApr(env.Caller(), 1000)
	})
	require.NoError(t, err)
	assert.Len(t, receipt.Events, 1)
	assert.Equal(t, uint64(1), f.rt.Seq())

	require.NoError(t, f.rt.View(func(env *xenv.Environment) error {
		apr, err := builtin.Staking.WithState(env.State()).AprRate()
		require.NoError(t, err)
		assert.Equal(t, uint64(5000), apr)
		return nil
	}))
}

func TestEventsIndexed(t *testing.T) {
	f := newFixture(t)
	alice := datagen.RandAddress()

	require.NoError(t, f.call(f.owner, start+1, "setup", func(env *xenv.Environment) error {
		stk := builtin.Staking.Native(env)
		if err := stk.SetPool(env.Caller(), builtin.RewardPool.Address); err != nil {
			return err
		}
		if err := stk.EnableStaking(env.Caller()); err != nil {
			return err
		}
		token := builtin.Token.Native(env)
		if err := token.Transfer(env.Caller(), alice, ld.Tokens(100)); err != nil {
			return err
		}
		if err := token.Approve(env.Caller(), builtin.RewardPool.Address, ld.Tokens(1000)); err != nil {
			return err
		}
		return builtin.RewardPool.Native(env).FundPool(env.Caller(), ld.Tokens(1000))
	}))
	require.NoError(t, f.call(alice, start+2, "stakeLd", func(env *xenv.Environment) error {
		if err := builtin.Token.Native(env).Approve(env.Caller(), builtin.Staking.Address, ld.Tokens(100)); err != nil {
			return err
		}
		_, err := builtin.Staking.Native(env).StakeLd(env.Caller(), ld.Tokens(100), env.Now())
		return err
	}))

	ctx := context.Background()
	stakedID := builtin.Staking.ABI.MustEventByName("Staked").ID()
	aliceTopic := alice.Topic()
	events, err := f.logDB.FilterEvents(ctx, &logdb.EventFilter{
		CriteriaSet: []*logdb.EventCriteria{{
			Address: &builtin.Staking.Address,
			Topics:  [5]*ld.Bytes32{&stakedID, &aliceTopic},
		}},
	})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, uint64(3), events[0].TxSeq)
	assert.Equal(t, alice, events[0].Caller)
	assert.Equal(t, start+2, events[0].Time)

	transfers, err := f.logDB.FilterTransfers(ctx, &logdb.TransferFilter{
		CriteriaSet: []*logdb.TransferCriteria{{Sender: &alice}},
	})
	require.NoError(t, err)
	require.Len(t, transfers, 1)
	assert.Equal(t, builtin.Staking.Address, transfers[0].Recipient)
	assert.Equal(t, ld.Tokens(100), transfers[0].Amount)

	// reverted calls are not indexed
	err = f.call(alice, start+3, "stakeLd", func(env *xenv.Environment) error {
		_, err := builtin.Staking.Native(env).StakeLd(env.Caller(), ld.Tokens(100), env.Now())
		return err
	})
	assert.Error(t, err)
	events, err = f.logDB.FilterEvents(ctx, &logdb.EventFilter{Range: &logdb.Range{Unit: logdb.Seq, From: 4}})
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestOnCommit(t *testing.T) {
	f := newFixture(t)
	var seqs []uint64
	f.rt.OnCommit(func(r *tx.Receipt) { seqs = append(seqs, r.Seq) })

	noop := func(*xenv.Environment) error { return nil }
	require.NoError(t, f.call(f.owner, start+1, "noop", noop))
	assert.Error(t, f.call(f.owner, start, "noop", noop))
	require.NoError(t, f.call(f.owner, start+2, "noop", noop))

	assert.Equal(t, []uint64{2, 3}, seqs)
}
