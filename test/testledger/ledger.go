// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package testledger provides a deployed devnet ledger for tests.
package testledger

import (
	"context"
	"math/big"
	"sync/atomic"

	"github.com/ldstaking/ldstake/builtin"
	"github.com/ldstaking/ldstake/genesis"
	"github.com/ldstaking/ldstake/ld"
	"github.com/ldstaking/ldstake/logdb"
	"github.com/ldstaking/ldstake/lvldb"
	"github.com/ldstaking/ldstake/runtime"
	"github.com/ldstaking/ldstake/tx"
	"github.com/ldstaking/ldstake/xenv"
)

// Ledger is an in-memory runtime with the devnet deployed, driven by a manual clock.
type Ledger struct {
	db     *lvldb.LevelDB
	logDB  *logdb.LogDB
	rt     *runtime.Runtime
	config *genesis.Config
	now    atomic.Uint64
}

// NewDefault deploys the devnet config.
func NewDefault() (*Ledger, error) {
	return New(genesis.NewDevnet())
}

// New deploys cfg at its launch time.
func New(cfg *genesis.Config) (*Ledger, error) {
	db, err := lvldb.NewMem()
	if err != nil {
		return nil, err
	}
	logDB, err := logdb.NewMem()
	if err != nil {
		db.Close()
		return nil, err
	}

	l := &Ledger{db: db, logDB: logDB, config: cfg}
	l.now.Store(cfg.LaunchTime)
	l.rt, err = runtime.New(db, logDB, l.now.Load)
	if err != nil {
		l.Close()
		return nil, err
	}
	if _, err := genesis.Deploy(context.Background(), l.rt, cfg); err != nil {
		l.Close()
		return nil, err
	}
	return l, nil
}

func (l *Ledger) Close() {
	l.logDB.Close()
	l.db.Close()
}

func (l *Ledger) Runtime() *runtime.Runtime { return l.rt }
func (l *Ledger) LogDB() *logdb.LogDB       { return l.logDB }
func (l *Ledger) Config() *genesis.Config   { return l.config }
func (l *Ledger) Now() uint64               { return l.now.Load() }

// Owner returns the owner of all contracts.
func (l *Ledger) Owner() ld.Address {
	return ld.Address(l.config.Owner)
}

// Accounts returns the funded dev accounts, the owner first.
func (l *Ledger) Accounts() []genesis.DevAccount {
	return genesis.DevAccounts()
}

// Advance moves the clock forward.
func (l *Ledger) Advance(seconds uint64) {
	l.now.Add(seconds)
}

// Execute runs fn as caller at the current clock time.
func (l *Ledger) Execute(caller ld.Address, method string, fn func(env *xenv.Environment) error) (*tx.Receipt, error) {
	return l.rt.Execute(context.Background(), &xenv.TransactionContext{
		Caller: caller,
		Time:   l.now.Load(),
		Method: method,
	}, fn)
}

// Stake approves and stakes amount for account, returning the position index.
func (l *Ledger) Stake(account ld.Address, amount *big.Int) (uint64, error) {
	var index uint64
	_, err := l.Execute(account, "stakeLd", func(env *xenv.Environment) error {
		if err := builtin.Token.Native(env).Approve(account, builtin.Staking.Address, amount); err != nil {
			return err
		}
		var err error
		index, err = builtin.Staking.Native(env).StakeLd(account, amount, env.Now())
		return err
	})
	return index, err
}

// BalanceOf reads the committed token balance.
func (l *Ledger) BalanceOf(account ld.Address) (*big.Int, error) {
	var balance *big.Int
	err := l.rt.View(func(env *xenv.Environment) (err error) {
		balance, err = builtin.Token.WithState(env.State()).BalanceOf(account)
		return err
	})
	return balance, err
}
