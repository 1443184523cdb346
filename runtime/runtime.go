// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package runtime executes ledger operations as all-or-nothing calls.
package runtime

import (
	"context"
	"encoding/binary"
	"math/big"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/ldstaking/ldstake/abi"
	"github.com/ldstaking/ldstake/builtin"
	"github.com/ldstaking/ldstake/builtin/reverts"
	"github.com/ldstaking/ldstake/kv"
	"github.com/ldstaking/ldstake/ld"
	"github.com/ldstaking/ldstake/log"
	"github.com/ldstaking/ldstake/logdb"
	"github.com/ldstaking/ldstake/metrics"
	"github.com/ldstaking/ldstake/state"
	"github.com/ldstaking/ldstake/tx"
	"github.com/ldstaking/ldstake/xenv"
)

// ErrTimeWentBackwards is returned for a call timed before the last committed call.
var ErrTimeWentBackwards = errors.New("time went backwards")

const metaBucket = kv.Bucket("m")

var (
	keyLastTime = []byte("last-time")
	keySeq      = []byte("seq")

	logger = log.WithContext("pkg", "runtime")

	tokenTransferEvent *abi.Event

	metricTxCount        = metrics.LazyLoadCounterVec("tx_count", []string{"method", "status"})
	metricCommitDuration = metrics.LazyLoadHistogram("commit_duration_ms", metrics.BucketCommit)
	metricTotalStaked    = metrics.LazyLoadGauge("total_staked")
	metricPooledAmount   = metrics.LazyLoadGauge("pooled_amount")
)

func init() {
	tokenTransferEvent = builtin.Token.ABI.MustEventByName("Transfer")
}

// Runtime is the single writer of the ledger. Calls are executed one at a time,
// in non-decreasing time order, and each commits atomically or not at all.
type Runtime struct {
	mu       sync.RWMutex
	stater   *state.Stater
	logDB    *logdb.LogDB
	clock    ld.Clock
	lastTime uint64
	seq      uint64
	onCommit []func(*tx.Receipt)
}

// New create a Runtime over db. logDB is optional.
func New(db kv.Store, logDB *logdb.LogDB, clock ld.Clock) (*Runtime, error) {
	if clock == nil {
		clock = ld.SystemClock
	}
	meta := metaBucket.NewGetter(db)
	lastTime, err := loadUint64(meta, keyLastTime)
	if err != nil {
		return nil, errors.Wrap(err, "load last time")
	}
	seq, err := loadUint64(meta, keySeq)
	if err != nil {
		return nil, errors.Wrap(err, "load seq")
	}
	return &Runtime{
		stater:   state.NewStater(db),
		logDB:    logDB,
		clock:    clock,
		lastTime: lastTime,
		seq:      seq,
	}, nil
}

// LastTime returns the time of the last committed call.
func (rt *Runtime) LastTime() uint64 {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return rt.lastTime
}

// Seq returns the sequence number of the last committed call.
func (rt *Runtime) Seq() uint64 {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return rt.seq
}

func (rt *Runtime) Stater() *state.Stater {
	return rt.stater
}

// OnCommit registers fn to be called after each commit, with the lock held.
// fn must not call back into the runtime.
func (rt *Runtime) OnCommit(fn func(receipt *tx.Receipt)) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.onCommit = append(rt.onCommit, fn)
}

// Now returns the clock time, never earlier than the last committed call.
func (rt *Runtime) Now() uint64 {
	return max(rt.clock(), rt.LastTime())
}

// Execute runs fn as a call. A zero txCtx.Time is filled from the clock.
// On a revert the returned receipt is marked reverted, the revert error is returned
// and nothing is written.
func (rt *Runtime) Execute(ctx context.Context, txCtx *xenv.TransactionContext, fn func(env *xenv.Environment) error) (*tx.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()

	receipt, st, err := rt.run(txCtx, fn)
	if err != nil {
		if receipt != nil && receipt.Reverted {
			metricTxCount().AddWithLabel(1, map[string]string{"method": receipt.Method, "status": "reverted"})
		}
		return receipt, err
	}

	startTime := time.Now()
	transfers := extractTransfers(receipt.Events)
	if err := st.Stage().Commit(func(p kv.Putter) error {
		meta := metaBucket.NewPutter(p)
		if err := meta.Put(keyLastTime, encodeUint64(receipt.Time)); err != nil {
			return err
		}
		return meta.Put(keySeq, encodeUint64(receipt.Seq))
	}); err != nil {
		return nil, errors.Wrap(err, "commit state")
	}
	rt.lastTime = receipt.Time
	rt.seq = receipt.Seq

	if rt.logDB != nil {
		// the state is already durable, a failed index only lags behind
		if err := rt.logDB.NewWriter().Write(receipt, transfers).Commit(); err != nil {
			logger.Error("failed to index events", "txID", receipt.TxID, "err", err)
		}
	}
	metricCommitDuration().Observe(time.Since(startTime).Milliseconds())
	metricTxCount().AddWithLabel(1, map[string]string{"method": receipt.Method, "status": "ok"})
	rt.updateGauges()
	for _, fn := range rt.onCommit {
		fn(receipt)
	}

	logger.Debug("call committed", "method", receipt.Method, "seq", receipt.Seq, "events", len(receipt.Events))
	return receipt, nil
}

// Simulate runs fn like Execute but never commits. The time guard still applies.
func (rt *Runtime) Simulate(ctx context.Context, txCtx *xenv.TransactionContext, fn func(env *xenv.Environment) error) (*tx.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rt.mu.RLock()
	defer rt.mu.RUnlock()

	receipt, _, err := rt.run(txCtx, fn)
	return receipt, err
}

// View runs fn over committed state. Events are discarded.
func (rt *Runtime) View(fn func(env *xenv.Environment) error) error {
	rt.mu.RLock()
	defer rt.mu.RUnlock()

	return fn(xenv.New(rt.stater.NewState(), &xenv.TransactionContext{
		Seq:  rt.seq,
		Time: max(rt.clock(), rt.lastTime),
	}))
}

// run must be called with the lock held.
func (rt *Runtime) run(txCtx *xenv.TransactionContext, fn func(env *xenv.Environment) error) (*tx.Receipt, *state.State, error) {
	if txCtx == nil {
		txCtx = &xenv.TransactionContext{}
	}
	callCtx := *txCtx
	if callCtx.Time == 0 {
		callCtx.Time = max(rt.clock(), rt.lastTime)
	}
	if callCtx.Time < rt.lastTime {
		return nil, nil, errors.WithMessagef(ErrTimeWentBackwards, "call at %d, last committed at %d", callCtx.Time, rt.lastTime)
	}
	callCtx.Seq = rt.seq + 1
	callCtx.ID = tx.NewTxID(callCtx.Seq, callCtx.Time, callCtx.Caller)

	st := rt.stater.NewState()
	env := xenv.New(st, &callCtx)
	receipt := &tx.Receipt{
		TxID:   callCtx.ID,
		Seq:    callCtx.Seq,
		Caller: callCtx.Caller,
		Time:   callCtx.Time,
		Method: callCtx.Method,
	}

	if err := fn(env); err != nil {
		if !reverts.IsRevertErr(err) {
			return nil, nil, err
		}
		logger.Debug("call reverted", "method", callCtx.Method, "caller", callCtx.Caller, "reason", err)
		receipt.Reverted = true
		receipt.RevertReason = err.Error()
		receipt.Events = tx.Events{}
		return receipt, nil, err
	}
	receipt.Events = env.Events()
	if receipt.Events == nil {
		receipt.Events = tx.Events{}
	}
	return receipt, st, nil
}

func (rt *Runtime) updateGauges() {
	if metrics.NoOp() {
		return
	}
	st := rt.stater.NewState()
	if total, err := builtin.Staking.WithState(st).TotalStakedAmount(); err == nil {
		metricTotalStaked().Set(wholeTokens(total))
	}
	if pooled, err := builtin.RewardPool.WithState(st).PooledAmount(); err == nil {
		metricPooledAmount().Set(wholeTokens(pooled))
	}
}

// extractTransfers collects the LD token transfers among events.
func extractTransfers(events tx.Events) tx.Transfers {
	var transfers tx.Transfers
	for _, ev := range events {
		if ev.Address != builtin.Token.Address || ev.ID() != tokenTransferEvent.ID() {
			continue
		}
		args, err := tokenTransferEvent.Decode(ev)
		if err != nil {
			logger.Warn("malformed transfer event", "err", err)
			continue
		}
		transfers = append(transfers, &tx.Transfer{
			Sender:    args["from"].(ld.Address),
			Recipient: args["to"].(ld.Address),
			Amount:    args["value"].(*big.Int),
		})
	}
	return transfers
}

func wholeTokens(amount *big.Int) int64 {
	return new(big.Int).Div(amount, ld.Ether).Int64()
}

func loadUint64(getter kv.Getter, key []byte) (uint64, error) {
	data, err := getter.Get(key)
	if err != nil {
		if getter.IsNotFound(err) {
			return 0, nil
		}
		return 0, err
	}
	if len(data) != 8 {
		return 0, errors.Errorf("invalid meta value length %d", len(data))
	}
	return binary.BigEndian.Uint64(data), nil
}

func encodeUint64(v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return b[:]
}
