// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/ldstaking/ldstake/api/utils"
	"github.com/ldstaking/ldstake/builtin"
	"github.com/ldstaking/ldstake/ld"
	"github.com/ldstaking/ldstake/logdb"
	"github.com/ldstaking/ldstake/xenv"
)

type summary struct {
	Seq      uint64 `json:"seq"`
	LastTime uint64 `json:"lastTime"`
	Token    struct {
		Address     ld.Address `json:"address"`
		Symbol      string     `json:"symbol"`
		TotalSupply string     `json:"totalSupply"`
	} `json:"token"`
	Pool struct {
		Address      ld.Address `json:"address"`
		PooledAmount string     `json:"pooledAmount"`
		Balance      string     `json:"balance"`
	} `json:"pool"`
	Staking struct {
		Address       ld.Address `json:"address"`
		Owner         ld.Address `json:"owner"`
		RewardPool    ld.Address `json:"rewardPool"`
		Treasury      ld.Address `json:"treasury"`
		Apr           uint64     `json:"apr"`
		Lock          bool       `json:"lock"`
		ClaimClosed   bool       `json:"claimClosed"`
		UnstakePolicy string     `json:"unstakePolicy"`
		TotalStaked   string     `json:"totalStakedAmount"`
	} `json:"staking"`
}

func infoAction(ctx *cli.Context) error {
	inst, err := openDeployed(ctx)
	if err != nil {
		return err
	}
	defer inst.Close()

	if ctx.Bool(dumpFlag.Name) {
		return dumpStorage(ctx, inst)
	}

	var s summary
	s.Seq, s.LastTime = inst.rt.Seq(), inst.rt.LastTime()
	err = inst.rt.View(func(env *xenv.Environment) (err error) {
		token := builtin.Token.WithState(env.State())
		s.Token.Address = builtin.Token.Address
		if s.Token.Symbol, err = token.Symbol(); err != nil {
			return err
		}
		supply, err := token.TotalSupply()
		if err != nil {
			return err
		}
		s.Token.TotalSupply = ld.FormatAmount(supply)

		pool := builtin.RewardPool.WithState(env.State())
		s.Pool.Address = builtin.RewardPool.Address
		pooled, err := pool.PooledAmount()
		if err != nil {
			return err
		}
		balance, err := pool.Balance()
		if err != nil {
			return err
		}
		s.Pool.PooledAmount, s.Pool.Balance = ld.FormatAmount(pooled), ld.FormatAmount(balance)

		ledger := builtin.Staking.WithState(env.State())
		s.Staking.Address = builtin.Staking.Address
		if s.Staking.Owner, err = ledger.Owner(); err != nil {
			return err
		}
		if s.Staking.RewardPool, err = ledger.RewardPool(); err != nil {
			return err
		}
		if s.Staking.Treasury, err = ledger.Treasury(); err != nil {
			return err
		}
		if s.Staking.Apr, err = ledger.AprRate(); err != nil {
			return err
		}
		if s.Staking.Lock, err = ledger.Lock(); err != nil {
			return err
		}
		if s.Staking.ClaimClosed, err = ledger.ClaimClosed(); err != nil {
			return err
		}
		policy, err := ledger.UnstakePolicy()
		if err != nil {
			return err
		}
		s.Staking.UnstakePolicy = string(policy)
		total, err := ledger.TotalStakedAmount()
		if err != nil {
			return err
		}
		s.Staking.TotalStaked = ld.FormatAmount(total)
		return nil
	})
	if err != nil {
		return err
	}
	return printJSON(ctx, &s)
}

func dumpStorage(ctx *cli.Context, inst *instance) error {
	for _, c := range builtin.Contracts {
		slots := make(map[ld.Bytes32]rlp.RawValue)
		if err := inst.rt.Stater().ForEachStorage(c.Address, func(key ld.Bytes32, raw rlp.RawValue) bool {
			slots[key] = raw
			return true
		}); err != nil {
			return err
		}
		fmt.Fprintf(ctx.App.Writer, "%s %v (%d slots)\n", c.Name(), c.Address, len(slots))
		spew.Fdump(ctx.App.Writer, slots)
	}
	return nil
}

type position struct {
	Index        uint64 `json:"index"`
	StakedAmount string `json:"stakedAmount"`
	LastClaimed  uint64 `json:"lastClaimed"`
	PendingWeeks uint64 `json:"pendingWeeks"`
	Pending      string `json:"pending"`
}

func stakesAction(ctx *cli.Context) error {
	if err := requireArgs(ctx, 1); err != nil {
		return err
	}
	account, err := addressArg(ctx, 0)
	if err != nil {
		return err
	}
	inst, err := openDeployed(ctx)
	if err != nil {
		return err
	}
	defer inst.Close()

	now := inst.rt.Now()
	positions := make([]*position, 0)
	err = inst.rt.View(func(env *xenv.Environment) error {
		ledger := builtin.Staking.WithState(env.State())
		stakes, err := ledger.Stakes(account)
		if err != nil {
			return err
		}
		for i, s := range stakes {
			accrual, err := ledger.PendingReward(account, uint64(i), now)
			if err != nil {
				return err
			}
			positions = append(positions, &position{
				Index:        uint64(i),
				StakedAmount: ld.FormatAmount(s.StakedAmount),
				LastClaimed:  s.LastClaimed,
				PendingWeeks: accrual.Weeks,
				Pending:      ld.FormatAmount(accrual.Amount),
			})
		}
		return nil
	})
	if err != nil {
		return err
	}
	return printJSON(ctx, positions)
}

func eventsAction(ctx *cli.Context) error {
	criteria := &logdb.EventCriteria{}
	if name := ctx.String(eventFlag.Name); name != "" {
		found := false
		for _, c := range builtin.Contracts {
			if ev, ok := c.ABI.EventByName(name); ok {
				addr, id := c.Address, ev.ID()
				criteria.Address, criteria.Topics[0] = &addr, &id
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("unknown event %q", name)
		}
	}
	if s := ctx.String(accountFlag.Name); s != "" {
		account, err := ld.ParseAddress(s)
		if err != nil {
			return errors.WithMessage(err, "account")
		}
		topic := account.Topic()
		criteria.Topics[1] = &topic
	}

	filter := &logdb.EventFilter{
		CriteriaSet: []*logdb.EventCriteria{criteria},
		Options:     &logdb.Options{Limit: ctx.Uint64(limitFlag.Name)},
		Order:       logdb.ASC,
	}
	if ctx.IsSet(fromFlag.Name) {
		filter.Range = &logdb.Range{Unit: logdb.Time, From: ctx.Uint64(fromFlag.Name)}
	}
	if ctx.Bool(descFlag.Name) {
		filter.Order = logdb.DESC
	}

	inst, err := openInstance(ctx)
	if err != nil {
		return err
	}
	defer inst.Close()

	events, err := inst.logDB.FilterEvents(context.Background(), filter)
	if err != nil {
		return err
	}
	out := make([]*utils.Event, 0, len(events))
	for _, e := range events {
		out = append(out, utils.ConvertEvent(e.ToEvent()))
	}
	return printJSON(ctx, out)
}
