// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/ldstaking/ldstake/api/utils"
	"github.com/ldstaking/ldstake/builtin"
	"github.com/ldstaking/ldstake/ld"
	"github.com/ldstaking/ldstake/runtime"
	"github.com/ldstaking/ldstake/xenv"
)

type Info struct {
	Owner        ld.Address `json:"owner"`
	Token        ld.Address `json:"token"`
	Staking      ld.Address `json:"staking"`
	PooledAmount string     `json:"pooledAmount"`
	Balance      string     `json:"balance"`
}

type fundRequest struct {
	utils.Caller
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type stakingRequest struct {
	utils.Caller
	Address *ld.Address `json:"address"`
}

type Pool struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Pool {
	return &Pool{rt}
}

func (p *Pool) handleGetInfo(w http.ResponseWriter, _ *http.Request) error {
	var info Info
	err := p.rt.View(func(env *xenv.Environment) (err error) {
		pool := builtin.RewardPool.WithState(env.State())
		if info.Owner, err = pool.Owner(); err != nil {
			return err
		}
		if info.Token, err = pool.Token(); err != nil {
			return err
		}
		if info.Staking, err = pool.Staking(); err != nil {
			return err
		}
		pooled, err := pool.PooledAmount()
		if err != nil {
			return err
		}
		balance, err := pool.Balance()
		if err != nil {
			return err
		}
		info.PooledAmount = utils.BigString(pooled)
		info.Balance = utils.BigString(balance)
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &info)
}

// handleFund pulls tokens from the owner, who must have approved the pool beforehand.
func (p *Pool) handleFund(w http.ResponseWriter, req *http.Request) error {
	var body fundRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := body.Validate(); err != nil {
		return err
	}
	amount, err := utils.Amount(body.Amount, "amount")
	if err != nil {
		return err
	}
	return utils.Submit(w, req, p.rt, body.Account(), "fundPool", func(env *xenv.Environment) (any, error) {
		return nil, builtin.RewardPool.Native(env).FundPool(env.Caller(), amount)
	})
}

func (p *Pool) handleWithdraw(w http.ResponseWriter, req *http.Request) error {
	var body utils.Caller
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := body.Validate(); err != nil {
		return err
	}
	return utils.Submit(w, req, p.rt, body.Account(), "withdrawRemainingTokens", func(env *xenv.Environment) (any, error) {
		return nil, builtin.RewardPool.Native(env).WithdrawRemainingTokens(env.Caller())
	})
}

func (p *Pool) handleSetStaking(w http.ResponseWriter, req *http.Request) error {
	var body stakingRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := body.Validate(); err != nil {
		return err
	}
	if body.Address == nil {
		return utils.BadRequest(errors.New("address: required"))
	}
	return utils.Submit(w, req, p.rt, body.Account(), "setStaking", func(env *xenv.Environment) (any, error) {
		return nil, builtin.RewardPool.Native(env).SetStaking(env.Caller(), *body.Address)
	})
}

func (p *Pool) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /pool").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetInfo))
	sub.Path("/fund").
		Methods(http.MethodPost).
		Name("POST /pool/fund").
		HandlerFunc(utils.WrapHandlerFunc(p.handleFund))
	sub.Path("/withdraw").
		Methods(http.MethodPost).
		Name("POST /pool/withdraw").
		HandlerFunc(utils.WrapHandlerFunc(p.handleWithdraw))
	sub.Path("/staking").
		Methods(http.MethodPost).
		Name("POST /pool/staking").
		HandlerFunc(utils.WrapHandlerFunc(p.handleSetStaking))
}
