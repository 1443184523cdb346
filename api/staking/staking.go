// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/ldstaking/ldstake/api/utils"
	"github.com/ldstaking/ldstake/builtin"
	"github.com/ldstaking/ldstake/builtin/staking"
	"github.com/ldstaking/ldstake/ld"
	"github.com/ldstaking/ldstake/runtime"
	"github.com/ldstaking/ldstake/xenv"
)

type Staking struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Staking {
	return &Staking{rt}
}

func (s *Staking) handleGetInfo(w http.ResponseWriter, _ *http.Request) error {
	var info Info
	err := s.rt.View(func(env *xenv.Environment) (err error) {
		ledger := builtin.Staking.WithState(env.State())
		if info.Owner, err = ledger.Owner(); err != nil {
			return err
		}
		if info.Token, err = ledger.Token(); err != nil {
			return err
		}
		if info.RewardPool, err = ledger.RewardPool(); err != nil {
			return err
		}
		if info.Treasury, err = ledger.Treasury(); err != nil {
			return err
		}
		if info.Apr, err = ledger.AprRate(); err != nil {
			return err
		}
		if info.Lock, err = ledger.Lock(); err != nil {
			return err
		}
		if info.ClaimClosed, err = ledger.ClaimClosed(); err != nil {
			return err
		}
		policy, err := ledger.UnstakePolicy()
		if err != nil {
			return err
		}
		info.UnstakePolicy = string(policy)
		total, err := ledger.TotalStakedAmount()
		if err != nil {
			return err
		}
		info.TotalStaked = utils.BigString(total)
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &info)
}

func (s *Staking) handleGetStakes(w http.ResponseWriter, req *http.Request) error {
	account, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	stakes := make([]*Stake, 0)
	err = s.rt.View(func(env *xenv.Environment) error {
		positions, err := builtin.Staking.WithState(env.State()).Stakes(account)
		if err != nil {
			return err
		}
		for i, pos := range positions {
			stakes = append(stakes, convertStake(uint64(i), pos))
		}
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, stakes)
}

// handleGetStake responds with one position and what a claim would pay at ?time=,
// which defaults to now.
func (s *Staking) handleGetStake(w http.ResponseWriter, req *http.Request) error {
	account, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	index, err := utils.Uint64Var(req, "index")
	if err != nil {
		return err
	}
	at := s.rt.Now()
	if q := req.URL.Query().Get("time"); q != "" {
		if at, err = strconv.ParseUint(q, 10, 64); err != nil {
			return utils.BadRequest(errors.WithMessage(err, "time"))
		}
	}

	var res StakeWithReward
	err = s.rt.View(func(env *xenv.Environment) error {
		ledger := builtin.Staking.WithState(env.State())
		pos, err := ledger.GetUserStake(account, index)
		if err != nil {
			return err
		}
		accrual, err := ledger.PendingReward(account, index, at)
		if err != nil {
			return err
		}
		res.Stake = convertStake(index, pos)
		res.Pending = &PendingReward{
			Time:   at,
			Weeks:  accrual.Weeks,
			Amount: utils.BigString(accrual.Amount),
		}
		return nil
	})
	if errors.Is(err, staking.ErrStakeNotFound) {
		return utils.NotFound(err)
	}
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &res)
}

func (s *Staking) handleStake(w http.ResponseWriter, req *http.Request) error {
	var body stakeRequest
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
	return utils.Submit(w, req, s.rt, body.Account(), "stakeLd", func(env *xenv.Environment) (any, error) {
		index, err := builtin.Staking.Native(env).StakeLd(env.Caller(), amount, env.Now())
		if err != nil {
			return nil, err
		}
		return utils.M{"index": index}, nil
	})
}

func (s *Staking) handleClaim(restake bool) utils.HandlerFunc {
	method := "claimRewards"
	if restake {
		method = "reStake"
	}
	return func(w http.ResponseWriter, req *http.Request) error {
		var body indexRequest
		if err := utils.ParseJSON(req.Body, &body); err != nil {
			return utils.BadRequest(errors.WithMessage(err, "body"))
		}
		if err := body.Validate(); err != nil {
			return err
		}
		if body.Index == nil {
			return utils.BadRequest(errors.New("index: required"))
		}
		return utils.Submit(w, req, s.rt, body.Account(), method, func(env *xenv.Environment) (any, error) {
			ledger := builtin.Staking.Native(env)
			claim := ledger.ClaimRewards
			if restake {
				claim = ledger.ReStake
			}
			amount, err := claim(env.Caller(), *body.Index, env.Now())
			if err != nil {
				return nil, err
			}
			return utils.M{"reward": utils.BigString(amount)}, nil
		})
	}
}

func (s *Staking) handleUnstake(w http.ResponseWriter, req *http.Request) error {
	var body unstakeRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := body.Validate(); err != nil {
		return err
	}
	if body.Index == nil {
		return utils.BadRequest(errors.New("index: required"))
	}
	amount, err := utils.Amount(body.Amount, "amount")
	if err != nil {
		return err
	}
	return utils.Submit(w, req, s.rt, body.Account(), "unstakeLD", func(env *xenv.Environment) (any, error) {
		return nil, builtin.Staking.Native(env).UnstakeLD(env.Caller(), amount, *body.Index, env.Now())
	})
}

// handleOwnerCall serves admin operations taking the caller only.
func (s *Staking) handleOwnerCall(method string, op func(ledger *staking.Staking, caller ld.Address) error) utils.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) error {
		var body utils.Caller
		if err := utils.ParseJSON(req.Body, &body); err != nil {
			return utils.BadRequest(errors.WithMessage(err, "body"))
		}
		if err := body.Validate(); err != nil {
			return err
		}
		return utils.Submit(w, req, s.rt, body.Account(), method, func(env *xenv.Environment) (any, error) {
			return nil, op(builtin.Staking.Native(env), env.Caller())
		})
	}
}

func (s *Staking) handleChangeApr(w http.ResponseWriter, req *http.Request) error {
	var body aprRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := body.Validate(); err != nil {
		return err
	}
	return utils.Submit(w, req, s.rt, body.Account(), "changeApr", func(env *xenv.Environment) (any, error) {
		return nil, builtin.Staking.Native(env).ChangeApr(env.Caller(), body.Apr)
	})
}

func (s *Staking) handleSetAddress(method string, op func(ledger *staking.Staking, caller, addr ld.Address) error) utils.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) error {
		var body addressRequest
		if err := utils.ParseJSON(req.Body, &body); err != nil {
			return utils.BadRequest(errors.WithMessage(err, "body"))
		}
		if err := body.Validate(); err != nil {
			return err
		}
		if body.Address == nil {
			return utils.BadRequest(errors.New("address: required"))
		}
		return utils.Submit(w, req, s.rt, body.Account(), method, func(env *xenv.Environment) (any, error) {
			return nil, op(builtin.Staking.Native(env), env.Caller(), *body.Address)
		})
	}
}

func (s *Staking) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /staking").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetInfo))
	sub.Path("/stakes/{address}").
		Methods(http.MethodGet).
		Name("GET /staking/stakes/{address}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetStakes))
	sub.Path("/stakes/{address}/{index}").
		Methods(http.MethodGet).
		Name("GET /staking/stakes/{address}/{index}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetStake))

	sub.Path("/stake").
		Methods(http.MethodPost).
		Name("POST /staking/stake").
		HandlerFunc(utils.WrapHandlerFunc(s.handleStake))
	sub.Path("/claim").
		Methods(http.MethodPost).
		Name("POST /staking/claim").
		HandlerFunc(utils.WrapHandlerFunc(s.handleClaim(false)))
	sub.Path("/restake").
		Methods(http.MethodPost).
		Name("POST /staking/restake").
		HandlerFunc(utils.WrapHandlerFunc(s.handleClaim(true)))
	sub.Path("/unstake").
		Methods(http.MethodPost).
		Name("POST /staking/unstake").
		HandlerFunc(utils.WrapHandlerFunc(s.handleUnstake))

	sub.Path("/admin/enable").
		Methods(http.MethodPost).
		Name("POST /staking/admin/enable").
		HandlerFunc(utils.WrapHandlerFunc(s.handleOwnerCall("enableStaking", (*staking.Staking).EnableStaking)))
	sub.Path("/admin/disable").
		Methods(http.MethodPost).
		Name("POST /staking/admin/disable").
		HandlerFunc(utils.WrapHandlerFunc(s.handleOwnerCall("disableStaking", (*staking.Staking).DisableStaking)))
	sub.Path("/admin/apr").
		Methods(http.MethodPost).
		Name("POST /staking/admin/apr").
		HandlerFunc(utils.WrapHandlerFunc(s.handleChangeApr))
	sub.Path("/admin/pool").
		Methods(http.MethodPost).
		Name("POST /staking/admin/pool").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSetAddress("setPool", (*staking.Staking).SetPool)))
	sub.Path("/admin/treasury").
		Methods(http.MethodPost).
		Name("POST /staking/admin/treasury").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSetAddress("changeTreasuryAddress", (*staking.Staking).ChangeTreasuryAddress)))
	sub.Path("/admin/claims/enable").
		Methods(http.MethodPost).
		Name("POST /staking/admin/claims/enable").
		HandlerFunc(utils.WrapHandlerFunc(s.handleOwnerCall("enableRewardClaims", (*staking.Staking).EnableRewardClaims)))
	sub.Path("/admin/claims/disable").
		Methods(http.MethodPost).
		Name("POST /staking/admin/claims/disable").
		HandlerFunc(utils.WrapHandlerFunc(s.handleOwnerCall("disableRewardClaims", (*staking.Staking).DisableRewardClaims)))
}
