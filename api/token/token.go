// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/ldstaking/ldstake/api/utils"
	"github.com/ldstaking/ldstake/builtin"
	"github.com/ldstaking/ldstake/builtin/ldtoken"
	"github.com/ldstaking/ldstake/ld"
	"github.com/ldstaking/ldstake/runtime"
	"github.com/ldstaking/ldstake/xenv"
)

type Info struct {
	Address     ld.Address `json:"address"`
	Owner       ld.Address `json:"owner"`
	Name        string     `json:"name"`
	Symbol      string     `json:"symbol"`
	Decimals    uint8      `json:"decimals"`
	TotalSupply string     `json:"totalSupply"`
}

// transferRequest serves transfer, approve and mint. To is the recipient or the spender.
type transferRequest struct {
	utils.Caller
	To     *ld.Address           `json:"to"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type Token struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Token {
	return &Token{rt}
}

func (t *Token) handleGetInfo(w http.ResponseWriter, _ *http.Request) error {
	info := Info{Address: builtin.Token.Address, Decimals: ld.TokenDecimals}
	err := t.rt.View(func(env *xenv.Environment) (err error) {
		token := builtin.Token.WithState(env.State())
		if info.Owner, err = token.Owner(); err != nil {
			return err
		}
		if info.Name, err = token.Name(); err != nil {
			return err
		}
		if info.Symbol, err = token.Symbol(); err != nil {
			return err
		}
		supply, err := token.TotalSupply()
		if err != nil {
			return err
		}
		info.TotalSupply = utils.BigString(supply)
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &info)
}

func (t *Token) handleGetBalance(w http.ResponseWriter, req *http.Request) error {
	account, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	var balance *big.Int
	if err := t.rt.View(func(env *xenv.Environment) (err error) {
		balance, err = builtin.Token.WithState(env.State()).BalanceOf(account)
		return err
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{"balance": utils.BigString(balance)})
}

func (t *Token) handleGetAllowance(w http.ResponseWriter, req *http.Request) error {
	owner, err := utils.AddressVar(req, "owner")
	if err != nil {
		return err
	}
	spender, err := utils.AddressVar(req, "spender")
	if err != nil {
		return err
	}
	var allowance *big.Int
	if err := t.rt.View(func(env *xenv.Environment) (err error) {
		allowance, err = builtin.Token.WithState(env.State()).Allowance(owner, spender)
		return err
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{"allowance": utils.BigString(allowance)})
}

func (t *Token) handleWrite(method string, op func(token *ldtoken.Token, caller, to ld.Address, amount *big.Int) error) utils.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) error {
		var body transferRequest
		if err := utils.ParseJSON(req.Body, &body); err != nil {
			return utils.BadRequest(errors.WithMessage(err, "body"))
		}
		if err := body.Validate(); err != nil {
			return err
		}
		if body.To == nil {
			return utils.BadRequest(errors.New("to: required"))
		}
		amount, err := utils.Amount(body.Amount, "amount")
		if err != nil {
			return err
		}
		return utils.Submit(w, req, t.rt, body.Account(), method, func(env *xenv.Environment) (any, error) {
			return nil, op(builtin.Token.Native(env), env.Caller(), *body.To, amount)
		})
	}
}

func (t *Token) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /token").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetInfo))
	sub.Path("/balances/{address}").
		Methods(http.MethodGet).
		Name("GET /token/balances/{address}").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetBalance))
	sub.Path("/allowances/{owner}/{spender}").
		Methods(http.MethodGet).
		Name("GET /token/allowances/{owner}/{spender}").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetAllowance))

	sub.Path("/transfer").
		Methods(http.MethodPost).
		Name("POST /token/transfer").
		HandlerFunc(utils.WrapHandlerFunc(t.handleWrite("transfer", (*ldtoken.Token).Transfer)))
	sub.Path("/approve").
		Methods(http.MethodPost).
		Name("POST /token/approve").
		HandlerFunc(utils.WrapHandlerFunc(t.handleWrite("approve", (*ldtoken.Token).Approve)))
	sub.Path("/mint").
		Methods(http.MethodPost).
		Name("POST /token/mint").
		HandlerFunc(utils.WrapHandlerFunc(t.handleWrite("mint", (*ldtoken.Token).Mint)))
}
