// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"net/http"
	"strconv"

	"github.com/pkg/errors"

	"github.com/ldstaking/ldstake/ld"
	"github.com/ldstaking/ldstake/runtime"
	"github.com/ldstaking/ldstake/xenv"
)

// CallFunc runs a contract operation and returns its output, if any.
type CallFunc func(env *xenv.Environment) (any, error)

// Submit executes fn on behalf of caller and responds with the receipt.
// The call time is taken from the runtime clock. With ?simulate=true the call
// is run against the current state and discarded.
func Submit(w http.ResponseWriter, req *http.Request, rt *runtime.Runtime, caller ld.Address, method string, fn CallFunc) error {
	simulate := false
	if q := req.URL.Query().Get("simulate"); q != "" {
		var err error
		if simulate, err = strconv.ParseBool(q); err != nil {
			return BadRequest(errors.WithMessage(err, "simulate"))
		}
	}
	exec := rt.Execute
	if simulate {
		exec = rt.Simulate
	}

	var output any
	receipt, err := exec(req.Context(), &xenv.TransactionContext{Caller: caller, Method: method}, func(env *xenv.Environment) error {
		out, err := fn(env)
		output = out
		return err
	})
	if err != nil {
		if errors.Is(err, runtime.ErrTimeWentBackwards) {
			return HTTPError(err, http.StatusConflict)
		}
		return err
	}
	res := ConvertReceipt(receipt)
	res.Output = output
	res.Simulated = simulate
	return WriteJSON(w, res)
}
