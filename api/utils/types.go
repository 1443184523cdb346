// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"math/big"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/ldstaking/ldstake/builtin"
	"github.com/ldstaking/ldstake/ld"
	"github.com/ldstaking/ldstake/tx"
)

// Event is a log with its arguments decoded when the emitter is known.
type Event struct {
	Address ld.Address     `json:"address"`
	Name    string         `json:"name,omitempty"`
	Topics  []ld.Bytes32   `json:"topics"`
	Data    string         `json:"data"`
	Args    map[string]any `json:"args,omitempty"`
}

// ConvertEvent decodes a log emitted by the builtin contracts.
func ConvertEvent(ev *tx.Event) *Event {
	out := &Event{
		Address: ev.Address,
		Topics:  ev.Topics,
		Data:    hexutil.Encode(ev.Data),
	}
	abiEvent, ok := builtin.EventOf(ev)
	if !ok {
		return out
	}
	out.Name = abiEvent.Name()
	if args, err := abiEvent.Decode(ev); err == nil {
		for k, v := range args {
			// keep 256 bit values exact in JSON
			if b, ok := v.(*big.Int); ok {
				args[k] = b.String()
			}
		}
		out.Args = args
	}
	return out
}

// Receipt is the outcome of a committed call.
type Receipt struct {
	TxID   ld.Bytes32 `json:"txID"`
	Seq    uint64     `json:"seq"`
	Caller ld.Address `json:"caller"`
	Time   uint64     `json:"time"`
	Method string     `json:"method"`
	Events []*Event   `json:"events"`
	// set by calls returning a value, e.g. the position index or the paid reward
	Output    any  `json:"output,omitempty"`
	Simulated bool `json:"simulated,omitempty"`
}

func ConvertReceipt(r *tx.Receipt) *Receipt {
	events := make([]*Event, 0, len(r.Events))
	for _, ev := range r.Events {
		events = append(events, ConvertEvent(ev))
	}
	return &Receipt{
		TxID:   r.TxID,
		Seq:    r.Seq,
		Caller: r.Caller,
		Time:   r.Time,
		Method: r.Method,
		Events: events,
	}
}

// Caller is embedded in every write request.
type Caller struct {
	Caller *ld.Address `json:"caller"`
}

// Account returns the caller address. Validate must have passed.
func (c *Caller) Account() ld.Address {
	return *c.Caller
}

// Validate returns a bad request error when the caller is missing.
func (c *Caller) Validate() error {
	if c.Caller == nil || c.Caller.IsZero() {
		return BadRequest(errors.New("caller: required"))
	}
	return nil
}

// Amount returns the value of a required, non-negative amount field.
func Amount(v *math.HexOrDecimal256, field string) (*big.Int, error) {
	if v == nil {
		return nil, BadRequest(errors.Errorf("%s: required", field))
	}
	amount := (*big.Int)(v)
	if amount.Sign() < 0 {
		return nil, BadRequest(errors.Errorf("%s: must not be negative", field))
	}
	return new(big.Int).Set(amount), nil
}

// AddressVar parses a path variable as an address.
func AddressVar(req *http.Request, name string) (ld.Address, error) {
	addr, err := ld.ParseAddress(mux.Vars(req)[name])
	if err != nil {
		return ld.Address{}, BadRequest(errors.WithMessage(err, name))
	}
	return addr, nil
}

// Uint64Var parses a path variable as an unsigned integer.
func Uint64Var(req *http.Request, name string) (uint64, error) {
	v, err := strconv.ParseUint(mux.Vars(req)[name], 10, 64)
	if err != nil {
		return 0, BadRequest(errors.WithMessage(err, name))
	}
	return v, nil
}

// BigString renders an amount as a decimal string.
func BigString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}
