// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/ldstaking/ldstake/ld"
)

// Bool is a boolean storage variable. An unset slot reads as the declared default.
type Bool struct {
	context *Context
	pos     ld.Bytes32
	def     bool
}

func NewBool(context *Context, pos ld.Bytes32, def bool) *Bool {
	return &Bool{context: context, pos: pos, def: def}
}

func (b *Bool) Get() (bool, error) {
	storage, err := b.context.state.GetStorage(b.context.address, b.pos)
	if err != nil {
		return false, err
	}
	switch storage[31] {
	case 1:
		return true, nil
	case 2:
		return false, nil
	}
	return b.def, nil
}

// Set stores 1 for true and 2 for false so that false survives a non-false default.
func (b *Bool) Set(v bool) {
	var storage ld.Bytes32
	if v {
		storage[31] = 1
	} else {
		storage[31] = 2
	}
	b.context.state.SetStorage(b.context.address, b.pos, storage)
}
