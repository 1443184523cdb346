// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"fmt"

	"github.com/ldstaking/ldstake/abi"
	"github.com/ldstaking/ldstake/builtin/gen"
	"github.com/ldstaking/ldstake/ld"
)

type contract struct {
	name    string
	Address ld.Address
	ABI     *abi.ABI
}

func mustLoadContract(name string) *contract {
	abi, err := abi.New(gen.MustABI(name))
	if err != nil {
		panic(fmt.Errorf("load ABI for '%s': %w", name, err))
	}

	return &contract{
		name,
		ld.BytesToAddress([]byte(name)),
		abi,
	}
}

// Name returns the contract name.
func (c *contract) Name() string {
	return c.name
}
