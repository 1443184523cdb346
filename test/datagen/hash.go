// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	"crypto/rand"

	"github.com/ldstaking/ldstake/ld"
)

func RandAddress() ld.Address {
	var addr ld.Address

	rand.Read(addr[:])
	return addr
}
