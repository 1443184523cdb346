// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package testledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ldstaking/ldstake/ld"
)

func TestLedger(t *testing.T) {
	l, err := NewDefault()
	require.NoError(t, err)
	defer l.Close()

	alice := l.Accounts()[1].Address
	index, err := l.Stake(alice, ld.Tokens(10_000))
	require.NoError(t, err)
	assert.Equal(t, uint64(0), index)

	balance, err := l.BalanceOf(alice)
	require.NoError(t, err)
	assert.Equal(t, ld.Tokens(990_000), balance)

	start := l.Now()
	l.Advance(ld.Week)
	assert.Equal(t, start+ld.Week, l.Now())
	assert.Equal(t, start+ld.Week, l.Runtime().Now())
}
