// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/ldstaking/ldstake/ld"
)

func TestErrorFormat(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{New("StakingNotStarted"), "StakingNotStarted()"},
		{ErrZeroAddress.With("Staking contract address can't be zero"), `ZeroAddress("Staking contract address can't be zero")`},
		{New("ERC20InsufficientBalance", ld.Address{1}, big.NewInt(5), big.NewInt(10)),
			"ERC20InsufficientBalance(0x0100000000000000000000000000000000000000, 5, 10)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.Error())
	}
}

func TestIsRevertErr(t *testing.T) {
	assert.False(t, IsRevertErr(nil))
	assert.False(t, IsRevertErr("a string"))
	assert.False(t, IsRevertErr(errors.New("plain")))
	assert.True(t, IsRevertErr(New("StakeNotFound")))
	assert.True(t, IsRevertErr(errors.Wrap(New("StakeNotFound"), "claim")))
}

func TestErrorsIs(t *testing.T) {
	err := errors.Wrap(ErrZeroAddress.With("LDToken contract address can't be zero"), "initialize")

	assert.ErrorIs(t, err, ErrZeroAddress)
	assert.NotErrorIs(t, err, ErrInvalidAmount)
	assert.Equal(t, "ZeroAddress", Name(err))
	assert.Equal(t, "", Name(errors.New("plain")))
}
