// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reward

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common/math"
	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ldstaking/ldstake/ld"
)

func TestWeeksElapsed(t *testing.T) {
	const start = uint64(1_700_000_000)
	tests := []struct {
		name string
		now  uint64
		want uint64
	}{
		{"clock behind", start - 1, 0},
		{"same time", start, 0},
		{"six days", start + 6*ld.Day, 0},
		{"one second short", start + ld.Week - 1, 0},
		{"seven days", start + 7*ld.Day, 1},
		{"eight days", start + 8*ld.Day, 1},
		{"twenty one days", start + 21*ld.Day, 3},
		{"2100 days", start + 2100*ld.Day, 300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WeeksElapsed(start, tt.now))
		})
	}
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name   string
		staked *big.Int
		apr    uint64
		weeks  uint64
		want   string
	}{
		{"three weeks", ld.Tokens(10_000), 5000, 3, "288461538461538461538"},
		{"three hundred weeks", ld.Tokens(10_000), 5000, 300, "28846153846153846153846"},
		{"one week", ld.Tokens(2_000_000), 5000, 1, "19230769230769230769230"},
		{"zero weeks", ld.Tokens(10_000), 5000, 0, "0"},
		{"dust", big.NewInt(1), 5000, 1, "0"},
		{"empty position", new(big.Int), 5000, 10, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compute(tt.staked, tt.apr, tt.weeks)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestComputeOverflow(t *testing.T) {
	_, err := Compute(math.MaxBig256, 5000, 1)
	assert.ErrorIs(t, err, ErrRewardOverflow)

	_, err = Compute(new(big.Int).Lsh(big.NewInt(1), 256), 100, 1)
	assert.ErrorIs(t, err, ErrRewardOverflow)

	_, err = Compute(big.NewInt(-1), 100, 1)
	assert.Error(t, err)
}

func TestEvaluate(t *testing.T) {
	const start = uint64(1_700_000_000)

	acc, err := Evaluate(ld.Tokens(10_000), 5000, start, start+22*ld.Day)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), acc.Weeks)
	assert.Equal(t, "288461538461538461538", acc.Amount.String())
	// the partial day is carried into the next window
	assert.Equal(t, start+21*ld.Day, acc.LastClaimed)

	acc, err = Evaluate(ld.Tokens(10_000), 5000, start, start-1)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), acc.Weeks)
	assert.Equal(t, start, acc.LastClaimed)
}

// A single claim after n weeks never pays less than n claims of one week each,
// and the difference is only rounding dust.
func TestNoCompounding(t *testing.T) {
	f := fuzz.New().NilChance(0)
	for range 200 {
		var (
			staked uint64
			apr    uint16
			weeks  uint16
		)
		f.Fuzz(&staked)
		f.Fuzz(&apr)
		f.Fuzz(&weeks)

		amount := new(big.Int).Mul(new(big.Int).SetUint64(staked), big.NewInt(1_000_000))
		rate := uint64(apr) + ld.MinAprRate
		n := uint64(weeks%520) + 1

		total, err := Compute(amount, rate, n)
		require.NoError(t, err)

		one, err := Compute(amount, rate, 1)
		require.NoError(t, err)
		sum := new(big.Int).Mul(one, new(big.Int).SetUint64(n))

		assert.True(t, total.Cmp(sum) >= 0)
		assert.True(t, new(big.Int).Sub(total, sum).Cmp(new(big.Int).SetUint64(n)) < 0)
	}
}
