// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ldstaking/ldstake/ld"
)

const (
	ownerHex = "0x7567d83b7b8d80addcb281a71d54fc7b3364ffed"
	aliceHex = "0xd3ae78222beadb038203be21ed5ce7c9b1bff602"
)

func TestParseConfig(t *testing.T) {
	data := fmt.Sprintf(`
launchTime: 1700000000
owner: %s
mints:
  - address: %s
    amount: 2000000ld
  - address: %s
    amount: "1000000000000000000"
staking:
  apr: 5000
  unstakePolicy: claim
  setPool: true
  enable: true
pool:
  funding: 1000000ld
`, ownerHex, ownerHex, aliceHex)

	cfg, err := ParseConfig([]byte(data))
	require.NoError(t, err)

	assert.Equal(t, uint64(1_700_000_000), cfg.LaunchTime)
	assert.Equal(t, ld.MustParseAddress(ownerHex), ld.Address(cfg.Owner))
	assert.Equal(t, ld.DefaultTokenName, cfg.Token.Name)
	assert.Equal(t, ld.DefaultTokenSymbol, cfg.Token.Symbol)
	require.Len(t, cfg.Mints, 2)
	assert.Equal(t, ld.Tokens(2_000_000), cfg.Mints[0].Amount.Int())
	assert.Equal(t, ld.Tokens(1), cfg.Mints[1].Amount.Int())
	assert.Equal(t, ld.Tokens(1_000_000), cfg.Pool.Funding.Int())
	assert.Equal(t, "claim", cfg.Staking.UnstakePolicy)
	assert.True(t, cfg.Staking.Enable)
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"no owner", "staking: {apr: 5000}", "owner must be set"},
		{"bad address", "owner: 0x1234", "invalid length"},
		{"low apr", "owner: " + ownerHex + "\nstaking: {apr: 99}", "apr must be at least 100"},
		{"bad policy", "owner: " + ownerHex + "\nstaking: {apr: 5000, unstakePolicy: burn}", "unknown unstake policy"},
		{"bad amount", "owner: " + ownerHex + "\nmints: [{address: " + aliceHex + ", amount: 1.5}]", "invalid amount"},
		{"zero mint", "owner: " + ownerHex + "\nstaking: {apr: 5000}\nmints: [{address: " + aliceHex + ", amount: 0}]", "mints[0]"},
		{
			"overfunded",
			"owner: " + ownerHex + "\nstaking: {apr: 5000}\nmints: [{address: " + ownerHex + ", amount: 10ld}]\npool: {funding: 11ld}",
			"pool funding exceeds",
		},
		{"enable without pool", "owner: " + ownerHex + "\nstaking: {apr: 5000, enable: true}", "requires setPool"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestConfigEncode(t *testing.T) {
	cfg := NewDevnet()
	data, err := cfg.Encode()
	require.NoError(t, err)

	decoded, err := ParseConfig(data)
	require.NoError(t, err)
	assert.Equal(t, cfg.Owner, decoded.Owner)
	assert.Equal(t, cfg.Pool.Funding.Int(), decoded.Pool.Funding.Int())
	assert.Len(t, decoded.Mints, len(cfg.Mints))
}
