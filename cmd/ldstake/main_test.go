// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	goruntime "runtime"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ldstaking/ldstake/genesis"
	"github.com/ldstaking/ldstake/ld"
	"github.com/ldstaking/ldstake/runtime"
)

type testCLI struct {
	t   *testing.T
	dir string
}

func (c *testCLI) run(now uint64, caller string, args ...string) (string, error) {
	app := newApp()
	var buf bytes.Buffer
	app.Writer = &buf
	argv := []string{"ldstake", "--data-dir", c.dir, "--verbosity", "0", "--time", strconv.FormatUint(now, 10)}
	if caller != "" {
		argv = append(argv, "--caller", caller)
	}
	err := app.Run(append(argv, args...))
	return buf.String(), err
}

func (c *testCLI) mustRun(now uint64, caller string, args ...string) string {
	out, err := c.run(now, caller, args...)
	require.NoError(c.t, err, "%v", args)
	return out
}

func TestCommands(t *testing.T) {
	c := &testCLI{t, t.TempDir()}
	t0 := genesis.NewDevnet().LaunchTime
	owner := genesis.DevAccounts()[0].Address.String()
	alice := genesis.DevAccounts()[1].Address.String()

	_, err := c.run(t0, "", "info")
	assert.ErrorContains(t, err, "contracts not deployed")

	out := c.mustRun(t0, "", "init")
	assert.Contains(t, out, `"method": "deploy"`)
	_, err = c.run(t0, "", "init")
	assert.ErrorIs(t, err, genesis.ErrAlreadyDeployed)

	_, err = c.run(t0, "", "stake", "1ld")
	assert.ErrorContains(t, err, "--caller is required")

	assert.Contains(t, c.mustRun(t0, owner, "enable-staking"), "staking is already open")

	out = c.mustRun(t0, alice, "stake", "10000ld")
	assert.Contains(t, out, `"index": 0`)
	assert.Contains(t, out, "Staked")

	_, err = c.run(t0+ld.Day, alice, "claim", "0")
	assert.ErrorContains(t, err, "ClaimOrUnstakeWindowNotOpen")

	now := t0 + 21*ld.Day
	out = c.mustRun(now, "", "stakes", alice)
	assert.Contains(t, out, `"stakedAmount": "10000"`)
	assert.Contains(t, out, `"pendingWeeks": 3`)

	out = c.mustRun(now, alice, "claim", "0")
	assert.Contains(t, out, `"reward": "288461538461538461538"`)

	_, err = c.run(now-1, alice, "claim", "0")
	assert.ErrorIs(t, err, runtime.ErrTimeWentBackwards)

	_, err = c.run(now, alice, "change-apr", "1000")
	assert.ErrorContains(t, err, "OwnableUnauthorizedAccount")
	c.mustRun(now, owner, "change-apr", "1000")

	_, err = c.run(now, owner, "change-treasury", ld.Address{}.String())
	assert.ErrorContains(t, err, "invalid treasury address")
	_, err = c.run(now, owner, "fund-pool", "0")
	assert.ErrorContains(t, err, "amount must be greater than zero")
	c.mustRun(now, owner, "fund-pool", "100ld")

	c.mustRun(now, owner, "disable-claims")
	assert.Contains(t, c.mustRun(now, owner, "disable-claims"), "claims are already closed")
	c.mustRun(now, owner, "disable-staking")
	assert.Contains(t, c.mustRun(now, owner, "disable-staking"), "staking is already closed")

	out = c.mustRun(now, "", "info")
	assert.Contains(t, out, `"apr": 1000`)
	assert.Contains(t, out, `"lock": true`)
	assert.Contains(t, out, `"claimClosed": true`)
	assert.Contains(t, out, `"totalStakedAmount": "10000"`)

	assert.Contains(t, c.mustRun(now, "", "info", "--dump"), "LdStaking")

	out = c.mustRun(now, "", "events", "--event", "RewardClaimed", "--account", alice)
	assert.Contains(t, out, `"name": "RewardClaimed"`)

	now += ld.Week
	_, err = c.run(now, alice, "unstake", "0")
	assert.ErrorContains(t, err, "expected 2 argument(s)")
	_, err = c.run(now, alice, "unstake", "0", "abc")
	assert.ErrorContains(t, err, "invalid amount")
	out = c.mustRun(now, alice, "unstake", "0", "10000ld")
	assert.Contains(t, out, "Unstake")
}

func TestNodeName(t *testing.T) {
	name := nodeName()
	assert.True(t, strings.HasPrefix(name, "ldstake/v"+fullVersion()+"/"), name)
	assert.Contains(t, name, goruntime.GOOS)
}
