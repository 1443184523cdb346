// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"log/slog"
	"os"
	goruntime "runtime"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/ldstaking/ldstake/log"
)

var (
	version   string
	gitCommit string
	gitTag    string
	logger    = log.WithContext("pkg", "ldstake")

	// shared with the admin API
	logLevel = new(slog.LevelVar)
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

// nodeName identifies the running binary in the startup banner.
func nodeName() string {
	return fmt.Sprintf("ldstake/v%s/%s-%s/%s", fullVersion(), goruntime.GOOS, goruntime.GOARCH, goruntime.Version())
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Version = fullVersion()
	app.Name = "ldstake"
	app.Usage = "LD staking reward ledger"
	app.Flags = []cli.Flag{
		dataDirFlag,
		verbosityFlag,
		jsonLogsFlag,
		timeFlag,
		callerFlag,
	}
	app.Before = func(ctx *cli.Context) error {
		initLogger(ctx)
		return nil
	}
	app.Commands = []cli.Command{
		{
			Name:   "init",
			Usage:  "deploy token, reward pool and staking ledger",
			Flags:  []cli.Flag{configFlag},
			Action: initAction,
		},
		{
			Name:  "serve",
			Usage: "serve the REST API",
			Flags: []cli.Flag{
				apiAddrFlag,
				apiCorsFlag,
				apiLogsLimitFlag,
				enableAPILogsFlag,
				pprofFlag,
				enableMetricsFlag,
				metricsAddrFlag,
				enableAdminFlag,
				adminAddrFlag,
				skipNTPFlag,
			},
			Action: serveAction,
		},
		{Name: "enable-staking", Usage: "open staking", Action: enableStakingAction},
		{Name: "disable-staking", Usage: "close staking", Action: disableStakingAction},
		{Name: "change-apr", Usage: "set the apr, 5000 is 50%", ArgsUsage: "<apr>", Action: changeAprAction},
		{Name: "set-pool", Usage: "set the reward pool", ArgsUsage: "<address>", Action: setPoolAction},
		{Name: "change-treasury", Usage: "set the treasury", ArgsUsage: "<address>", Action: changeTreasuryAction},
		{Name: "disable-claims", Usage: "close reward claims", Action: disableClaimsAction},
		{Name: "enable-claims", Usage: "reopen reward claims", Action: enableClaimsAction},
		{Name: "fund-pool", Usage: "approve and fund the reward pool", ArgsUsage: "<amount>", Action: fundPoolAction},
		{Name: "withdraw-pool", Usage: "withdraw the reward pool balance", Action: withdrawPoolAction},
		{Name: "mint", Usage: "mint tokens", ArgsUsage: "<to> <amount>", Action: mintAction},
		{Name: "transfer", Usage: "transfer tokens", ArgsUsage: "<to> <amount>", Action: transferAction},
		{Name: "approve", Usage: "approve a spender", ArgsUsage: "<spender> <amount>", Action: approveAction},
		{Name: "stake", Usage: "approve and stake tokens", ArgsUsage: "<amount>", Action: stakeAction},
		{Name: "claim", Usage: "claim the rewards of a position", ArgsUsage: "<index>", Action: claimAction(false)},
		{Name: "restake", Usage: "stake the rewards of a position as a new position", ArgsUsage: "<index>", Action: claimAction(true)},
		{Name: "unstake", Usage: "withdraw from a position", ArgsUsage: "<index> <amount>", Action: unstakeAction},
		{Name: "info", Usage: "show the ledger state", Flags: []cli.Flag{dumpFlag}, Action: infoAction},
		{Name: "stakes", Usage: "list the positions of an account", ArgsUsage: "<address>", Action: stakesAction},
		{
			Name:   "events",
			Usage:  "query indexed events",
			Flags:  []cli.Flag{eventFlag, accountFlag, fromFlag, limitFlag, descFlag},
			Action: eventsAction,
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
