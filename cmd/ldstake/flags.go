// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"
)

var (
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Value: defaultDataDir(),
		Usage: "directory for ledger databases",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: 3,
		Usage: "log verbosity (0-5)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "output logs in JSON format",
	}
	timeFlag = cli.Uint64Flag{
		Name:  "time",
		Usage: "unix time used as 'now' instead of the system clock",
	}
	callerFlag = cli.StringFlag{
		Name:  "caller",
		Usage: "address the call is made on behalf of",
	}

	// init
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "path to the deployment config, the devnet config is used if not set",
	}

	// serve
	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Value: "localhost:8669",
		Usage: "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Value: "",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	apiLogsLimitFlag = cli.Uint64Flag{
		Name:  "api-logs-limit",
		Value: 1000,
		Usage: "limit the number of logs returned by /logs API",
	}
	enableAPILogsFlag = cli.BoolFlag{
		Name:  "enable-api-logs",
		Usage: "enables API requests logging",
	}
	pprofFlag = cli.BoolFlag{
		Name:  "pprof",
		Usage: "turn on go-pprof",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "enables metrics collection",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Value: "localhost:2112",
		Usage: "metrics service listening address",
	}
	enableAdminFlag = cli.BoolFlag{
		Name:  "enable-admin",
		Usage: "enables admin server",
	}
	adminAddrFlag = cli.StringFlag{
		Name:  "admin-addr",
		Value: "localhost:2113",
		Usage: "admin service listening address",
	}
	skipNTPFlag = cli.BoolFlag{
		Name:  "skip-ntp",
		Usage: "do not check the clock drift against NTP",
	}

	// info
	dumpFlag = cli.BoolFlag{
		Name:  "dump",
		Usage: "dump the raw contract storage",
	}

	// events
	eventFlag = cli.StringFlag{
		Name:  "event",
		Usage: "event name, e.g. Staked",
	}
	accountFlag = cli.StringFlag{
		Name:  "account",
		Usage: "account in the first indexed argument",
	}
	fromFlag = cli.Uint64Flag{
		Name:  "from",
		Usage: "earliest event time",
	}
	limitFlag = cli.Uint64Flag{
		Name:  "limit",
		Value: 100,
		Usage: "maximum number of events",
	}
	descFlag = cli.BoolFlag{
		Name:  "desc",
		Usage: "newest first",
	}
)
