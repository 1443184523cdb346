// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/beevik/ntp"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/ldstaking/ldstake/api"
	"github.com/ldstaking/ldstake/cmd/ldstake/httpserver"
	"github.com/ldstaking/ldstake/genesis"
	"github.com/ldstaking/ldstake/health"
	"github.com/ldstaking/ldstake/metrics"
	"github.com/ldstaking/ldstake/tx"
)

const (
	ntpServer        = "pool.ntp.org"
	ntpCheckInterval = 10 * time.Minute
	maxClockOffset   = time.Minute
)

func serveAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()

	inst, err := openInstance(ctx)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing databases..."); inst.Close() }()

	deployed, err := genesis.IsDeployed(inst.rt)
	if err != nil {
		return err
	}
	if !deployed {
		logger.Warn("contracts not deployed, run init first")
	}

	h := &health.Health{}
	h.Deployed(deployed)
	inst.rt.OnCommit(func(receipt *tx.Receipt) {
		h.NewCommit(receipt.Seq)
		if receipt.Method == "deploy" {
			h.Deployed(true)
		}
	})

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
		url, closeFunc, err := httpserver.StartMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping metrics server..."); closeFunc() }()
		logger.Info("metrics server started", "url", url)
	}

	apiLogs := &atomic.Bool{}
	apiLogs.Store(ctx.Bool(enableAPILogsFlag.Name))
	if ctx.Bool(enableAdminFlag.Name) {
		url, closeFunc, err := httpserver.StartAdminServer(ctx.String(adminAddrFlag.Name), logLevel, h, apiLogs)
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping admin server..."); closeFunc() }()
		logger.Info("admin server started", "url", url)
	}

	handler := api.New(inst.rt, inst.logDB, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		PprofOn:              ctx.Bool(pprofFlag.Name),
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
		LogsLimit:            ctx.Uint64(apiLogsLimitFlag.Name),
		EnableReqLogger:      apiLogs,
		SlowQueriesThreshold: time.Second,
		Log5xxErrors:         true,
	})

	addr := ctx.String(apiAddrFlag.Name)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "listen API addr [%v]", addr)
	}
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}

	fmt.Fprintf(ctx.App.Writer, `Starting %v
    Data dir     [ %v ]
    Last call    [ #%v @%v ]
    API portal   [ %v ]
`,
		nodeName(),
		ctx.GlobalString(dataDirFlag.Name),
		inst.rt.Seq(), time.Unix(int64(inst.rt.LastTime()), 0),
		"http://"+listener.Addr().String()+"/")

	g, gctx := errgroup.WithContext(handleExitSignal())
	g.Go(func() error {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("stopping API server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if !ctx.Bool(skipNTPFlag.Name) {
		g.Go(func() error {
			watchClockDrift(gctx, h)
			return nil
		})
	}
	return g.Wait()
}

// watchClockDrift periodically measures the local clock against NTP.
func watchClockDrift(ctx context.Context, h *health.Health) {
	ticker := time.NewTicker(ntpCheckInterval)
	defer ticker.Stop()
	for {
		checkClockOffset(h)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func checkClockOffset(h *health.Health) {
	resp, err := ntp.Query(ntpServer)
	if err != nil {
		logger.Debug("failed to access NTP", "err", err)
		return
	}
	h.ClockDrift(resp.ClockOffset)
	offset := resp.ClockOffset
	if offset < 0 {
		offset = -offset
	}
	if offset > maxClockOffset {
		logger.Warn("clock offset detected", "offset", common.PrettyDuration(resp.ClockOffset))
	}
}
