// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package api serves the ledger over JSON/HTTP.
package api

import (
	"net/http"
	"net/http/pprof"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/ldstaking/ldstake/api/logs"
	"github.com/ldstaking/ldstake/api/middleware"
	"github.com/ldstaking/ldstake/api/pool"
	"github.com/ldstaking/ldstake/api/staking"
	"github.com/ldstaking/ldstake/api/token"
	"github.com/ldstaking/ldstake/log"
	"github.com/ldstaking/ldstake/logdb"
	"github.com/ldstaking/ldstake/runtime"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins       string
	PprofOn              bool
	SkipLogs             bool
	EnableMetrics        bool
	LogsLimit            uint64
	EnableReqLogger      *atomic.Bool
	SlowQueriesThreshold time.Duration
	Log5xxErrors         bool
}

// New return api router
func New(rt *runtime.Runtime, logDB *logdb.LogDB, opts Options) http.HandlerFunc {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	staking.New(rt).
		Mount(router, "/staking")
	pool.New(rt).
		Mount(router, "/pool")
	token.New(rt).
		Mount(router, "/token")
	if !opts.SkipLogs && logDB != nil {
		logs.New(logDB, opts.LogsLimit).
			Mount(router, "/logs")
	}

	if opts.PprofOn {
		router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		router.HandleFunc("/debug/pprof/profile", pprof.Profile)
		router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		router.HandleFunc("/debug/pprof/trace", pprof.Trace)
		router.PathPrefix("/debug/pprof/").HandlerFunc(pprof.Index)
	}

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	enableReqLogger := opts.EnableReqLogger
	if enableReqLogger == nil {
		enableReqLogger = &atomic.Bool{}
	}
	router.Use(middleware.RequestLoggerMiddleware(logger, enableReqLogger, opts.SlowQueriesThreshold, opts.Log5xxErrors))

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)

	return handler.ServeHTTP
}
