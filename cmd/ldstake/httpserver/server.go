// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package httpserver runs the auxiliary metrics and admin listeners of the serve command.
package httpserver

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/ldstaking/ldstake/log"
)

var logger = log.WithContext("pkg", "httpserver")

// start listens on addr and serves handler in the background. It returns the
// url of path on the bound address and a function stopping the server.
func start(name, addr, path string, handler http.Handler) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen %s API addr [%v]", name, addr)
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
	}
	var goes sync.WaitGroup
	goes.Go(func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("server stopped", "name", name, "err", err)
		}
	})
	return "http://" + listener.Addr().String() + path, func() {
		_ = srv.Close()
		goes.Wait()
	}, nil
}
