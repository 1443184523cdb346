// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/ldstaking/ldstake/api/admin/apilogs"
	"github.com/ldstaking/ldstake/api/admin/loglevel"
	"github.com/ldstaking/ldstake/health"

	healthAPI "github.com/ldstaking/ldstake/api/admin/health"
)

// New returns the admin handler. apiLogs toggles request logging on the public API.
func New(logLevel *slog.LevelVar, health *health.Health, apiLogs *atomic.Bool) http.HandlerFunc {
	router := mux.NewRouter()
	sub := router.PathPrefix("/admin").Subrouter()

	loglevel.New(logLevel).Mount(sub, "/loglevel")
	apilogs.New(apiLogs).Mount(sub, "/apilogs")
	healthAPI.NewAPI(health).Mount(sub, "/health")

	handler := handlers.CompressHandler(router)

	return handler.ServeHTTP
}
