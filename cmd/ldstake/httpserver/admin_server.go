// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpserver

import (
	"log/slog"
	"sync/atomic"

	"github.com/ldstaking/ldstake/api/admin"
	"github.com/ldstaking/ldstake/health"
)

// StartAdminServer exposes log level, health and api logs toggles under /admin.
func StartAdminServer(
	addr string,
	logLevel *slog.LevelVar,
	health *health.Health,
	apiLogs *atomic.Bool,
) (string, func(), error) {
	return start("admin", addr, "/admin", admin.New(logLevel, health, apiLogs))
}
