// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/ldstaking/ldstake/api/utils"
	"github.com/ldstaking/ldstake/health"
)

const defaultMaxClockDrift = time.Second

type API struct {
	healthStatus *health.Health
}

func NewAPI(healthStatus *health.Health) *API {
	return &API{
		healthStatus: healthStatus,
	}
}

func (h *API) handleGetHealth(w http.ResponseWriter, r *http.Request) error {
	maxClockDrift := defaultMaxClockDrift
	if q := r.URL.Query().Get("maxClockDrift"); q != "" {
		if parsed, err := time.ParseDuration(q); err == nil {
			maxClockDrift = parsed
		}
	}

	status, err := h.healthStatus.Status(maxClockDrift)
	if err != nil {
		return err
	}

	if !status.Healthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	return utils.WriteJSON(w, status)
}

func (h *API) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("health").
		HandlerFunc(utils.WrapHandlerFunc(h.handleGetHealth))
}
