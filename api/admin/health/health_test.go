// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ldstaking/ldstake/health"
)

func get(t *testing.T, router *mux.Router, url string) (*health.Status, int) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	var status health.Status
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &status))
	return &status, rr.Code
}

func TestHealth(t *testing.T) {
	h := &health.Health{}
	router := mux.NewRouter()
	NewAPI(h).Mount(router, "/admin/health")

	status, code := get(t, router, "/admin/health")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.False(t, status.Healthy)

	h.Deployed(true)
	h.NewCommit(1)
	status, code = get(t, router, "/admin/health")
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, status.Healthy)
	assert.Equal(t, uint64(1), status.LastCommit.Seq)

	h.ClockDrift(2 * time.Second)
	_, code = get(t, router, "/admin/health")
	assert.Equal(t, http.StatusServiceUnavailable, code)

	_, code = get(t, router, "/admin/health?maxClockDrift=5s")
	assert.Equal(t, http.StatusOK, code)
}
