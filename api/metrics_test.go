// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ldstaking/ldstake/api"
	"github.com/ldstaking/ldstake/metrics"
	"github.com/ldstaking/ldstake/test/testledger"
)

func TestMetricsMiddleware(t *testing.T) {
	metrics.InitializePrometheusMetrics()

	ledger, err := testledger.NewDefault()
	require.NoError(t, err)
	defer ledger.Close()

	ts := httptest.NewServer(api.New(ledger.Runtime(), ledger.LogDB(), api.Options{EnableMetrics: true, LogsLimit: 10}))
	defer ts.Close()

	get := func(path string) int {
		res, err := http.Get(ts.URL + path)
		require.NoError(t, err)
		res.Body.Close()
		return res.StatusCode
	}
	assert.Equal(t, http.StatusOK, get("/staking"))
	assert.Equal(t, http.StatusOK, get("/staking"))
	assert.Equal(t, http.StatusNotFound, get("/staking/stakes/"+ledger.Owner().String()+"/7"))
	// not a route
	assert.Equal(t, http.StatusNotFound, get("/nowhere"))

	rec := httptest.NewRecorder()
	metrics.HTTPHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	text := string(body)

	assert.Contains(t, text, `ldstake_api_request_count{code="200",method="GET",name="GET /staking"} 2`)
	assert.Contains(t, text, `ldstake_api_request_count{code="404",method="GET",name="GET /staking/stakes/{address}/{index}"} 1`)
	assert.Contains(t, text, `ldstake_http_duration_ms_count{code="200",method="GET",name="GET /staking"} 2`)
	assert.NotContains(t, text, "nowhere")
}
