// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"strings"

	"github.com/ldstaking/ldstake/metrics"
)

var (
	metricCriteriaLengthBucket = metrics.LazyLoadHistogramVec("logdb_criteria_length_bucket", []string{"type"}, []int64{0, 1, 2, 5, 10, 25, 100})
	metricEventQueryParameters = metrics.LazyLoadCounterVec("logdb_query_parameters", []string{"parameters"})
	metricQueryOrderCounter    = metrics.LazyLoadCounterVec("logdb_query_order", []string{"order", "type"})
	metricLimitBucket          = metrics.LazyLoadHistogramVec("logdb_query_limit_bucket", []string{"type"}, []int64{
		0, 5, 10, 25, 50, 100, 250, 500, 1000,
	})
)

func metricsHandleEventsFilter(filter *EventFilter) {
	if metrics.NoOp() {
		return
	}
	metricsHandleCommon(filter.Options, filter.Order, len(filter.CriteriaSet), "event")

	for _, c := range filter.CriteriaSet {
		params := make([]string, 0, 6)
		if c.Address != nil {
			params = append(params, "address")
		}
		for i, topic := range c.Topics {
			if topic != nil {
				params = append(params, "topic"+string(rune('0'+i)))
			}
		}
		metricEventQueryParameters().AddWithLabel(1, map[string]string{"parameters": strings.Join(params, ",")})
	}
}

func metricsHandleCommon(options *Options, order Order, criteriaLen int, queryType string) {
	if metrics.NoOp() {
		return
	}
	metricCriteriaLengthBucket().ObserveWithLabels(int64(criteriaLen), map[string]string{"type": queryType})

	if order == DESC {
		metricQueryOrderCounter().AddWithLabel(1, map[string]string{"order": "desc", "type": queryType})
	} else {
		metricQueryOrderCounter().AddWithLabel(1, map[string]string{"order": "asc", "type": queryType})
	}
	if options == nil {
		return
	}
	limit := min(options.Limit, 1001)
	metricLimitBucket().ObserveWithLabels(int64(limit), map[string]string{"type": queryType})
}
