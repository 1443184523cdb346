// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logs

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/ldstaking/ldstake/api/utils"
	"github.com/ldstaking/ldstake/logdb"
)

type Logs struct {
	db    *logdb.LogDB
	limit uint64
}

func New(db *logdb.LogDB, logsLimit uint64) *Logs {
	return &Logs{
		db,
		logsLimit,
	}
}

// options applies the default limit, one above the maximum to detect overflow.
func (l *Logs) options(opts *Options) *logdb.Options {
	out := &logdb.Options{Limit: l.limit + 1}
	if opts != nil {
		out.Offset = opts.Offset
		if opts.Limit != nil {
			out.Limit = *opts.Limit
		}
	}
	return out
}

func (l *Logs) handleFilterEvents(w http.ResponseWriter, req *http.Request) error {
	var filter EventFilter
	if err := utils.ParseJSON(req.Body, &filter); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := filter.Options.Validate(l.limit); err != nil {
		return err
	}
	if err := filter.Range.Validate(); err != nil {
		return utils.BadRequest(err)
	}

	f := &logdb.EventFilter{
		Range:   filter.Range.convert(),
		Options: l.options(filter.Options),
		Order:   filter.Order,
	}
	for i, criteria := range filter.CriteriaSet {
		// {} is accepted and matches everything, null is not
		if criteria == nil {
			return utils.BadRequest(fmt.Errorf("criteriaSet[%d]: null not allowed", i))
		}
		c, err := criteria.convert()
		if err != nil {
			return utils.BadRequest(errors.WithMessagef(err, "criteriaSet[%d]", i))
		}
		f.CriteriaSet = append(f.CriteriaSet, c)
	}

	events, err := l.db.FilterEvents(req.Context(), f)
	if err != nil {
		return err
	}
	if uint64(len(events)) > l.limit {
		return utils.Forbidden(fmt.Errorf("the number of filtered logs exceeds the maximum allowed value of %d, please use pagination", l.limit))
	}
	fes := make([]*FilteredEvent, len(events))
	for i, e := range events {
		fes[i] = convertEvent(e)
	}
	return utils.WriteJSON(w, fes)
}

func (l *Logs) handleFilterTransfers(w http.ResponseWriter, req *http.Request) error {
	var filter TransferFilter
	if err := utils.ParseJSON(req.Body, &filter); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := filter.Options.Validate(l.limit); err != nil {
		return err
	}
	if err := filter.Range.Validate(); err != nil {
		return utils.BadRequest(err)
	}

	f := &logdb.TransferFilter{
		TxID:    filter.TxID,
		Range:   filter.Range.convert(),
		Options: l.options(filter.Options),
		Order:   filter.Order,
	}
	for i, criteria := range filter.CriteriaSet {
		if criteria == nil {
			return utils.BadRequest(fmt.Errorf("criteriaSet[%d]: null not allowed", i))
		}
		f.CriteriaSet = append(f.CriteriaSet, &logdb.TransferCriteria{
			Caller:    criteria.Caller,
			Sender:    criteria.Sender,
			Recipient: criteria.Recipient,
		})
	}

	transfers, err := l.db.FilterTransfers(req.Context(), f)
	if err != nil {
		return err
	}
	if uint64(len(transfers)) > l.limit {
		return utils.Forbidden(fmt.Errorf("the number of filtered logs exceeds the maximum allowed value of %d, please use pagination", l.limit))
	}
	fts := make([]*FilteredTransfer, len(transfers))
	for i, t := range transfers {
		fts[i] = convertTransfer(t)
	}
	return utils.WriteJSON(w, fts)
}

func (l *Logs) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/event").
		Methods(http.MethodPost).
		Name("POST /logs/event").
		HandlerFunc(utils.WrapHandlerFunc(l.handleFilterEvents))
	sub.Path("/transfer").
		Methods(http.MethodPost).
		Name("POST /logs/transfer").
		HandlerFunc(utils.WrapHandlerFunc(l.handleFilterTransfers))
}
