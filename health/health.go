// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"sync"
	"time"
)

type LastCommit struct {
	Seq       uint64     `json:"seq"`
	Timestamp *time.Time `json:"timestamp"`
}

type Status struct {
	Healthy    bool        `json:"healthy"`
	LastCommit *LastCommit `json:"lastCommit"`
	Deployed   bool        `json:"deployed"`
	ClockDrift string      `json:"clockDrift"`
}

type Health struct {
	lock       sync.RWMutex
	lastCommit time.Time
	lastSeq    uint64
	deployed   bool
	clockDrift time.Duration
}

func (h *Health) NewCommit(seq uint64) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.lastCommit = time.Now()
	h.lastSeq = seq
}

// Deployed marks whether the ledger contracts are initialized.
func (h *Health) Deployed(deployed bool) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.deployed = deployed
}

// ClockDrift records the local clock offset measured against NTP.
func (h *Health) ClockDrift(drift time.Duration) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.clockDrift = drift
}

// Status is healthy once deployed, with the clock within maxDrift of NTP.
func (h *Health) Status(maxDrift time.Duration) (*Status, error) {
	h.lock.RLock()
	defer h.lock.RUnlock()

	var lastCommit *LastCommit
	if !h.lastCommit.IsZero() {
		ts := h.lastCommit
		lastCommit = &LastCommit{Seq: h.lastSeq, Timestamp: &ts}
	}

	drift := h.clockDrift
	if drift < 0 {
		drift = -drift
	}
	return &Status{
		Healthy:    h.deployed && drift <= maxDrift,
		LastCommit: lastCommit,
		Deployed:   h.deployed,
		ClockDrift: h.clockDrift.String(),
	}, nil
}
