// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/ldstaking/ldstake/api/utils"
	"github.com/ldstaking/ldstake/builtin/staking/position"
	"github.com/ldstaking/ldstake/ld"
)

type Info struct {
	Owner         ld.Address `json:"owner"`
	Token         ld.Address `json:"token"`
	RewardPool    ld.Address `json:"rewardPool"`
	Treasury      ld.Address `json:"treasury"`
	Apr           uint64     `json:"apr"`
	Lock          bool       `json:"lock"`
	ClaimClosed   bool       `json:"claimClosed"`
	UnstakePolicy string     `json:"unstakePolicy"`
	TotalStaked   string     `json:"totalStakedAmount"`
}

type Stake struct {
	Index        uint64 `json:"index"`
	StakedAmount string `json:"stakedAmount"`
	LastClaimed  uint64 `json:"lastClaimed"`
}

func convertStake(index uint64, pos *position.Position) *Stake {
	return &Stake{
		Index:        index,
		StakedAmount: utils.BigString(pos.StakedAmount),
		LastClaimed:  pos.LastClaimed,
	}
}

// PendingReward is what a claim at Time would pay.
type PendingReward struct {
	Time   uint64 `json:"time"`
	Weeks  uint64 `json:"weeks"`
	Amount string `json:"amount"`
}

type StakeWithReward struct {
	*Stake
	Pending *PendingReward `json:"pending"`
}

type stakeRequest struct {
	utils.Caller
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type indexRequest struct {
	utils.Caller
	Index *uint64 `json:"index"`
}

type unstakeRequest struct {
	utils.Caller
	Index  *uint64               `json:"index"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type aprRequest struct {
	utils.Caller
	Apr uint64 `json:"apr"`
}

type addressRequest struct {
	utils.Caller
	Address *ld.Address `json:"address"`
}
