// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package position

import (
	"encoding/binary"
	"math"
	"math/big"

	"github.com/pkg/errors"

	"github.com/ldstaking/ldstake/builtin/solidity"
	"github.com/ldstaking/ldstake/ld"
)

var (
	slotPositions      = solidity.Slot("positions")
	slotPositionCounts = solidity.Slot("positions-count")
)

// Service stores the append only position list of every account.
type Service struct {
	positions *solidity.Mapping[ld.Bytes32, *Position]
	counts    *solidity.Mapping[ld.Address, uint64]
}

func NewService(sctx *solidity.Context) *Service {
	return &Service{
		positions: solidity.NewMapping[ld.Bytes32, *Position](sctx, slotPositions),
		counts:    solidity.NewMapping[ld.Address, uint64](sctx, slotPositionCounts),
	}
}

// Count returns the number of positions ever opened by account.
func (s *Service) Count(account ld.Address) (uint64, error) {
	count, err := s.counts.Get(account)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get position count")
	}
	return count, nil
}

// Get returns the position at index, nil if the index is out of range.
func (s *Service) Get(account ld.Address, index uint64) (*Position, error) {
	count, err := s.Count(account)
	if err != nil {
		return nil, err
	}
	if index >= count {
		return nil, nil
	}
	pos, err := s.positions.Get(key(account, index))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get position")
	}
	if pos.StakedAmount == nil {
		pos.StakedAmount = new(big.Int)
	}
	return pos, nil
}

// All returns every position of account in creation order.
func (s *Service) All(account ld.Address) ([]*Position, error) {
	count, err := s.Count(account)
	if err != nil {
		return nil, err
	}
	all := make([]*Position, 0, count)
	for i := range count {
		pos, err := s.Get(account, i)
		if err != nil {
			return nil, err
		}
		all = append(all, pos)
	}
	return all, nil
}

// Append adds a position and returns its index.
func (s *Service) Append(account ld.Address, pos *Position) (uint64, error) {
	index, err := s.Count(account)
	if err != nil {
		return 0, err
	}
	if index == math.MaxUint64 {
		return 0, errors.New("position counter overflow")
	}
	if err := s.positions.Set(key(account, index), pos); err != nil {
		return 0, errors.Wrap(err, "failed to set position")
	}
	if err := s.counts.Set(account, index+1); err != nil {
		return 0, errors.Wrap(err, "failed to set position count")
	}
	return index, nil
}

// Update overwrites an existing position.
func (s *Service) Update(account ld.Address, index uint64, pos *Position) error {
	count, err := s.Count(account)
	if err != nil {
		return err
	}
	if index >= count {
		return errors.Errorf("position %d of %v does not exist", index, account)
	}
	if err := s.positions.Set(key(account, index), pos); err != nil {
		return errors.Wrap(err, "failed to update position")
	}
	return nil
}

func key(account ld.Address, index uint64) ld.Bytes32 {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], index)
	return ld.Blake2b(account.Bytes(), b[:])
}
