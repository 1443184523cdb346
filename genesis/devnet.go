// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"crypto/ecdsa"
	"sync"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/ldstaking/ldstake/builtin/staking"
	"github.com/ldstaking/ldstake/ld"
)

// DevAccount account for development.
type DevAccount struct {
	Address    ld.Address
	PrivateKey *ecdsa.PrivateKey
}

var devAccounts = sync.OnceValue(func() []DevAccount {
	privKeys := []string{
		"dce1443bd2ef0c2631adc1c67e5c93f13dc23a41c18b536effbbdcbcdb96fb65",
		"321d6443bc6177273b5abf54210fe806d451d6b7973bccc2384ef78bbcd0bf51",
		"2d7c882bad2a01105e36dda3646693bc1aaaa45b0ed63fb0ce23c060294f3af2",
		"593537225b037191d322c3b1df585fb1e5100811b71a6f7fc7e29cca1333483e",
		"ca7b25fc980c759df5f3ce17a3d881d6e19a38e651fc4315fc08917edab41058",
	}
	accs := make([]DevAccount, 0, len(privKeys))
	for _, str := range privKeys {
		pk, err := crypto.HexToECDSA(str)
		if err != nil {
			panic(err)
		}
		addr := crypto.PubkeyToAddress(pk.PublicKey)
		accs = append(accs, DevAccount{ld.Address(addr), pk})
	}
	return accs
})

// DevAccounts returns the deterministic accounts used by the devnet.
// The first one owns all contracts.
func DevAccounts() []DevAccount {
	return devAccounts()
}

// NewDevnet returns a config with every dev account minted 1,000,000 LD,
// a funded pool and staking open at 50.00% apr.
func NewDevnet() *Config {
	accs := DevAccounts()
	owner := Address(accs[0].Address)

	mints := make([]Mint, 0, len(accs))
	for _, a := range accs {
		mints = append(mints, Mint{Address: Address(a.Address), Amount: (*Amount)(ld.Tokens(1_000_000))})
	}
	return &Config{
		LaunchTime: 1526400000, // 'Wed May 16 2018 00:00:00 GMT+0800 (CST)'
		Owner:      owner,
		Token:      TokenConfig{Name: ld.DefaultTokenName, Symbol: ld.DefaultTokenSymbol},
		Mints:      mints,
		Staking: StakingConfig{
			Apr:           5000,
			UnstakePolicy: string(staking.PolicyKeep),
			Treasury:      owner,
			SetPool:       true,
			Enable:        true,
		},
		Pool: PoolConfig{Funding: (*Amount)(ld.Tokens(500_000))},
	}
}
