package chain_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"

	"github.com/evermarks/evermark-minter/internal/chain"
)

func TestParseMintedTokenID(t *testing.T) {
	contract := common.HexToAddress(testContract)
	holder := common.HexToAddress(testReferrer)
	transfer := crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))

	unrelated := func(n int) []*types.Log {
		logs := make([]*types.Log, 0, n)
		for i := 0; i < n; i++ {
			logs = append(logs, &types.Log{
				Address: contract,
				Topics:  []common.Hash{crypto.Keccak256Hash([]byte("Approval(address,address,uint256)")), {}, {}, {}},
			})
		}
		return logs
	}

	t.Run("no logs", func(t *testing.T) {
		id, ok := chain.ParseMintedTokenID(nil, contract)
		assert.False(t, ok)
		assert.Nil(t, id)
	})

	for _, n := range []int{0, 1, 5} {
		logs := append(unrelated(n), mintLog(contract, holder, 123))
		id, ok := chain.ParseMintedTokenID(logs, contract)
		assert.True(t, ok)
		assert.Equal(t, 0, big.NewInt(123).Cmp(id))
	}

	t.Run("holder transfer is not a mint", func(t *testing.T) {
		logs := []*types.Log{{
			Address: contract,
			Topics: []common.Hash{
				transfer,
				common.BytesToHash(holder.Bytes()),
				common.BytesToHash(contract.Bytes()),
				common.BigToHash(big.NewInt(5)),
			},
		}}
		_, ok := chain.ParseMintedTokenID(logs, contract)
		assert.False(t, ok)
	})

	t.Run("other contract ignored", func(t *testing.T) {
		_, ok := chain.ParseMintedTokenID([]*types.Log{mintLog(holder, holder, 5)}, contract)
		assert.False(t, ok)
	})

	t.Run("ERC-20 transfer ignored", func(t *testing.T) {
		logs := []*types.Log{{
			Address: contract,
			Topics:  []common.Hash{transfer, {}, common.BytesToHash(holder.Bytes())},
		}}
		_, ok := chain.ParseMintedTokenID(logs, contract)
		assert.False(t, ok)
	})
}
