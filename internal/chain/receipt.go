package chain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/evermarks/evermark-minter/internal/domain"
)

// MissingTokenIDWarning is attached to receipts whose logs carry no mint event
const MissingTokenIDWarning = "mint confirmed but the token id could not be read from the receipt logs; reconcile by transaction hash"

// ParseMintedTokenID scans logs for an ERC-721 Transfer from the zero address
// emitted by contract and returns its token id. Transfers between holders and
// events of other contracts are ignored.
func ParseMintedTokenID(logs []*types.Log, contract common.Address) (*big.Int, bool) {
	zero := common.Hash{}
	for _, vLog := range logs {
		if vLog == nil || len(vLog.Topics) != 4 {
			continue
		}
		if vLog.Topics[0] != transferEventSignature {
			continue
		}
		if contract != (common.Address{}) && vLog.Address != contract {
			continue
		}
		if vLog.Topics[1] != zero {
			continue
		}
		return new(big.Int).SetBytes(vLog.Topics[3].Bytes()), true
	}
	return nil, false
}

// receiptToMintReceipt converts a mined receipt. A missing mint log yields a
// receipt without token id and a warning rather than an error.
func receiptToMintReceipt(receipt *types.Receipt, contract common.Address) *domain.MintReceipt {
	result := &domain.MintReceipt{
		TxHash: receipt.TxHash.Hex(),
	}
	if receipt.BlockNumber != nil {
		block := receipt.BlockNumber.Uint64()
		result.BlockNumber = &block
	}
	gasUsed := receipt.GasUsed
	result.GasUsed = &gasUsed

	if tokenID, ok := ParseMintedTokenID(receipt.Logs, contract); ok {
		result.TokenID = tokenID
	} else {
		result.Warning = MissingTokenIDWarning
	}
	return result
}
