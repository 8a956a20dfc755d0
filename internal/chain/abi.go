package chain

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	methodMintingFee       = "MINTING_FEE"
	methodPaused           = "paused"
	methodTotalSupply      = "totalSupply"
	methodMint             = "mintEvermark"
	methodMintWithReferral = "mintEvermarkWithReferral"
	methodClaimReferral    = "claimPendingReferralPayment"
	methodPendingReferral  = "pendingReferralPayments"

	evermarkContractABIJSON = `[
	{"inputs":[],"name":"MINTING_FEE","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"inputs":[],"name":"paused","outputs":[{"name":"","type":"bool"}],"stateMutability":"view","type":"function"},
	{"inputs":[],"name":"totalSupply","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"inputs":[{"name":"metadataURI","type":"string"},{"name":"title","type":"string"},{"name":"creator","type":"string"}],"name":"mintEvermark","outputs":[{"name":"","type":"uint256"}],"stateMutability":"payable","type":"function"},
	{"inputs":[{"name":"metadataURI","type":"string"},{"name":"title","type":"string"},{"name":"creator","type":"string"},{"name":"referrer","type":"address"}],"name":"mintEvermarkWithReferral","outputs":[{"name":"","type":"uint256"}],"stateMutability":"payable","type":"function"},
	{"inputs":[],"name":"claimPendingReferralPayment","outputs":[],"stateMutability":"nonpayable","type":"function"},
	{"inputs":[{"name":"","type":"address"}],"name":"pendingReferralPayments","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"anonymous":false,"inputs":[{"indexed":true,"name":"from","type":"address"},{"indexed":true,"name":"to","type":"address"},{"indexed":true,"name":"tokenId","type":"uint256"}],"name":"Transfer","type":"event"}
]`
)

// transferEventSignature is keccak256("Transfer(address,address,uint256)")
var transferEventSignature = crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))

var evermarkABI = mustParseABI(evermarkContractABIJSON)

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(fmt.Sprintf("invalid evermark contract ABI: %v", err))
	}
	return parsed
}
