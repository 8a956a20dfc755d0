package domain

import (
	"math/big"
	"time"
)

const (
	// Gateway constants
	DEFAULT_IPFS_GATEWAY = "https://gateway.pinata.cloud"

	// Blockchain constants
	ETHEREUM_ZERO_ADDRESS = "0x0000000000000000000000000000000000000000"

	// DEFAULT_FALLBACK_MINT_FEE_WEI is the last known good minting fee (0.00007 ETH),
	// used when the contract fee cannot be read
	DEFAULT_FALLBACK_MINT_FEE_WEI = "70000000000000"

	// DEFAULT_GAS_BUFFER_WEI is added to the fee for the affordability check (0.001 ETH)
	DEFAULT_GAS_BUFFER_WEI = "1000000000000000"

	// Asset constants
	DEFAULT_MAX_IMAGE_SIZE = 10 * 1024 * 1024 // 10MB
	TEMP_ASSET_ID_PREFIX   = "tmp-"
	METADATA_VERSION       = "1.0"

	// Receipt polling
	DEFAULT_RECEIPT_TIMEOUT       = 2 * time.Minute
	DEFAULT_RECEIPT_POLL_INTERVAL = 2 * time.Second
)

// AllowedImageTypes is the image MIME type allow-list
var AllowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// MustParseWei parses a decimal wei amount, panicking on malformed constants
func MustParseWei(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("invalid wei amount: " + s)
	}
	return v
}
