package dto

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/evermarks/evermark-minter/internal/chain"
	"github.com/evermarks/evermark-minter/internal/domain"
	"github.com/evermarks/evermark-minter/internal/store/schema"
)

// EvermarkResponse is a stored Evermark with its derived media
type EvermarkResponse struct {
	domain.EvermarkRecord
	Media []MediaAssetResponse `json:"media,omitempty"`
}

// MediaAssetResponse is a derived artifact of the Evermark image
type MediaAssetResponse struct {
	Provider    string            `json:"provider"`
	SourceURL   string            `json:"source_url"`
	VariantURLs map[string]string `json:"variant_urls"`
}

// MapMediaAssetToDTO maps a stored media asset. Undecodable variants are dropped.
func MapMediaAssetToDTO(asset schema.EvermarkMediaAsset) MediaAssetResponse {
	variants := map[string]string{}
	if len(asset.VariantURLs) > 0 {
		_ = json.Unmarshal(asset.VariantURLs, &variants)
	}
	return MediaAssetResponse{
		Provider:    string(asset.Provider),
		SourceURL:   asset.SourceURL,
		VariantURLs: variants,
	}
}

// DuplicateCheckResponse is the verdict of a duplicate check with the policy applied
type DuplicateCheckResponse struct {
	domain.DuplicateVerdict
	// Blocked is set when creation would be refused even with an override
	Blocked bool `json:"blocked"`
	// RequiresOverride is set when creation needs override_duplicate
	RequiresOverride bool   `json:"requires_override"`
	Message          string `json:"message,omitempty"`
}

// MapDuplicateVerdictToDTO applies the duplicate policy without an override
func MapDuplicateVerdictToDTO(verdict domain.DuplicateVerdict) *DuplicateCheckResponse {
	resp := &DuplicateCheckResponse{DuplicateVerdict: verdict}

	var dupErr *domain.DuplicateError
	if err := verdict.Decision(false); errors.As(err, &dupErr) {
		resp.Message = err.Error()
		if verdict.Confidence == domain.DuplicateConfidenceExact {
			resp.Blocked = true
		} else {
			resp.RequiresOverride = true
		}
	}
	return resp
}

// SeasonResponse is the season currently accepting Evermarks
type SeasonResponse struct {
	Number    int       `json:"number"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// MapSeasonToDTO maps a domain season
func MapSeasonToDTO(s domain.Season) *SeasonResponse {
	return &SeasonResponse{Number: s.Number, StartTime: s.StartTime, EndTime: s.EndTime}
}

// ChainStatusResponse is a snapshot of the minting contract state.
// Wei amounts are decimal strings.
type ChainStatusResponse struct {
	Account         string  `json:"account,omitempty"`
	MintingFeeWei   string  `json:"minting_fee_wei"`
	FeeFromFallback bool    `json:"fee_from_fallback"`
	Paused          bool    `json:"paused"`
	PausedUnknown   bool    `json:"paused_unknown,omitempty"`
	BalanceWei      *string `json:"balance_wei,omitempty"`
	TotalSupply     *string `json:"total_supply,omitempty"`
	CanAfford       bool    `json:"can_afford"`
}

// MapChainStatusToDTO maps a chain status snapshot
func MapChainStatusToDTO(s *chain.Status) *ChainStatusResponse {
	resp := &ChainStatusResponse{
		Account:         s.Account,
		FeeFromFallback: s.FeeFromFallback,
		Paused:          s.Paused,
		PausedUnknown:   s.PausedUnknown,
		CanAfford:       s.CanAfford,
	}
	if s.Fee != nil {
		resp.MintingFeeWei = s.Fee.String()
	}
	if s.Balance != nil {
		balance := s.Balance.String()
		resp.BalanceWei = &balance
	}
	if s.TotalSupply != nil {
		supply := s.TotalSupply.String()
		resp.TotalSupply = &supply
	}
	return resp
}

// HealthResponse is the health check payload
type HealthResponse struct {
	Status   string `json:"status"`
	Service  string `json:"service"`
	Database string `json:"database"`
}
