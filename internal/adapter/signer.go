package adapter

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/external"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// Signer signs mint transactions on behalf of a single account
//
//go:generate mockgen -source=signer.go -destination=../mocks/signer.go -package=mocks -mock_names=Signer=MockSigner
type Signer interface {
	// Address returns the account the signer signs for
	Address() common.Address

	// SignTx signs the transaction for the given chain
	SignTx(ctx context.Context, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
}

// LocalKeySigner signs with an in-process ECDSA private key
type LocalKeySigner struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// NewLocalKeySigner creates a signer from a hex encoded private key
func NewLocalKeySigner(hexKey string) (Signer, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return &LocalKeySigner{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}

func (s *LocalKeySigner) Address() common.Address {
	return s.address
}

func (s *LocalKeySigner) SignTx(_ context.Context, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	return types.SignTx(tx, types.LatestSignerForChainID(chainID), s.key)
}

// ClefSigner delegates signing to an external Clef instance.
// The operator approves or denies each request in Clef.
type ClefSigner struct {
	signer  *external.ExternalSigner
	account accounts.Account
}

// NewClefSigner connects to the Clef endpoint for the given account
func NewClefSigner(endpoint string, account string) (Signer, error) {
	if !common.IsHexAddress(account) {
		return nil, fmt.Errorf("invalid clef account: %s", account)
	}

	signer, err := external.NewExternalSigner(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to clef: %w", err)
	}

	return &ClefSigner{
		signer:  signer,
		account: accounts.Account{Address: common.HexToAddress(account)},
	}, nil
}

func (s *ClefSigner) Address() common.Address {
	return s.account.Address
}

func (s *ClefSigner) SignTx(_ context.Context, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	return s.signer.SignTx(s.account, tx, chainID)
}
