package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/evermarks/evermark-minter/internal/adapter"
	"github.com/evermarks/evermark-minter/internal/domain"
	"github.com/evermarks/evermark-minter/internal/logger"
)

// gas limit = estimate * gasLimitNumerator / gasLimitDenominator
const (
	gasLimitNumerator   = 12
	gasLimitDenominator = 10
)

// Config holds the minter settings
type Config struct {
	ContractAddress     string
	ChainID             *big.Int
	GasBufferWei        *big.Int
	FallbackFeeWei      *big.Int
	ReceiptTimeout      time.Duration
	ReceiptPollInterval time.Duration
	Read                ReadOptions
	// MaxParallelReads bounds the worker pool used for discovery reads
	MaxParallelReads int
}

// MintRequest holds the contract call parameters of a mint
type MintRequest struct {
	MetadataURI string
	Title       string
	Creator     string
	// Referrer is optional; the referral variant is used for a well-formed address other than the minting account
	Referrer string
}

// Status is a snapshot of the discovery reads
type Status struct {
	Account         string
	Fee             *big.Int
	FeeFromFallback bool
	Paused          bool
	PausedUnknown   bool
	// Balance is nil when the balance read failed
	Balance *big.Int
	// TotalSupply is nil when the supply read failed
	TotalSupply *big.Int
	CanAfford   bool
}

// Minter submits Evermark mint transactions and reads contract state
//
//go:generate mockgen -source=minter.go -destination=../mocks/chain_minter.go -package=mocks -mock_names=Minter=MockChainMinter
type Minter interface {
	// Account returns the minting account, empty for a read-only minter
	Account() string

	// Status runs the fee, paused, balance and supply reads in parallel
	Status(ctx context.Context) (*Status, error)

	// Mint runs the mint state machine. The transaction is submitted at most once.
	// Errors are *Error; TxHash is set on errors raised after broadcast.
	Mint(ctx context.Context, req MintRequest, onState StateFunc) (*domain.MintReceipt, error)

	// ParseReceipt fetches a mined transaction receipt and extracts the minted token id
	ParseReceipt(ctx context.Context, txHash string) (*domain.MintReceipt, error)

	// TotalSupply returns the number of minted Evermarks
	TotalSupply(ctx context.Context) (*big.Int, error)

	// PendingReferralPayment returns the unclaimed referral balance of address in wei
	PendingReferralPayment(ctx context.Context, address string) (*big.Int, error)

	// ClaimReferralPayment withdraws the minting account's pending referral balance
	ClaimReferralPayment(ctx context.Context) (*domain.MintReceipt, error)
}

type minter struct {
	cfg      Config
	client   adapter.EthClient
	signer   adapter.Signer
	clock    adapter.Clock
	pool     pond.Pool
	contract common.Address
}

// NewMinter creates a minter. signer may be nil for read-only use.
func NewMinter(cfg Config, client adapter.EthClient, signer adapter.Signer, clock adapter.Clock) Minter {
	if cfg.FallbackFeeWei == nil {
		cfg.FallbackFeeWei = domain.MustParseWei(domain.DEFAULT_FALLBACK_MINT_FEE_WEI)
	}
	if cfg.GasBufferWei == nil {
		cfg.GasBufferWei = domain.MustParseWei(domain.DEFAULT_GAS_BUFFER_WEI)
	}
	if cfg.ReceiptTimeout <= 0 {
		cfg.ReceiptTimeout = domain.DEFAULT_RECEIPT_TIMEOUT
	}
	if cfg.ReceiptPollInterval <= 0 {
		cfg.ReceiptPollInterval = domain.DEFAULT_RECEIPT_POLL_INTERVAL
	}
	if cfg.MaxParallelReads <= 0 {
		cfg.MaxParallelReads = 16
	}

	return &minter{
		cfg:      cfg,
		client:   client,
		signer:   signer,
		clock:    clock,
		pool:     pond.NewPool(cfg.MaxParallelReads),
		contract: common.HexToAddress(cfg.ContractAddress),
	}
}

func (m *minter) Account() string {
	if m.signer == nil {
		return ""
	}
	return m.signer.Address().Hex()
}

func (m *minter) Status(ctx context.Context) (*Status, error) {
	if err := m.validateConfig(); err != nil {
		return nil, err
	}

	var account common.Address
	if m.signer != nil {
		account = m.signer.Address()
	}
	return m.discover(ctx, account), nil
}

// discover runs the UX reads in parallel; each falls back independently
func (m *minter) discover(ctx context.Context, account common.Address) *Status {
	fee := NewRead(methodMintingFee, new(big.Int).Set(m.cfg.FallbackFeeWei), func(ctx context.Context) (*big.Int, error) {
		return m.callUint(ctx, methodMintingFee)
	})
	paused := NewRead(methodPaused, false, func(ctx context.Context) (bool, error) {
		return m.callBool(ctx, methodPaused)
	})
	supply := NewRead[*big.Int](methodTotalSupply, nil, func(ctx context.Context) (*big.Int, error) {
		return m.callUint(ctx, methodTotalSupply)
	})
	reads := []Reader{fee, paused, supply}

	var balance *Read[*big.Int]
	if account != (common.Address{}) {
		balance = NewRead[*big.Int]("balance", nil, func(ctx context.Context) (*big.Int, error) {
			return m.client.BalanceAt(ctx, account, nil)
		})
		reads = append(reads, balance)
	}

	ParallelRead(ctx, m.pool, m.cfg.Read, reads...)

	status := &Status{
		Account:         m.accountHex(account),
		Fee:             fee.Value,
		FeeFromFallback: fee.UsedFallback(),
		Paused:          paused.Value,
		PausedUnknown:   paused.UsedFallback(),
		TotalSupply:     supply.Value,
	}
	// A zero fee read is treated as a failed read so the transaction never underpays
	if status.Fee == nil || status.Fee.Sign() <= 0 {
		status.Fee = new(big.Int).Set(m.cfg.FallbackFeeWei)
		status.FeeFromFallback = true
	}
	if balance != nil && !balance.UsedFallback() && balance.Value != nil {
		status.Balance = balance.Value
		required := new(big.Int).Add(status.Fee, m.cfg.GasBufferWei)
		status.CanAfford = status.Balance.Cmp(required) >= 0
	}
	return status
}

func (m *minter) Mint(ctx context.Context, req MintRequest, onState StateFunc) (*domain.MintReceipt, error) {
	state := StateValidatingConfig
	transition := func(next State, txHash string) {
		state = next
		if onState != nil {
			onState(next, txHash)
		}
	}
	fail := func(err *Error) (*domain.MintReceipt, error) {
		if err.State == "" {
			err.State = state
		}
		transition(StateFailed, err.TxHash)
		logger.WarnCtx(ctx, "Mint failed",
			zap.String("kind", string(err.Kind)),
			zap.String("state", string(err.State)),
			zap.String("tx_hash", err.TxHash),
			zap.Error(err.Err))
		return nil, err
	}

	transition(StateValidatingConfig, "")
	if err := m.validateConfig(); err != nil {
		return fail(err)
	}

	transition(StateValidatingAccount, "")
	if m.signer == nil {
		return fail(newError(ErrorKindInvalidAccount, state, errors.New("no signer configured")))
	}
	account := m.signer.Address()
	if !domain.IsValidEthereumAddress(account.Hex()) || account == (common.Address{}) {
		return fail(newError(ErrorKindInvalidAccount, state, fmt.Errorf("%w: %s", domain.ErrInvalidAddress, account.Hex())))
	}

	transition(StateValidatingParams, "")
	data, err := m.packMint(req, account)
	if err != nil {
		return fail(newError(ErrorKindInvalidParams, state, err))
	}

	transition(StateDiscoveringFee, "")
	status := m.discover(ctx, account)
	if status.FeeFromFallback {
		logger.WarnCtx(ctx, "Using fallback minting fee", zap.String("fee_wei", status.Fee.String()))
	}

	transition(StateCheckingPaused, "")
	if status.Paused {
		return fail(newError(ErrorKindContractPaused, state, errors.New("contract is paused")))
	}

	transition(StateCheckingAffordability, "")
	if !status.CanAfford {
		reason := "balance unknown"
		if status.Balance != nil {
			reason = fmt.Sprintf("balance %s wei below fee %s wei plus gas buffer %s wei",
				status.Balance, status.Fee, m.cfg.GasBufferWei)
		}
		return fail(newError(ErrorKindInsufficientFunds, state, errors.New(reason)))
	}

	transition(StateSubmitting, "")
	signed, chainErr := m.submit(ctx, account, data, status.Fee)
	if chainErr != nil {
		return fail(chainErr)
	}
	txHash := signed.Hash().Hex()
	logger.InfoCtx(ctx, "Mint transaction submitted",
		zap.String("tx_hash", txHash),
		zap.String("fee_wei", status.Fee.String()),
		zap.Bool("referral", req.Referrer != "" && m.useReferral(req.Referrer, account)))

	transition(StateAwaitingReceipt, txHash)
	receipt, chainErr := m.waitForReceipt(ctx, signed.Hash())
	if chainErr != nil {
		return fail(chainErr)
	}

	transition(StateParsingReceipt, txHash)
	if receipt.Status != types.ReceiptStatusSuccessful {
		return fail(&Error{Kind: ErrorKindTransactionReverted, TxHash: txHash, Err: errors.New("receipt status 0")})
	}
	result := receiptToMintReceipt(receipt, m.contract)
	if result.TokenID == nil {
		logger.WarnCtx(ctx, "Mint log not found in receipt", zap.String("tx_hash", txHash))
	}

	transition(StateDone, txHash)
	return result, nil
}

func (m *minter) ParseReceipt(ctx context.Context, txHash string) (*domain.MintReceipt, error) {
	if !domain.IsValidTxHash(txHash) {
		return nil, newError(ErrorKindInvalidParams, StateParsingReceipt, fmt.Errorf("invalid transaction hash: %s", txHash))
	}

	receipt, err := retryRead(ctx, m.cfg.Read, func(ctx context.Context) (*types.Receipt, error) {
		r, err := m.client.TransactionReceipt(ctx, common.HexToHash(txHash))
		if errors.Is(err, ethereum.NotFound) {
			return nil, backoff.Permanent(err)
		}
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get receipt for %s: %w", txHash, err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, &Error{Kind: ErrorKindTransactionReverted, State: StateParsingReceipt, TxHash: txHash, Err: errors.New("receipt status 0")}
	}
	return receiptToMintReceipt(receipt, m.contract), nil
}

func (m *minter) TotalSupply(ctx context.Context) (*big.Int, error) {
	return retryRead(ctx, m.cfg.Read, func(ctx context.Context) (*big.Int, error) {
		return m.callUint(ctx, methodTotalSupply)
	})
}

func (m *minter) PendingReferralPayment(ctx context.Context, address string) (*big.Int, error) {
	if !domain.IsValidEthereumAddress(address) {
		return nil, newError(ErrorKindInvalidParams, "", fmt.Errorf("%w: %s", domain.ErrInvalidAddress, address))
	}
	return retryRead(ctx, m.cfg.Read, func(ctx context.Context) (*big.Int, error) {
		return m.callUint(ctx, methodPendingReferral, common.HexToAddress(address))
	})
}

func (m *minter) ClaimReferralPayment(ctx context.Context) (*domain.MintReceipt, error) {
	if err := m.validateConfig(); err != nil {
		return nil, err
	}
	if m.signer == nil {
		return nil, newError(ErrorKindInvalidAccount, StateValidatingAccount, errors.New("no signer configured"))
	}
	account := m.signer.Address()

	pending, err := m.PendingReferralPayment(ctx, account.Hex())
	if err != nil {
		return nil, classified(StateValidatingParams, err)
	}
	if pending.Sign() <= 0 {
		return nil, newError(ErrorKindInvalidParams, StateValidatingParams, errors.New("no pending referral payment"))
	}

	data, err := evermarkABI.Pack(methodClaimReferral)
	if err != nil {
		return nil, newError(ErrorKindInvalidParams, StateValidatingParams, err)
	}

	signed, chainErr := m.submit(ctx, account, data, big.NewInt(0))
	if chainErr != nil {
		return nil, chainErr
	}
	receipt, chainErr := m.waitForReceipt(ctx, signed.Hash())
	if chainErr != nil {
		return nil, chainErr
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, &Error{Kind: ErrorKindTransactionReverted, State: StateParsingReceipt, TxHash: signed.Hash().Hex(), Err: errors.New("receipt status 0")}
	}

	logger.InfoCtx(ctx, "Referral payment claimed",
		zap.String("tx_hash", signed.Hash().Hex()),
		zap.String("amount_wei", pending.String()))

	result := receiptToMintReceipt(receipt, m.contract)
	result.TxHash = signed.Hash().Hex()
	result.TokenID = nil
	result.Warning = ""
	return result, nil
}

func (m *minter) validateConfig() *Error {
	if !domain.IsValidEthereumAddress(m.cfg.ContractAddress) || m.contract == (common.Address{}) {
		return newError(ErrorKindInvalidConfig, StateValidatingConfig,
			fmt.Errorf("%w: contract address %q", domain.ErrInvalidAddress, m.cfg.ContractAddress))
	}
	if m.cfg.ChainID == nil || m.cfg.ChainID.Sign() <= 0 {
		return newError(ErrorKindInvalidConfig, StateValidatingConfig, errors.New("chain id is not set"))
	}
	if m.cfg.FallbackFeeWei.Sign() <= 0 {
		return newError(ErrorKindInvalidConfig, StateValidatingConfig, errors.New("fallback fee must be positive"))
	}
	return nil
}

func (m *minter) useReferral(referrer string, account common.Address) bool {
	if !domain.IsValidEthereumAddress(referrer) {
		return false
	}
	addr := common.HexToAddress(referrer)
	return addr != account && addr != (common.Address{})
}

// packMint sanitizes the parameters and encodes the plain or referral call
func (m *minter) packMint(req MintRequest, account common.Address) ([]byte, error) {
	metadataURI := domain.SanitizeChainString(req.MetadataURI)
	title := domain.SanitizeChainString(req.Title)
	creator := domain.SanitizeChainString(req.Creator)
	referrer := strings.TrimSpace(req.Referrer)

	if metadataURI == "" {
		return nil, errors.New("metadata URI is required")
	}
	if title == "" {
		return nil, errors.New("title is required")
	}
	if creator == "" {
		creator = account.Hex()
	}
	if referrer != "" && !domain.IsValidEthereumAddress(referrer) {
		return nil, fmt.Errorf("%w: referrer %q", domain.ErrInvalidAddress, referrer)
	}

	if referrer != "" && m.useReferral(referrer, account) {
		return evermarkABI.Pack(methodMintWithReferral, metadataURI, title, creator, common.HexToAddress(referrer))
	}
	return evermarkABI.Pack(methodMint, metadataURI, title, creator)
}

// submit builds, signs and broadcasts a dynamic fee transaction. It never retries the broadcast.
func (m *minter) submit(ctx context.Context, account common.Address, data []byte, value *big.Int) (*types.Transaction, *Error) {
	nonce, err := retryRead(ctx, m.cfg.Read, func(ctx context.Context) (uint64, error) {
		return m.client.PendingNonceAt(ctx, account)
	})
	if err != nil {
		return nil, classified(StateSubmitting, err)
	}

	tipCap, err := retryRead(ctx, m.cfg.Read, m.client.SuggestGasTipCap)
	if err != nil {
		return nil, classified(StateSubmitting, err)
	}

	header, err := retryRead(ctx, m.cfg.Read, func(ctx context.Context) (*types.Header, error) {
		return m.client.HeaderByNumber(ctx, nil)
	})
	if err != nil {
		return nil, classified(StateSubmitting, err)
	}
	baseFee := big.NewInt(0)
	if header.BaseFee != nil {
		baseFee = header.BaseFee
	}
	feeCap := new(big.Int).Add(tipCap, new(big.Int).Mul(baseFee, big.NewInt(2)))

	estimate, err := retryRead(ctx, m.cfg.Read, func(ctx context.Context) (uint64, error) {
		gas, err := m.client.EstimateGas(ctx, ethereum.CallMsg{
			From:  account,
			To:    &m.contract,
			Value: value,
			Data:  data,
		})
		// A revert during estimation is deterministic
		if err != nil && strings.Contains(strings.ToLower(err.Error()), "revert") {
			return 0, backoff.Permanent(err)
		}
		return gas, err
	})
	if err != nil {
		return nil, classified(StateSubmitting, err)
	}

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   m.cfg.ChainID,
		Nonce:     nonce,
		GasTipCap: tipCap,
		GasFeeCap: feeCap,
		Gas:       estimate * gasLimitNumerator / gasLimitDenominator,
		To:        &m.contract,
		Value:     value,
		Data:      data,
	})

	signed, err := m.signer.SignTx(ctx, tx, m.cfg.ChainID)
	if err != nil {
		return nil, classified(StateSubmitting, err)
	}

	if err := m.client.SendTransaction(ctx, signed); err != nil {
		chainErr := classified(StateSubmitting, err)
		// The node may have accepted the transaction before the connection failed
		if chainErr.Kind == ErrorKindNetworkError {
			chainErr.TxHash = signed.Hash().Hex()
		}
		return nil, chainErr
	}

	return signed, nil
}

// waitForReceipt polls until the transaction is mined or the receipt timeout elapses
func (m *minter) waitForReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, *Error) {
	deadline := m.clock.After(m.cfg.ReceiptTimeout)
	for {
		receipt, err := m.client.TransactionReceipt(ctx, hash)
		if err == nil && receipt != nil {
			return receipt, nil
		}
		if err != nil && !errors.Is(err, ethereum.NotFound) {
			logger.DebugCtx(ctx, "Receipt poll failed", zap.String("tx_hash", hash.Hex()), zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return nil, &Error{Kind: ErrorKindReceiptTimeout, State: StateAwaitingReceipt, TxHash: hash.Hex(), Err: ctx.Err()}
		case <-deadline:
			return nil, &Error{
				Kind:   ErrorKindReceiptTimeout,
				State:  StateAwaitingReceipt,
				TxHash: hash.Hex(),
				Err:    fmt.Errorf("no receipt after %s", m.cfg.ReceiptTimeout),
			}
		case <-m.clock.After(m.cfg.ReceiptPollInterval):
		}
	}
}

func (m *minter) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	data, err := evermarkABI.Pack(method, args...)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to pack %s: %w", method, err))
	}

	result, err := m.client.CallContract(ctx, ethereum.CallMsg{
		To:   &m.contract,
		Data: data,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s: %w", method, err)
	}

	out, err := evermarkABI.Unpack(method, result)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s: %w", method, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty result from %s", method)
	}
	return out, nil
}

func (m *minter) callUint(ctx context.Context, method string, args ...interface{}) (*big.Int, error) {
	out, err := m.call(ctx, method, args...)
	if err != nil {
		return nil, err
	}
	v, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected %s result type %T", method, out[0])
	}
	return v, nil
}

func (m *minter) callBool(ctx context.Context, method string) (bool, error) {
	out, err := m.call(ctx, method)
	if err != nil {
		return false, err
	}
	v, ok := out[0].(bool)
	if !ok {
		return false, fmt.Errorf("unexpected %s result type %T", method, out[0])
	}
	return v, nil
}

func (m *minter) accountHex(account common.Address) string {
	if account == (common.Address{}) {
		return ""
	}
	return account.Hex()
}

// retryRead retries a read-only call with exponential backoff
func retryRead[T any](ctx context.Context, opts ReadOptions, fn func(ctx context.Context) (T, error)) (T, error) {
	var result T
	operation := func() error {
		readCtx := ctx
		if opts.Timeout > 0 {
			var cancel context.CancelFunc
			readCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
			defer cancel()
		}
		v, err := fn(readCtx)
		if err != nil {
			return err
		}
		result = v
		return nil
	}

	b := backoff.NewExponentialBackOff()
	if opts.InitialInterval > 0 {
		b.InitialInterval = opts.InitialInterval
	}
	if err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(b, opts.MaxRetries), ctx)); err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
