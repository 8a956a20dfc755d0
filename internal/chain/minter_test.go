package chain_test

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evermarks/evermark-minter/internal/adapter"
	"github.com/evermarks/evermark-minter/internal/chain"
	"github.com/evermarks/evermark-minter/internal/mocks"
)

const (
	testContract = "0x396343362be2A4dA1cE0C1C210945346fb82Aa49"
	testReferrer = "0x742d35Cc6634C0532925a3b844Bc9e7595f0bEb0"
	testKey      = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"
)

var (
	oneEth      = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	contractFee = big.NewInt(50_000_000_000_000)
)

// fakeContract answers view calls by method selector
type fakeContract struct {
	mu       sync.Mutex
	fee      *big.Int
	feeErr   error
	paused   bool
	pauseErr error
	supply   *big.Int
	pending  *big.Int
	calls    map[string]int
}

func (f *fakeContract) call(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}

	method, err := chain.EvermarkABI.MethodById(msg.Data[:4])
	if err != nil {
		return nil, err
	}
	f.calls[method.Name]++

	switch method.Name {
	case "MINTING_FEE":
		if f.feeErr != nil {
			return nil, f.feeErr
		}
		return method.Outputs.Pack(f.fee)
	case "paused":
		if f.pauseErr != nil {
			return nil, f.pauseErr
		}
		return method.Outputs.Pack(f.paused)
	case "totalSupply":
		return method.Outputs.Pack(f.supply)
	case "pendingReferralPayments":
		return method.Outputs.Pack(f.pending)
	}
	return nil, errors.New("unexpected method " + method.Name)
}

type harness struct {
	client   *mocks.MockEthClient
	clock    *mocks.MockClock
	signer   adapter.Signer
	contract *fakeContract
	minter   chain.Minter
	sent     []*types.Transaction
}

func testConfig() chain.Config {
	return chain.Config{
		ContractAddress:     testContract,
		ChainID:             big.NewInt(84532),
		FallbackFeeWei:      big.NewInt(70_000_000_000_000),
		GasBufferWei:        big.NewInt(1_000_000_000_000_000),
		ReceiptTimeout:      2 * time.Minute,
		ReceiptPollInterval: 2 * time.Second,
		Read: chain.ReadOptions{
			Timeout:         time.Second,
			MaxRetries:      1,
			InitialInterval: time.Millisecond,
		},
	}
}

func newHarness(t *testing.T, ctrl *gomock.Controller) *harness {
	signer, err := adapter.NewLocalKeySigner(testKey)
	require.NoError(t, err)

	h := &harness{
		client:   mocks.NewMockEthClient(ctrl),
		clock:    mocks.NewMockClock(ctrl),
		signer:   signer,
		contract: &fakeContract{fee: contractFee, supply: big.NewInt(41), pending: big.NewInt(0)},
	}
	h.minter = chain.NewMinter(testConfig(), h.client, h.signer, h.clock)
	h.client.EXPECT().CallContract(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(h.contract.call).AnyTimes()
	return h
}

// expectBalance stubs the account balance
func (h *harness) expectBalance(balance *big.Int, err error) {
	h.client.EXPECT().BalanceAt(gomock.Any(), h.signer.Address(), gomock.Nil()).Return(balance, err).AnyTimes()
}

// expectSubmission stubs the reads that precede broadcast and records sent transactions
func (h *harness) expectSubmission(sendErr error) {
	h.client.EXPECT().PendingNonceAt(gomock.Any(), h.signer.Address()).Return(uint64(7), nil)
	h.client.EXPECT().SuggestGasTipCap(gomock.Any()).Return(big.NewInt(1_000_000), nil)
	h.client.EXPECT().HeaderByNumber(gomock.Any(), gomock.Nil()).Return(&types.Header{BaseFee: big.NewInt(5_000_000)}, nil)
	h.client.EXPECT().EstimateGas(gomock.Any(), gomock.Any()).Return(uint64(100_000), nil)
	h.client.EXPECT().SendTransaction(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, tx *types.Transaction) error {
		h.sent = append(h.sent, tx)
		return sendErr
	}).Times(1)
}

// neverFires stubs the poll interval with a channel that never delivers
func (h *harness) expectClock(timeoutFires bool) {
	h.clock.EXPECT().After(2 * time.Minute).DoAndReturn(func(time.Duration) <-chan time.Time {
		ch := make(chan time.Time, 1)
		if timeoutFires {
			ch <- time.Now()
		}
		return ch
	}).AnyTimes()
	h.clock.EXPECT().After(2 * time.Second).DoAndReturn(func(time.Duration) <-chan time.Time {
		return make(chan time.Time)
	}).AnyTimes()
}

func mintLog(contract common.Address, to common.Address, tokenID int64) *types.Log {
	return &types.Log{
		Address: contract,
		Topics: []common.Hash{
			crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)")),
			{},
			common.BytesToHash(to.Bytes()),
			common.BigToHash(big.NewInt(tokenID)),
		},
	}
}

func request() chain.MintRequest {
	return chain.MintRequest{
		MetadataURI: "https://assets.example.com/evermarks/tmp-1/metadata.json",
		Title:       "An article",
		Creator:     "Alice",
	}
}

func TestMint_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newHarness(t, ctrl)
	h.expectBalance(oneEth, nil)
	h.expectSubmission(nil)
	h.expectClock(false)

	contract := common.HexToAddress(testContract)
	h.client.EXPECT().TransactionReceipt(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, hash common.Hash) (*types.Receipt, error) {
		return &types.Receipt{
			Status:      types.ReceiptStatusSuccessful,
			TxHash:      hash,
			BlockNumber: big.NewInt(1234),
			GasUsed:     90_000,
			Logs: []*types.Log{
				{Address: common.HexToAddress(testReferrer), Topics: []common.Hash{crypto.Keccak256Hash([]byte("Other()"))}},
				mintLog(common.HexToAddress(testReferrer), h.signer.Address(), 999),
				mintLog(contract, h.signer.Address(), 42),
			},
		}, nil
	}).Times(1)

	var states []chain.State
	receipt, err := h.minter.Mint(context.Background(), request(), func(state chain.State, _ string) {
		states = append(states, state)
	})
	require.NoError(t, err)
	require.NotNil(t, receipt)

	assert.Equal(t, "42", receipt.TokenIDString())
	assert.Empty(t, receipt.Warning)
	assert.Equal(t, uint64(1234), *receipt.BlockNumber)
	assert.Equal(t, []chain.State{
		chain.StateValidatingConfig,
		chain.StateValidatingAccount,
		chain.StateValidatingParams,
		chain.StateDiscoveringFee,
		chain.StateCheckingPaused,
		chain.StateCheckingAffordability,
		chain.StateSubmitting,
		chain.StateAwaitingReceipt,
		chain.StateParsingReceipt,
		chain.StateDone,
	}, states)

	require.Len(t, h.sent, 1)
	tx := h.sent[0]
	assert.Equal(t, 0, contractFee.Cmp(tx.Value()))
	assert.Equal(t, uint64(120_000), tx.Gas())
	assert.Equal(t, uint64(7), tx.Nonce())
	assert.Equal(t, 0, big.NewInt(11_000_000).Cmp(tx.GasFeeCap()))
	assert.Equal(t, receipt.TxHash, tx.Hash().Hex())

	method, err := chain.EvermarkABI.MethodById(tx.Data()[:4])
	require.NoError(t, err)
	assert.Equal(t, "mintEvermark", method.Name)
}

func TestMint_FeeFallback(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newHarness(t, ctrl)
	h.contract.feeErr = errors.New("execution reverted")
	fallback := testConfig().FallbackFeeWei

	t.Run("fallback fee is charged", func(t *testing.T) {
		h.expectBalance(oneEth, nil)
		h.expectSubmission(nil)
		h.expectClock(false)
		h.client.EXPECT().TransactionReceipt(gomock.Any(), gomock.Any()).Return(&types.Receipt{
			Status:      types.ReceiptStatusSuccessful,
			BlockNumber: big.NewInt(1),
		}, nil)

		receipt, err := h.minter.Mint(context.Background(), request(), nil)
		require.NoError(t, err)
		assert.Equal(t, chain.MissingTokenIDWarning, receipt.Warning)
		assert.Nil(t, receipt.TokenID)

		require.Len(t, h.sent, 1)
		assert.Equal(t, 0, fallback.Cmp(h.sent[0].Value()))
	})
}

func TestMint_FallbackFeeUsedForAffordability(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newHarness(t, ctrl)
	h.contract.feeErr = errors.New("connection refused")
	// Covers the contract fee plus buffer but not the fallback fee plus buffer
	balance := new(big.Int).Add(contractFee, testConfig().GasBufferWei)
	h.expectBalance(balance, nil)

	_, err := h.minter.Mint(context.Background(), request(), nil)
	chainErr, ok := chain.AsError(err)
	require.True(t, ok)
	assert.Equal(t, chain.ErrorKindInsufficientFunds, chainErr.Kind)
	assert.Equal(t, chain.StateCheckingAffordability, chainErr.State)
	assert.Empty(t, chainErr.TxHash)
	assert.Empty(t, h.sent)
}

func TestMint_ReferralSelection(t *testing.T) {
	tests := []struct {
		name     string
		referrer func(self common.Address) string
		method   string
	}{
		{name: "no referrer", referrer: func(common.Address) string { return "" }, method: "mintEvermark"},
		{name: "distinct referrer", referrer: func(common.Address) string { return testReferrer }, method: "mintEvermarkWithReferral"},
		{name: "self referral", referrer: func(self common.Address) string { return self.Hex() }, method: "mintEvermark"},
		{name: "zero address referrer", referrer: func(common.Address) string { return "0x0000000000000000000000000000000000000000" }, method: "mintEvermark"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			h := newHarness(t, ctrl)
			h.expectBalance(oneEth, nil)
			h.expectSubmission(nil)
			h.expectClock(false)
			h.client.EXPECT().TransactionReceipt(gomock.Any(), gomock.Any()).Return(&types.Receipt{Status: types.ReceiptStatusSuccessful}, nil)

			req := request()
			req.Referrer = tt.referrer(h.signer.Address())
			_, err := h.minter.Mint(context.Background(), req, nil)
			require.NoError(t, err)

			require.Len(t, h.sent, 1)
			method, err := chain.EvermarkABI.MethodById(h.sent[0].Data()[:4])
			require.NoError(t, err)
			assert.Equal(t, tt.method, method.Name)

			if tt.method == "mintEvermarkWithReferral" {
				args, err := method.Inputs.Unpack(h.sent[0].Data()[4:])
				require.NoError(t, err)
				assert.Equal(t, common.HexToAddress(testReferrer), args[3])
			}
		})
	}
}

func TestMint_MalformedReferrer(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newHarness(t, ctrl)
	req := request()
	req.Referrer = "0x1234"

	_, err := h.minter.Mint(context.Background(), req, nil)
	chainErr, ok := chain.AsError(err)
	require.True(t, ok)
	assert.Equal(t, chain.ErrorKindInvalidParams, chainErr.Kind)
}

func TestMint_Paused(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newHarness(t, ctrl)
	h.contract.paused = true
	h.expectBalance(oneEth, nil)

	var last chain.State
	_, err := h.minter.Mint(context.Background(), request(), func(state chain.State, _ string) { last = state })
	chainErr, ok := chain.AsError(err)
	require.True(t, ok)
	assert.Equal(t, chain.ErrorKindContractPaused, chainErr.Kind)
	assert.Equal(t, chain.StateCheckingPaused, chainErr.State)
	assert.Equal(t, chain.StateFailed, last)
	assert.Equal(t, chain.UserMessage(chain.ErrorKindContractPaused), chainErr.UserMessage())
	assert.Empty(t, h.sent)
}

func TestMint_InsufficientFunds(t *testing.T) {
	tests := []struct {
		name       string
		balance    *big.Int
		balanceErr error
	}{
		{name: "balance too low", balance: big.NewInt(1000)},
		{name: "balance read fails", balanceErr: errors.New("connection refused")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			h := newHarness(t, ctrl)
			h.expectBalance(tt.balance, tt.balanceErr)

			_, err := h.minter.Mint(context.Background(), request(), nil)
			chainErr, ok := chain.AsError(err)
			require.True(t, ok)
			assert.Equal(t, chain.ErrorKindInsufficientFunds, chainErr.Kind)
			assert.Empty(t, h.sent)
		})
	}
}

func TestMint_ReceiptTimeoutCarriesHash(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newHarness(t, ctrl)
	h.expectBalance(oneEth, nil)
	h.expectSubmission(nil)
	h.expectClock(true)
	h.client.EXPECT().TransactionReceipt(gomock.Any(), gomock.Any()).Return(nil, ethereum.NotFound).MinTimes(1)

	var observedHash string
	_, err := h.minter.Mint(context.Background(), request(), func(state chain.State, txHash string) {
		if state == chain.StateAwaitingReceipt {
			observedHash = txHash
		}
	})
	chainErr, ok := chain.AsError(err)
	require.True(t, ok)
	assert.Equal(t, chain.ErrorKindReceiptTimeout, chainErr.Kind)
	require.Len(t, h.sent, 1)
	assert.Equal(t, h.sent[0].Hash().Hex(), chainErr.TxHash)
	assert.Equal(t, observedHash, chainErr.TxHash)
	assert.True(t, chainErr.State.Submitted())
}

func TestMint_Reverted(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newHarness(t, ctrl)
	h.expectBalance(oneEth, nil)
	h.expectSubmission(nil)
	h.expectClock(false)
	h.client.EXPECT().TransactionReceipt(gomock.Any(), gomock.Any()).Return(&types.Receipt{Status: types.ReceiptStatusFailed}, nil)

	_, err := h.minter.Mint(context.Background(), request(), nil)
	chainErr, ok := chain.AsError(err)
	require.True(t, ok)
	assert.Equal(t, chain.ErrorKindTransactionReverted, chainErr.Kind)
	assert.Equal(t, h.sent[0].Hash().Hex(), chainErr.TxHash)
}

func TestMint_SendFailures(t *testing.T) {
	tests := []struct {
		name       string
		sendErr    error
		kind       chain.ErrorKind
		expectHash bool
	}{
		{name: "nonce conflict", sendErr: errors.New("nonce too low"), kind: chain.ErrorKindNonceError},
		{name: "connection dropped", sendErr: errors.New("unexpected EOF"), kind: chain.ErrorKindNetworkError, expectHash: true},
		{name: "gateway unavailable", sendErr: rpc.HTTPError{StatusCode: http.StatusServiceUnavailable, Status: "503 Service Unavailable"}, kind: chain.ErrorKindNetworkError, expectHash: true},
		{
			name:    "fee below base fee",
			sendErr: errors.New("max fee per gas less than block base fee: address " + testReferrer + ", maxFeePerGas: 1502000000, baseFee: 2504290000"),
			kind:    chain.ErrorKindUnknown,
		},
		{name: "custom revert", sendErr: errors.New("execution reverted: custom error 0x5029a1b2"), kind: chain.ErrorKindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			h := newHarness(t, ctrl)
			h.expectBalance(oneEth, nil)
			h.expectSubmission(tt.sendErr)

			_, err := h.minter.Mint(context.Background(), request(), nil)
			chainErr, ok := chain.AsError(err)
			require.True(t, ok)
			assert.Equal(t, tt.kind, chainErr.Kind)
			if tt.expectHash {
				assert.Equal(t, h.sent[0].Hash().Hex(), chainErr.TxHash)
			} else {
				assert.Empty(t, chainErr.TxHash)
			}
		})
	}
}

func TestMint_UserRejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockEthClient(ctrl)
	signer := mocks.NewMockSigner(ctrl)
	clock := mocks.NewMockClock(ctrl)
	contract := &fakeContract{fee: contractFee, supply: big.NewInt(1), pending: big.NewInt(0)}
	account := common.HexToAddress(testReferrer)

	signer.EXPECT().Address().Return(account).AnyTimes()
	signer.EXPECT().SignTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("Request denied"))
	client.EXPECT().CallContract(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(contract.call).AnyTimes()
	client.EXPECT().BalanceAt(gomock.Any(), account, gomock.Nil()).Return(oneEth, nil)
	client.EXPECT().PendingNonceAt(gomock.Any(), account).Return(uint64(0), nil)
	client.EXPECT().SuggestGasTipCap(gomock.Any()).Return(big.NewInt(1), nil)
	client.EXPECT().HeaderByNumber(gomock.Any(), gomock.Nil()).Return(&types.Header{BaseFee: big.NewInt(1)}, nil)
	client.EXPECT().EstimateGas(gomock.Any(), gomock.Any()).Return(uint64(21_000), nil)

	m := chain.NewMinter(testConfig(), client, signer, clock)
	_, err := m.Mint(context.Background(), request(), nil)
	chainErr, ok := chain.AsError(err)
	require.True(t, ok)
	assert.Equal(t, chain.ErrorKindUserRejected, chainErr.Kind)
	assert.Empty(t, chainErr.TxHash)
}

func TestMint_InvalidConfig(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cfg := testConfig()
	cfg.ContractAddress = "0x1234"
	m := chain.NewMinter(cfg, mocks.NewMockEthClient(ctrl), nil, mocks.NewMockClock(ctrl))

	_, err := m.Mint(context.Background(), request(), nil)
	chainErr, ok := chain.AsError(err)
	require.True(t, ok)
	assert.Equal(t, chain.ErrorKindInvalidConfig, chainErr.Kind)
}

func TestMint_NoSigner(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := chain.NewMinter(testConfig(), mocks.NewMockEthClient(ctrl), nil, mocks.NewMockClock(ctrl))
	_, err := m.Mint(context.Background(), request(), nil)
	chainErr, ok := chain.AsError(err)
	require.True(t, ok)
	assert.Equal(t, chain.ErrorKindInvalidAccount, chainErr.Kind)
	assert.Empty(t, m.Account())
}

func TestStatus_ReadsAreIsolated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newHarness(t, ctrl)
	h.contract.pauseErr = errors.New("connection refused")
	h.expectBalance(oneEth, nil)

	status, err := h.minter.Status(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, contractFee.Cmp(status.Fee))
	assert.False(t, status.FeeFromFallback)
	assert.False(t, status.Paused)
	assert.True(t, status.PausedUnknown)
	assert.Equal(t, "41", status.TotalSupply.String())
	assert.True(t, status.CanAfford)
	assert.Equal(t, h.signer.Address().Hex(), status.Account)
	// one attempt plus one retry
	assert.Equal(t, 2, h.contract.calls["paused"])
	assert.Equal(t, 1, h.contract.calls["MINTING_FEE"])
}

func TestParseReceipt(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newHarness(t, ctrl)
	contract := common.HexToAddress(testContract)
	hash := common.HexToHash("0xabc1")

	t.Run("invalid hash", func(t *testing.T) {
		_, err := h.minter.ParseReceipt(context.Background(), "0x123")
		assert.Error(t, err)
	})

	t.Run("not found", func(t *testing.T) {
		h.client.EXPECT().TransactionReceipt(gomock.Any(), hash).Return(nil, ethereum.NotFound).Times(1)
		_, err := h.minter.ParseReceipt(context.Background(), hash.Hex())
		assert.ErrorIs(t, err, ethereum.NotFound)
	})

	t.Run("mint log", func(t *testing.T) {
		h.client.EXPECT().TransactionReceipt(gomock.Any(), hash).Return(&types.Receipt{
			Status: types.ReceiptStatusSuccessful,
			TxHash: hash,
			Logs:   []*types.Log{mintLog(contract, h.signer.Address(), 7)},
		}, nil)
		receipt, err := h.minter.ParseReceipt(context.Background(), hash.Hex())
		require.NoError(t, err)
		assert.Equal(t, "7", receipt.TokenIDString())
	})
}

func TestClaimReferralPayment(t *testing.T) {
	t.Run("nothing pending", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		h := newHarness(t, ctrl)
		_, err := h.minter.ClaimReferralPayment(context.Background())
		chainErr, ok := chain.AsError(err)
		require.True(t, ok)
		assert.Equal(t, chain.ErrorKindInvalidParams, chainErr.Kind)
		assert.Empty(t, h.sent)
	})

	t.Run("claims pending balance", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		h := newHarness(t, ctrl)
		h.contract.pending = big.NewInt(1000)
		h.expectSubmission(nil)
		h.expectClock(false)
		h.client.EXPECT().TransactionReceipt(gomock.Any(), gomock.Any()).Return(&types.Receipt{
			Status:      types.ReceiptStatusSuccessful,
			BlockNumber: big.NewInt(9),
		}, nil)

		receipt, err := h.minter.ClaimReferralPayment(context.Background())
		require.NoError(t, err)
		assert.Nil(t, receipt.TokenID)
		assert.Empty(t, receipt.Warning)
		require.Len(t, h.sent, 1)
		assert.Equal(t, 0, h.sent[0].Value().Sign())
		assert.True(t, bytes.HasPrefix(h.sent[0].Data(), chain.EvermarkABI.Methods["claimPendingReferralPayment"].ID))
	})
}
