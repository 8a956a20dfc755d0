package chain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/rpc"
)

// ErrorKind classifies chain failures. The RPC client does not expose
// structured error codes, so most kinds are derived from error text.
type ErrorKind string

const (
	ErrorKindInvalidConfig       ErrorKind = "InvalidConfig"
	ErrorKindInvalidAccount      ErrorKind = "InvalidAccount"
	ErrorKindInvalidParams       ErrorKind = "InvalidParams"
	ErrorKindContractPaused      ErrorKind = "ContractPaused"
	ErrorKindInsufficientFunds   ErrorKind = "InsufficientFunds"
	ErrorKindUserRejected        ErrorKind = "UserRejected"
	ErrorKindNetworkError        ErrorKind = "NetworkError"
	ErrorKindNonceError          ErrorKind = "NonceError"
	ErrorKindUnknown             ErrorKind = "UnknownChainError"
	ErrorKindReceiptTimeout      ErrorKind = "ReceiptTimeout"
	ErrorKindTransactionReverted ErrorKind = "TransactionReverted"
)

var userMessages = map[ErrorKind]string{
	ErrorKindInvalidConfig:       "The minting contract is not configured correctly. Please contact support.",
	ErrorKindInvalidAccount:      "The minting account is invalid.",
	ErrorKindInvalidParams:       "The mint parameters are invalid. Check the title, creator and referrer.",
	ErrorKindContractPaused:      "Minting is temporarily paused. Please try again later.",
	ErrorKindInsufficientFunds:   "Insufficient funds to cover the minting fee and gas.",
	ErrorKindUserRejected:        "The transaction was rejected by the signer.",
	ErrorKindNetworkError:        "Could not reach the blockchain network. Please try again.",
	ErrorKindNonceError:          "The account has a pending transaction conflict. Please retry in a moment.",
	ErrorKindUnknown:             "The blockchain transaction failed.",
	ErrorKindReceiptTimeout:      "The transaction was submitted but not confirmed in time. Check the transaction hash on a block explorer.",
	ErrorKindTransactionReverted: "The transaction was mined but reverted by the contract.",
}

// Error is a classified chain failure. TxHash is set when a transaction
// may exist on chain.
type Error struct {
	Kind   ErrorKind
	State  State
	TxHash string
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("chain %s", e.Kind)
	if e.State != "" {
		msg += fmt.Sprintf(" during %s", e.State)
	}
	if e.TxHash != "" {
		msg += fmt.Sprintf(" (tx %s)", e.TxHash)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// UserMessage returns the human-readable message for the error kind
func (e *Error) UserMessage() string {
	return UserMessage(e.Kind)
}

// UserMessage returns the human-readable message for kind
func UserMessage(kind ErrorKind) string {
	if msg, ok := userMessages[kind]; ok {
		return msg
	}
	return userMessages[ErrorKindUnknown]
}

// AsError extracts a chain error from err
func AsError(err error) (*Error, bool) {
	var chainErr *Error
	if errors.As(err, &chainErr) {
		return chainErr, true
	}
	return nil, false
}

func newError(kind ErrorKind, state State, err error) *Error {
	return &Error{Kind: kind, State: state, Err: err}
}

// classified wraps err with the kind derived from its message
func classified(state State, err error) *Error {
	return newError(Classify(err), state, err)
}

var errorPatterns = []struct {
	kind     ErrorKind
	patterns []string
}{
	{ErrorKindUserRejected, []string{"user rejected", "user denied", "rejected by user", "request denied", "denied by user"}},
	{ErrorKindInsufficientFunds, []string{"insufficient funds", "insufficient balance", "exceeds balance"}},
	{ErrorKindNonceError, []string{"nonce too low", "nonce too high", "invalid nonce", "replacement transaction underpriced", "already known"}},
	{ErrorKindContractPaused, []string{"enforcedpause", "contract is paused", "pausable: paused"}},
	{ErrorKindInvalidParams, []string{"invalid argument", "abi: ", "invalid address"}},
}

// networkPatterns match transport failures that reach us only as text.
// Status codes count only next to their HTTP reason or a "status" label,
// since bare digits show up in addresses, amounts and revert data.
var networkPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(connection refused|connection reset|no such host|broken pipe|network is unreachable)\b`),
	regexp.MustCompile(`\b(i/o timeout|timed out|timeout exceeded|request timeout|context deadline exceeded)\b`),
	regexp.MustCompile(`\b(unexpected )?eof\b`),
	regexp.MustCompile(`\b(too many requests|bad gateway|service unavailable|gateway timeout)\b`),
	regexp.MustCompile(`\bstatus(?: code)?[:= ]+(429|502|503|504)\b`),
}

// retryableStatus lists the HTTP statuses an RPC gateway returns when the
// node itself was not reached
var retryableStatus = map[int]bool{
	http.StatusTooManyRequests:    true,
	http.StatusBadGateway:         true,
	http.StatusServiceUnavailable: true,
	http.StatusGatewayTimeout:     true,
}

// Classify maps an underlying error to an error kind. Transport failures
// are detected from their types first, then by message pattern.
func Classify(err error) ErrorKind {
	if err == nil {
		return ErrorKindUnknown
	}
	if chainErr, ok := AsError(err); ok {
		return chainErr.Kind
	}
	if isTransportError(err) {
		return ErrorKindNetworkError
	}

	msg := strings.ToLower(err.Error())
	for _, group := range errorPatterns {
		for _, pattern := range group.patterns {
			if strings.Contains(msg, pattern) {
				return group.kind
			}
		}
	}
	for _, pattern := range networkPatterns {
		if pattern.MatchString(msg) {
			return ErrorKindNetworkError
		}
	}
	return ErrorKindUnknown
}

func isTransportError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return true
	}

	var httpErr rpc.HTTPError
	if errors.As(err, &httpErr) {
		return retryableStatus[httpErr.StatusCode]
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
