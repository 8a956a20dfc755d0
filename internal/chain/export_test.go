package chain

// EvermarkABI exposes the contract ABI to external tests
var EvermarkABI = evermarkABI
