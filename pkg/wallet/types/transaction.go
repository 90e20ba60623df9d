package types

// UnsignedTransaction is the JSON handoff between `transfer-cli build` (online
// machine) and `transfer-cli sign` (offline machine). It carries everything
// the signer needs, plus metadata for the operator to verify on screen.
type UnsignedTransaction struct {
	Chain    string `json:"chain"`     // "ETH"
	From     string `json:"from"`      // Sender address (display/verification only)
	To       string `json:"to"`        // Recipient address
	ValueWei string `json:"value_wei"` // Amount in wei, decimal string
	Nonce    uint64 `json:"nonce"`     // Pending nonce fetched at build time
	GasLimit uint64 `json:"gas_limit"`

	// Fee model: exactly one of the two groups below must be present.
	GasPriceWei       string `json:"gas_price_wei,omitempty"`        // Legacy
	MaxFeeWei         string `json:"max_fee_wei,omitempty"`          // EIP-1559
	MaxPriorityFeeWei string `json:"max_priority_fee_wei,omitempty"` // EIP-1559

	// ChainID for EIP-155 replay protection (11155111 = Sepolia)
	ChainID int64 `json:"chain_id"`
}

// SignedTransaction is the output of the signing step, ready to broadcast.
type SignedTransaction struct {
	TxHash string `json:"tx_hash"` // Content-addressed transaction hash
	RawTx  string `json:"raw_tx"`  // Canonical signed bytes, 0x-prefixed hex
}
