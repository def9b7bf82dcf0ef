package entities

const (
	MintSpace         = 82
	TokenHoldingSpace = 165
)

type Mint struct {
	Authority Address `json:"authority"`
	Supply    uint64  `json:"supply"`
	Decimals  uint8   `json:"decimals"`
}

type TokenHolding struct {
	Mint   Address `json:"mint"`
	Owner  Address `json:"owner"`
	Amount uint64  `json:"amount"`
}
