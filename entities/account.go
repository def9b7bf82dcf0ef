package entities

type AccountKind string

const (
	AccountKindWallet       AccountKind = "wallet"
	AccountKindEvent        AccountKind = "event"
	AccountKindTicket       AccountKind = "ticket"
	AccountKindMint         AccountKind = "mint"
	AccountKindTokenHolding AccountKind = "token_holding"
)

// Account is the unit of storage: a funded balance plus the typed record kept in Data.
type Account struct {
	Address  Address     `json:"address" db:"address"`
	Kind     AccountKind `json:"kind" db:"kind"`
	Lamports uint64      `json:"lamports" db:"lamports"`
	Space    int         `json:"space" db:"space"`
	Data     []byte      `json:"data" db:"data"`
}
