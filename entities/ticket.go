package entities

// TicketSpace is the allocated size of a ticket account:
// discriminator, event, owner, mint, checked in flag, bump.
const TicketSpace = 8 + AddressLength + AddressLength + AddressLength + 1 + 1

type Ticket struct {
	Event     Address `json:"event"`
	Owner     Address `json:"owner"`
	Mint      Address `json:"mint"`
	CheckedIn bool    `json:"checked_in"`
	Bump      uint8   `json:"bump"`
}

func (t Ticket) IsMinted() bool {
	return !t.Mint.IsZero()
}
