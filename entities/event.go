package entities

const (
	EventTitleMaxLength       = 50
	EventDescriptionMaxLength = 500

	// EventSpace is the allocated size of an event account:
	// discriminator, price, title, description, organizer, event id, bump.
	EventSpace = 8 + 8 + (4 + EventTitleMaxLength) + (4 + EventDescriptionMaxLength) + AddressLength + 8 + 1
)

type Event struct {
	Price       uint64  `json:"price"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Organizer   Address `json:"organizer"`
	EventID     uint64  `json:"event_id"`
	Bump        uint8   `json:"bump"`
}
