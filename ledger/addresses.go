package ledger

import (
	"encoding/binary"
	"fmt"

	"ticketescrow/addressing"
	"ticketescrow/entities"
)

const (
	eventSeed         = "event"
	ticketSeed        = "ticket"
	mintAuthoritySeed = "mint_auth"
)

func eventSeeds(organizer entities.Address, eventID uint64) [][]byte {
	id := make([]byte, 8)
	binary.LittleEndian.PutUint64(id, eventID)

	return [][]byte{[]byte(eventSeed), organizer.Bytes(), id}
}

func ticketSeeds(event, owner entities.Address) [][]byte {
	return [][]byte{[]byte(ticketSeed), event.Bytes(), owner.Bytes()}
}

func mintAuthoritySeeds(mint entities.Address) [][]byte {
	return [][]byte{[]byte(mintAuthoritySeed), mint.Bytes()}
}

// FindEventAddress derives the event account of organizer with the given id.
func FindEventAddress(programID, organizer entities.Address, eventID uint64) (entities.Address, uint8, error) {
	return find(eventSeeds(organizer, eventID), programID)
}

// FindTicketAddress derives the ticket account of owner for event.
func FindTicketAddress(programID, event, owner entities.Address) (entities.Address, uint8, error) {
	return find(ticketSeeds(event, owner), programID)
}

// FindMintAuthorityAddress derives the authority that signs mints of mint.
func FindMintAuthorityAddress(programID, mint entities.Address) (entities.Address, uint8, error) {
	return find(mintAuthoritySeeds(mint), programID)
}

func find(seeds [][]byte, programID entities.Address) (entities.Address, uint8, error) {
	addr, bump, err := addressing.FindProgramAddress(seeds, programID)
	if err != nil {
		return entities.Address{}, 0, fmt.Errorf("could not derive address: %w", err)
	}
	return addr, bump, nil
}

func verifyAddress(addr entities.Address, seeds [][]byte, bump uint8, programID entities.Address) error {
	signer := addressing.Signer{ProgramID: programID, Seeds: seeds, Bump: bump}

	expected, err := signer.Address()
	if err != nil {
		return fmt.Errorf("%s: %w", addr, ErrAddressMismatch)
	}
	if expected != addr {
		return fmt.Errorf("%s, expected %s: %w", addr, expected, ErrAddressMismatch)
	}

	return nil
}
