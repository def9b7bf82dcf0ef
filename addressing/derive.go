// Package addressing derives deterministic account addresses from seeds.
//
// An address is SHA-256(seed_1 || ... || seed_n || program id || "ProgramDerivedAddress").
// Only hashes that are not valid ed25519 points are accepted, so no private key can
// ever sign for a derived address. FindProgramAddress appends a one-byte bump seed,
// searching from 255 down, until the hash falls off the curve.
package addressing

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"filippo.io/edwards25519"

	"ticketescrow/entities"
)

const (
	MaxSeedLength = 32
	MaxSeeds      = 16

	pdaMarker = "ProgramDerivedAddress"
)

var (
	ErrMaxSeedLengthExceeded = errors.New("seed is longer than 32 bytes")
	ErrTooManySeeds          = errors.New("too many seeds")
	ErrOnCurve               = errors.New("derived address lies on the ed25519 curve")
	ErrNoViableBump          = errors.New("unable to find a viable bump seed")
)

func CreateProgramAddress(seeds [][]byte, programID entities.Address) (entities.Address, error) {
	if len(seeds) > MaxSeeds {
		return entities.Address{}, ErrTooManySeeds
	}

	h := sha256.New()
	for _, seed := range seeds {
		if len(seed) > MaxSeedLength {
			return entities.Address{}, ErrMaxSeedLengthExceeded
		}
		h.Write(seed)
	}
	h.Write(programID.Bytes())
	h.Write([]byte(pdaMarker))

	var addr entities.Address
	copy(addr[:], h.Sum(nil))

	if IsOnCurve(addr.Bytes()) {
		return entities.Address{}, ErrOnCurve
	}

	return addr, nil
}

func FindProgramAddress(seeds [][]byte, programID entities.Address) (entities.Address, uint8, error) {
	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)

	for bump := 255; bump >= 0; bump-- {
		withBump[len(seeds)] = []byte{byte(bump)}

		addr, err := CreateProgramAddress(withBump, programID)
		if errors.Is(err, ErrOnCurve) {
			continue
		}
		if err != nil {
			return entities.Address{}, 0, err
		}

		return addr, uint8(bump), nil
	}

	return entities.Address{}, 0, ErrNoViableBump
}

// IsOnCurve reports whether b decodes to a point on the ed25519 curve.
func IsOnCurve(b []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}

// Signer authorizes a call on behalf of a derived address: whoever holds the seeds
// and bump can prove the address belongs to the program.
type Signer struct {
	ProgramID entities.Address
	Seeds     [][]byte
	Bump      uint8
}

func (s Signer) Address() (entities.Address, error) {
	seeds := make([][]byte, 0, len(s.Seeds)+1)
	seeds = append(seeds, s.Seeds...)
	seeds = append(seeds, []byte{s.Bump})

	addr, err := CreateProgramAddress(seeds, s.ProgramID)
	if err != nil {
		return entities.Address{}, fmt.Errorf("invalid signer seeds: %w", err)
	}

	return addr, nil
}
