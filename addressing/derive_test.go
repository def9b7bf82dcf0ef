package addressing_test

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketescrow/addressing"
	"ticketescrow/entities"
)

var programID = entities.MustParseAddress("HK43FpG11qhqwHZT8ZuKqn8FPFpbYJj59QL1qvFpm1tx")

func TestFindProgramAddress_IsDeterministic(t *testing.T) {
	seeds := [][]byte{[]byte("event"), programID.Bytes()}

	first, firstBump, err := addressing.FindProgramAddress(seeds, programID)
	require.NoError(t, err)

	second, secondBump, err := addressing.FindProgramAddress(seeds, programID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, firstBump, secondBump)
	assert.False(t, addressing.IsOnCurve(first.Bytes()))
}

func TestFindProgramAddress_MatchesCreateWithBump(t *testing.T) {
	seeds := [][]byte{[]byte("ticket"), []byte("some-event")}

	addr, bump, err := addressing.FindProgramAddress(seeds, programID)
	require.NoError(t, err)

	created, err := addressing.CreateProgramAddress(append(seeds, []byte{bump}), programID)
	require.NoError(t, err)

	assert.Equal(t, addr, created)
}

func TestFindProgramAddress_DifferentSeedsDifferentAddresses(t *testing.T) {
	a, _, err := addressing.FindProgramAddress([][]byte{[]byte("event"), {1}}, programID)
	require.NoError(t, err)

	b, _, err := addressing.FindProgramAddress([][]byte{[]byte("event"), {2}}, programID)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestCreateProgramAddress_RejectsLongSeed(t *testing.T) {
	_, err := addressing.CreateProgramAddress([][]byte{make([]byte, 33)}, programID)
	assert.ErrorIs(t, err, addressing.ErrMaxSeedLengthExceeded)
}

func TestCreateProgramAddress_RejectsTooManySeeds(t *testing.T) {
	seeds := make([][]byte, addressing.MaxSeeds+1)
	_, err := addressing.CreateProgramAddress(seeds, programID)
	assert.ErrorIs(t, err, addressing.ErrTooManySeeds)
}

func TestIsOnCurve_PublicKey(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	assert.True(t, addressing.IsOnCurve(pub))
}

func TestSigner_Address(t *testing.T) {
	mint := entities.Address{7}
	seeds := [][]byte{[]byte("mint_auth"), mint.Bytes()}

	expected, bump, err := addressing.FindProgramAddress(seeds, programID)
	require.NoError(t, err)

	signer := addressing.Signer{ProgramID: programID, Seeds: seeds, Bump: bump}
	addr, err := signer.Address()
	require.NoError(t, err)
	assert.Equal(t, expected, addr)

	other := addressing.Signer{ProgramID: entities.Address{1}, Seeds: seeds, Bump: bump}
	otherAddr, err := other.Address()
	if err == nil {
		assert.NotEqual(t, expected, otherAddr)
	}
}
