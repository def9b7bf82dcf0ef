// Package token is the token-minting service: mints, holdings and authority-checked minting.
package token

import (
	"context"
	"errors"
	"fmt"
	"math/bits"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/sirupsen/logrus"

	"ticketescrow/accounts"
	"ticketescrow/addressing"
	"ticketescrow/entities"
)

var (
	ServiceID           = entities.MustParseAddress("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
	AssociatedServiceID = entities.MustParseAddress("ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL")
)

var (
	ErrMintNotFound       = errors.New("mint not found")
	ErrHoldingNotFound    = errors.New("token account not found")
	ErrMintMismatch       = errors.New("token account belongs to a different mint")
	ErrAuthorityMismatch  = errors.New("signer is not the mint authority")
	ErrSupplyOverflow     = errors.New("mint supply overflow")
	ErrInvalidMintAddress = errors.New("mint address must not be zero")
)

type Service struct {
	reserve accounts.ReserveRule
}

func NewService(reserve accounts.ReserveRule) Service {
	if reserve == nil {
		panic("reserve rule is required")
	}

	return Service{reserve: reserve}
}

// HoldingAddress is the associated token account of owner for mint.
func HoldingAddress(owner, mint entities.Address) (entities.Address, error) {
	addr, _, err := addressing.FindProgramAddress(
		[][]byte{owner.Bytes(), ServiceID.Bytes(), mint.Bytes()},
		AssociatedServiceID,
	)
	if err != nil {
		return entities.Address{}, fmt.Errorf("could not derive token account: %w", err)
	}

	return addr, nil
}

func (s Service) CreateMint(ctx context.Context, tx accounts.Tx, payer, mint, authority entities.Address) error {
	if mint.IsZero() {
		return ErrInvalidMintAddress
	}

	err := accounts.Create(
		ctx, tx, payer, mint,
		entities.AccountKindMint,
		entities.MintSpace,
		s.reserve.MinimumBalance(entities.MintSpace),
		entities.Mint{Authority: authority, Decimals: 0},
	)
	if err != nil {
		return fmt.Errorf("could not create mint %s: %w", mint, err)
	}

	return nil
}

func (s Service) CreateHolding(ctx context.Context, tx accounts.Tx, payer, owner, mint entities.Address) (entities.Address, error) {
	if _, _, err := s.loadMint(ctx, tx, mint); err != nil {
		return entities.Address{}, err
	}

	addr, err := HoldingAddress(owner, mint)
	if err != nil {
		return entities.Address{}, err
	}

	err = accounts.Create(
		ctx, tx, payer, addr,
		entities.AccountKindTokenHolding,
		entities.TokenHoldingSpace,
		s.reserve.MinimumBalance(entities.TokenHoldingSpace),
		entities.TokenHolding{Mint: mint, Owner: owner},
	)
	if err != nil {
		return entities.Address{}, fmt.Errorf("could not create token account for %s: %w", owner, err)
	}

	return addr, nil
}

// MintTo mints amount units of mint into holding. The signer must prove it is the
// mint's authority by reproducing the authority address from its seeds.
func (s Service) MintTo(
	ctx context.Context,
	tx accounts.Tx,
	mint entities.Address,
	holding entities.Address,
	signer addressing.Signer,
	amount uint64,
) error {
	mintAccount, mintRecord, err := s.loadMint(ctx, tx, mint)
	if err != nil {
		return err
	}

	authority, err := signer.Address()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAuthorityMismatch, err)
	}
	if authority != mintRecord.Authority {
		return fmt.Errorf("signer %s, authority %s: %w", authority, mintRecord.Authority, ErrAuthorityMismatch)
	}

	holdingAccount, holdingRecord, err := accounts.Load[entities.TokenHolding](ctx, tx, holding, entities.AccountKindTokenHolding)
	if errors.Is(err, accounts.ErrAccountNotFound) {
		return fmt.Errorf("%s: %w", holding, ErrHoldingNotFound)
	}
	if err != nil {
		return err
	}
	if holdingRecord.Mint != mint {
		return fmt.Errorf("token account %s holds %s: %w", holding, holdingRecord.Mint, ErrMintMismatch)
	}

	supply, carry := bits.Add64(mintRecord.Supply, amount, 0)
	if carry != 0 {
		return ErrSupplyOverflow
	}
	mintRecord.Supply = supply
	// holding amount can never exceed supply
	holdingRecord.Amount += amount

	if err := accounts.Save(ctx, tx, mintAccount, mintRecord); err != nil {
		return err
	}
	if err := accounts.Save(ctx, tx, holdingAccount, holdingRecord); err != nil {
		return err
	}

	log.FromContext(ctx).WithFields(logrus.Fields{
		"mint":    mint.String(),
		"holding": holding.String(),
		"amount":  amount,
	}).Debug("Minted tokens")

	return nil
}

func (s Service) loadMint(ctx context.Context, tx accounts.Getter, mint entities.Address) (entities.Account, entities.Mint, error) {
	account, record, err := accounts.Load[entities.Mint](ctx, tx, mint, entities.AccountKindMint)
	if errors.Is(err, accounts.ErrAccountNotFound) {
		return entities.Account{}, entities.Mint{}, fmt.Errorf("%s: %w", mint, ErrMintNotFound)
	}
	if err != nil {
		return entities.Account{}, entities.Mint{}, err
	}

	return account, record, nil
}
