package ledger

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/sirupsen/logrus"

	"ticketescrow/accounts"
	"ticketescrow/entities"
)

// MintSetup is everything a client passes to JoinEvent for a given mint.
type MintSetup struct {
	Mint          entities.Address `json:"mint"`
	MintAuthority entities.Address `json:"mint_authority"`
	TokenAccount  entities.Address `json:"token_account"`
}

// PrepareMint creates a mint whose authority is derived from this program, and
// the caller's token account for it. The caller pays both reserves.
func (p *Program) PrepareMint(ctx context.Context, caller, mint entities.Address) (MintSetup, error) {
	authority, _, err := FindMintAuthorityAddress(p.id, mint)
	if err != nil {
		return MintSetup{}, err
	}

	setup := MintSetup{
		Mint:          mint,
		MintAuthority: authority,
	}

	err = p.store.Update(ctx, func(ctx context.Context, tx accounts.Tx) error {
		if err := p.minter.CreateMint(ctx, tx, caller, mint, authority); err != nil {
			return err
		}

		holding, err := p.minter.CreateHolding(ctx, tx, caller, caller, mint)
		if err != nil {
			return err
		}
		setup.TokenAccount = holding

		return nil
	})
	if err != nil {
		return MintSetup{}, fmt.Errorf("could not prepare mint %s: %w", mint, err)
	}

	log.FromContext(ctx).WithFields(logrus.Fields{
		"mint":          mint.String(),
		"authority":     authority.String(),
		"token_account": setup.TokenAccount.String(),
	}).Info("Mint prepared")

	return setup, nil
}
