package tournament

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/mcoot/stakeledger/internal/authority"
	"github.com/mcoot/stakeledger/internal/model"
	"github.com/mcoot/stakeledger/internal/settlement"
	"github.com/mcoot/stakeledger/internal/storage"
	"github.com/mcoot/stakeledger/internal/token"
)

// An NFT prize is one unit of a mint held in an escrow account whose
// authority is derived from (tournament, place). Several mints may share a
// place.

func escrowAccount(id model.EntityID, place uint16, mint model.TokenKind) model.Address {
	return authority.AssociatedAccount(authority.EscrowAddress(id, place), mint)
}

// AddNFTTournamentPrize escrows one unit of mint from the owner as an extra
// prize for place
func (c *Controller) AddNFTTournamentPrize(ctx context.Context, id model.EntityID, owner authority.Signer, place uint16, mint model.TokenKind) (*model.TournamentAccount, error) {
	if place == 0 {
		return nil, model.ErrInvalidPrizePlace
	}
	if mint == "" {
		return nil, model.ErrInvalidAddress
	}

	var t *model.TournamentAccount
	err := c.update(ctx, func(repo *storage.Repo, ledger token.Ledger) error {
		var err error
		if t, err = loadOwned(ctx, repo, id, owner); err != nil {
			return err
		}
		if t.HasStarted {
			return model.ErrTournamentAlreadyStarted
		}

		escrow, err := ledger.Open(ctx, authority.EscrowAddress(id, place), mint)
		if err != nil {
			return err
		}
		from := authority.AssociatedAccount(owner.Address(), mint)
		if err := ledger.Transfer(ctx, from, escrow, owner, 1); err != nil {
			return err
		}

		prize, err := repo.GetNFTPrize(ctx, id, place)
		if errors.Is(err, model.ErrNFTPrizeNotFound) {
			prize = &model.NFTPrize{Tournament: id, Place: place}
		} else if err != nil {
			return err
		}
		prize.Mints = append(prize.Mints, mint)
		if err := repo.SaveNFTPrize(ctx, prize); err != nil {
			return err
		}

		t.AddNFTPlace(place)
		t.MinPlayers = settlement.MinPlayers(t.Payouts, t.NFTPayouts)
		t.UpdatedAt = c.clock.Now()
		return repo.SaveTournament(ctx, t)
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("nft prize added",
		slog.String("tournament_id", string(id)),
		slog.Int("place", int(place)),
		slog.String("mint", string(mint)),
		slog.Int("min_players", int(t.MinPlayers)),
	)

	return t, nil
}

// RemoveNFTTournamentPrize returns one escrowed unit of mint to the owner.
// The place stops paying an NFT once its escrow is empty. After the start
// only places no remaining player can finish in may be reclaimed.
func (c *Controller) RemoveNFTTournamentPrize(ctx context.Context, id model.EntityID, owner authority.Signer, place uint16, mint model.TokenKind) (*model.TournamentAccount, error) {
	var t *model.TournamentAccount
	err := c.update(ctx, func(repo *storage.Repo, ledger token.Ledger) error {
		var err error
		if t, err = loadOwned(ctx, repo, id, owner); err != nil {
			return err
		}
		if t.HasStarted && place <= t.Players {
			return model.ErrTournamentAlreadyStarted
		}

		prize, err := repo.GetNFTPrize(ctx, id, place)
		if err != nil {
			return err
		}
		i := slices.Index(prize.Mints, mint)
		if i < 0 {
			return model.ErrNFTPrizeNotFound
		}

		escrow := escrowAccount(id, place, mint)
		signer := authority.Escrow(id, place)
		to, err := ledger.Open(ctx, owner.Address(), mint)
		if err != nil {
			return err
		}
		if err := ledger.Transfer(ctx, escrow, to, signer, 1); err != nil {
			return err
		}
		prize.Mints = slices.Delete(prize.Mints, i, i+1)

		if !slices.Contains(prize.Mints, mint) {
			if err := ledger.Close(ctx, escrow, to, signer); err != nil {
				return err
			}
		}
		if len(prize.Mints) == 0 {
			if err := repo.DeleteNFTPrize(ctx, id, place); err != nil {
				return err
			}
			t.RemoveNFTPlace(place)
		} else if err := repo.SaveNFTPrize(ctx, prize); err != nil {
			return err
		}

		t.MinPlayers = settlement.MinPlayers(t.Payouts, t.NFTPayouts)
		t.UpdatedAt = c.clock.Now()
		return repo.SaveTournament(ctx, t)
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("nft prize removed",
		slog.String("tournament_id", string(id)),
		slog.Int("place", int(place)),
		slog.String("mint", string(mint)),
		slog.Int("min_players", int(t.MinPlayers)),
	)

	return t, nil
}

// deliverNFTs empties the escrow of place into player's accounts and drops
// the escrow record. The caller updates the place set.
func deliverNFTs(ctx context.Context, repo *storage.Repo, ledger token.Ledger, t *model.TournamentAccount, place uint16, player model.Address) ([]model.TokenKind, error) {
	prize, err := repo.GetNFTPrize(ctx, t.ID, place)
	if err != nil {
		return nil, err
	}

	signer := authority.Escrow(t.ID, place)
	var delivered []model.TokenKind
	for _, mint := range prize.Mints {
		if slices.Contains(delivered, mint) {
			continue
		}
		escrow := escrowAccount(t.ID, place, mint)
		amount, err := ledger.Balance(ctx, escrow)
		if err != nil {
			return nil, err
		}
		to, err := ledger.Open(ctx, player, mint)
		if err != nil {
			return nil, err
		}
		if err := ledger.Transfer(ctx, escrow, to, signer, amount); err != nil {
			return nil, err
		}
		if err := ledger.Close(ctx, escrow, to, signer); err != nil {
			return nil, err
		}
		delivered = append(delivered, mint)
	}

	if err := repo.DeleteNFTPrize(ctx, t.ID, place); err != nil {
		return nil, err
	}
	return prize.Mints, nil
}
