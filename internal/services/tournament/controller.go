package tournament

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mcoot/stakeledger/internal/authority"
	"github.com/mcoot/stakeledger/internal/dependencies/clock"
	"github.com/mcoot/stakeledger/internal/dependencies/salt"
	"github.com/mcoot/stakeledger/internal/model"
	"github.com/mcoot/stakeledger/internal/settlement"
	"github.com/mcoot/stakeledger/internal/storage"
	"github.com/mcoot/stakeledger/internal/token"
)

// Controller manages tournament registration, the prize pool and the NFT
// prize escrows. Every operation runs in one storage transaction together
// with its token transfers.
type Controller struct {
	store  storage.Store
	ledger token.Factory
	clock  clock.Clock
	salt   salt.Generator
	logger *slog.Logger
}

// NewController creates a new tournament Controller
func NewController(
	store storage.Store,
	ledger token.Factory,
	clock clock.Clock,
	salt salt.Generator,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		store:  store,
		ledger: ledger,
		clock:  clock,
		salt:   salt,
		logger: logger,
	}
}

// CreateTournamentParams configures a new tournament
type CreateTournamentParams struct {
	Transactor       model.Address
	TokenKind        model.TokenKind
	MaxPlayers       uint16
	EntryCost        uint64
	EntryFee         uint64
	Guarantee        uint64
	Payouts          []uint16
	RegistrationOpen bool
}

// BustResult describes one elimination payout
type BustResult struct {
	Player model.Address     `json:"player"`
	Place  uint16            `json:"place"`
	Amount uint64            `json:"amount"`
	NFTs   []model.TokenKind `json:"nfts,omitempty"`
	// Receipt is the player's final receipt; it no longer exists in the store
	Receipt model.TournamentPlayerAccount `json:"receipt"`
}

func (c *Controller) update(ctx context.Context, fn func(repo *storage.Repo, ledger token.Ledger) error) error {
	return c.store.Update(ctx, func(tx storage.Tx) error {
		return fn(storage.NewRepo(tx), c.ledger(tx))
	})
}

// loadOwned loads a tournament and checks that owner administers it
func loadOwned(ctx context.Context, repo *storage.Repo, id model.EntityID, owner authority.Signer) (*model.TournamentAccount, error) {
	t, err := repo.GetTournament(ctx, id)
	if err != nil {
		return nil, err
	}
	if owner == nil || owner.Address() != t.Owner {
		return nil, model.ErrNotGameOwner
	}
	return t, nil
}

// CreateTournament opens an empty vault, allocates the tournament and funds
// the guarantee from the owner
func (c *Controller) CreateTournament(ctx context.Context, owner authority.Signer, params CreateTournamentParams) (*model.TournamentAccount, error) {
	if params.TokenKind == "" || params.MaxPlayers == 0 {
		return nil, model.ErrInvalidGameConfig
	}
	if len(params.Payouts) > 0 {
		if err := settlement.ValidatePayouts(params.Payouts); err != nil {
			return nil, err
		}
	}
	minPlayers := settlement.MinPlayers(params.Payouts, nil)
	if params.MaxPlayers < minPlayers {
		return nil, model.ErrInvalidGameConfig
	}
	if _, err := settlement.Add(params.EntryCost, params.EntryFee); err != nil {
		return nil, err
	}

	now := c.clock.Now()
	id := authority.EntityID(owner.Address(), c.salt.New())
	t := &model.TournamentAccount{
		ID:               id,
		Owner:            owner.Address(),
		Transactor:       params.Transactor,
		TokenKind:        params.TokenKind,
		EntryCost:        params.EntryCost,
		EntryFee:         params.EntryFee,
		Guarantee:        params.Guarantee,
		Payouts:          append([]uint16(nil), params.Payouts...),
		MinPlayers:       minPlayers,
		MaxPlayers:       params.MaxPlayers,
		Entries:          make(map[model.Address]uint32),
		RegistrationOpen: params.RegistrationOpen,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	err := c.update(ctx, func(repo *storage.Repo, ledger token.Ledger) error {
		exists, err := repo.TournamentExists(ctx, id)
		if err != nil {
			return err
		}
		if exists {
			return model.ErrInvalidAddress
		}

		vault, err := ledger.Open(ctx, authority.VaultAddress(id), t.TokenKind)
		if err != nil {
			return err
		}
		balance, err := ledger.Balance(ctx, vault)
		if err != nil {
			return err
		}
		if balance != 0 {
			return model.ErrInitialTokenAccountBalanceNonZero
		}

		if t.Guarantee > 0 {
			from := authority.AssociatedAccount(t.Owner, t.TokenKind)
			if err := ledger.Transfer(ctx, from, vault, owner, t.Guarantee); err != nil {
				return err
			}
		}
		return repo.SaveTournament(ctx, t)
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("tournament created",
		slog.String("tournament_id", string(id)),
		slog.String("owner", string(t.Owner)),
		slog.String("transactor", string(t.Transactor)),
		slog.Int("max_players", int(t.MaxPlayers)),
		slog.Uint64("entry_cost", t.EntryCost),
		slog.Uint64("entry_fee", t.EntryFee),
		slog.Uint64("guarantee", t.Guarantee),
	)

	return t, nil
}

// GetTournament retrieves a tournament by ID
func (c *Controller) GetTournament(ctx context.Context, id model.EntityID) (*model.TournamentAccount, error) {
	var t *model.TournamentAccount
	err := c.store.View(ctx, func(tx storage.Tx) error {
		var err error
		t, err = storage.NewRepo(tx).GetTournament(ctx, id)
		return err
	})
	return t, err
}

// GetReceipt retrieves the registration receipt of player
func (c *Controller) GetReceipt(ctx context.Context, id model.EntityID, player model.Address) (*model.TournamentPlayerAccount, error) {
	var receipt *model.TournamentPlayerAccount
	err := c.store.View(ctx, func(tx storage.Tx) error {
		var err error
		receipt, err = storage.NewRepo(tx).GetReceipt(ctx, id, player)
		return err
	})
	return receipt, err
}

// GetNFTPrize retrieves the NFT escrow of one place
func (c *Controller) GetNFTPrize(ctx context.Context, id model.EntityID, place uint16) (*model.NFTPrize, error) {
	var prize *model.NFTPrize
	err := c.store.View(ctx, func(tx storage.Tx) error {
		var err error
		prize, err = storage.NewRepo(tx).GetNFTPrize(ctx, id, place)
		return err
	})
	return prize, err
}

// VaultBalance returns the custody balance held for a tournament
func (c *Controller) VaultBalance(ctx context.Context, id model.EntityID) (uint64, error) {
	var balance uint64
	err := c.store.View(ctx, func(tx storage.Tx) error {
		t, err := storage.NewRepo(tx).GetTournament(ctx, id)
		if err != nil {
			return err
		}
		balance, err = c.ledger(tx).Balance(ctx, vaultAccount(t))
		return err
	})
	return balance, err
}

// UpdateTournamentPayouts replaces the payout schedule
func (c *Controller) UpdateTournamentPayouts(ctx context.Context, id model.EntityID, owner authority.Signer, payouts []uint16) (*model.TournamentAccount, error) {
	if err := settlement.ValidatePayouts(payouts); err != nil {
		return nil, err
	}

	var t *model.TournamentAccount
	err := c.update(ctx, func(repo *storage.Repo, _ token.Ledger) error {
		var err error
		if t, err = loadOwned(ctx, repo, id, owner); err != nil {
			return err
		}
		t.Payouts = append([]uint16(nil), payouts...)
		t.MinPlayers = settlement.MinPlayers(t.Payouts, t.NFTPayouts)
		t.UpdatedAt = c.clock.Now()
		return repo.SaveTournament(ctx, t)
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("tournament payouts updated",
		slog.String("tournament_id", string(id)),
		slog.Int("paid_places", len(payouts)),
		slog.Int("min_players", int(t.MinPlayers)),
	)

	return t, nil
}

// FlipTournamentRegistration opens or closes registration
func (c *Controller) FlipTournamentRegistration(ctx context.Context, id model.EntityID, owner authority.Signer) (*model.TournamentAccount, error) {
	var t *model.TournamentAccount
	err := c.update(ctx, func(repo *storage.Repo, _ token.Ledger) error {
		var err error
		if t, err = loadOwned(ctx, repo, id, owner); err != nil {
			return err
		}
		t.RegistrationOpen = !t.RegistrationOpen
		t.UpdatedAt = c.clock.Now()
		return repo.SaveTournament(ctx, t)
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("tournament registration flipped",
		slog.String("tournament_id", string(id)),
		slog.Bool("registration_open", t.RegistrationOpen),
	)

	return t, nil
}

// RegisterTournament charges entry cost plus fee and issues a receipt.
// Registering again after busting out is a rebuy.
func (c *Controller) RegisterTournament(ctx context.Context, id model.EntityID, player authority.Signer) (*model.TournamentPlayerAccount, error) {
	var receipt *model.TournamentPlayerAccount
	err := c.update(ctx, func(repo *storage.Repo, ledger token.Ledger) error {
		t, err := repo.GetTournament(ctx, id)
		if err != nil {
			return err
		}

		if !t.RegistrationOpen {
			return model.ErrGameNotActive
		}
		if t.Players >= t.MaxPlayers {
			return model.ErrGameFull
		}
		registered, err := repo.ReceiptExists(ctx, id, player.Address())
		if err != nil {
			return err
		}
		if registered {
			return model.ErrAlreadyAtTable
		}
		if t.PlayersWithRebuys == ^uint16(0) {
			return model.ErrOverflow
		}

		price, err := entryPrice(t)
		if err != nil {
			return err
		}
		from := authority.AssociatedAccount(player.Address(), t.TokenKind)
		if err := ledger.Transfer(ctx, from, vaultAccount(t), player, price); err != nil {
			return err
		}

		if t.Entries == nil {
			t.Entries = make(map[model.Address]uint32)
		}
		t.Entries[player.Address()]++
		t.Players++
		t.PlayersWithRebuys++
		t.UpdatedAt = c.clock.Now()

		receipt = &model.TournamentPlayerAccount{
			Tournament:   id,
			Player:       player.Address(),
			Rebuys:       t.Entries[player.Address()] - 1,
			RegisteredAt: t.UpdatedAt,
		}
		if err := repo.SaveReceipt(ctx, receipt); err != nil {
			return err
		}
		return repo.SaveTournament(ctx, t)
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("player registered",
		slog.String("tournament_id", string(id)),
		slog.String("player", string(player.Address())),
		slog.Int("rebuys", int(receipt.Rebuys)),
	)

	return receipt, nil
}

// UnregisterTournament refunds a player who leaves before the start
func (c *Controller) UnregisterTournament(ctx context.Context, id model.EntityID, player authority.Signer) (uint64, error) {
	var refunded uint64
	err := c.update(ctx, func(repo *storage.Repo, ledger token.Ledger) error {
		t, err := repo.GetTournament(ctx, id)
		if err != nil {
			return err
		}
		if t.HasStarted {
			return model.ErrTournamentAlreadyStarted
		}
		refunded, err = c.refund(ctx, repo, ledger, t, player.Address())
		return err
	})
	if err != nil {
		return 0, err
	}

	c.logger.Info("player unregistered",
		slog.String("tournament_id", string(id)),
		slog.String("player", string(player.Address())),
		slog.Uint64("refunded", refunded),
	)

	return refunded, nil
}

// RefundTournament is the owner-forced unregister, usable after the start
func (c *Controller) RefundTournament(ctx context.Context, id model.EntityID, owner authority.Signer, player model.Address) (uint64, error) {
	var refunded uint64
	err := c.update(ctx, func(repo *storage.Repo, ledger token.Ledger) error {
		t, err := loadOwned(ctx, repo, id, owner)
		if err != nil {
			return err
		}
		refunded, err = c.refund(ctx, repo, ledger, t, player)
		return err
	})
	if err != nil {
		return 0, err
	}

	c.logger.Info("player refunded",
		slog.String("tournament_id", string(id)),
		slog.String("player", string(player)),
		slog.Uint64("refunded", refunded),
	)

	return refunded, nil
}

// refund returns one entry (cost plus fee) to player and drops the receipt
func (c *Controller) refund(ctx context.Context, repo *storage.Repo, ledger token.Ledger, t *model.TournamentAccount, player model.Address) (uint64, error) {
	registered, err := repo.ReceiptExists(ctx, t.ID, player)
	if err != nil {
		return 0, err
	}
	if !registered {
		return 0, model.ErrNotAtTable
	}

	if t.Players == 0 || t.PlayersWithRebuys == 0 {
		return 0, model.ErrUnderflow
	}

	price, err := entryPrice(t)
	if err != nil {
		return 0, err
	}
	to, err := ledger.Open(ctx, player, t.TokenKind)
	if err != nil {
		return 0, err
	}
	if err := ledger.Transfer(ctx, vaultAccount(t), to, authority.Vault(t.ID), price); err != nil {
		return 0, err
	}

	t.Players--
	t.PlayersWithRebuys--
	if n := t.Entries[player]; n > 1 {
		t.Entries[player] = n - 1
	} else {
		delete(t.Entries, player)
	}
	t.UpdatedAt = c.clock.Now()

	if err := repo.DeleteReceipt(ctx, t.ID, player); err != nil {
		return 0, err
	}
	if err := repo.SaveTournament(ctx, t); err != nil {
		return 0, err
	}
	return price, nil
}

// StartTournament locks in the field. It cannot be undone.
func (c *Controller) StartTournament(ctx context.Context, id model.EntityID, owner authority.Signer) (*model.TournamentAccount, error) {
	var t *model.TournamentAccount
	err := c.update(ctx, func(repo *storage.Repo, _ token.Ledger) error {
		var err error
		if t, err = loadOwned(ctx, repo, id, owner); err != nil {
			return err
		}
		if t.HasStarted {
			return model.ErrTournamentAlreadyStarted
		}
		if t.Players < t.MinPlayers {
			return model.ErrNotEnoughPlayersToStartTournament
		}
		t.HasStarted = true
		t.UpdatedAt = c.clock.Now()
		return repo.SaveTournament(ctx, t)
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("tournament started",
		slog.String("tournament_id", string(id)),
		slog.Int("players", int(t.Players)),
		slog.Int("players_with_rebuys", int(t.PlayersWithRebuys)),
	)

	return t, nil
}

// PayoutTournamentPlayer busts player out. The finishing place is the number
// of players left; it pays its share of the pool once every remaining player
// is in the money, and also delivers any NFT escrowed for that place once
// registration is closed.
func (c *Controller) PayoutTournamentPlayer(ctx context.Context, id model.EntityID, caller authority.Signer, player model.Address) (*BustResult, error) {
	var result *BustResult
	err := c.update(ctx, func(repo *storage.Repo, ledger token.Ledger) error {
		t, err := repo.GetTournament(ctx, id)
		if err != nil {
			return err
		}
		if caller == nil || (caller.Address() != t.Owner && caller.Address() != t.Transactor) {
			return model.ErrNotTransactor
		}
		if !t.HasStarted {
			return model.ErrTournamentNotStarted
		}
		receipt, err := repo.GetReceipt(ctx, id, player)
		if errors.Is(err, model.ErrReceiptNotFound) {
			return model.ErrNotAtTable
		}
		if err != nil {
			return err
		}
		receipt.PositionFinished = t.Players
		receipt.HasBusted = true

		result = &BustResult{Player: player, Place: t.Players, Receipt: *receipt}
		if result.Amount, err = settlement.BustPayout(t); err != nil {
			return err
		}
		if result.Amount > 0 {
			to, err := ledger.Open(ctx, player, t.TokenKind)
			if err != nil {
				return err
			}
			if err := ledger.Transfer(ctx, vaultAccount(t), to, authority.Vault(t.ID), result.Amount); err != nil {
				return err
			}
		}

		if !t.RegistrationOpen && t.HasNFTPlace(result.Place) {
			if result.NFTs, err = deliverNFTs(ctx, repo, ledger, t, result.Place, player); err != nil {
				return err
			}
			t.RemoveNFTPlace(result.Place)
		}

		t.Players--
		t.UpdatedAt = c.clock.Now()
		if err := repo.DeleteReceipt(ctx, id, player); err != nil {
			return err
		}
		return repo.SaveTournament(ctx, t)
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("player busted",
		slog.String("tournament_id", string(id)),
		slog.String("player", string(player)),
		slog.Int("place", int(result.Place)),
		slog.Uint64("amount", result.Amount),
		slog.Int("rebuys", int(result.Receipt.Rebuys)),
		slog.Int("nfts", len(result.NFTs)),
	)

	return result, nil
}

// CloseTournament sweeps what is left in the vault, including any unused
// guarantee and the entry fees, to the owner and destroys the tournament.
// It returns the amount swept. NFT escrows must be delivered or reclaimed
// with RemoveNFTTournamentPrize first.
func (c *Controller) CloseTournament(ctx context.Context, id model.EntityID, owner authority.Signer) (uint64, error) {
	var swept uint64
	err := c.update(ctx, func(repo *storage.Repo, ledger token.Ledger) error {
		t, err := loadOwned(ctx, repo, id, owner)
		if err != nil {
			return err
		}
		if t.Players != 0 {
			return model.ErrPlayersStillAtTable
		}
		if len(t.NFTPayouts) > 0 {
			return model.ErrNFTsEscrowedInTournament
		}

		vault := vaultAccount(t)
		signer := authority.Vault(t.ID)
		if swept, err = ledger.Balance(ctx, vault); err != nil {
			return err
		}
		ownerAccount, err := ledger.Open(ctx, t.Owner, t.TokenKind)
		if err != nil {
			return err
		}
		if err := ledger.Transfer(ctx, vault, ownerAccount, signer, swept); err != nil {
			return err
		}
		if err := ledger.Close(ctx, vault, ownerAccount, signer); err != nil {
			return err
		}
		return repo.DeleteTournament(ctx, id)
	})
	if err != nil {
		return 0, err
	}

	c.logger.Info("tournament closed",
		slog.String("tournament_id", string(id)),
		slog.Uint64("swept", swept),
	)

	return swept, nil
}

func vaultAccount(t *model.TournamentAccount) model.Address {
	return authority.AssociatedAccount(authority.VaultAddress(t.ID), t.TokenKind)
}

func entryPrice(t *model.TournamentAccount) (uint64, error) {
	return settlement.Add(t.EntryCost, t.EntryFee)
}
