package cashgame

import (
	"context"
	"log/slog"

	"github.com/mcoot/stakeledger/internal/authority"
	"github.com/mcoot/stakeledger/internal/dependencies/clock"
	"github.com/mcoot/stakeledger/internal/dependencies/salt"
	"github.com/mcoot/stakeledger/internal/model"
	"github.com/mcoot/stakeledger/internal/settlement"
	"github.com/mcoot/stakeledger/internal/storage"
	"github.com/mcoot/stakeledger/internal/token"
)

// Controller manages cash game seats and the vault behind them. Every
// operation runs in one storage transaction together with its token
// transfers.
type Controller struct {
	store  storage.Store
	ledger token.Factory
	clock  clock.Clock
	salt   salt.Generator
	logger *slog.Logger
}

// NewController creates a new cash game Controller
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

// CreateGameParams configures a new cash game
type CreateGameParams struct {
	MaxPlayers uint16
	MinDeposit uint64
	MaxDeposit uint64
	TokenKind  model.TokenKind
}

// Payout is one transfer out of the vault made while settling
type Payout struct {
	Player  model.Address `json:"player,omitempty"`
	Account model.Address `json:"account"`
	Amount  uint64        `json:"amount"`
}

func (c *Controller) update(ctx context.Context, fn func(repo *storage.Repo, ledger token.Ledger) error) error {
	return c.store.Update(ctx, func(tx storage.Tx) error {
		return fn(storage.NewRepo(tx), c.ledger(tx))
	})
}

// loadOwned loads a game and checks that owner administers it
func loadOwned(ctx context.Context, repo *storage.Repo, id model.EntityID, owner authority.Signer) (*model.GameAccount, error) {
	game, err := repo.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}
	if owner == nil || owner.Address() != game.Owner {
		return nil, model.ErrNotGameOwner
	}
	return game, nil
}

// CreateGame opens an empty vault and allocates a game owned by owner
func (c *Controller) CreateGame(ctx context.Context, owner authority.Signer, params CreateGameParams) (*model.GameAccount, error) {
	if params.MaxPlayers == 0 || params.MaxDeposit < params.MinDeposit || params.TokenKind == "" {
		return nil, model.ErrInvalidGameConfig
	}

	now := c.clock.Now()
	id := authority.EntityID(owner.Address(), c.salt.New())
	game := &model.GameAccount{
		ID:         id,
		Owner:      owner.Address(),
		MinDeposit: params.MinDeposit,
		MaxDeposit: params.MaxDeposit,
		MaxPlayers: params.MaxPlayers,
		TokenKind:  params.TokenKind,
		Status:     model.GameStatusInactive,
		Players:    make([]model.SeatedPlayer, 0, params.MaxPlayers),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err := c.update(ctx, func(repo *storage.Repo, ledger token.Ledger) error {
		exists, err := repo.GameExists(ctx, id)
		if err != nil {
			return err
		}
		if exists {
			return model.ErrInvalidAddress
		}

		vault, err := ledger.Open(ctx, authority.VaultAddress(id), params.TokenKind)
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
		return repo.SaveGame(ctx, game)
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("game created",
		slog.String("game_id", string(id)),
		slog.String("owner", string(game.Owner)),
		slog.Int("max_players", int(game.MaxPlayers)),
		slog.Uint64("min_deposit", game.MinDeposit),
		slog.Uint64("max_deposit", game.MaxDeposit),
		slog.String("token_kind", string(game.TokenKind)),
	)

	return game, nil
}

// GetGame retrieves a game by ID
func (c *Controller) GetGame(ctx context.Context, id model.EntityID) (*model.GameAccount, error) {
	var game *model.GameAccount
	err := c.store.View(ctx, func(tx storage.Tx) error {
		var err error
		game, err = storage.NewRepo(tx).GetGame(ctx, id)
		return err
	})
	return game, err
}

// VaultBalance returns the custody balance held for a game
func (c *Controller) VaultBalance(ctx context.Context, id model.EntityID) (uint64, error) {
	var balance uint64
	err := c.store.View(ctx, func(tx storage.Tx) error {
		game, err := storage.NewRepo(tx).GetGame(ctx, id)
		if err != nil {
			return err
		}
		balance, err = c.ledger(tx).Balance(ctx, vaultAccount(game))
		return err
	})
	return balance, err
}

// JoinGame seats player with a buy-in of amount
func (c *Controller) JoinGame(ctx context.Context, id model.EntityID, player authority.Signer, amount uint64) (*model.GameAccount, error) {
	var game *model.GameAccount
	err := c.update(ctx, func(repo *storage.Repo, ledger token.Ledger) error {
		var err error
		if game, err = repo.GetGame(ctx, id); err != nil {
			return err
		}

		if game.IsFull() {
			return model.ErrGameFull
		}
		if amount < game.MinDeposit {
			return model.ErrDepositTooSmall
		}
		if amount > game.MaxDeposit {
			return model.ErrDepositTooLarge
		}
		if game.SeatIndex(player.Address()) >= 0 {
			return model.ErrAlreadyAtTable
		}

		from := authority.AssociatedAccount(player.Address(), game.TokenKind)
		if err := ledger.Transfer(ctx, from, vaultAccount(game), player, amount); err != nil {
			return err
		}

		game.Players = append(game.Players, model.SeatedPlayer{
			Address: player.Address(),
			Balance: amount,
		})
		game.UpdatedAt = c.clock.Now()
		return repo.SaveGame(ctx, game)
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("player joined game",
		slog.String("game_id", string(id)),
		slog.String("player", string(player.Address())),
		slog.Uint64("amount", amount),
		slog.Int("seats_taken", len(game.Players)),
	)

	return game, nil
}

// AddChips tops up a seated player. The cap applies to the top-up itself, not
// to the resulting stack. While the game is active the chips wait in add_on
// until the next settle.
func (c *Controller) AddChips(ctx context.Context, id model.EntityID, player authority.Signer, amount uint64) (*model.GameAccount, error) {
	var game *model.GameAccount
	err := c.update(ctx, func(repo *storage.Repo, ledger token.Ledger) error {
		var err error
		if game, err = repo.GetGame(ctx, id); err != nil {
			return err
		}

		seat := game.GetSeat(player.Address())
		if seat == nil {
			return model.ErrNotAtTable
		}
		if amount > game.MaxDeposit {
			return model.ErrDepositTooLarge
		}

		if game.Status == model.GameStatusActive {
			seat.AddOn, err = settlement.Add(seat.AddOn, amount)
		} else {
			seat.Balance, err = settlement.Add(seat.Balance, amount)
		}
		if err != nil {
			return err
		}

		from := authority.AssociatedAccount(player.Address(), game.TokenKind)
		if err := ledger.Transfer(ctx, from, vaultAccount(game), player, amount); err != nil {
			return err
		}

		game.UpdatedAt = c.clock.Now()
		return repo.SaveGame(ctx, game)
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("chips added",
		slog.String("game_id", string(id)),
		slog.String("player", string(player.Address())),
		slog.Uint64("amount", amount),
		slog.String("status", string(game.Status)),
	)

	return game, nil
}

// SetGameStatus switches the add-on policy of a game
func (c *Controller) SetGameStatus(ctx context.Context, id model.EntityID, owner authority.Signer, status model.GameStatus) (*model.GameAccount, error) {
	if status != model.GameStatusActive && status != model.GameStatusInactive {
		return nil, model.ErrInvalidGameConfig
	}

	var game *model.GameAccount
	err := c.update(ctx, func(repo *storage.Repo, _ token.Ledger) error {
		var err error
		if game, err = loadOwned(ctx, repo, id, owner); err != nil {
			return err
		}
		game.Status = status
		game.UpdatedAt = c.clock.Now()
		return repo.SaveGame(ctx, game)
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("game status changed",
		slog.String("game_id", string(id)),
		slog.String("status", string(status)),
	)

	return game, nil
}

// Settle applies the reported adjustments, folds pending add-ons into
// balances up to max_deposit, then cashes out every seat whose withdrawal
// account is listed. Nothing is applied unless the whole batch succeeds.
func (c *Controller) Settle(
	ctx context.Context,
	id model.EntityID,
	owner authority.Signer,
	adjustments []model.Adjustment,
	withdrawals []model.Address,
) (*model.GameAccount, []Payout, error) {
	var (
		game    *model.GameAccount
		payouts []Payout
	)
	err := c.update(ctx, func(repo *storage.Repo, ledger token.Ledger) error {
		var err error
		if game, err = loadOwned(ctx, repo, id, owner); err != nil {
			return err
		}

		seats, err := settlement.ApplyAdjustments(game.Players, adjustments)
		if err != nil {
			return err
		}
		settlement.ReconcileAddOns(seats, game.MaxDeposit)

		owed, err := settlement.SeatsTotal(seats)
		if err != nil {
			return err
		}
		vault := vaultAccount(game)
		held, err := ledger.Balance(ctx, vault)
		if err != nil {
			return err
		}
		if owed > held {
			return model.ErrNotEnoughFunds
		}
		game.Players = seats

		signer := authority.Vault(game.ID)
		for _, account := range withdrawals {
			i := withdrawalSeat(game, account)
			if i < 0 {
				return model.ErrNotAtTable
			}
			seat := game.Players[i]
			amount, err := settlement.SeatTotal(seat)
			if err != nil {
				return err
			}
			if err := ledger.Transfer(ctx, vault, account, signer, amount); err != nil {
				return err
			}
			payouts = append(payouts, Payout{Player: seat.Address, Account: account, Amount: amount})
			game.RemoveSeat(i)
		}

		game.UpdatedAt = c.clock.Now()
		return repo.SaveGame(ctx, game)
	})
	if err != nil {
		return nil, nil, err
	}

	c.logger.Info("game settled",
		slog.String("game_id", string(id)),
		slog.Int("adjustments", len(adjustments)),
		slog.Int("withdrawals", len(payouts)),
		slog.Int("seats_taken", len(game.Players)),
	)

	return game, payouts, nil
}

// EjectPlayers pays each listed account the amount at the same index and
// unseats any player whose withdrawal account is listed. Stored seat balances
// are not consulted; the owner computes the amounts.
func (c *Controller) EjectPlayers(
	ctx context.Context,
	id model.EntityID,
	owner authority.Signer,
	accounts []model.Address,
	amounts []uint64,
) (*model.GameAccount, []Payout, error) {
	if len(accounts) != len(amounts) {
		return nil, nil, model.ErrInvalidAddress
	}

	var (
		game    *model.GameAccount
		payouts []Payout
	)
	err := c.update(ctx, func(repo *storage.Repo, ledger token.Ledger) error {
		var err error
		if game, err = loadOwned(ctx, repo, id, owner); err != nil {
			return err
		}

		vault := vaultAccount(game)
		signer := authority.Vault(game.ID)
		for i, account := range accounts {
			if err := ledger.Transfer(ctx, vault, account, signer, amounts[i]); err != nil {
				return err
			}
			payout := Payout{Account: account, Amount: amounts[i]}
			if seat := withdrawalSeat(game, account); seat >= 0 {
				payout.Player = game.Players[seat].Address
				game.RemoveSeat(seat)
			}
			payouts = append(payouts, payout)
		}

		game.UpdatedAt = c.clock.Now()
		return repo.SaveGame(ctx, game)
	})
	if err != nil {
		return nil, nil, err
	}

	c.logger.Info("players ejected",
		slog.String("game_id", string(id)),
		slog.Int("transfers", len(payouts)),
		slog.Int("seats_taken", len(game.Players)),
	)

	return game, payouts, nil
}

// RefundPlayer pays amount from the vault to a seated player without touching
// the seat. It is meant for out-of-band corrections.
func (c *Controller) RefundPlayer(ctx context.Context, id model.EntityID, owner authority.Signer, player model.Address, amount uint64) error {
	err := c.update(ctx, func(repo *storage.Repo, ledger token.Ledger) error {
		game, err := loadOwned(ctx, repo, id, owner)
		if err != nil {
			return err
		}
		if game.SeatIndex(player) < 0 {
			return model.ErrNotAtTable
		}
		to := authority.AssociatedAccount(player, game.TokenKind)
		return ledger.Transfer(ctx, vaultAccount(game), to, authority.Vault(game.ID), amount)
	})
	if err != nil {
		return err
	}

	c.logger.Info("player refunded",
		slog.String("game_id", string(id)),
		slog.String("player", string(player)),
		slog.Uint64("amount", amount),
	)

	return nil
}

// CloseGame sweeps the rake to the owner and destroys the vault and the
// game. It returns the rake swept.
func (c *Controller) CloseGame(ctx context.Context, id model.EntityID, owner authority.Signer) (uint64, error) {
	var rake uint64
	err := c.update(ctx, func(repo *storage.Repo, ledger token.Ledger) error {
		game, err := loadOwned(ctx, repo, id, owner)
		if err != nil {
			return err
		}
		if len(game.Players) != 0 {
			return model.ErrPlayersStillAtTable
		}

		vault := vaultAccount(game)
		signer := authority.Vault(game.ID)
		if rake, err = ledger.Balance(ctx, vault); err != nil {
			return err
		}
		ownerAccount, err := ledger.Open(ctx, game.Owner, game.TokenKind)
		if err != nil {
			return err
		}
		if err := ledger.Transfer(ctx, vault, ownerAccount, signer, rake); err != nil {
			return err
		}
		if err := ledger.Close(ctx, vault, ownerAccount, signer); err != nil {
			return err
		}
		return repo.DeleteGame(ctx, id)
	})
	if err != nil {
		return 0, err
	}

	c.logger.Info("game closed",
		slog.String("game_id", string(id)),
		slog.Uint64("rake", rake),
	)

	return rake, nil
}

func vaultAccount(game *model.GameAccount) model.Address {
	return authority.AssociatedAccount(authority.VaultAddress(game.ID), game.TokenKind)
}

// withdrawalSeat returns the seat whose withdrawal account is account, or -1
func withdrawalSeat(game *model.GameAccount, account model.Address) int {
	for i, seat := range game.Players {
		if authority.AssociatedAccount(seat.Address, game.TokenKind) == account {
			return i
		}
	}
	return -1
}
