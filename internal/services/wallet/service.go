package wallet

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mcoot/stakeledger/internal/authority"
	"github.com/mcoot/stakeledger/internal/model"
	"github.com/mcoot/stakeledger/internal/storage"
	"github.com/mcoot/stakeledger/internal/token"
)

// Errors
var (
	ErrFaucetDisabled = errors.New("faucet is disabled")
	ErrFaucetLimit    = errors.New("faucet request exceeds the per-request limit")
)

// Config holds faucet settings
type Config struct {
	// FaucetLimit caps a single faucet request. Zero disables the faucet.
	FaucetLimit uint64
}

// Service exposes an identity's custody balances and, in development, a
// faucet that mints test tokens
type Service struct {
	store  storage.Store
	ledger token.Factory
	cfg    Config
	logger *slog.Logger
}

// New creates a new wallet Service
func New(store storage.Store, ledger token.Factory, cfg Config, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		ledger: ledger,
		cfg:    cfg,
		logger: logger,
	}
}

// FaucetEnabled reports whether Faucet may be called
func (s *Service) FaucetEnabled() bool {
	return s.cfg.FaucetLimit > 0
}

// Faucet mints amount of kind into owner's account and returns the new balance
func (s *Service) Faucet(ctx context.Context, owner model.Address, kind model.TokenKind, amount uint64) (uint64, error) {
	if !s.FaucetEnabled() {
		return 0, ErrFaucetDisabled
	}
	if amount > s.cfg.FaucetLimit {
		return 0, ErrFaucetLimit
	}

	var balance uint64
	err := s.store.Update(ctx, func(tx storage.Tx) error {
		custody := token.NewCustody(tx, s.logger)
		account, err := custody.Mint(ctx, owner, kind, amount)
		if err != nil {
			return err
		}
		balance, err = custody.Balance(ctx, account)
		return err
	})
	if err != nil {
		return 0, err
	}
	return balance, nil
}

// Balance returns what owner holds of kind. An owner without an account holds nothing.
func (s *Service) Balance(ctx context.Context, owner model.Address, kind model.TokenKind) (model.Address, uint64, error) {
	account := authority.AssociatedAccount(owner, kind)
	var balance uint64
	err := s.store.View(ctx, func(tx storage.Tx) error {
		var err error
		balance, err = s.ledger(tx).Balance(ctx, account)
		if errors.Is(err, model.ErrInvalidAddress) {
			balance = 0
			return nil
		}
		return err
	})
	if err != nil {
		return "", 0, err
	}
	return account, balance, nil
}
