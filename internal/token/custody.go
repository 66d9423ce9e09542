package token

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mcoot/stakeledger/internal/authority"
	"github.com/mcoot/stakeledger/internal/model"
	"github.com/mcoot/stakeledger/internal/settlement"
	"github.com/mcoot/stakeledger/internal/storage"
)

// Custody is the built-in token ledger: balances live in the same store as
// the game ledgers.
type Custody struct {
	repo   *storage.Repo
	logger *slog.Logger
}

// Ensure Custody implements the interface
var _ Ledger = (*Custody)(nil)

// NewCustody binds a custody ledger to tx
func NewCustody(tx storage.Tx, logger *slog.Logger) *Custody {
	return &Custody{repo: storage.NewRepo(tx), logger: logger}
}

// CustodyFactory returns a Factory producing Custody ledgers
func CustodyFactory(logger *slog.Logger) Factory {
	return func(tx storage.Tx) Ledger {
		return NewCustody(tx, logger)
	}
}

func (c *Custody) Open(ctx context.Context, owner model.Address, kind model.TokenKind) (model.Address, error) {
	if owner == "" || kind == "" {
		return "", model.ErrInvalidAddress
	}
	addr := authority.AssociatedAccount(owner, kind)

	_, err := c.repo.GetTokenAccount(ctx, addr)
	if err == nil {
		return addr, nil
	}
	if !errors.Is(err, model.ErrTokenAccountNotFound) {
		return "", err
	}

	account := &model.TokenAccount{Address: addr, Owner: owner, Kind: kind}
	if err := c.repo.SaveTokenAccount(ctx, account); err != nil {
		return "", err
	}
	c.logger.Debug("token account opened",
		slog.String("account", string(addr)),
		slog.String("owner", string(owner)),
		slog.String("kind", string(kind)),
	)
	return addr, nil
}

func (c *Custody) Transfer(ctx context.Context, from, to model.Address, signer authority.Signer, amount uint64) error {
	src, err := c.account(ctx, from)
	if err != nil {
		return err
	}
	dst, err := c.account(ctx, to)
	if err != nil {
		return err
	}
	if src.Kind != dst.Kind {
		return model.ErrInvalidAddress
	}
	if !authorized(signer, src.Owner) {
		return model.ErrIncorrectTokenOwner
	}
	if amount > src.Amount {
		return model.ErrNotEnoughFunds
	}
	if from == to || amount == 0 {
		return nil
	}

	credited, err := settlement.Add(dst.Amount, amount)
	if err != nil {
		return err
	}
	src.Amount -= amount
	dst.Amount = credited

	if err := c.repo.SaveTokenAccount(ctx, src); err != nil {
		return err
	}
	if err := c.repo.SaveTokenAccount(ctx, dst); err != nil {
		return err
	}

	c.logger.Debug("tokens transferred",
		slog.String("from", string(from)),
		slog.String("to", string(to)),
		slog.String("kind", string(src.Kind)),
		slog.Uint64("amount", amount),
		signerAttr(signer),
	)
	return nil
}

// authorized reports whether signer owns an account held by owner. A vault
// signer must also verify against the entity it claims to act for.
func authorized(signer authority.Signer, owner model.Address) bool {
	if signer == nil || signer.Address() != owner {
		return false
	}
	if v, ok := signer.(authority.VaultSigner); ok {
		return authority.Verify(v, v.Entity())
	}
	return true
}

func signerAttr(signer authority.Signer) slog.Attr {
	if v, ok := signer.(authority.VaultSigner); ok {
		return slog.String("vault", string(v.Entity()))
	}
	return slog.String("signer", string(signer.Address()))
}

func (c *Custody) Close(ctx context.Context, account, destination model.Address, signer authority.Signer) error {
	acct, err := c.account(ctx, account)
	if err != nil {
		return err
	}
	if destination == "" {
		return model.ErrInvalidAddress
	}
	if !authorized(signer, acct.Owner) {
		return model.ErrIncorrectTokenOwner
	}
	if acct.Amount != 0 {
		return model.ErrAccountNotEmpty
	}
	if err := c.repo.DeleteTokenAccount(ctx, account); err != nil {
		return err
	}

	c.logger.Debug("token account closed",
		slog.String("account", string(account)),
		slog.String("destination", string(destination)),
		signerAttr(signer),
	)
	return nil
}

func (c *Custody) Balance(ctx context.Context, account model.Address) (uint64, error) {
	acct, err := c.account(ctx, account)
	if err != nil {
		return 0, err
	}
	return acct.Amount, nil
}

// Mint credits amount of kind to owner's associated account, opening it if
// needed. Only the development faucet and tests mint.
func (c *Custody) Mint(ctx context.Context, owner model.Address, kind model.TokenKind, amount uint64) (model.Address, error) {
	addr, err := c.Open(ctx, owner, kind)
	if err != nil {
		return "", err
	}
	acct, err := c.repo.GetTokenAccount(ctx, addr)
	if err != nil {
		return "", err
	}
	if acct.Amount, err = settlement.Add(acct.Amount, amount); err != nil {
		return "", err
	}
	if err := c.repo.SaveTokenAccount(ctx, acct); err != nil {
		return "", err
	}

	c.logger.Info("tokens minted",
		slog.String("owner", string(owner)),
		slog.String("kind", string(kind)),
		slog.Uint64("amount", amount),
	)
	return addr, nil
}

// account loads a token account, reporting unknown addresses as invalid
func (c *Custody) account(ctx context.Context, addr model.Address) (*model.TokenAccount, error) {
	acct, err := c.repo.GetTokenAccount(ctx, addr)
	if errors.Is(err, model.ErrTokenAccountNotFound) {
		return nil, model.ErrInvalidAddress
	}
	return acct, err
}
