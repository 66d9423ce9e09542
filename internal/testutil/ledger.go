package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mcoot/stakeledger/internal/authority"
	"github.com/mcoot/stakeledger/internal/model"
	"github.com/mcoot/stakeledger/internal/storage"
	"github.com/mcoot/stakeledger/internal/token"
)

// Fund mints amount of kind into owner's associated account
func Fund(t *testing.T, store storage.Store, owner model.Address, kind model.TokenKind, amount uint64) model.Address {
	t.Helper()
	var addr model.Address
	err := store.Update(context.Background(), func(tx storage.Tx) error {
		var err error
		addr, err = token.NewCustody(tx, NopLogger()).Mint(context.Background(), owner, kind, amount)
		return err
	})
	require.NoError(t, err)
	return addr
}

// Balance returns the amount in owner's associated account for kind, or 0
// if the account does not exist
func Balance(t *testing.T, store storage.Store, owner model.Address, kind model.TokenKind) uint64 {
	t.Helper()
	return AccountBalance(t, store, authority.AssociatedAccount(owner, kind))
}

// AccountBalance returns the amount held by a custody account, or 0 if it
// does not exist
func AccountBalance(t *testing.T, store storage.Store, account model.Address) uint64 {
	t.Helper()
	var amount uint64
	err := store.View(context.Background(), func(tx storage.Tx) error {
		acct, err := storage.NewRepo(tx).GetTokenAccount(context.Background(), account)
		if err != nil {
			return err
		}
		amount = acct.Amount
		return nil
	})
	if err != nil {
		require.ErrorIs(t, err, model.ErrTokenAccountNotFound)
		return 0
	}
	return amount
}

// AccountExists reports whether a custody account exists
func AccountExists(t *testing.T, store storage.Store, account model.Address) bool {
	t.Helper()
	var exists bool
	err := store.View(context.Background(), func(tx storage.Tx) error {
		_, err := storage.NewRepo(tx).GetTokenAccount(context.Background(), account)
		exists = err == nil
		if err != nil && !errors.Is(err, model.ErrTokenAccountNotFound) {
			return err
		}
		return nil
	})
	require.NoError(t, err)
	return exists
}
