// Package token moves fungible and non-fungible tokens between custody
// accounts on behalf of the ledger.
package token

import (
	"context"

	"github.com/mcoot/stakeledger/internal/authority"
	"github.com/mcoot/stakeledger/internal/model"
	"github.com/mcoot/stakeledger/internal/storage"
)

// Ledger is the external token ledger the game ledgers settle through. Every
// call either takes full effect or fails without effect.
type Ledger interface {
	// Open returns the associated account of owner for kind, creating an
	// empty one if it does not exist yet.
	Open(ctx context.Context, owner model.Address, kind model.TokenKind) (model.Address, error)

	// Transfer moves amount from one account to another. authority must own from.
	Transfer(ctx context.Context, from, to model.Address, signer authority.Signer, amount uint64) error

	// Close deletes an empty account. authority must own it.
	Close(ctx context.Context, account, destination model.Address, signer authority.Signer) error

	// Balance returns the amount held by account
	Balance(ctx context.Context, account model.Address) (uint64, error)
}

// Factory binds a Ledger to the storage transaction of one operation, so token
// movements commit or roll back together with the ledger state.
type Factory func(tx storage.Tx) Ledger
