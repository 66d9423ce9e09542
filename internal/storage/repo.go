package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mcoot/stakeledger/internal/model"
)

// Repo gives typed access to ledger records inside one transaction
type Repo struct {
	tx Tx
}

// NewRepo wraps a transaction
func NewRepo(tx Tx) *Repo {
	return &Repo{tx: tx}
}

// Tx returns the underlying transaction
func (r *Repo) Tx() Tx {
	return r.tx
}

func (r *Repo) load(ctx context.Context, key string, notFound error, v any) error {
	data, err := r.tx.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return notFound
		}
		return fmt.Errorf("load %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (r *Repo) save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return r.tx.Put(ctx, key, data)
}

func (r *Repo) exists(ctx context.Context, key string) (bool, error) {
	_, err := r.tx.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Game operations

func (r *Repo) GetGame(ctx context.Context, id model.EntityID) (*model.GameAccount, error) {
	var g model.GameAccount
	if err := r.load(ctx, GameKey(id), model.ErrGameNotFound, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *Repo) SaveGame(ctx context.Context, g *model.GameAccount) error {
	return r.save(ctx, GameKey(g.ID), g)
}

func (r *Repo) DeleteGame(ctx context.Context, id model.EntityID) error {
	return r.tx.Delete(ctx, GameKey(id))
}

func (r *Repo) GameExists(ctx context.Context, id model.EntityID) (bool, error) {
	return r.exists(ctx, GameKey(id))
}

// Tournament operations

func (r *Repo) GetTournament(ctx context.Context, id model.EntityID) (*model.TournamentAccount, error) {
	var t model.TournamentAccount
	if err := r.load(ctx, TournamentKey(id), model.ErrTournamentNotFound, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *Repo) SaveTournament(ctx context.Context, t *model.TournamentAccount) error {
	return r.save(ctx, TournamentKey(t.ID), t)
}

func (r *Repo) DeleteTournament(ctx context.Context, id model.EntityID) error {
	return r.tx.Delete(ctx, TournamentKey(id))
}

func (r *Repo) TournamentExists(ctx context.Context, id model.EntityID) (bool, error) {
	return r.exists(ctx, TournamentKey(id))
}

// Receipt operations

func (r *Repo) GetReceipt(ctx context.Context, tournament model.EntityID, player model.Address) (*model.TournamentPlayerAccount, error) {
	var rc model.TournamentPlayerAccount
	if err := r.load(ctx, ReceiptKey(tournament, player), model.ErrReceiptNotFound, &rc); err != nil {
		return nil, err
	}
	return &rc, nil
}

func (r *Repo) SaveReceipt(ctx context.Context, rc *model.TournamentPlayerAccount) error {
	return r.save(ctx, ReceiptKey(rc.Tournament, rc.Player), rc)
}

func (r *Repo) DeleteReceipt(ctx context.Context, tournament model.EntityID, player model.Address) error {
	return r.tx.Delete(ctx, ReceiptKey(tournament, player))
}

func (r *Repo) ReceiptExists(ctx context.Context, tournament model.EntityID, player model.Address) (bool, error) {
	return r.exists(ctx, ReceiptKey(tournament, player))
}

// NFT prize operations

func (r *Repo) GetNFTPrize(ctx context.Context, tournament model.EntityID, place uint16) (*model.NFTPrize, error) {
	var p model.NFTPrize
	if err := r.load(ctx, NFTPrizeKey(tournament, place), model.ErrNFTPrizeNotFound, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repo) SaveNFTPrize(ctx context.Context, p *model.NFTPrize) error {
	return r.save(ctx, NFTPrizeKey(p.Tournament, p.Place), p)
}

func (r *Repo) DeleteNFTPrize(ctx context.Context, tournament model.EntityID, place uint16) error {
	return r.tx.Delete(ctx, NFTPrizeKey(tournament, place))
}

// Token account operations

func (r *Repo) GetTokenAccount(ctx context.Context, addr model.Address) (*model.TokenAccount, error) {
	var a model.TokenAccount
	if err := r.load(ctx, TokenAccountKey(addr), model.ErrTokenAccountNotFound, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *Repo) SaveTokenAccount(ctx context.Context, a *model.TokenAccount) error {
	return r.save(ctx, TokenAccountKey(a.Address), a)
}

func (r *Repo) DeleteTokenAccount(ctx context.Context, addr model.Address) error {
	return r.tx.Delete(ctx, TokenAccountKey(addr))
}

// Identity operations

func (r *Repo) GetIdentity(ctx context.Context, addr model.Address) (*model.Identity, error) {
	var id model.Identity
	if err := r.load(ctx, IdentityKey(addr), model.ErrIdentityNotFound, &id); err != nil {
		return nil, err
	}
	return &id, nil
}

func (r *Repo) SaveIdentity(ctx context.Context, id *model.Identity) error {
	return r.save(ctx, IdentityKey(id.Address), id)
}

// SaveCredential stores the credential and its username index entry
func (r *Repo) SaveCredential(ctx context.Context, c *model.Credential) error {
	if err := r.save(ctx, CredentialKey(c.Address), c); err != nil {
		return err
	}
	return r.tx.Put(ctx, UsernameIndexKey(c.Username), []byte(c.Address))
}

func (r *Repo) GetCredentialByUsername(ctx context.Context, username string) (*model.Credential, error) {
	addr, err := r.tx.Get(ctx, UsernameIndexKey(username))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, model.ErrIdentityNotFound
		}
		return nil, err
	}
	var c model.Credential
	if err := r.load(ctx, CredentialKey(model.Address(addr)), model.ErrIdentityNotFound, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
