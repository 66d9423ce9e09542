// Package storagetest holds the behaviour every storage backend must share.
package storagetest

import (
	"context"
	"errors"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/stakeledger/internal/model"
	"github.com/mcoot/stakeledger/internal/storage"
)

var errAbort = errors.New("abort")

// StoreSuite runs against a fresh store from NewStore before each test
type StoreSuite struct {
	suite.Suite
	NewStore func() storage.Store

	store storage.Store
	ctx   context.Context
}

func (s *StoreSuite) SetupTest() {
	s.store = s.NewStore()
	s.ctx = context.Background()
}

func (s *StoreSuite) TearDownTest() {
	if s.store != nil {
		_ = s.store.Close()
	}
}

func (s *StoreSuite) put(key, value string) {
	err := s.store.Update(s.ctx, func(tx storage.Tx) error {
		return tx.Put(s.ctx, key, []byte(value))
	})
	s.Require().NoError(err)
}

func (s *StoreSuite) get(key string) ([]byte, error) {
	var out []byte
	err := s.store.View(s.ctx, func(tx storage.Tx) error {
		v, err := tx.Get(s.ctx, key)
		out = v
		return err
	})
	return out, err
}

func (s *StoreSuite) TestPutAndGet() {
	s.put("k", "v1")

	v, err := s.get("k")
	s.Require().NoError(err)
	s.Equal("v1", string(v))
}

func (s *StoreSuite) TestGetNotFound() {
	_, err := s.get("missing")
	s.ErrorIs(err, storage.ErrNotFound)
}

func (s *StoreSuite) TestOverwrite() {
	s.put("k", "v1")
	s.put("k", "v2")

	v, err := s.get("k")
	s.Require().NoError(err)
	s.Equal("v2", string(v))
}

func (s *StoreSuite) TestDelete() {
	s.put("k", "v1")

	err := s.store.Update(s.ctx, func(tx storage.Tx) error {
		return tx.Delete(s.ctx, "k")
	})
	s.Require().NoError(err)

	_, err = s.get("k")
	s.ErrorIs(err, storage.ErrNotFound)
}

func (s *StoreSuite) TestReadYourWritesInsideUpdate() {
	s.put("k", "v1")

	err := s.store.Update(s.ctx, func(tx storage.Tx) error {
		s.Require().NoError(tx.Put(s.ctx, "k", []byte("v2")))
		v, err := tx.Get(s.ctx, "k")
		s.Require().NoError(err)
		s.Equal("v2", string(v))

		s.Require().NoError(tx.Delete(s.ctx, "k"))
		_, err = tx.Get(s.ctx, "k")
		s.ErrorIs(err, storage.ErrNotFound)
		return nil
	})
	s.Require().NoError(err)
}

func (s *StoreSuite) TestFailedUpdateDiscardsWrites() {
	s.put("kept", "first")

	err := s.store.Update(s.ctx, func(tx storage.Tx) error {
		s.Require().NoError(tx.Put(s.ctx, "kept", []byte("changed")))
		s.Require().NoError(tx.Put(s.ctx, "new", []byte("value")))
		return errAbort
	})
	s.ErrorIs(err, errAbort)

	v, err := s.get("kept")
	s.Require().NoError(err)
	s.Equal("first", string(v))

	_, err = s.get("new")
	s.ErrorIs(err, storage.ErrNotFound)
}

func (s *StoreSuite) TestViewRejectsWrites() {
	err := s.store.View(s.ctx, func(tx storage.Tx) error {
		return tx.Put(s.ctx, "k", []byte("v"))
	})
	s.ErrorIs(err, storage.ErrReadOnly)

	err = s.store.View(s.ctx, func(tx storage.Tx) error {
		return tx.Delete(s.ctx, "k")
	})
	s.ErrorIs(err, storage.ErrReadOnly)
}

func (s *StoreSuite) TestRepoGameRoundTrip() {
	game := &model.GameAccount{
		ID:         "game-1",
		Owner:      "owner",
		MinDeposit: 10,
		MaxDeposit: 100,
		MaxPlayers: 6,
		TokenKind:  "chips",
		Status:     model.GameStatusInactive,
		Players:    []model.SeatedPlayer{{Address: "alice", Balance: 50}},
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
	}

	err := s.store.Update(s.ctx, func(tx storage.Tx) error {
		return storage.NewRepo(tx).SaveGame(s.ctx, game)
	})
	s.Require().NoError(err)

	err = s.store.View(s.ctx, func(tx storage.Tx) error {
		got, err := storage.NewRepo(tx).GetGame(s.ctx, "game-1")
		s.Require().NoError(err)
		s.Equal(game, got)
		return nil
	})
	s.Require().NoError(err)
}

func (s *StoreSuite) TestRepoNotFoundErrors() {
	err := s.store.View(s.ctx, func(tx storage.Tx) error {
		repo := storage.NewRepo(tx)
		_, err := repo.GetGame(s.ctx, "nope")
		s.ErrorIs(err, model.ErrGameNotFound)
		_, err = repo.GetTournament(s.ctx, "nope")
		s.ErrorIs(err, model.ErrTournamentNotFound)
		_, err = repo.GetReceipt(s.ctx, "nope", "alice")
		s.ErrorIs(err, model.ErrReceiptNotFound)
		_, err = repo.GetNFTPrize(s.ctx, "nope", 1)
		s.ErrorIs(err, model.ErrNFTPrizeNotFound)
		_, err = repo.GetTokenAccount(s.ctx, "nope")
		s.ErrorIs(err, model.ErrTokenAccountNotFound)
		_, err = repo.GetCredentialByUsername(s.ctx, "nope")
		s.ErrorIs(err, model.ErrIdentityNotFound)
		return nil
	})
	s.Require().NoError(err)
}

func (s *StoreSuite) TestRepoCredentialByUsername() {
	cred := &model.Credential{Address: "addr-1", Username: "alice", PasswordHash: "hash"}

	err := s.store.Update(s.ctx, func(tx storage.Tx) error {
		return storage.NewRepo(tx).SaveCredential(s.ctx, cred)
	})
	s.Require().NoError(err)

	err = s.store.View(s.ctx, func(tx storage.Tx) error {
		got, err := storage.NewRepo(tx).GetCredentialByUsername(s.ctx, "alice")
		s.Require().NoError(err)
		s.Equal(cred.Address, got.Address)
		s.Equal(cred.PasswordHash, got.PasswordHash)
		return nil
	})
	s.Require().NoError(err)
}
