package cashgame

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/stakeledger/internal/authority"
	"github.com/mcoot/stakeledger/internal/dependencies/mocks"
	"github.com/mcoot/stakeledger/internal/model"
	"github.com/mcoot/stakeledger/internal/settlement"
	"github.com/mcoot/stakeledger/internal/storage"
	"github.com/mcoot/stakeledger/internal/storage/memory"
	"github.com/mcoot/stakeledger/internal/testutil"
	"github.com/mcoot/stakeledger/internal/token"
)

const chips model.TokenKind = "chips"

var owner = authority.Identity("owner")

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	clock      *mocks.MockClock
	salt       *mocks.MockSalt
	controller *Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.salt = mocks.NewMockSalt()
	logger := testutil.TestLogger(s.T())
	s.controller = NewController(s.storage, token.CustodyFactory(logger), s.clock, s.salt, logger)
	s.ctx = context.Background()
}

func (s *ControllerSuite) createGame(maxPlayers uint16, minDeposit, maxDeposit uint64) *model.GameAccount {
	game, err := s.controller.CreateGame(s.ctx, owner, CreateGameParams{
		MaxPlayers: maxPlayers,
		MinDeposit: minDeposit,
		MaxDeposit: maxDeposit,
		TokenKind:  chips,
	})
	s.Require().NoError(err)
	return game
}

// join funds player with exactly amount and seats them
func (s *ControllerSuite) join(game *model.GameAccount, player model.Address, amount uint64) {
	testutil.Fund(s.T(), s.storage, player, chips, amount)
	_, err := s.controller.JoinGame(s.ctx, game.ID, authority.Identity(player), amount)
	s.Require().NoError(err)
}

func (s *ControllerSuite) vaultBalance(game *model.GameAccount) uint64 {
	return testutil.AccountBalance(s.T(), s.storage, vaultAccount(game))
}

func (s *ControllerSuite) rawGame(id model.EntityID) []byte {
	var raw []byte
	err := s.storage.View(s.ctx, func(tx storage.Tx) error {
		var err error
		raw, err = tx.Get(s.ctx, storage.GameKey(id))
		return err
	})
	s.Require().NoError(err)
	return raw
}

func (s *ControllerSuite) assertConserved(game *model.GameAccount) {
	current, err := s.controller.GetGame(s.ctx, game.ID)
	s.Require().NoError(err)
	total, err := settlement.SeatsTotal(current.Players)
	s.Require().NoError(err)
	s.Equal(total, s.vaultBalance(game))
}

// CreateGame tests

func (s *ControllerSuite) TestCreateGameSucceeds() {
	s.salt.Queue("salt-a")

	game := s.createGame(6, 10, 100)

	s.Equal(authority.EntityID("owner", "salt-a"), game.ID)
	s.Equal(model.Address("owner"), game.Owner)
	s.Equal(model.GameStatusInactive, game.Status)
	s.Empty(game.Players)
	s.True(testutil.AccountExists(s.T(), s.storage, vaultAccount(game)))
	s.Equal(uint64(0), s.vaultBalance(game))
}

func (s *ControllerSuite) TestCreateGameRejectsInconsistentConfig() {
	_, err := s.controller.CreateGame(s.ctx, owner, CreateGameParams{MaxPlayers: 6, MinDeposit: 100, MaxDeposit: 10, TokenKind: chips})
	s.ErrorIs(err, model.ErrInvalidGameConfig)

	_, err = s.controller.CreateGame(s.ctx, owner, CreateGameParams{MaxPlayers: 0, MinDeposit: 10, MaxDeposit: 100, TokenKind: chips})
	s.ErrorIs(err, model.ErrInvalidGameConfig)
}

func (s *ControllerSuite) TestCreateGameRejectsPrefundedVault() {
	s.salt.Queue("salt-a")
	id := authority.EntityID("owner", "salt-a")
	testutil.Fund(s.T(), s.storage, authority.VaultAddress(id), chips, 5)

	_, err := s.controller.CreateGame(s.ctx, owner, CreateGameParams{MaxPlayers: 6, MinDeposit: 10, MaxDeposit: 100, TokenKind: chips})
	s.ErrorIs(err, model.ErrInitialTokenAccountBalanceNonZero)

	_, err = s.controller.GetGame(s.ctx, id)
	s.ErrorIs(err, model.ErrGameNotFound)
}

// JoinGame tests

func (s *ControllerSuite) TestJoinGameMovesBuyInToVault() {
	game := s.createGame(6, 10, 100)
	testutil.Fund(s.T(), s.storage, "alice", chips, 80)

	updated, err := s.controller.JoinGame(s.ctx, game.ID, authority.Identity("alice"), 50)
	s.Require().NoError(err)

	s.Equal([]model.SeatedPlayer{{Address: "alice", Balance: 50}}, updated.Players)
	s.Equal(uint64(30), testutil.Balance(s.T(), s.storage, "alice", chips))
	s.Equal(uint64(50), s.vaultBalance(game))
}

func (s *ControllerSuite) TestJoinGameRejectionsLeaveSeatsUntouched() {
	game := s.createGame(2, 10, 100)
	s.join(game, "alice", 50)
	testutil.Fund(s.T(), s.storage, "bob", chips, 1000)
	before := s.rawGame(game.ID)

	_, err := s.controller.JoinGame(s.ctx, game.ID, authority.Identity("bob"), 9)
	s.ErrorIs(err, model.ErrDepositTooSmall)

	_, err = s.controller.JoinGame(s.ctx, game.ID, authority.Identity("bob"), 101)
	s.ErrorIs(err, model.ErrDepositTooLarge)

	testutil.Fund(s.T(), s.storage, "alice", chips, 50)
	_, err = s.controller.JoinGame(s.ctx, game.ID, authority.Identity("alice"), 50)
	s.ErrorIs(err, model.ErrAlreadyAtTable)

	s.Equal(before, s.rawGame(game.ID))
	s.Equal(uint64(1000), testutil.Balance(s.T(), s.storage, "bob", chips))
}

func (s *ControllerSuite) TestJoinFullGameFails() {
	game := s.createGame(2, 10, 100)
	s.join(game, "alice", 50)
	s.join(game, "bob", 50)
	testutil.Fund(s.T(), s.storage, "carol", chips, 50)
	before := s.rawGame(game.ID)

	_, err := s.controller.JoinGame(s.ctx, game.ID, authority.Identity("carol"), 50)
	s.ErrorIs(err, model.ErrGameFull)
	s.Equal(before, s.rawGame(game.ID))
}

func (s *ControllerSuite) TestJoinGameWithoutFundsFails() {
	game := s.createGame(6, 10, 100)

	_, err := s.controller.JoinGame(s.ctx, game.ID, authority.Identity("alice"), 50)
	s.ErrorIs(err, model.ErrInvalidAddress)

	testutil.Fund(s.T(), s.storage, "alice", chips, 20)
	_, err = s.controller.JoinGame(s.ctx, game.ID, authority.Identity("alice"), 50)
	s.ErrorIs(err, model.ErrNotEnoughFunds)

	current, err := s.controller.GetGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Empty(current.Players)
}

func (s *ControllerSuite) TestJoinGameNotFound() {
	_, err := s.controller.JoinGame(s.ctx, "missing", authority.Identity("alice"), 50)
	s.ErrorIs(err, model.ErrGameNotFound)
}

// AddChips tests

func (s *ControllerSuite) TestAddChipsWhileInactiveCreditsBalance() {
	game := s.createGame(6, 10, 100)
	s.join(game, "alice", 50)
	testutil.Fund(s.T(), s.storage, "alice", chips, 30)

	updated, err := s.controller.AddChips(s.ctx, game.ID, authority.Identity("alice"), 30)
	s.Require().NoError(err)

	s.Equal(model.SeatedPlayer{Address: "alice", Balance: 80}, updated.Players[0])
	s.assertConserved(game)
}

func (s *ControllerSuite) TestAddChipsWhileActiveGoesToAddOn() {
	game := s.createGame(6, 10, 100)
	s.join(game, "alice", 50)
	_, err := s.controller.SetGameStatus(s.ctx, game.ID, owner, model.GameStatusActive)
	s.Require().NoError(err)
	testutil.Fund(s.T(), s.storage, "alice", chips, 30)

	updated, err := s.controller.AddChips(s.ctx, game.ID, authority.Identity("alice"), 30)
	s.Require().NoError(err)

	s.Equal(model.SeatedPlayer{Address: "alice", Balance: 50, AddOn: 30}, updated.Players[0])
	s.assertConserved(game)
}

func (s *ControllerSuite) TestAddChipsCapAppliesToTopUpNotTotal() {
	game := s.createGame(6, 10, 100)
	s.join(game, "alice", 90)
	testutil.Fund(s.T(), s.storage, "alice", chips, 200)

	updated, err := s.controller.AddChips(s.ctx, game.ID, authority.Identity("alice"), 100)
	s.Require().NoError(err)
	s.Equal(uint64(190), updated.Players[0].Balance)

	_, err = s.controller.AddChips(s.ctx, game.ID, authority.Identity("alice"), 101)
	s.ErrorIs(err, model.ErrDepositTooLarge)
}

func (s *ControllerSuite) TestAddChipsNotAtTable() {
	game := s.createGame(6, 10, 100)
	testutil.Fund(s.T(), s.storage, "alice", chips, 30)

	_, err := s.controller.AddChips(s.ctx, game.ID, authority.Identity("alice"), 30)
	s.ErrorIs(err, model.ErrNotAtTable)
}

// SetGameStatus tests

func (s *ControllerSuite) TestSetGameStatusRequiresOwner() {
	game := s.createGame(6, 10, 100)

	_, err := s.controller.SetGameStatus(s.ctx, game.ID, authority.Identity("alice"), model.GameStatusActive)
	s.ErrorIs(err, model.ErrNotGameOwner)

	_, err = s.controller.SetGameStatus(s.ctx, game.ID, owner, "paused")
	s.ErrorIs(err, model.ErrInvalidGameConfig)
}

// Settle tests

func (s *ControllerSuite) TestSettleScenarioPaysAdjustedBalance() {
	game := s.createGame(6, 10, 100)
	s.join(game, "alice", 50)
	testutil.Fund(s.T(), s.storage, "alice", chips, 30)
	_, err := s.controller.AddChips(s.ctx, game.ID, authority.Identity("alice"), 30)
	s.Require().NoError(err)

	updated, _, err := s.controller.Settle(s.ctx, game.ID, owner,
		[]model.Adjustment{{Player: "alice", Op: model.SettleSub, Amount: 20}}, nil)
	s.Require().NoError(err)
	s.Equal(uint64(60), updated.Players[0].Balance)

	account := authority.AssociatedAccount("alice", chips)
	updated, payouts, err := s.controller.Settle(s.ctx, game.ID, owner, nil, []model.Address{account})
	s.Require().NoError(err)

	s.Empty(updated.Players)
	s.Equal([]Payout{{Player: "alice", Account: account, Amount: 60}}, payouts)
	s.Equal(uint64(60), testutil.Balance(s.T(), s.storage, "alice", chips))
	s.Equal(uint64(20), s.vaultBalance(game))
}

func (s *ControllerSuite) TestSettleMovesChipsBetweenPlayers() {
	game := s.createGame(6, 10, 100)
	s.join(game, "alice", 50)
	s.join(game, "bob", 50)

	updated, _, err := s.controller.Settle(s.ctx, game.ID, owner, []model.Adjustment{
		{Player: "alice", Op: model.SettleAdd, Amount: 25},
		{Player: "bob", Op: model.SettleSub, Amount: 25},
	}, nil)
	s.Require().NoError(err)

	s.Equal(uint64(75), updated.Players[0].Balance)
	s.Equal(uint64(25), updated.Players[1].Balance)
	s.assertConserved(game)
}

func (s *ControllerSuite) TestSettleUnknownPlayerLeavesStateUnchanged() {
	game := s.createGame(6, 10, 100)
	s.join(game, "alice", 50)
	s.join(game, "bob", 50)
	before := s.rawGame(game.ID)

	_, _, err := s.controller.Settle(s.ctx, game.ID, owner, []model.Adjustment{
		{Player: "alice", Op: model.SettleSub, Amount: 10},
		{Player: "mallory", Op: model.SettleAdd, Amount: 10},
	}, []model.Address{authority.AssociatedAccount("alice", chips)})
	s.ErrorIs(err, model.ErrNotAtTable)

	s.Equal(before, s.rawGame(game.ID))
	s.Equal(uint64(100), s.vaultBalance(game))
	s.Equal(uint64(0), testutil.Balance(s.T(), s.storage, "alice", chips))
}

func (s *ControllerSuite) TestSettleUnderflowFails() {
	game := s.createGame(6, 10, 100)
	s.join(game, "alice", 50)
	before := s.rawGame(game.ID)

	_, _, err := s.controller.Settle(s.ctx, game.ID, owner,
		[]model.Adjustment{{Player: "alice", Op: model.SettleSub, Amount: 51}}, nil)
	s.ErrorIs(err, model.ErrUnderflow)
	s.Equal(before, s.rawGame(game.ID))
}

func (s *ControllerSuite) TestSettleCannotOwePlayersMoreThanVaultHolds() {
	game := s.createGame(6, 10, 100)
	s.join(game, "alice", 50)

	_, _, err := s.controller.Settle(s.ctx, game.ID, owner,
		[]model.Adjustment{{Player: "alice", Op: model.SettleAdd, Amount: 1}}, nil)
	s.ErrorIs(err, model.ErrNotEnoughFunds)
}

func (s *ControllerSuite) TestSettleReconcilesAddOnsUpToMaxDeposit() {
	game := s.createGame(6, 10, 100)
	s.join(game, "alice", 90)
	_, err := s.controller.SetGameStatus(s.ctx, game.ID, owner, model.GameStatusActive)
	s.Require().NoError(err)
	testutil.Fund(s.T(), s.storage, "alice", chips, 30)
	_, err = s.controller.AddChips(s.ctx, game.ID, authority.Identity("alice"), 30)
	s.Require().NoError(err)

	updated, _, err := s.controller.Settle(s.ctx, game.ID, owner, nil, nil)
	s.Require().NoError(err)

	s.Equal(model.SeatedPlayer{Address: "alice", Balance: 100, AddOn: 20}, updated.Players[0])
	s.assertConserved(game)

	account := authority.AssociatedAccount("alice", chips)
	_, payouts, err := s.controller.Settle(s.ctx, game.ID, owner, nil, []model.Address{account})
	s.Require().NoError(err)
	s.Equal(uint64(120), payouts[0].Amount)
	s.Equal(uint64(0), s.vaultBalance(game))
}

func (s *ControllerSuite) TestSettleUnmatchedWithdrawalFails() {
	game := s.createGame(6, 10, 100)
	s.join(game, "alice", 50)
	stranger := testutil.Fund(s.T(), s.storage, "mallory", chips, 0)

	_, _, err := s.controller.Settle(s.ctx, game.ID, owner, nil, []model.Address{stranger})
	s.ErrorIs(err, model.ErrNotAtTable)
	s.Equal(uint64(50), s.vaultBalance(game))
}

func (s *ControllerSuite) TestSettleRequiresOwner() {
	game := s.createGame(6, 10, 100)
	s.join(game, "alice", 50)

	_, _, err := s.controller.Settle(s.ctx, game.ID, authority.Identity("alice"),
		[]model.Adjustment{{Player: "alice", Op: model.SettleAdd, Amount: 0}}, nil)
	s.ErrorIs(err, model.ErrNotGameOwner)
}

func (s *ControllerSuite) TestConservationAcrossSequence() {
	game := s.createGame(4, 10, 100)
	s.join(game, "alice", 40)
	s.assertConserved(game)
	s.join(game, "bob", 100)
	s.assertConserved(game)

	_, err := s.controller.SetGameStatus(s.ctx, game.ID, owner, model.GameStatusActive)
	s.Require().NoError(err)
	testutil.Fund(s.T(), s.storage, "bob", chips, 60)
	_, err = s.controller.AddChips(s.ctx, game.ID, authority.Identity("bob"), 60)
	s.Require().NoError(err)
	s.assertConserved(game)

	_, _, err = s.controller.Settle(s.ctx, game.ID, owner, []model.Adjustment{
		{Player: "alice", Op: model.SettleSub, Amount: 40},
		{Player: "bob", Op: model.SettleAdd, Amount: 40},
	}, []model.Address{authority.AssociatedAccount("alice", chips)})
	s.Require().NoError(err)
	s.assertConserved(game)

	_, _, err = s.controller.Settle(s.ctx, game.ID, owner, nil,
		[]model.Address{authority.AssociatedAccount("bob", chips)})
	s.Require().NoError(err)
	s.assertConserved(game)

	s.Equal(uint64(200), testutil.Balance(s.T(), s.storage, "bob", chips))
	s.Equal(uint64(0), testutil.Balance(s.T(), s.storage, "alice", chips))

	rake, err := s.controller.CloseGame(s.ctx, game.ID, owner)
	s.Require().NoError(err)
	s.Equal(uint64(0), rake)
}

// EjectPlayers tests

func (s *ControllerSuite) TestEjectPlayersPaysStatedAmounts() {
	game := s.createGame(6, 10, 100)
	s.join(game, "alice", 50)
	s.join(game, "bob", 50)
	alice := authority.AssociatedAccount("alice", chips)

	updated, payouts, err := s.controller.EjectPlayers(s.ctx, game.ID, owner,
		[]model.Address{alice}, []uint64{70})
	s.Require().NoError(err)

	s.Equal([]model.SeatedPlayer{{Address: "bob", Balance: 50}}, updated.Players)
	s.Equal([]Payout{{Player: "alice", Account: alice, Amount: 70}}, payouts)
	s.Equal(uint64(70), testutil.Balance(s.T(), s.storage, "alice", chips))
	s.Equal(uint64(30), s.vaultBalance(game))
}

func (s *ControllerSuite) TestEjectPlayersLengthMismatch() {
	game := s.createGame(6, 10, 100)

	_, _, err := s.controller.EjectPlayers(s.ctx, game.ID, owner,
		[]model.Address{"a", "b"}, []uint64{1})
	s.ErrorIs(err, model.ErrInvalidAddress)
}

func (s *ControllerSuite) TestEjectPlayersOverdrawRollsBack() {
	game := s.createGame(6, 10, 100)
	s.join(game, "alice", 50)
	s.join(game, "bob", 50)
	before := s.rawGame(game.ID)

	_, _, err := s.controller.EjectPlayers(s.ctx, game.ID, owner,
		[]model.Address{authority.AssociatedAccount("alice", chips), authority.AssociatedAccount("bob", chips)},
		[]uint64{60, 60})
	s.ErrorIs(err, model.ErrNotEnoughFunds)

	s.Equal(before, s.rawGame(game.ID))
	s.Equal(uint64(100), s.vaultBalance(game))
	s.Equal(uint64(0), testutil.Balance(s.T(), s.storage, "alice", chips))
}

// RefundPlayer tests

func (s *ControllerSuite) TestRefundPlayerKeepsSeat() {
	game := s.createGame(6, 10, 100)
	s.join(game, "alice", 50)

	err := s.controller.RefundPlayer(s.ctx, game.ID, owner, "alice", 10)
	s.Require().NoError(err)

	current, err := s.controller.GetGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal([]model.SeatedPlayer{{Address: "alice", Balance: 50}}, current.Players)
	s.Equal(uint64(10), testutil.Balance(s.T(), s.storage, "alice", chips))
	s.Equal(uint64(40), s.vaultBalance(game))
}

func (s *ControllerSuite) TestRefundPlayerValidation() {
	game := s.createGame(6, 10, 100)
	s.join(game, "alice", 50)

	err := s.controller.RefundPlayer(s.ctx, game.ID, authority.Identity("alice"), "alice", 10)
	s.ErrorIs(err, model.ErrNotGameOwner)

	err = s.controller.RefundPlayer(s.ctx, game.ID, owner, "bob", 10)
	s.ErrorIs(err, model.ErrNotAtTable)
}

// CloseGame tests

func (s *ControllerSuite) TestCloseGameWithPlayersFails() {
	game := s.createGame(6, 10, 100)
	s.join(game, "alice", 50)

	_, err := s.controller.CloseGame(s.ctx, game.ID, owner)
	s.ErrorIs(err, model.ErrPlayersStillAtTable)

	_, err = s.controller.CloseGame(s.ctx, game.ID, authority.Identity("alice"))
	s.ErrorIs(err, model.ErrNotGameOwner)
}

func (s *ControllerSuite) TestCloseGameSweepsRake() {
	game := s.createGame(6, 10, 100)
	s.join(game, "alice", 50)
	_, _, err := s.controller.Settle(s.ctx, game.ID, owner,
		[]model.Adjustment{{Player: "alice", Op: model.SettleSub, Amount: 5}},
		[]model.Address{authority.AssociatedAccount("alice", chips)})
	s.Require().NoError(err)

	rake, err := s.controller.CloseGame(s.ctx, game.ID, owner)
	s.Require().NoError(err)

	s.Equal(uint64(5), rake)
	s.Equal(uint64(5), testutil.Balance(s.T(), s.storage, "owner", chips))
	s.False(testutil.AccountExists(s.T(), s.storage, vaultAccount(game)))

	_, err = s.controller.GetGame(s.ctx, game.ID)
	s.ErrorIs(err, model.ErrGameNotFound)
}
