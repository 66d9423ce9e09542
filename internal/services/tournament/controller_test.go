package tournament

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/stakeledger/internal/authority"
	"github.com/mcoot/stakeledger/internal/dependencies/mocks"
	"github.com/mcoot/stakeledger/internal/model"
	"github.com/mcoot/stakeledger/internal/storage"
	"github.com/mcoot/stakeledger/internal/storage/memory"
	"github.com/mcoot/stakeledger/internal/testutil"
	"github.com/mcoot/stakeledger/internal/token"
)

const chips model.TokenKind = "chips"

var (
	owner      = authority.Identity("owner")
	transactor = authority.Identity("referee")
)

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

func (s *ControllerSuite) params() CreateTournamentParams {
	return CreateTournamentParams{
		Transactor:       transactor.Address(),
		TokenKind:        chips,
		MaxPlayers:       10,
		EntryCost:        100,
		Payouts:          []uint16{500, 300, 200},
		RegistrationOpen: true,
	}
}

func (s *ControllerSuite) create(params CreateTournamentParams) *model.TournamentAccount {
	if params.Guarantee > 0 {
		testutil.Fund(s.T(), s.storage, owner.Address(), chips, params.Guarantee)
	}
	t, err := s.controller.CreateTournament(s.ctx, owner, params)
	s.Require().NoError(err)
	return t
}

// register funds player with one entry and registers them
func (s *ControllerSuite) register(t *model.TournamentAccount, player model.Address) *model.TournamentPlayerAccount {
	testutil.Fund(s.T(), s.storage, player, chips, t.EntryCost+t.EntryFee)
	receipt, err := s.controller.RegisterTournament(s.ctx, t.ID, authority.Identity(player))
	s.Require().NoError(err)
	return receipt
}

func (s *ControllerSuite) bust(t *model.TournamentAccount, player model.Address) *BustResult {
	result, err := s.controller.PayoutTournamentPlayer(s.ctx, t.ID, transactor, player)
	s.Require().NoError(err)
	return result
}

func (s *ControllerSuite) current(t *model.TournamentAccount) *model.TournamentAccount {
	current, err := s.controller.GetTournament(s.ctx, t.ID)
	s.Require().NoError(err)
	return current
}

func (s *ControllerSuite) flip(t *model.TournamentAccount) {
	_, err := s.controller.FlipTournamentRegistration(s.ctx, t.ID, owner)
	s.Require().NoError(err)
}

func (s *ControllerSuite) start(t *model.TournamentAccount) {
	_, err := s.controller.StartTournament(s.ctx, t.ID, owner)
	s.Require().NoError(err)
}

func (s *ControllerSuite) vaultBalance(t *model.TournamentAccount) uint64 {
	return testutil.AccountBalance(s.T(), s.storage, vaultAccount(t))
}

func (s *ControllerSuite) rawTournament(id model.EntityID) []byte {
	var raw []byte
	err := s.storage.View(s.ctx, func(tx storage.Tx) error {
		var err error
		raw, err = tx.Get(s.ctx, storage.TournamentKey(id))
		return err
	})
	s.Require().NoError(err)
	return raw
}

// CreateTournament tests

func (s *ControllerSuite) TestCreateTournamentSucceeds() {
	s.salt.Queue("salt-t")

	t := s.create(s.params())

	s.Equal(authority.EntityID("owner", "salt-t"), t.ID)
	s.Equal(uint16(3), t.MinPlayers)
	s.Equal(uint16(0), t.Players)
	s.True(t.RegistrationOpen)
	s.False(t.HasStarted)
	s.Equal(uint64(0), s.vaultBalance(t))
}

func (s *ControllerSuite) TestCreateTournamentFundsGuarantee() {
	params := s.params()
	params.Guarantee = 500

	t := s.create(params)

	s.Equal(uint64(500), s.vaultBalance(t))
	s.Equal(uint64(0), testutil.Balance(s.T(), s.storage, "owner", chips))
}

func (s *ControllerSuite) TestCreateTournamentGuaranteeNeedsFunds() {
	params := s.params()
	params.Guarantee = 500
	testutil.Fund(s.T(), s.storage, "owner", chips, 499)

	_, err := s.controller.CreateTournament(s.ctx, owner, params)
	s.ErrorIs(err, model.ErrNotEnoughFunds)
}

func (s *ControllerSuite) TestCreateTournamentRejectsBadPayouts() {
	params := s.params()
	params.Payouts = []uint16{500, 300}

	_, err := s.controller.CreateTournament(s.ctx, owner, params)
	s.ErrorIs(err, model.ErrInvalidPayoutsArray)
}

func (s *ControllerSuite) TestCreateTournamentWithoutPayoutsNeedsTwoPlayers() {
	params := s.params()
	params.Payouts = nil

	t := s.create(params)
	s.Equal(uint16(2), t.MinPlayers)
}

// UpdateTournamentPayouts tests

func (s *ControllerSuite) TestUpdatePayoutsRejectsBadShares() {
	t := s.create(s.params())
	before := s.rawTournament(t.ID)

	_, err := s.controller.UpdateTournamentPayouts(s.ctx, t.ID, owner, []uint16{600, 300})
	s.ErrorIs(err, model.ErrInvalidPayoutsArray)
	s.Equal(before, s.rawTournament(t.ID))
}

func (s *ControllerSuite) TestUpdatePayoutsRecomputesMinPlayers() {
	t := s.create(s.params())

	updated, err := s.controller.UpdateTournamentPayouts(s.ctx, t.ID, owner, []uint16{400, 250, 150, 120, 80})
	s.Require().NoError(err)
	s.Equal(uint16(5), updated.MinPlayers)

	_, err = s.controller.UpdateTournamentPayouts(s.ctx, t.ID, authority.Identity("alice"), []uint16{1000})
	s.ErrorIs(err, model.ErrNotGameOwner)
}

// Registration tests

func (s *ControllerSuite) TestRegisterChargesEntryCostAndFee() {
	params := s.params()
	params.EntryFee = 5
	t := s.create(params)

	receipt := s.register(t, "alice")

	s.Equal(model.Address("alice"), receipt.Player)
	s.Equal(uint32(0), receipt.Rebuys)
	s.Equal(uint64(105), s.vaultBalance(t))
	current := s.current(t)
	s.Equal(uint16(1), current.Players)
	s.Equal(uint16(1), current.PlayersWithRebuys)
}

func (s *ControllerSuite) TestRegisterBeyondMaxPlayersFails() {
	params := s.params()
	params.MaxPlayers = 3
	t := s.create(params)
	s.register(t, "alice")
	s.register(t, "bob")
	s.register(t, "carol")
	testutil.Fund(s.T(), s.storage, "dave", chips, 100)

	_, err := s.controller.RegisterTournament(s.ctx, t.ID, authority.Identity("dave"))
	s.ErrorIs(err, model.ErrGameFull)
	s.Equal(uint16(3), s.current(t).Players)
	s.Equal(uint64(100), testutil.Balance(s.T(), s.storage, "dave", chips))
}

func (s *ControllerSuite) TestRegisterTwiceFails() {
	t := s.create(s.params())
	s.register(t, "alice")
	testutil.Fund(s.T(), s.storage, "alice", chips, 100)

	_, err := s.controller.RegisterTournament(s.ctx, t.ID, authority.Identity("alice"))
	s.ErrorIs(err, model.ErrAlreadyAtTable)
}

func (s *ControllerSuite) TestRegisterWhileClosedFails() {
	t := s.create(s.params())
	s.flip(t)
	testutil.Fund(s.T(), s.storage, "alice", chips, 100)

	_, err := s.controller.RegisterTournament(s.ctx, t.ID, authority.Identity("alice"))
	s.ErrorIs(err, model.ErrGameNotActive)
}

func (s *ControllerSuite) TestUnregisterRefundsBeforeStart() {
	params := s.params()
	params.EntryFee = 5
	t := s.create(params)
	s.register(t, "alice")

	refunded, err := s.controller.UnregisterTournament(s.ctx, t.ID, authority.Identity("alice"))
	s.Require().NoError(err)

	s.Equal(uint64(105), refunded)
	s.Equal(uint64(105), testutil.Balance(s.T(), s.storage, "alice", chips))
	current := s.current(t)
	s.Equal(uint16(0), current.Players)
	s.Equal(uint16(0), current.PlayersWithRebuys)
	s.Empty(current.Entries)

	_, err = s.controller.GetReceipt(s.ctx, t.ID, "alice")
	s.ErrorIs(err, model.ErrReceiptNotFound)

	_, err = s.controller.UnregisterTournament(s.ctx, t.ID, authority.Identity("alice"))
	s.ErrorIs(err, model.ErrNotAtTable)
}

func (s *ControllerSuite) TestUnregisterAfterStartFails() {
	t := s.create(s.params())
	s.register(t, "alice")
	s.register(t, "bob")
	s.register(t, "carol")
	s.start(t)

	_, err := s.controller.UnregisterTournament(s.ctx, t.ID, authority.Identity("alice"))
	s.ErrorIs(err, model.ErrTournamentAlreadyStarted)
}

func (s *ControllerSuite) TestOwnerRefundWorksAfterStart() {
	t := s.create(s.params())
	s.register(t, "alice")
	s.register(t, "bob")
	s.register(t, "carol")
	s.start(t)

	_, err := s.controller.RefundTournament(s.ctx, t.ID, authority.Identity("bob"), "alice")
	s.ErrorIs(err, model.ErrNotGameOwner)

	refunded, err := s.controller.RefundTournament(s.ctx, t.ID, owner, "alice")
	s.Require().NoError(err)
	s.Equal(uint64(100), refunded)
	s.Equal(uint64(200), s.vaultBalance(t))
	s.Equal(uint16(2), s.current(t).Players)
}

// StartTournament tests

func (s *ControllerSuite) TestStartWithOneRegistrantFails() {
	params := s.params()
	params.Payouts = []uint16{1000}
	t := s.create(params)
	s.register(t, "alice")

	_, err := s.controller.StartTournament(s.ctx, t.ID, owner)
	s.ErrorIs(err, model.ErrNotEnoughPlayersToStartTournament)

	s.register(t, "bob")
	s.start(t)

	_, err = s.controller.StartTournament(s.ctx, t.ID, owner)
	s.ErrorIs(err, model.ErrTournamentAlreadyStarted)
}

func (s *ControllerSuite) TestStartNeedsEveryPaidPlaceFilled() {
	t := s.create(s.params())
	s.register(t, "alice")
	s.register(t, "bob")

	_, err := s.controller.StartTournament(s.ctx, t.ID, owner)
	s.ErrorIs(err, model.ErrNotEnoughPlayersToStartTournament)
}

// PayoutTournamentPlayer tests

func (s *ControllerSuite) TestBustBeforeStartFails() {
	t := s.create(s.params())
	s.register(t, "alice")

	_, err := s.controller.PayoutTournamentPlayer(s.ctx, t.ID, transactor, "alice")
	s.ErrorIs(err, model.ErrTournamentNotStarted)
}

func (s *ControllerSuite) TestBustRequiresOwnerOrTransactor() {
	t := s.create(s.params())
	s.register(t, "alice")
	s.register(t, "bob")
	s.register(t, "carol")
	s.start(t)

	_, err := s.controller.PayoutTournamentPlayer(s.ctx, t.ID, authority.Identity("bob"), "alice")
	s.ErrorIs(err, model.ErrNotTransactor)

	_, err = s.controller.PayoutTournamentPlayer(s.ctx, t.ID, owner, "alice")
	s.Require().NoError(err)

	_, err = s.controller.PayoutTournamentPlayer(s.ctx, t.ID, transactor, "alice")
	s.ErrorIs(err, model.ErrNotAtTable)
}

func (s *ControllerSuite) TestThreePlayerPayoutScenario() {
	t := s.create(s.params())
	s.register(t, "alice")
	s.register(t, "bob")
	s.register(t, "carol")
	s.flip(t)
	s.start(t)

	third := s.bust(t, "carol")
	s.Equal(uint16(3), third.Place)
	s.Equal(uint64(60), third.Amount)

	second := s.bust(t, "bob")
	s.Equal(uint64(90), second.Amount)

	first := s.bust(t, "alice")
	s.Equal(uint16(1), first.Place)
	s.Equal(uint64(150), first.Amount)

	s.Equal(uint64(60), testutil.Balance(s.T(), s.storage, "carol", chips))
	s.Equal(uint64(0), s.vaultBalance(t))

	swept, err := s.controller.CloseTournament(s.ctx, t.ID, owner)
	s.Require().NoError(err)
	s.Equal(uint64(0), swept)
}

func (s *ControllerSuite) TestBustFinalizesReceipt() {
	t := s.create(s.params())
	s.register(t, "alice")
	s.register(t, "bob")
	s.register(t, "carol")
	s.start(t)

	// carol busts while registration is open and buys back in
	s.bust(t, "carol")
	s.register(t, "carol")
	s.flip(t)

	result := s.bust(t, "carol")
	s.Equal(uint16(3), result.Place)
	s.Equal(model.Address("carol"), result.Receipt.Player)
	s.Equal(uint16(3), result.Receipt.PositionFinished)
	s.True(result.Receipt.HasBusted)
	s.Equal(uint32(1), result.Receipt.Rebuys)

	_, err := s.controller.GetReceipt(s.ctx, t.ID, "carol")
	s.ErrorIs(err, model.ErrReceiptNotFound)

	_, err = s.controller.PayoutTournamentPlayer(s.ctx, t.ID, transactor, "carol")
	s.ErrorIs(err, model.ErrNotAtTable)
}

func (s *ControllerSuite) TestNoPayoutWhileRegistrationOpen() {
	t := s.create(s.params())
	s.register(t, "alice")
	s.register(t, "bob")
	s.register(t, "carol")
	s.start(t)

	result := s.bust(t, "carol")
	s.Equal(uint64(0), result.Amount)
	s.Equal(uint64(300), s.vaultBalance(t))
}

func (s *ControllerSuite) TestRebuyWithGuaranteeScenario() {
	params := s.params()
	params.EntryCost = 200
	params.EntryFee = 5
	params.Guarantee = 2050
	params.Payouts = []uint16{700, 300}
	t := s.create(params)

	players := []model.Address{"p1", "p2", "p3", "p4", "p5", "p6"}
	for _, p := range players {
		s.register(t, p)
	}
	s.start(t)

	// p6 busts while registration is open and buys back in
	s.Equal(uint64(0), s.bust(t, "p6").Amount)
	rebuy := s.register(t, "p6")
	s.Equal(uint32(1), rebuy.Rebuys)
	current := s.current(t)
	s.Equal(uint16(6), current.Players)
	s.Equal(uint16(7), current.PlayersWithRebuys)

	s.flip(t)
	for _, p := range []model.Address{"p6", "p5", "p4", "p3"} {
		s.Equal(uint64(0), s.bust(t, p).Amount)
	}
	s.Equal(uint64(615), s.bust(t, "p2").Amount)
	s.Equal(uint64(1435), s.bust(t, "p1").Amount)

	swept, err := s.controller.CloseTournament(s.ctx, t.ID, owner)
	s.Require().NoError(err)
	s.Equal(uint64(1435), swept)
	s.Equal(uint64(1435), testutil.Balance(s.T(), s.storage, "owner", chips))
	s.False(testutil.AccountExists(s.T(), s.storage, vaultAccount(t)))
}

// CloseTournament tests

func (s *ControllerSuite) TestCloseEmptyTournamentReturnsGuarantee() {
	params := s.params()
	params.Guarantee = 750
	t := s.create(params)

	swept, err := s.controller.CloseTournament(s.ctx, t.ID, owner)
	s.Require().NoError(err)

	s.Equal(uint64(750), swept)
	s.Equal(uint64(750), testutil.Balance(s.T(), s.storage, "owner", chips))
	_, err = s.controller.GetTournament(s.ctx, t.ID)
	s.ErrorIs(err, model.ErrTournamentNotFound)
}

func (s *ControllerSuite) TestCloseWithPlayersFails() {
	t := s.create(s.params())
	s.register(t, "alice")

	_, err := s.controller.CloseTournament(s.ctx, t.ID, owner)
	s.ErrorIs(err, model.ErrPlayersStillAtTable)

	_, err = s.controller.CloseTournament(s.ctx, t.ID, transactor)
	s.ErrorIs(err, model.ErrNotGameOwner)
}

// NFT prize tests

func (s *ControllerSuite) TestAddNFTPrizeEscrowsAndRaisesMinPlayers() {
	params := s.params()
	params.Payouts = []uint16{1000}
	t := s.create(params)
	testutil.Fund(s.T(), s.storage, "owner", "trophy", 1)

	updated, err := s.controller.AddNFTTournamentPrize(s.ctx, t.ID, owner, 4, "trophy")
	s.Require().NoError(err)

	s.Equal([]uint16{4}, updated.NFTPayouts)
	s.Equal(uint16(4), updated.MinPlayers)
	s.Equal(uint64(1), testutil.AccountBalance(s.T(), s.storage, escrowAccount(t.ID, 4, "trophy")))
	s.Equal(uint64(0), testutil.Balance(s.T(), s.storage, "owner", "trophy"))

	prize, err := s.controller.GetNFTPrize(s.ctx, t.ID, 4)
	s.Require().NoError(err)
	s.Equal([]model.TokenKind{"trophy"}, prize.Mints)
}

func (s *ControllerSuite) TestAddNFTPrizeValidation() {
	t := s.create(s.params())
	testutil.Fund(s.T(), s.storage, "owner", "trophy", 1)

	_, err := s.controller.AddNFTTournamentPrize(s.ctx, t.ID, owner, 0, "trophy")
	s.ErrorIs(err, model.ErrInvalidPrizePlace)

	_, err = s.controller.AddNFTTournamentPrize(s.ctx, t.ID, authority.Identity("alice"), 1, "trophy")
	s.ErrorIs(err, model.ErrNotGameOwner)

	_, err = s.controller.AddNFTTournamentPrize(s.ctx, t.ID, owner, 1, "medal")
	s.ErrorIs(err, model.ErrInvalidAddress)
}

func (s *ControllerSuite) TestRemoveNFTPrizeRestoresMinPlayers() {
	params := s.params()
	params.Payouts = []uint16{1000}
	t := s.create(params)
	testutil.Fund(s.T(), s.storage, "owner", "trophy", 1)
	testutil.Fund(s.T(), s.storage, "owner", "medal", 1)
	_, err := s.controller.AddNFTTournamentPrize(s.ctx, t.ID, owner, 5, "trophy")
	s.Require().NoError(err)
	_, err = s.controller.AddNFTTournamentPrize(s.ctx, t.ID, owner, 5, "medal")
	s.Require().NoError(err)

	updated, err := s.controller.RemoveNFTTournamentPrize(s.ctx, t.ID, owner, 5, "trophy")
	s.Require().NoError(err)
	s.Equal([]uint16{5}, updated.NFTPayouts)
	s.Equal(uint64(1), testutil.Balance(s.T(), s.storage, "owner", "trophy"))
	s.False(testutil.AccountExists(s.T(), s.storage, escrowAccount(t.ID, 5, "trophy")))

	updated, err = s.controller.RemoveNFTTournamentPrize(s.ctx, t.ID, owner, 5, "medal")
	s.Require().NoError(err)
	s.Empty(updated.NFTPayouts)
	s.Equal(uint16(2), updated.MinPlayers)

	_, err = s.controller.GetNFTPrize(s.ctx, t.ID, 5)
	s.ErrorIs(err, model.ErrNFTPrizeNotFound)

	_, err = s.controller.RemoveNFTTournamentPrize(s.ctx, t.ID, owner, 5, "medal")
	s.ErrorIs(err, model.ErrNFTPrizeNotFound)
}

func (s *ControllerSuite) TestNFTPrizesFrozenAfterStart() {
	params := s.params()
	params.Payouts = []uint16{1000}
	t := s.create(params)
	testutil.Fund(s.T(), s.storage, "owner", "trophy", 2)
	_, err := s.controller.AddNFTTournamentPrize(s.ctx, t.ID, owner, 1, "trophy")
	s.Require().NoError(err)
	s.register(t, "alice")
	s.register(t, "bob")
	s.start(t)

	_, err = s.controller.AddNFTTournamentPrize(s.ctx, t.ID, owner, 2, "trophy")
	s.ErrorIs(err, model.ErrTournamentAlreadyStarted)

	_, err = s.controller.RemoveNFTTournamentPrize(s.ctx, t.ID, owner, 1, "trophy")
	s.ErrorIs(err, model.ErrTournamentAlreadyStarted)
}

func (s *ControllerSuite) TestNFTDeliveredToFinishingPlace() {
	params := s.params()
	params.Payouts = []uint16{1000}
	t := s.create(params)
	testutil.Fund(s.T(), s.storage, "owner", "trophy", 1)
	_, err := s.controller.AddNFTTournamentPrize(s.ctx, t.ID, owner, 1, "trophy")
	s.Require().NoError(err)
	s.register(t, "alice")
	s.register(t, "bob")
	s.flip(t)
	s.start(t)

	s.bust(t, "bob")
	_, err = s.controller.CloseTournament(s.ctx, t.ID, owner)
	s.ErrorIs(err, model.ErrPlayersStillAtTable)

	winner := s.bust(t, "alice")
	s.Equal(uint64(200), winner.Amount)
	s.Equal([]model.TokenKind{"trophy"}, winner.NFTs)
	s.Equal(uint64(1), testutil.Balance(s.T(), s.storage, "alice", "trophy"))
	s.False(testutil.AccountExists(s.T(), s.storage, escrowAccount(t.ID, 1, "trophy")))
	s.Empty(s.current(t).NFTPayouts)

	_, err = s.controller.CloseTournament(s.ctx, t.ID, owner)
	s.Require().NoError(err)
}

func (s *ControllerSuite) TestCloseBlockedWhileNFTEscrowed() {
	t := s.create(s.params())
	testutil.Fund(s.T(), s.storage, "owner", "trophy", 1)
	_, err := s.controller.AddNFTTournamentPrize(s.ctx, t.ID, owner, 1, "trophy")
	s.Require().NoError(err)

	_, err = s.controller.CloseTournament(s.ctx, t.ID, owner)
	s.ErrorIs(err, model.ErrNFTsEscrowedInTournament)

	_, err = s.controller.RemoveNFTTournamentPrize(s.ctx, t.ID, owner, 1, "trophy")
	s.Require().NoError(err)
	_, err = s.controller.CloseTournament(s.ctx, t.ID, owner)
	s.Require().NoError(err)
}

func (s *ControllerSuite) TestStrandedNFTPlaceReclaimedAfterStart() {
	params := s.params()
	params.Guarantee = 1000
	t := s.create(params)
	testutil.Fund(s.T(), s.storage, "owner", "trophy", 1)
	_, err := s.controller.AddNFTTournamentPrize(s.ctx, t.ID, owner, 3, "trophy")
	s.Require().NoError(err)
	s.register(t, "p1")
	s.register(t, "p2")
	s.register(t, "p3")
	s.flip(t)
	s.start(t)

	// place 3 is still reachable
	_, err = s.controller.RemoveNFTTournamentPrize(s.ctx, t.ID, owner, 3, "trophy")
	s.ErrorIs(err, model.ErrTournamentAlreadyStarted)

	// refunding p3 leaves nobody to finish third
	_, err = s.controller.RefundTournament(s.ctx, t.ID, owner, "p3")
	s.Require().NoError(err)
	s.bust(t, "p2")
	s.bust(t, "p1")
	s.Equal([]uint16{3}, s.current(t).NFTPayouts)
	s.Equal(uint64(400), s.vaultBalance(t))

	_, err = s.controller.CloseTournament(s.ctx, t.ID, owner)
	s.ErrorIs(err, model.ErrNFTsEscrowedInTournament)

	_, err = s.controller.RemoveNFTTournamentPrize(s.ctx, t.ID, authority.Identity("p1"), 3, "trophy")
	s.ErrorIs(err, model.ErrNotGameOwner)

	updated, err := s.controller.RemoveNFTTournamentPrize(s.ctx, t.ID, owner, 3, "trophy")
	s.Require().NoError(err)
	s.Empty(updated.NFTPayouts)
	s.Equal(uint64(1), testutil.Balance(s.T(), s.storage, "owner", "trophy"))
	s.False(testutil.AccountExists(s.T(), s.storage, escrowAccount(t.ID, 3, "trophy")))

	swept, err := s.controller.CloseTournament(s.ctx, t.ID, owner)
	s.Require().NoError(err)
	s.Equal(uint64(400), swept)
	s.Equal(uint64(400), testutil.Balance(s.T(), s.storage, "owner", chips))
}
