package wallet

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/stakeledger/internal/authority"
	"github.com/mcoot/stakeledger/internal/storage/memory"
	"github.com/mcoot/stakeledger/internal/testutil"
	"github.com/mcoot/stakeledger/internal/token"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	logger := testutil.NopLogger()
	s.service = New(s.storage, token.CustodyFactory(logger), Config{FaucetLimit: 1000}, logger)
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestFaucetMintsUpToLimit() {
	balance, err := s.service.Faucet(s.ctx, "alice", "chips", 600)
	s.Require().NoError(err)
	s.Equal(uint64(600), balance)

	balance, err = s.service.Faucet(s.ctx, "alice", "chips", 1000)
	s.Require().NoError(err)
	s.Equal(uint64(1600), balance)

	_, err = s.service.Faucet(s.ctx, "alice", "chips", 1001)
	s.ErrorIs(err, ErrFaucetLimit)
}

func (s *ServiceSuite) TestFaucetDisabled() {
	s.service = New(s.storage, token.CustodyFactory(testutil.NopLogger()), Config{}, testutil.NopLogger())

	s.False(s.service.FaucetEnabled())
	_, err := s.service.Faucet(s.ctx, "alice", "chips", 1)
	s.ErrorIs(err, ErrFaucetDisabled)
}

func (s *ServiceSuite) TestBalanceOfUnknownAccountIsZero() {
	account, balance, err := s.service.Balance(s.ctx, "bob", "chips")
	s.Require().NoError(err)
	s.Equal(authority.AssociatedAccount("bob", "chips"), account)
	s.Equal(uint64(0), balance)
}

func (s *ServiceSuite) TestBalanceAfterFunding() {
	testutil.Fund(s.T(), s.storage, "bob", "chips", 42)

	_, balance, err := s.service.Balance(s.ctx, "bob", "chips")
	s.Require().NoError(err)
	s.Equal(uint64(42), balance)
}
