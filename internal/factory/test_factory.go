package factory

import (
	"time"

	"github.com/mcoot/stakeledger/internal/dependencies/mocks"
	"github.com/mcoot/stakeledger/internal/services/auth"
	"github.com/mcoot/stakeledger/internal/services/wallet"
	"github.com/mcoot/stakeledger/internal/storage/memory"
	"github.com/mcoot/stakeledger/internal/testutil"
)

// TestFaucetLimit is the per-request faucet cap used by test apps
const TestFaucetLimit = 1_000_000

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
	MockSalt  *mocks.MockSalt
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockSalt := mocks.NewMockSalt()

	app := newWithDependencies(
		store,
		mockClock,
		mockSalt,
		auth.DefaultConfig(),
		wallet.Config{FaucetLimit: TestFaucetLimit},
		testutil.NopLogger(),
	)

	return &TestApp{
		App:       app,
		MockClock: mockClock,
		MockSalt:  mockSalt,
	}
}
