package factory

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/cybersnake/internal/dependencies/mocks"
	"github.com/mcoot/cybersnake/internal/services/scores"
	"github.com/mcoot/cybersnake/internal/storage/memory"
	"github.com/mcoot/cybersnake/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	cfg := scores.DefaultConfig()
	cfg.BcryptCost = bcrypt.MinCost
	app := newWithDependencies(store, mockClock, cfg, testutil.NopLogger())

	return &TestApp{
		App:       app,
		MockClock: mockClock,
	}
}
