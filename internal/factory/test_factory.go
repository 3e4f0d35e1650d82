package factory

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/pokernotes/internal/dependencies/mocks"
	"github.com/mcoot/pokernotes/internal/metrics"
	"github.com/mcoot/pokernotes/internal/services/auth"
	"github.com/mcoot/pokernotes/internal/services/players"
	"github.com/mcoot/pokernotes/internal/storage/memory"
	"github.com/mcoot/pokernotes/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
	Memory     *memory.Storage
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// Entry timestamps are written in UTC.
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	authCfg := auth.DefaultConfig()
	authCfg.BcryptCost = bcrypt.MinCost

	app := newWithDependencies(store, mockClock, mockRandom, metrics.New(), authCfg, players.DefaultConfig(), testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
		Memory:     store,
	}
}
