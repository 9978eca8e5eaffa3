package factory

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/cybersnake/internal/client"
	"github.com/mcoot/cybersnake/internal/dependencies/mocks"
	"github.com/mcoot/cybersnake/internal/dependencies/random"
	"github.com/mcoot/cybersnake/internal/engine"
	"github.com/mcoot/cybersnake/internal/model"
	"github.com/mcoot/cybersnake/internal/services/autopilot"
	"github.com/mcoot/cybersnake/internal/session"
	sqlitestorage "github.com/mcoot/cybersnake/internal/storage/sqlite"
	"github.com/mcoot/cybersnake/internal/testutil"
)

type IntegrationSuite struct {
	suite.Suite
	app    *TestApp
	server *httptest.Server
	client *client.Client
	ctx    context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.server = httptest.NewServer(s.app.Handler(HandlerConfig{}))
	s.client = client.New(client.Config{BaseURL: s.server.URL, Timeout: 5 * time.Second})
	s.ctx = context.Background()
}

func (s *IntegrationSuite) TearDownTest() {
	s.server.Close()
	s.Require().NoError(s.app.Close())
}

func (s *IntegrationSuite) TestScoreLifecycle() {
	result, err := s.app.ScoreService.CheckName(s.ctx, "viper", "hiss")
	s.Require().NoError(err)
	s.Equal(model.CheckAvailable, result)

	rec, err := s.app.ScoreService.SubmitScore(s.ctx, "viper", "hiss", 50)
	s.Require().NoError(err)
	s.Equal(50, rec.BestScore)
	s.Equal(s.app.MockClock.Now(), rec.LastUpdated)

	result, err = s.app.ScoreService.CheckName(s.ctx, "viper", "hiss")
	s.Require().NoError(err)
	s.Equal(model.CheckAuthenticated, result)

	result, err = s.app.ScoreService.CheckName(s.ctx, "viper", "rattle")
	s.Require().NoError(err)
	s.Equal(model.CheckRejected, result)

	s.app.MockClock.Advance(time.Hour)
	rec, err = s.app.ScoreService.SubmitScore(s.ctx, "viper", "hiss", 20)
	s.Require().NoError(err)
	s.Equal(50, rec.BestScore)
	s.Equal(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), rec.LastUpdated)
}

// Plays a whole round through the session controller against the HTTP API
func (s *IntegrationSuite) TestSessionRoundTrip() {
	gameClock := mocks.NewMockClock(s.app.MockClock.Now())
	eng := engine.New(engine.DefaultConfig(), gameClock, mocks.NewMockRandom(), testutil.NopLogger())
	defer eng.Stop()

	creds := session.NewFileCredentialStore(filepath.Join(s.T().TempDir(), "credentials.json"))
	ctrl := session.New(s.client, eng, creds, gameClock, testutil.NopLogger(), session.DefaultConfig())
	defer ctrl.Close()

	ctrl.SetName("viper")
	ctrl.SetPassword("hiss")
	gameClock.Advance(500 * time.Millisecond)
	s.Require().Equal(model.AvailabilityAvailable, ctrl.State().Availability)

	s.Require().NoError(ctrl.Start(s.ctx))
	s.Require().True(eng.State().IsRunning())

	for i := 0; i < 50 && eng.State().IsRunning(); i++ {
		eng.Tick()
	}
	final := eng.State()
	s.Require().Equal(model.PhaseOver, final.Phase)

	entry, err := ctrl.GameOver(s.ctx, final.Score)
	s.Require().NoError(err)
	s.Equal("viper", entry.Name)
	s.Equal(final.Score, entry.Score)

	state := ctrl.State()
	s.Equal(model.AvailabilityAuthenticatedOK, state.Availability)
	s.Require().Len(state.Leaderboard, 1)
	s.Equal("viper", state.Leaderboard[0].Name)

	saved, ok, err := creds.Load()
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(model.Credential{Name: "viper", Password: "hiss"}, saved)
}

func (s *IntegrationSuite) newSession() (*engine.Engine, *session.Controller, *mocks.MockClock) {
	gameClock := mocks.NewMockClock(s.app.MockClock.Now())
	eng := engine.New(engine.DefaultConfig(), gameClock, mocks.NewMockRandom(), testutil.NopLogger())
	s.T().Cleanup(eng.Stop)
	creds := session.NewFileCredentialStore(filepath.Join(s.T().TempDir(), "credentials.json"))
	ctrl := session.New(s.client, eng, creds, gameClock, testutil.NopLogger(), session.DefaultConfig())
	s.T().Cleanup(ctrl.Close)
	return eng, ctrl, gameClock
}

// A restart can reach the server after the previous game's score was
// stored but before the submission reply arrived
func (s *IntegrationSuite) TestRestartAfterScoreStoredBeforeReply() {
	eng, ctrl, gameClock := s.newSession()
	ctrl.SetName("viper")
	ctrl.SetPassword("hiss")
	gameClock.Advance(500 * time.Millisecond)
	s.Require().NoError(ctrl.Start(s.ctx))
	for i := 0; i < 50 && eng.State().IsRunning(); i++ {
		eng.Tick()
	}

	_, err := s.app.ScoreService.SubmitScore(s.ctx, "viper", "hiss", eng.State().Score)
	s.Require().NoError(err)
	s.Require().Equal(model.AvailabilityAvailable, ctrl.State().Availability)

	s.Require().NoError(ctrl.Start(s.ctx))
	s.True(eng.State().IsRunning())
	s.Equal(model.AvailabilityAuthenticatedOK, ctrl.State().Availability)
}

func (s *IntegrationSuite) TestMultibytePasswordIsAccepted() {
	eng, ctrl, gameClock := s.newSession()
	ctrl.SetName("viper")
	ctrl.SetPassword(strings.Repeat("🐍", 20))
	gameClock.Advance(500 * time.Millisecond)

	state := ctrl.State()
	s.Require().Equal(model.AvailabilityAvailable, state.Availability, state.Message)
	s.Require().NoError(ctrl.Start(s.ctx))
	for i := 0; i < 50 && eng.State().IsRunning(); i++ {
		eng.Tick()
	}

	_, err := ctrl.GameOver(s.ctx, eng.State().Score)
	s.Require().NoError(err)
	result, err := s.app.ScoreService.CheckName(s.ctx, "viper", state.Password)
	s.Require().NoError(err)
	s.Equal(model.CheckAuthenticated, result)
}

func (s *IntegrationSuite) TestTakenNameBlocksSession() {
	_, err := s.app.ScoreService.SubmitScore(s.ctx, "viper", "hiss", 30)
	s.Require().NoError(err)

	gameClock := mocks.NewMockClock(s.app.MockClock.Now())
	eng := engine.New(engine.DefaultConfig(), gameClock, mocks.NewMockRandom(), testutil.NopLogger())
	defer eng.Stop()
	creds := session.NewFileCredentialStore(filepath.Join(s.T().TempDir(), "credentials.json"))
	ctrl := session.New(s.client, eng, creds, gameClock, testutil.NopLogger(), session.DefaultConfig())
	defer ctrl.Close()

	ctrl.SetName("viper")
	ctrl.SetPassword("rattle")
	gameClock.Advance(500 * time.Millisecond)

	s.Equal(model.AvailabilityAuthenticationFailed, ctrl.State().Availability)
	s.ErrorIs(ctrl.Start(s.ctx), model.ErrNotAllowed)
	s.Equal(model.PhaseIdle, eng.State().Phase)
}

func (s *IntegrationSuite) TestAutopilotRunIsRecorded() {
	pilot := autopilot.NewService(autopilot.DefaultStrategies(random.NewSeeded(4)), testutil.NopLogger())
	result, err := pilot.Simulate(autopilot.StrategyGreedy, engine.DefaultConfig(), random.NewSeeded(4))
	s.Require().NoError(err)

	entry, err := s.client.SubmitScore(s.ctx, "autopilot", "beep", result.Score)
	s.Require().NoError(err)
	s.Equal(result.Score, entry.Score)

	board, err := s.client.Leaderboard(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(board, 1)
	s.Equal("autopilot", board[0].Name)
}

func (s *IntegrationSuite) TestLeaderboardPageServed() {
	_, err := s.app.ScoreService.SubmitScore(s.ctx, "viper", "hiss", 30)
	s.Require().NoError(err)

	resp, err := s.server.Client().Get(s.server.URL + "/")
	s.Require().NoError(err)
	defer func() { _ = resp.Body.Close() }()

	s.Equal(200, resp.StatusCode)
	s.Contains(resp.Header.Get("Content-Type"), "text/html")
}

func TestNewStorageSelection(t *testing.T) {
	_, err := New(Config{StorageType: "mongo"})
	assert.Error(t, err)

	_, err = New(Config{StorageType: StorageTypeRedis})
	assert.Error(t, err)

	_, err = New(Config{StorageType: StorageTypeSQLite})
	assert.Error(t, err)

	app, err := New(Config{})
	require.NoError(t, err)
	assert.NoError(t, app.Store.Ping(context.Background()))
	require.NoError(t, app.Close())

	sqliteCfg := sqlitestorage.DefaultConfig()
	sqliteCfg.Path = filepath.Join(t.TempDir(), "scores.db")
	app, err = New(Config{StorageType: StorageTypeSQLite, SQLiteConfig: &sqliteCfg})
	require.NoError(t, err)
	defer func() { _ = app.Close() }()

	result, err := app.ScoreService.CheckName(context.Background(), "viper", "hiss")
	require.NoError(t, err)
	assert.Equal(t, model.CheckAvailable, result)
}
