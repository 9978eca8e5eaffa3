package tui

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/cybersnake/internal/dependencies/mocks"
	"github.com/mcoot/cybersnake/internal/engine"
	"github.com/mcoot/cybersnake/internal/model"
	"github.com/mcoot/cybersnake/internal/services/autopilot"
	"github.com/mcoot/cybersnake/internal/session"
	"github.com/mcoot/cybersnake/internal/testutil"
)

// fakeScores claims the name on the first submission. A non-nil hold
// delays the submission reply until it is closed.
type fakeScores struct {
	mu        sync.Mutex
	result    model.CheckResult
	claimed   bool
	submitted []int
	board     []model.LeaderboardEntry
	hold      chan struct{}
}

func (f *fakeScores) CheckName(_ context.Context, _, _ string) (model.CheckResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.claimed {
		return model.CheckAuthenticated, nil
	}
	return f.result, nil
}

func (f *fakeScores) SubmitScore(_ context.Context, name, _ string, score int) (model.LeaderboardEntry, error) {
	f.mu.Lock()
	f.claimed = true
	f.submitted = append(f.submitted, score)
	entry := model.LeaderboardEntry{Name: name, Score: score, Date: time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)}
	f.board = []model.LeaderboardEntry{entry}
	hold := f.hold
	f.mu.Unlock()

	if hold != nil {
		<-hold
	}
	return entry, nil
}

func (f *fakeScores) holdSubmissions() (release func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hold = make(chan struct{})
	hold := f.hold
	return func() { close(hold) }
}

func (f *fakeScores) Leaderboard(_ context.Context) ([]model.LeaderboardEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.LeaderboardEntry(nil), f.board...), nil
}

type countingSounds struct {
	mu       sync.Mutex
	eat      int
	gameOver int
}

func (c *countingSounds) Eat() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.eat++
}

func (c *countingSounds) GameOver() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gameOver++
}

func (c *countingSounds) counts() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eat, c.gameOver
}

type AppSuite struct {
	suite.Suite
	screen  tcell.SimulationScreen
	clock   *mocks.MockClock
	random  *mocks.MockRandom
	scores  *fakeScores
	sounds  *countingSounds
	engine  *engine.Engine
	session *session.Controller
	app     *App
	ctx     context.Context
}

func TestAppSuite(t *testing.T) {
	suite.Run(t, new(AppSuite))
}

func (s *AppSuite) SetupTest() {
	s.screen = tcell.NewSimulationScreen("UTF-8")
	s.Require().NoError(s.screen.Init())
	s.screen.SetSize(100, 30)

	s.clock = mocks.NewMockClock(time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.scores = &fakeScores{result: model.CheckAvailable}
	s.sounds = &countingSounds{}
	s.ctx = context.Background()

	s.engine = engine.New(engine.DefaultConfig(), s.clock, s.random, testutil.NopLogger())
	creds := session.NewFileCredentialStore(s.T().TempDir() + "/credentials.json")
	s.session = session.New(s.scores, s.engine, creds, s.clock, testutil.NopLogger(), session.DefaultConfig())
	s.newApp(nil)
}

func (s *AppSuite) TearDownTest() {
	s.engine.Stop()
	s.session.Close()
	s.screen.Fini()
}

func (s *AppSuite) newApp(pilot autopilot.Strategy) {
	s.app = New(s.screen, s.engine, s.session, testutil.NopLogger(), Config{
		Autopilot: pilot,
		Sounds:    s.sounds,
	})
}

func (s *AppSuite) row(y int) string {
	w, _ := s.screen.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := s.screen.GetContent(x, y)
		if r == 0 {
			r = ' '
		}
		b.WriteRune(r)
	}
	return strings.TrimRight(b.String(), " ")
}

func (s *AppSuite) cell(c model.Cell) string {
	x, y := cellOrigin(c)
	first, _, _, _ := s.screen.GetContent(x, y)
	second, _, _, _ := s.screen.GetContent(x+1, y)
	return string([]rune{first, second})
}

func (s *AppSuite) press(key tcell.Key) bool {
	return s.app.HandleKey(s.ctx, tcell.NewEventKey(key, 0, tcell.ModNone))
}

func (s *AppSuite) typeText(text string) {
	for _, r := range text {
		s.app.HandleKey(s.ctx, tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
}

// login fills the form and waits for the game to start
func (s *AppSuite) login() {
	s.typeText("ada")
	s.press(tcell.KeyTab)
	s.typeText("pw")
	s.clock.Advance(500 * time.Millisecond)
	s.Require().Equal(model.AvailabilityAvailable, s.session.State().Availability)

	s.press(tcell.KeyEnter)
	s.Require().Eventually(s.app.isPlaying, time.Second, time.Millisecond)
}

func (s *AppSuite) TestLoginFormRendering() {
	s.app.draw()

	s.Equal("CYBERSNAKE", s.row(0))
	s.Equal("NAME:", s.row(2))
	s.Equal("ENTER A NAME AND PASSWORD", s.row(5))
	s.Equal("HIGH SCORES", s.row(9))
	s.Equal("NO SCORES YET", s.row(10))
}

func (s *AppSuite) TestTypingEditsFocusedField() {
	s.typeText("adaa")
	s.press(tcell.KeyBackspace2)
	s.press(tcell.KeyTab)
	s.typeText("secret")
	s.app.draw()

	state := s.session.State()
	s.Equal("ada", state.Name)
	s.Equal("secret", state.Password)
	s.Equal("NAME:     ada", s.row(2))
	s.Equal("PASSWORD: ******", s.row(3))
	s.Equal("CHECKING...", s.row(5))
}

func (s *AppSuite) TestEnterOnNameMovesToPassword() {
	s.typeText("ada")
	s.press(tcell.KeyEnter)
	s.typeText("pw")

	s.Equal("pw", s.session.State().Password)
	s.False(s.app.isPlaying())
}

func (s *AppSuite) TestAvailableNameShowsPrompt() {
	s.typeText("ada")
	s.press(tcell.KeyTab)
	s.typeText("pw")
	s.clock.Advance(500 * time.Millisecond)
	s.app.draw()

	s.Equal("NAME AVAILABLE - PRESS ENTER TO START", s.row(5))
}

func (s *AppSuite) TestRejectedNameDoesNotStart() {
	s.scores.result = model.CheckRejected
	s.typeText("ada")
	s.press(tcell.KeyTab)
	s.typeText("pw")
	s.clock.Advance(500 * time.Millisecond)

	s.press(tcell.KeyEnter)
	s.Never(s.app.isPlaying, 50*time.Millisecond, 5*time.Millisecond)

	s.app.draw()
	s.Equal("INCORRECT PASSWORD", s.row(5))
	s.Equal(model.PhaseIdle, s.engine.State().Phase)
}

func (s *AppSuite) TestStartDrawsBoard() {
	s.random.QueueCell(0, 0)
	s.login()
	s.app.draw()

	s.Equal("CYBERSNAKE  ADA", s.row(0))
	s.Equal("SCORE: 0", s.row(1))
	s.Equal(glyphHead, s.cell(model.Cell{X: 5, Y: 5}))
	s.Equal(glyphBody, s.cell(model.Cell{X: 4, Y: 5}))
	s.Equal(glyphFood, s.cell(model.Cell{X: 0, Y: 0}))
}

func (s *AppSuite) TestArrowKeysSteer() {
	s.random.QueueCell(0, 0)
	s.login()

	s.press(tcell.KeyUp)
	s.engine.Tick()
	s.Equal(model.Cell{X: 5, Y: 4}, s.engine.State().Head())

	s.app.HandleKey(s.ctx, tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone))
	s.engine.Tick()
	s.Equal(model.Cell{X: 4, Y: 4}, s.engine.State().Head())
}

func (s *AppSuite) TestEatingPlaysSound() {
	s.random.QueueIntn(6, 5, 0, 0)
	s.login()

	s.engine.Tick()

	eat, _ := s.sounds.counts()
	s.Equal(1, eat)
}

func (s *AppSuite) TestGameOverSubmitsAndShowsBest() {
	s.random.QueueCell(0, 19)
	s.login()

	for i := 0; i < 30 && s.engine.State().IsRunning(); i++ {
		s.engine.Tick()
	}
	s.Require().Equal(model.PhaseOver, s.engine.State().Phase)
	s.app.WaitSubmissions()
	s.app.draw()

	_, gameOver := s.sounds.counts()
	s.Equal(1, gameOver)
	s.Equal([]int{0}, s.scores.submitted)
	s.Contains(s.row(2), "GAME OVER")
	s.Contains(s.row(5), "BEST:  0")
	s.Contains(s.row(9), "HIGH SCORES")
	s.Contains(s.row(10), " 1. ada")
}

func (s *AppSuite) TestRestartAfterGameOver() {
	s.random.QueueCell(0, 19)
	s.login()
	for i := 0; i < 30 && s.engine.State().IsRunning(); i++ {
		s.engine.Tick()
	}
	s.app.WaitSubmissions()
	s.Require().Equal(model.AvailabilityAuthenticatedOK, s.session.State().Availability)

	s.app.HandleKey(s.ctx, tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModNone))

	s.Eventually(func() bool {
		return s.engine.State().IsRunning()
	}, time.Second, time.Millisecond)
	s.Equal(engine.StartSnake(), s.engine.State().Snake)
}

func (s *AppSuite) TestRestartWaitsForSubmission() {
	s.random.QueueCell(0, 19)
	s.login()
	release := s.scores.holdSubmissions()
	for i := 0; i < 30 && s.engine.State().IsRunning(); i++ {
		s.engine.Tick()
	}
	s.Require().Equal(model.PhaseOver, s.engine.State().Phase)

	s.app.HandleKey(s.ctx, tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModNone))
	s.Never(func() bool {
		return s.engine.State().IsRunning()
	}, 50*time.Millisecond, 5*time.Millisecond)

	release()
	s.Eventually(func() bool {
		return s.engine.State().IsRunning() && s.app.isPlaying()
	}, time.Second, time.Millisecond)
	s.Equal(model.AvailabilityAuthenticatedOK, s.session.State().Availability)
}

func (s *AppSuite) TestLongPasswordFitsServerLimit() {
	s.typeText("ada")
	s.press(tcell.KeyTab)
	s.typeText(strings.Repeat("🐍", 20))
	s.clock.Advance(500 * time.Millisecond)
	s.app.draw()

	s.Len(s.session.State().Password, model.MaxPasswordBytes)
	s.Contains(s.row(5), "NAME AVAILABLE")
}

func (s *AppSuite) TestRestartIgnoredWhileRunning() {
	s.random.QueueCell(0, 0)
	s.login()
	s.engine.Tick()

	s.app.HandleKey(s.ctx, tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModNone))

	s.Never(func() bool {
		return s.engine.State().Head() != (model.Cell{X: 6, Y: 5})
	}, 50*time.Millisecond, 5*time.Millisecond)
}

func (s *AppSuite) TestQuitKeys() {
	s.False(s.app.HandleKey(s.ctx, tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)))
	s.True(s.press(tcell.KeyEscape))

	s.random.QueueCell(0, 0)
	s.login()
	s.True(s.app.HandleKey(s.ctx, tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)))
	s.True(s.press(tcell.KeyCtrlC))
}

func (s *AppSuite) TestAutopilotSteersTowardFood() {
	s.newApp(autopilot.NewGreedyStrategy())
	s.random.QueueCell(5, 1)
	s.login()

	s.engine.Tick()

	s.Equal(model.Cell{X: 5, Y: 4}, s.engine.State().Head())
}

func (s *AppSuite) TestRunQuitsOnEscape() {
	done := make(chan error, 1)
	go func() {
		done <- s.app.Run(s.ctx)
	}()

	s.screen.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)

	select {
	case err := <-done:
		s.NoError(err)
	case <-time.After(2 * time.Second):
		s.Fail("run did not return")
	}
}

func (s *AppSuite) TestRunStopsOnCancel() {
	ctx, cancel := context.WithCancel(s.ctx)
	done := make(chan error, 1)
	go func() {
		done <- s.app.Run(ctx)
	}()
	cancel()

	select {
	case err := <-done:
		s.NoError(err)
	case <-time.After(2 * time.Second):
		s.Fail("run did not return")
	}
}
