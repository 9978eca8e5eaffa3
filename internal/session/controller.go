package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/mcoot/cybersnake/internal/dependencies/clock"
	"github.com/mcoot/cybersnake/internal/model"
)

// Messages shown next to the login form
const (
	MessageConnectionError = "connection error"
	MessageWrongPassword   = "incorrect password"
	MessageNameTaken       = "name already taken"
	MessageStillChecking   = "please wait"
	MessageInvalid         = "name or password not accepted"
)

// ScoreAPI is the remote score service the controller talks to
type ScoreAPI interface {
	CheckName(ctx context.Context, name, password string) (model.CheckResult, error)
	SubmitScore(ctx context.Context, name, password string, score int) (model.LeaderboardEntry, error)
	Leaderboard(ctx context.Context) ([]model.LeaderboardEntry, error)
}

// Game is the engine a successful start launches
type Game interface {
	Start()
}

// Listener receives a snapshot after every state change
type Listener func(state model.SessionState)

// Config holds configuration for the session controller
type Config struct {
	// Debounce is the quiet period after typing before a name check
	Debounce time.Duration
	// RequestTimeout bounds checks issued by the debounce timer
	RequestTimeout time.Duration
	// MaxFieldLength caps name and password input, in runes
	MaxFieldLength int
	// MaxPasswordBytes caps the encoded password, which the server
	// limits by bytes rather than runes
	MaxPasswordBytes int
}

// DefaultConfig returns default session configuration
func DefaultConfig() Config {
	return Config{
		Debounce:         500 * time.Millisecond,
		RequestTimeout:   10 * time.Second,
		MaxFieldLength:   model.MaxNameLength,
		MaxPasswordBytes: model.MaxPasswordBytes,
	}
}

// Controller drives the login form: it checks the typed name against the
// server as the player types, re-checks before a game starts and submits
// the score when the game ends
type Controller struct {
	api    ScoreAPI
	game   Game
	creds  CredentialStore
	clock  clock.Clock
	cfg    Config
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	state   model.SessionState
	timer   clock.Timer
	playing *model.Credential
	// started counts successful starts so a late submission for a
	// replaced game does not overwrite the current one
	started   uint64
	listeners []Listener
}

// New creates a new Controller
func New(api ScoreAPI, game Game, creds CredentialStore, clk clock.Clock, logger *slog.Logger, cfg Config) *Controller {
	def := DefaultConfig()
	if cfg.Debounce <= 0 {
		cfg.Debounce = def.Debounce
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = def.RequestTimeout
	}
	if cfg.MaxFieldLength <= 0 {
		cfg.MaxFieldLength = def.MaxFieldLength
	}
	if cfg.MaxPasswordBytes <= 0 {
		cfg.MaxPasswordBytes = def.MaxPasswordBytes
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		api:    api,
		game:   game,
		creds:  creds,
		clock:  clk,
		cfg:    cfg,
		logger: logger.With(slog.String("component", "session")),
		ctx:    ctx,
		cancel: cancel,
		state:  model.SessionState{Availability: model.AvailabilityUnknown},
	}
}

// OnChange registers a listener for state changes
func (c *Controller) OnChange(l Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

// State returns a snapshot of the session
func (c *Controller) State() model.SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Playing returns the credential of the running game, if any
func (c *Controller) Playing() (model.Credential, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.playing == nil {
		return model.Credential{}, false
	}
	return *c.playing, true
}

// SetName updates the typed name and schedules a check
func (c *Controller) SetName(name string) {
	c.mu.Lock()
	c.state.Name = c.capField(name)
	c.scheduleLocked()
	c.mu.Unlock()
	c.notify()
}

// SetPassword updates the typed password and schedules a check
func (c *Controller) SetPassword(password string) {
	c.mu.Lock()
	c.state.Password = c.capPassword(password)
	c.scheduleLocked()
	c.mu.Unlock()
	c.notify()
}

// Resume restores the saved credential, if any, and schedules a check.
// It reports whether a credential was restored.
func (c *Controller) Resume() (bool, error) {
	cred, ok, err := c.creds.Load()
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	c.mu.Lock()
	c.state.Name = c.capField(cred.Name)
	c.state.Password = c.capPassword(cred.Password)
	c.scheduleLocked()
	c.mu.Unlock()
	c.notify()
	return true, nil
}

// Start re-checks the name with the server and, if the answer still
// matches what the form shows, saves the credential and starts the game.
// A disagreeing answer aborts the start and replaces the cached state.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	cached := c.state.Availability
	if !cached.CanStart() {
		if cached == model.AvailabilityChecking {
			c.state.Message = MessageStillChecking
		}
		c.mu.Unlock()
		c.notify()
		return fmt.Errorf("%w: %s", model.ErrNotAllowed, cached)
	}
	cred := c.credentialLocked()
	epoch := c.state.Epoch
	c.mu.Unlock()

	result, err := c.api.CheckName(ctx, cred.Name, cred.Password)

	c.mu.Lock()
	if epoch != c.state.Epoch {
		// The form changed while the check was in flight
		c.mu.Unlock()
		return fmt.Errorf("%w: credential changed", model.ErrNotAllowed)
	}
	if err != nil {
		c.failLocked(err)
		c.mu.Unlock()
		c.notify()
		return err
	}

	fresh := model.AvailabilityFromCheck(result)
	switch {
	case result == model.CheckRejected && cached == model.AvailabilityAvailable:
		fresh = model.AvailabilityNameTaken
	case fresh == model.AvailabilityAuthenticatedOK && cached == model.AvailabilityAvailable && c.ownsLocked(cred):
		// The previous game's submission claimed the name for this credential
		c.state.Availability = fresh
		cached = fresh
	}
	if fresh != cached {
		c.applyLocked(fresh)
		c.mu.Unlock()
		c.logger.Info("start aborted, name check changed",
			slog.String("name", cred.Name),
			slog.String("cached", string(cached)),
			slog.String("fresh", string(fresh)))
		c.notify()
		return fmt.Errorf("%w: %s", model.ErrNotAllowed, fresh)
	}

	c.playing = &cred
	c.started++
	c.state.Message = ""
	c.state.LastSubmitted = nil
	c.mu.Unlock()

	if err := c.creds.Save(cred); err != nil {
		c.logger.Warn("failed to save credentials", slog.Any("error", err))
	}
	c.logger.Info("game started", slog.String("name", cred.Name))
	c.game.Start()
	c.notify()
	return nil
}

// GameOver submits the final score for the running credential and then
// refreshes the leaderboard. It returns the record the server kept.
func (c *Controller) GameOver(ctx context.Context, score int) (model.LeaderboardEntry, error) {
	c.mu.Lock()
	if c.playing == nil {
		c.mu.Unlock()
		return model.LeaderboardEntry{}, model.ErrNotRunning
	}
	cred := *c.playing
	game := c.started
	c.mu.Unlock()

	entry, err := c.api.SubmitScore(ctx, cred.Name, cred.Password, score)
	if err != nil {
		c.mu.Lock()
		switch {
		case game != c.started:
			c.logger.Debug("ignoring failure for a replaced game", slog.Uint64("game", game))
		case errors.Is(err, model.ErrCredentialMismatch):
			c.applyLocked(model.AvailabilityNameTaken)
		default:
			c.failLocked(err)
		}
		c.mu.Unlock()
		c.logger.Warn("score submission failed",
			slog.String("name", cred.Name),
			slog.Int("score", score),
			slog.Any("error", err))
		c.notify()
		return model.LeaderboardEntry{}, err
	}

	c.mu.Lock()
	if game == c.started {
		c.state.LastSubmitted = &entry
	}
	// The name now has a record owned by this password
	if c.credentialLocked() == cred && c.state.Availability == model.AvailabilityAvailable {
		c.state.Availability = model.AvailabilityAuthenticatedOK
	}
	c.mu.Unlock()
	c.logger.Info("score submitted",
		slog.String("name", cred.Name),
		slog.Int("score", score),
		slog.Int("best", entry.Score))

	if err := c.RefreshLeaderboard(ctx); err != nil {
		return entry, err
	}
	return entry, nil
}

// RefreshLeaderboard reloads the leaderboard from the server
func (c *Controller) RefreshLeaderboard(ctx context.Context) error {
	entries, err := c.api.Leaderboard(ctx)

	c.mu.Lock()
	if err != nil {
		c.failLocked(err)
	} else {
		c.state.Leaderboard = entries
	}
	c.mu.Unlock()
	c.notify()
	return err
}

// Close cancels the pending check and any check in flight
func (c *Controller) Close() {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.mu.Unlock()
	c.cancel()
}

// scheduleLocked starts a new check epoch. Incomplete input is not sent.
func (c *Controller) scheduleLocked() {
	c.state.Epoch++
	c.state.Message = ""
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}

	cred := c.credentialLocked()
	if !cred.IsComplete() {
		c.state.Availability = model.AvailabilityUnknown
		return
	}

	c.state.Availability = model.AvailabilityChecking
	epoch := c.state.Epoch
	c.timer = c.clock.AfterFunc(c.cfg.Debounce, func() {
		c.runCheck(epoch)
	})
}

func (c *Controller) runCheck(epoch uint64) {
	c.mu.Lock()
	if epoch != c.state.Epoch {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	cred := c.credentialLocked()
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(c.ctx, c.cfg.RequestTimeout)
	defer cancel()
	result, err := c.api.CheckName(ctx, cred.Name, cred.Password)

	c.mu.Lock()
	if epoch != c.state.Epoch {
		c.mu.Unlock()
		c.logger.Debug("discarding stale name check", slog.Uint64("epoch", epoch))
		return
	}
	if err != nil {
		c.failLocked(err)
	} else {
		c.applyLocked(model.AvailabilityFromCheck(result))
	}
	c.mu.Unlock()
	c.notify()
}

func (c *Controller) applyLocked(a model.Availability) {
	c.state.Availability = a
	switch a {
	case model.AvailabilityAuthenticationFailed:
		c.state.Message = MessageWrongPassword
	case model.AvailabilityNameTaken:
		c.state.Message = MessageNameTaken
	default:
		c.state.Message = ""
	}
}

func (c *Controller) failLocked(err error) {
	if errors.Is(err, model.ErrValidation) {
		c.logger.Info("score server refused credential", slog.Any("error", err))
		c.state.Availability = model.AvailabilityInvalid
		c.state.Message = MessageInvalid
		return
	}
	c.logger.Warn("score server call failed", slog.Any("error", err))
	c.state.Availability = model.AvailabilityError
	c.state.Message = MessageConnectionError
}

// ownsLocked reports whether cred is the credential of the last started game
func (c *Controller) ownsLocked(cred model.Credential) bool {
	return c.playing != nil && *c.playing == cred
}

func (c *Controller) credentialLocked() model.Credential {
	return model.Credential{
		Name:     strings.TrimSpace(c.state.Name),
		Password: strings.TrimSpace(c.state.Password),
	}
}

func (c *Controller) capField(s string) string {
	r := []rune(s)
	if len(r) > c.cfg.MaxFieldLength {
		r = r[:c.cfg.MaxFieldLength]
	}
	return string(r)
}

// capPassword applies the rune cap and then drops whole runes until the
// password fits the byte limit
func (c *Controller) capPassword(s string) string {
	s = c.capField(s)
	for len(s) > c.cfg.MaxPasswordBytes {
		_, size := utf8.DecodeLastRuneInString(s)
		s = s[:len(s)-size]
	}
	return s
}

func (c *Controller) notify() {
	c.mu.Lock()
	state := c.state.Clone()
	listeners := make([]Listener, len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()

	for _, l := range listeners {
		l(state)
	}
}
