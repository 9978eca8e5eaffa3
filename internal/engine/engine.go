package engine

import (
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/cybersnake/internal/dependencies/clock"
	"github.com/mcoot/cybersnake/internal/dependencies/random"
	"github.com/mcoot/cybersnake/internal/model"
)

// Listener receives a copy of the game state
type Listener func(state model.GameState)

// Engine owns a GameState and advances it on a fixed tick
type Engine struct {
	cfg    Config
	clock  clock.Clock
	random random.Random
	logger *slog.Logger

	mu         sync.Mutex
	state      model.GameState
	pending    model.Direction
	generation uint64
	ticker     clock.Ticker
	done       chan struct{}

	onTick     Listener
	onGameOver Listener
}

// New creates an idle Engine
func New(cfg Config, clk clock.Clock, rnd random.Random, logger *slog.Logger) *Engine {
	return &Engine{
		cfg:    cfg.WithDefaults(),
		clock:  clk,
		random: rnd,
		logger: logger.With(slog.String("component", "engine")),
		state:  model.GameState{Phase: model.PhaseIdle},
	}
}

// Config returns the effective configuration
func (e *Engine) Config() Config {
	return e.cfg
}

// OnTick sets the listener called after every tick and on start
func (e *Engine) OnTick(fn Listener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onTick = fn
}

// OnGameOver sets the listener called once when a run ends
func (e *Engine) OnGameOver(fn Listener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onGameOver = fn
}

// State returns a snapshot of the current state
func (e *Engine) State() model.GameState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// Start resets the game and starts ticking. Any previous tick source is
// torn down first, so restarting a running game is safe.
func (e *Engine) Start() {
	e.mu.Lock()
	e.stopLocked()

	e.generation++
	gen := e.generation
	e.state = NewState(e.cfg, e.random)
	e.pending = e.state.Direction

	e.ticker = e.clock.NewTicker(e.cfg.TickInterval)
	e.done = make(chan struct{})
	go e.run(gen, e.ticker.C(), e.done)

	snapshot := e.state.Clone()
	onTick := e.onTick
	e.mu.Unlock()

	e.logger.Debug("game started",
		slog.Uint64("generation", gen),
		slog.Duration("tick", e.cfg.TickInterval))

	if onTick != nil {
		onTick(snapshot)
	}
}

// Stop cancels the tick source without changing the state
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
}

// SetDirection buffers a heading for the next tick. It reports false when
// the game is not running or d reverses the current heading.
func (e *Engine) SetDirection(d model.Direction) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.state.IsRunning() || !d.Valid() {
		return false
	}
	if d == e.state.Direction.Opposite() {
		return false
	}
	e.pending = d
	return true
}

// Tick advances the current game by one step
func (e *Engine) Tick() {
	e.mu.Lock()
	gen := e.generation
	e.mu.Unlock()
	e.tick(gen)
}

func (e *Engine) run(gen uint64, ticks <-chan time.Time, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case <-ticks:
			e.tick(gen)
		}
	}
}

// tick ignores ticks from a torn-down run
func (e *Engine) tick(gen uint64) {
	e.mu.Lock()
	if gen != e.generation || !e.state.IsRunning() {
		e.mu.Unlock()
		return
	}

	e.state.Direction = e.pending
	next, outcome := Step(e.state, e.cfg, e.random)
	e.state = next
	if outcome.Over {
		e.stopLocked()
	}

	snapshot := next.Clone()
	onTick, onGameOver := e.onTick, e.onGameOver
	e.mu.Unlock()

	if onTick != nil {
		onTick(snapshot)
	}
	if outcome.Over {
		e.logger.Debug("game over",
			slog.Int("score", snapshot.Score),
			slog.String("reason", string(snapshot.EndReason)),
			slog.Int("length", len(snapshot.Snake)))
		if onGameOver != nil {
			onGameOver(snapshot)
		}
	}
}

func (e *Engine) stopLocked() {
	if e.ticker == nil {
		return
	}
	e.ticker.Stop()
	close(e.done)
	e.ticker = nil
	e.done = nil
}
