package tui

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/mcoot/cybersnake/internal/engine"
	"github.com/mcoot/cybersnake/internal/model"
	"github.com/mcoot/cybersnake/internal/services/autopilot"
	"github.com/mcoot/cybersnake/internal/session"
)

// Config holds configuration for the terminal client
type Config struct {
	// Autopilot steers the snake when set
	Autopilot autopilot.Strategy
	Sounds    Sounds
}

// App is the terminal client: a login form in front of the game board
type App struct {
	screen  tcell.Screen
	engine  *engine.Engine
	session *session.Controller
	pilot   autopilot.Strategy
	sounds  Sounds
	logger  *slog.Logger

	mu        sync.Mutex
	focus     Field
	playing   bool
	starting  bool
	lastScore int
	submits   sync.WaitGroup
}

// New creates a new App. The engine's listeners are registered here.
func New(screen tcell.Screen, eng *engine.Engine, ctrl *session.Controller, logger *slog.Logger, cfg Config) *App {
	if cfg.Sounds == nil {
		cfg.Sounds = Silent{}
	}
	a := &App{
		screen:  screen,
		engine:  eng,
		session: ctrl,
		pilot:   cfg.Autopilot,
		sounds:  cfg.Sounds,
		logger:  logger.With(slog.String("component", "tui")),
	}
	eng.OnTick(a.onTick)
	eng.OnGameOver(a.onGameOver)
	ctrl.OnChange(func(model.SessionState) { a.wake() })
	return a
}

// Run draws and handles input until the player quits or ctx ends. The
// screen must already be initialised; Run does not finalise it.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	a.screen.HideCursor()
	a.draw()
	for {
		select {
		case <-ctx.Done():
			a.shutdown()
			return nil
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if a.HandleKey(ctx, ev) {
					a.shutdown()
					return nil
				}
			case *tcell.EventResize:
				a.screen.Sync()
			}
			a.draw()
		}
	}
}

// HandleKey applies one key press. It reports whether the player quit.
func (a *App) HandleKey(ctx context.Context, ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyCtrlC || ev.Key() == tcell.KeyEscape {
		return true
	}
	if a.isPlaying() {
		return a.handleGameKey(ctx, ev)
	}
	a.handleLoginKey(ctx, ev)
	return false
}

func (a *App) handleLoginKey(ctx context.Context, ev *tcell.EventKey) {
	state := a.session.State()
	a.mu.Lock()
	focus := a.focus
	a.mu.Unlock()

	switch ev.Key() {
	case tcell.KeyTab, tcell.KeyBacktab, tcell.KeyUp, tcell.KeyDown:
		a.setFocus(1 - focus)
	case tcell.KeyEnter:
		if focus == FieldName {
			a.setFocus(FieldPassword)
			return
		}
		a.start(ctx)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		a.editField(focus, state, func(r []rune) []rune {
			if len(r) == 0 {
				return r
			}
			return r[:len(r)-1]
		})
	case tcell.KeyRune:
		a.editField(focus, state, func(r []rune) []rune {
			return append(r, ev.Rune())
		})
	}
}

func (a *App) handleGameKey(ctx context.Context, ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyUp:
		a.engine.SetDirection(model.DirectionUp)
	case tcell.KeyDown:
		a.engine.SetDirection(model.DirectionDown)
	case tcell.KeyLeft:
		a.engine.SetDirection(model.DirectionLeft)
	case tcell.KeyRight:
		a.engine.SetDirection(model.DirectionRight)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'w', 'W':
			a.engine.SetDirection(model.DirectionUp)
		case 's', 'S':
			a.engine.SetDirection(model.DirectionDown)
		case 'a', 'A':
			a.engine.SetDirection(model.DirectionLeft)
		case 'd', 'D':
			a.engine.SetDirection(model.DirectionRight)
		case 'r', 'R':
			if a.engine.State().Phase == model.PhaseOver {
				a.start(ctx)
			}
		case 'q', 'Q':
			return true
		}
	}
	return false
}

func (a *App) editField(focus Field, state model.SessionState, edit func([]rune) []rune) {
	if focus == FieldName {
		a.session.SetName(string(edit([]rune(state.Name))))
	} else {
		a.session.SetPassword(string(edit([]rune(state.Password))))
	}
}

func (a *App) setFocus(f Field) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.focus = f
}

// start runs the final name check off the UI goroutine. A restart waits
// for the previous game's submission so the check sees its record.
func (a *App) start(ctx context.Context) {
	a.mu.Lock()
	if a.starting {
		a.mu.Unlock()
		return
	}
	a.starting = true
	a.mu.Unlock()

	go func() {
		a.submits.Wait()
		err := a.session.Start(ctx)
		a.mu.Lock()
		a.starting = false
		a.playing = err == nil
		if err == nil {
			a.lastScore = 0
		}
		a.mu.Unlock()
		if err != nil && !errors.Is(err, model.ErrNotAllowed) {
			a.logger.Warn("failed to start game", slog.Any("error", err))
		}
		a.wake()
	}()
}

func (a *App) onTick(state model.GameState) {
	a.mu.Lock()
	ate := state.Score > a.lastScore
	a.lastScore = state.Score
	a.mu.Unlock()

	if ate {
		a.sounds.Eat()
	}
	if a.pilot != nil {
		cfg := a.engine.Config()
		autopilot.Steer(a.engine, a.pilot, state, cfg)
	}
	a.wake()
}

func (a *App) onGameOver(state model.GameState) {
	a.sounds.GameOver()
	a.submits.Add(1)
	go func() {
		defer a.submits.Done()
		if _, err := a.session.GameOver(context.Background(), state.Score); err != nil {
			a.logger.Warn("failed to record score",
				slog.Int("score", state.Score),
				slog.Any("error", err))
		}
		a.wake()
	}()
	a.wake()
}

// WaitSubmissions blocks until pending score submissions finish
func (a *App) WaitSubmissions() {
	a.submits.Wait()
}

func (a *App) isPlaying() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.playing
}

// wake asks the event loop to redraw
func (a *App) wake() {
	_ = a.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

func (a *App) shutdown() {
	a.engine.Stop()
	a.WaitSubmissions()
}

// draw renders the current view
func (a *App) draw() {
	a.screen.Clear()
	state := a.session.State()
	if !a.isPlaying() {
		a.mu.Lock()
		focus := a.focus
		a.mu.Unlock()
		drawLogin(a.screen, state, focus)
		a.screen.Show()
		return
	}

	cfg := a.engine.Config()
	game := a.engine.State()
	drawGame(a.screen, game, cfg.Width, cfg.Height, state.Name)
	if game.Phase == model.PhaseOver {
		drawGameOver(a.screen, game, state, cfg.Width)
	}
	a.screen.Show()
}
