package tui

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// Sounds plays the game's sound effects
type Sounds interface {
	Eat()
	GameOver()
}

// Silent is a Sounds that plays nothing
type Silent struct{}

func (Silent) Eat()      {}
func (Silent) GameOver() {}

// Speaker plays short synthesized blips through the system audio device
type Speaker struct {
	mu     sync.Mutex
	logger *slog.Logger
}

// NewSounds opens the audio device. Audio is optional: when the device
// cannot be opened a Silent player is returned and the game runs without
// sound.
func NewSounds(logger *slog.Logger) Sounds {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		logger.Warn("audio initialization failed", slog.Any("error", err))
		return Silent{}
	}
	return &Speaker{logger: logger.With(slog.String("component", "sound"))}
}

// Eat plays a short high blip
func (s *Speaker) Eat() {
	s.play(880, 50*time.Millisecond)
}

// GameOver plays two falling tones
func (s *Speaker) GameOver() {
	s.play(440, 150*time.Millisecond, 220)
}

func (s *Speaker) play(freq float64, each time.Duration, more ...float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	streamers := make([]beep.Streamer, 0, 1+len(more))
	for _, f := range append([]float64{freq}, more...) {
		t, err := tone(f, each)
		if err != nil {
			s.logger.Debug("tone generation failed", slog.Float64("freq", f), slog.Any("error", err))
			return
		}
		streamers = append(streamers, t)
	}
	speaker.Play(beep.Seq(streamers...))
}

// tone is a sine wave of freq Hz lasting d
func tone(freq float64, d time.Duration) (beep.Streamer, error) {
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return nil, err
	}
	return beep.Take(sampleRate.N(d), sine), nil
}
