package tui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToneLength(t *testing.T) {
	s, err := tone(880, 50*time.Millisecond)
	require.NoError(t, err)

	total := 0
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		total += n
		for i := 0; i < n; i++ {
			assert.LessOrEqual(t, buf[i][0], 1.0)
			assert.GreaterOrEqual(t, buf[i][0], -1.0)
		}
		if !ok {
			break
		}
	}

	assert.Equal(t, sampleRate.N(50*time.Millisecond), total)
}

func TestToneRejectsUnplayableFrequency(t *testing.T) {
	// Above the Nyquist frequency
	_, err := tone(float64(sampleRate), time.Millisecond)
	assert.Error(t, err)
}
