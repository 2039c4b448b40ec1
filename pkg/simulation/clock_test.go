package simulation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFallbackForTPS(t *testing.T) {
	tests := []struct {
		tps  int
		want time.Duration
	}{
		{60, time.Second / 60},
		{30, time.Second / 30},
		{0, time.Second / 60},
		{-1, time.Second / 60}, // ticks synced with the display
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FallbackForTPS(tt.tps), "tps=%d", tt.tps)
	}
}

func TestStepClock_MeasuresFrames(t *testing.T) {
	c := NewStepClock(10*time.Millisecond, 100*time.Millisecond)
	t0 := time.Unix(1000, 0)

	assert.Equal(t, 10*time.Millisecond, c.Next(t0), "first frame uses the fallback")
	assert.Equal(t, 25*time.Millisecond, c.Next(t0.Add(25*time.Millisecond)))
	assert.Equal(t, 100*time.Millisecond, c.Next(t0.Add(5*time.Second)), "long frames are capped")
	assert.Equal(t, 10*time.Millisecond, c.Next(t0), "time going backwards uses the fallback")

	c.Reset()
	assert.Equal(t, 10*time.Millisecond, c.Next(t0.Add(time.Hour)))
}

func TestStepClock_NeverReturnsANonPositiveStep(t *testing.T) {
	c := NewStepClock(FallbackForTPS(-1), 0)
	now := time.Unix(0, 0)
	for i := 0; i < 5; i++ {
		assert.Greater(t, c.Next(now), time.Duration(0))
	}
	assert.Equal(t, time.Second/60, NewStepClock(-time.Second, -time.Second).Next(now))
}
