package clock_test

import (
	"testing"
	"tably/shared/clock"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew_ReturnsCurrentTime(t *testing.T) {
	before := time.Now().Add(-time.Second)

	now := clock.New().Now()

	assert.True(t, now.After(before))
}

func TestFake_SetAndAdvance(t *testing.T) {
	start := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	fake := clock.NewFake(start)

	assert.Equal(t, start, fake.Now())

	fake.Advance(90 * time.Minute)
	assert.Equal(t, start.Add(90*time.Minute), fake.Now())

	pinned := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	fake.Set(pinned)
	assert.Equal(t, pinned, fake.Now())
}
