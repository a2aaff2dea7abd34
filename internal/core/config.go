package core

import "time"

// RuntimeConfig contains configuration passed from the platform at startup.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed for deterministic gameplay
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// FrameClock is the monotonic time source handed to the simulation.
// Time is derived from the number of ticks elapsed, never from the wall
// clock, so a run driven by the same inputs always sees the same times.
type FrameClock struct {
	tickRate int
	ticks    uint64
}

// NewFrameClock creates a clock that advances 1/tickRate seconds per tick.
// Non-positive rates fall back to 60.
func NewFrameClock(tickRate int) *FrameClock {
	if tickRate <= 0 {
		tickRate = 60
	}
	return &FrameClock{tickRate: tickRate}
}

// Frame returns the duration of a single tick.
func (c *FrameClock) Frame() time.Duration {
	return time.Second / time.Duration(c.tickRate)
}

// Now returns the simulated time elapsed since the clock started.
func (c *FrameClock) Now() time.Duration {
	return TickTime(c.ticks, c.tickRate)
}

// Rate returns the ticks per second.
func (c *FrameClock) Rate() int {
	return c.tickRate
}

// Ticks returns the number of ticks elapsed.
func (c *FrameClock) Ticks() uint64 {
	return c.ticks
}

// Advance moves the clock forward by one tick and returns the new time.
func (c *FrameClock) Advance() time.Duration {
	c.ticks++
	return c.Now()
}

// TickTime converts a tick count to simulated time at the given rate.
func TickTime(ticks uint64, tickRate int) time.Duration {
	if tickRate <= 0 {
		tickRate = 60
	}
	return time.Duration(ticks) * time.Second / time.Duration(tickRate)
}
