package learning

import "time"

// Config tunes the Machine's timing and prefetching.
type Config struct {
	// SettleDelay is how long GENERATING_MAIN_TOPIC lasts when no main-topic
	// question is queued yet.
	SettleDelay time.Duration

	// QueueTarget is the number of questions kept ready for the active topic.
	QueueTarget int

	// PrefetchRetryDelay is the wait after a failed background generation.
	PrefetchRetryDelay time.Duration

	// RecorderBuffer is the capacity of the learning event buffer.
	RecorderBuffer int
}

// DefaultConfig returns the standard settings.
func DefaultConfig() Config {
	return Config{
		SettleDelay:        time.Second,
		QueueTarget:        2,
		PrefetchRetryDelay: 2 * time.Second,
		RecorderBuffer:     64,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.SettleDelay < 0 {
		c.SettleDelay = 0
	}
	if c.QueueTarget <= 0 {
		c.QueueTarget = d.QueueTarget
	}
	if c.PrefetchRetryDelay <= 0 {
		c.PrefetchRetryDelay = d.PrefetchRetryDelay
	}
	if c.RecorderBuffer <= 0 {
		c.RecorderBuffer = d.RecorderBuffer
	}
	return c
}
