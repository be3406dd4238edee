package session

import (
	"context"
	"time"
)

// Challenge is a countdown evaluated on demand. The caller passes the
// current time on every check, nothing ticks in the background.
type Challenge struct {
	duration  time.Duration
	startedAt time.Time
	points    int64
	done      bool
}

func NewChallenge(duration time.Duration, points int64) *Challenge {
	return &Challenge{duration: duration, points: points}
}

func (c *Challenge) Duration() time.Duration {
	return c.duration
}

// Start (re)arms the countdown at now.
func (c *Challenge) Start(now time.Time) {
	c.startedAt = now
	c.done = false
}

func (c *Challenge) Started() bool {
	return !c.startedAt.IsZero()
}

// Remaining is the full duration before Start and never negative.
func (c *Challenge) Remaining(now time.Time) time.Duration {
	if !c.Started() {
		return c.duration
	}
	left := c.duration - now.Sub(c.startedAt)
	if left < 0 {
		return 0
	}
	return left
}

func (c *Challenge) Expired(now time.Time) bool {
	return c.Started() && c.Remaining(now) <= 0
}

// Complete awards the points to the session if the countdown is still
// running, and stops it. It returns the new session score.
func (c *Challenge) Complete(ctx context.Context, s *Session, now time.Time) (int64, error) {
	switch {
	case !c.Started() || c.done:
		return 0, ErrChallengeIdle
	case c.Expired(now):
		c.done = true
		return 0, ErrChallengeExpired
	default:
	}
	c.done = true
	score, err := s.AddScore(ctx, c.points)
	if err != nil {
		return 0, err
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "challenge completed")
	}
	return score, nil
}
