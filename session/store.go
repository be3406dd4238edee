package session

import (
	"context"
)

type sessionErr string

func (err sessionErr) Error() string { return string(err) }

const (
	ErrKeyNotFound        sessionErr = "[session] key not found"
	ErrSessionClosed      sessionErr = "[session] closed"
	ErrUnknownBackend     sessionErr = "[session] unknown store backend"
	ErrChallengeIdle      sessionErr = "[session] challenge not started"
	ErrChallengeExpired   sessionErr = "[session] challenge expired"
	ErrQuestionOutOfRange sessionErr = "[session] question index out of range"
	ErrChoiceOutOfRange   sessionErr = "[session] choice index out of range"
	ErrAlreadyAnswered    sessionErr = "[session] question already answered"
	ErrEmptyPlayerName    sessionErr = "[session] empty player name"
)

// Store keeps flat string key-values grouped by session ID.
type Store interface {
	// Get returns ErrKeyNotFound if the key is absent.
	Get(ctx context.Context, sid, key string) (string, error)
	Set(ctx context.Context, sid, key, value string) error
	Delete(ctx context.Context, sid, key string) error
	// Keys lists the keys starting with prefix in ascending order.
	Keys(ctx context.Context, sid, prefix string) ([]string, error)
	// Purge drops everything stored for the session.
	Purge(ctx context.Context, sid string) error
	Close() error
}

type Backend string

const (
	MemoryBackend Backend = "memory"
	RedisBackend  Backend = "redis"
)

func ParseBackend(backend string) (Backend, error) {
	switch Backend(backend) {
	case MemoryBackend, "":
		return MemoryBackend, nil
	case RedisBackend:
		return RedisBackend, nil
	default:
	}
	return "", ErrUnknownBackend
}
