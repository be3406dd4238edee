package session

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/benz9527/xlist/lib/id"
	"github.com/benz9527/xlist/xlog"
)

const sessionIDLength = 16

var nano = lo.Must(id.ClassicNanoID(sessionIDLength))

const (
	keyCreatedAt      = "meta.createdAt"
	keyScore          = "score"
	keyBookmarkPrefix = "bookmark."
	keyNotePrefix     = "note."
	keyProgressPrefix = "progress."
	keyQuizPrefix     = "quiz."
)

// Session is the explicit state of one learner. Nothing survives Close.
type Session struct {
	id        string
	createdAt time.Time
	store     Store
	logger    xlog.XLogger
	now       func() time.Time
	closed    atomic.Bool
}

type sessionOptions struct {
	id     string
	logger xlog.XLogger
	now    func() time.Time
}

type SessionOption func(*sessionOptions)

// WithSessionID resumes a session kept by a shared store, i.e. redis.
func WithSessionID(sid string) SessionOption {
	return func(o *sessionOptions) {
		o.id = sid
	}
}

func WithSessionLogger(logger xlog.XLogger) SessionOption {
	return func(o *sessionOptions) {
		o.logger = logger
	}
}

func WithSessionClock(now func() time.Time) SessionOption {
	return func(o *sessionOptions) {
		if now != nil {
			o.now = now
		}
	}
}

func Open(ctx context.Context, store Store, opts ...SessionOption) (*Session, error) {
	if store == nil {
		return nil, ErrUnknownBackend
	}
	o := &sessionOptions{now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	s := &Session{
		id:     o.id,
		store:  store,
		logger: o.logger,
		now:    o.now,
	}
	if s.id == "" {
		s.id = nano()
	}

	createdAt, err := store.Get(ctx, s.id, keyCreatedAt)
	switch {
	case err == nil:
		ts, perr := time.Parse(time.RFC3339Nano, createdAt)
		if perr != nil {
			return nil, perr
		}
		s.createdAt = ts
	case errors.Is(err, ErrKeyNotFound):
		s.createdAt = s.now()
		if err = store.Set(ctx, s.id, keyCreatedAt, s.createdAt.Format(time.RFC3339Nano)); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "session opened", zap.String("sid", s.id), zap.Time("createdAt", s.createdAt))
	}
	return s, nil
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

func (s *Session) Now() time.Time {
	return s.now()
}

func (s *Session) Closed() bool {
	return s.closed.Load()
}

// Close purges the session data. Closing twice is a no-op.
func (s *Session) Close(ctx context.Context) error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := s.store.Purge(ctx, s.id)
	if s.logger != nil {
		if err != nil {
			s.logger.ErrorStackContext(ctx, err, "session purge failed", zap.String("sid", s.id))
		} else {
			s.logger.InfoContext(ctx, "session closed", zap.String("sid", s.id))
		}
	}
	return err
}

func (s *Session) get(ctx context.Context, key string) (string, bool, error) {
	if s.closed.Load() {
		return "", false, ErrSessionClosed
	}
	v, err := s.store.Get(ctx, s.id, key)
	if errors.Is(err, ErrKeyNotFound) {
		return "", false, nil
	} else if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *Session) set(ctx context.Context, key, value string) error {
	if s.closed.Load() {
		return ErrSessionClosed
	}
	return s.store.Set(ctx, s.id, key, value)
}

func (s *Session) del(ctx context.Context, key string) error {
	if s.closed.Load() {
		return ErrSessionClosed
	}
	return s.store.Delete(ctx, s.id, key)
}

func (s *Session) suffixes(ctx context.Context, prefix string) ([]string, error) {
	if s.closed.Load() {
		return nil, ErrSessionClosed
	}
	keys, err := s.store.Keys(ctx, s.id, prefix)
	if err != nil {
		return nil, err
	}
	return lo.Map(keys, func(key string, _ int) string {
		return strings.TrimPrefix(key, prefix)
	}), nil
}

func (s *Session) Score(ctx context.Context) (int64, error) {
	v, ok, err := s.get(ctx, keyScore)
	if err != nil || !ok {
		return 0, err
	}
	return strconv.ParseInt(v, 10, 64)
}

// AddScore returns the score after adding delta.
func (s *Session) AddScore(ctx context.Context, delta int64) (int64, error) {
	score, err := s.Score(ctx)
	if err != nil {
		return 0, err
	}
	score += delta
	if err = s.set(ctx, keyScore, strconv.FormatInt(score, 10)); err != nil {
		return 0, err
	}
	return score, nil
}

func (s *Session) Bookmark(ctx context.Context, section string) error {
	return s.set(ctx, keyBookmarkPrefix+section, s.now().Format(time.RFC3339))
}

func (s *Session) Unbookmark(ctx context.Context, section string) error {
	return s.del(ctx, keyBookmarkPrefix+section)
}

func (s *Session) Bookmarks(ctx context.Context) ([]string, error) {
	return s.suffixes(ctx, keyBookmarkPrefix)
}

// SetNote stores text for section, an empty text removes the note.
func (s *Session) SetNote(ctx context.Context, section, text string) error {
	if text == "" {
		return s.del(ctx, keyNotePrefix+section)
	}
	return s.set(ctx, keyNotePrefix+section, text)
}

func (s *Session) Note(ctx context.Context, section string) (string, error) {
	v, _, err := s.get(ctx, keyNotePrefix+section)
	return v, err
}

func (s *Session) MarkProgress(ctx context.Context, flag string) error {
	return s.set(ctx, keyProgressPrefix+flag, "1")
}

func (s *Session) Progress(ctx context.Context) ([]string, error) {
	return s.suffixes(ctx, keyProgressPrefix)
}
