package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"

	"github.com/benz9527/xlist/lib/infra"
	"github.com/benz9527/xlist/xlog"
)

// MemoryLeaderboardDSN is a private in-memory database. It lives as
// long as its single connection.
const MemoryLeaderboardDSN = ":memory:"

type ScoreEntry struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:64;uniqueIndex"`
	Score     int64  `gorm:"index"`
	UpdatedAt time.Time
}

type Leaderboard struct {
	db *gorm.DB
}

// OpenLeaderboard opens the sqlite database at dsn and migrates the
// score table. A nil logger discards the SQL logs.
func OpenLeaderboard(dsn string, logger xlog.XLogger) (*Leaderboard, error) {
	cfg := &gorm.Config{Logger: glogger.Discard}
	if logger != nil {
		cfg.Logger = xlog.NewGormXLogger(logger,
			xlog.WithGormXLoggerIgnoreRecord404Err(),
			xlog.WithGormXLoggerLogLevel(glogger.Warn),
		)
	}
	db, err := gorm.Open(sqlite.Open(dsn), cfg)
	if err != nil {
		return nil, infra.WrapErrorStackWithMessage(err, "[leaderboard] open "+dsn)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, infra.WrapErrorStackWithMessage(err, "[leaderboard] sql db")
	}
	// Every new connection to :memory: is a different empty database.
	sqlDB.SetMaxOpenConns(1)

	lb := newLeaderboard(db)
	if err = db.AutoMigrate(&ScoreEntry{}); err != nil {
		_ = lb.Close()
		return nil, infra.WrapErrorStackWithMessage(err, "[leaderboard] migrate")
	}
	return lb, nil
}

func newLeaderboard(db *gorm.DB) *Leaderboard {
	return &Leaderboard{db: db}
}

// Submit keeps the best score per player name and returns the kept entry.
func (lb *Leaderboard) Submit(ctx context.Context, name string, score int64) (ScoreEntry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return ScoreEntry{}, ErrEmptyPlayerName
	}

	entry := ScoreEntry{}
	err := lb.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("name = ?", name).Take(&entry).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			entry = ScoreEntry{Name: name, Score: score}
			return tx.Create(&entry).Error
		} else if err != nil {
			return err
		}
		if score <= entry.Score {
			return nil
		}
		entry.Score = score
		return tx.Model(&entry).Update("score", score).Error
	})
	if err != nil {
		return ScoreEntry{}, infra.WrapErrorStackWithMessage(err, "[leaderboard] submit "+name)
	}
	return entry, nil
}

// Top returns up to n entries, best score first and ties by name.
func (lb *Leaderboard) Top(ctx context.Context, n int) ([]ScoreEntry, error) {
	if n <= 0 {
		return []ScoreEntry{}, nil
	}
	entries := make([]ScoreEntry, 0, n)
	err := lb.db.WithContext(ctx).
		Order("score desc").
		Order("name asc").
		Limit(n).
		Find(&entries).Error
	if err != nil {
		return nil, infra.WrapErrorStackWithMessage(err, "[leaderboard] top")
	}
	return entries, nil
}

func (lb *Leaderboard) Close() error {
	sqlDB, err := lb.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
