package session

import (
	"context"
	"errors"
	"testing"

	mock "github.com/DATA-DOG/go-sqlmock"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"

	"github.com/benz9527/xlist/xlog"
)

func TestLeaderboard_SubmitAndTop(t *testing.T) {
	ctx := context.Background()
	logger := xlog.NewXLogger(xlog.WithXLoggerLevel(xlog.LogLevelWarn))
	lb, err := OpenLeaderboard(MemoryLeaderboardDSN, logger)
	require.NoError(t, err)
	defer func() { require.NoError(t, lb.Close()) }()

	top, err := lb.Top(ctx, 3)
	require.NoError(t, err)
	require.Empty(t, top)

	_, err = lb.Submit(ctx, "  ", 10)
	require.ErrorIs(t, err, ErrEmptyPlayerName)

	entry, err := lb.Submit(ctx, "ada", 30)
	require.NoError(t, err)
	require.Equal(t, int64(30), entry.Score)
	entry, err = lb.Submit(ctx, "ada", 10)
	require.NoError(t, err)
	require.Equal(t, int64(30), entry.Score)
	entry, err = lb.Submit(ctx, "ada", 45)
	require.NoError(t, err)
	require.Equal(t, int64(45), entry.Score)

	_, err = lb.Submit(ctx, "grace", 45)
	require.NoError(t, err)
	_, err = lb.Submit(ctx, "linus", 12)
	require.NoError(t, err)
	_, err = lb.Submit(ctx, "ken", 50)
	require.NoError(t, err)

	top, err = lb.Top(ctx, 3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	require.Equal(t, "ken", top[0].Name)
	require.Equal(t, "ada", top[1].Name)
	require.Equal(t, int64(45), top[1].Score)
	require.Equal(t, "grace", top[2].Name)

	top, err = lb.Top(ctx, 0)
	require.NoError(t, err)
	require.Empty(t, top)
}

func genLeaderboardMock(t *testing.T) (*Leaderboard, mock.Sqlmock) {
	db, sqlMock, err := mock.New()
	require.NoError(t, err)
	// The sqlite dialector asks for the version while initializing.
	sqlMock.ExpectQuery(`select sqlite_version()`).
		WithArgs().
		WillReturnRows(sqlMock.NewRows([]string{"sqlite_version()"}).
			AddRow("3.38.0"))
	gdb, err := gorm.Open(sqlite.Dialector{
		DriverName: sqlite.DriverName,
		Conn:       db,
	}, &gorm.Config{
		Logger: glogger.Discard,
	})
	require.NoError(t, err)
	return newLeaderboard(gdb), sqlMock
}

func TestLeaderboard_DatabaseFailures(t *testing.T) {
	ctx := context.Background()
	lb, sqlMock := genLeaderboardMock(t)

	sqlMock.ExpectBegin().WillReturnError(errors.New("database is locked"))
	_, err := lb.Submit(ctx, "ada", 10)
	require.ErrorContains(t, err, "database is locked")

	sqlMock.ExpectQuery("SELECT (.+) FROM `score_entries`").
		WillReturnError(errors.New("no such table: score_entries"))
	_, err = lb.Top(ctx, 5)
	require.ErrorContains(t, err, "no such table")

	require.NoError(t, sqlMock.ExpectationsWereMet())
}
