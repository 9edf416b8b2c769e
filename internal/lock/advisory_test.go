package lock

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	_ "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	getLockQuery     = regexp.QuoteMeta("SELECT GET_LOCK(?, ?)")
	releaseLockQuery = regexp.QuoteMeta("SELECT RELEASE_LOCK(?)")
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func lockResult(v any) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"result"}).AddRow(v)
}

func TestAcquireLock(t *testing.T) {
	tests := []struct {
		name     string
		result   any
		acquired bool
		wantErr  string
	}{
		{name: "acquired", result: 1, acquired: true},
		{name: "timeout", result: 0, acquired: false},
		{name: "null", result: nil, wantErr: "returned NULL"},
		{name: "unexpected", result: 7, wantErr: "unexpected GET_LOCK return value: 7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMock(t)
			mock.ExpectQuery(getLockQuery).WithArgs("dq:report:abc", 3).WillReturnRows(lockResult(tt.result))

			l := NewAdvisoryLock(db, "dq:report:abc")
			acquired, err := l.AcquireLock(context.Background(), 3)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.acquired, acquired)
			assert.Equal(t, tt.acquired, l.held)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAcquireLock_AlreadyHeld(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(getLockQuery).WillReturnRows(lockResult(1))

	l := NewAdvisoryLock(db, "x")
	for i := 0; i < 2; i++ {
		acquired, err := l.TryAcquire(context.Background())
		require.NoError(t, err)
		assert.True(t, acquired)
	}
	assert.NoError(t, mock.ExpectationsWereMet(), "second acquire must not query")
}

func TestAcquireLock_QueryError(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(getLockQuery).WillReturnError(errors.New("server gone"))

	acquired, err := NewAdvisoryLock(db, "x").AcquireLock(context.Background(), 1)
	require.Error(t, err)
	assert.False(t, acquired)
	assert.Contains(t, err.Error(), "server gone")
}

func TestReleaseLock(t *testing.T) {
	db, mock := newMock(t)
	l := NewAdvisoryLock(db, "x")

	released, err := l.ReleaseLock(context.Background())
	require.NoError(t, err)
	assert.False(t, released, "releasing an unheld lock is a no-op")

	mock.ExpectQuery(getLockQuery).WillReturnRows(lockResult(1))
	mock.ExpectQuery(releaseLockQuery).WithArgs("x").WillReturnRows(lockResult(1))

	_, err = l.TryAcquire(context.Background())
	require.NoError(t, err)
	released, err = l.ReleaseLock(context.Background())
	require.NoError(t, err)
	assert.True(t, released)
	assert.False(t, l.held)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReleaseLock_NotOwned(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(getLockQuery).WillReturnRows(lockResult(1))
	mock.ExpectQuery(releaseLockQuery).WillReturnRows(lockResult(nil))

	l := NewAdvisoryLock(db, "x")
	_, err := l.TryAcquire(context.Background())
	require.NoError(t, err)

	released, err := l.ReleaseLock(context.Background())
	require.Error(t, err)
	assert.False(t, released)
	assert.False(t, l.held)
}

func TestWithLock(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(getLockQuery).WithArgs("x", TimeoutShort).WillReturnRows(lockResult(1))
	mock.ExpectQuery(releaseLockQuery).WillReturnRows(lockResult(1))

	l := NewAdvisoryLock(db, "x")
	ran := false
	err := l.WithLock(context.Background(), TimeoutShort, func() error {
		ran = true
		assert.True(t, l.held)
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)
	assert.False(t, l.held)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithLock_Timeout(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(getLockQuery).WillReturnRows(lockResult(0))

	err := NewAdvisoryLock(db, "x").WithLock(context.Background(), TimeoutShort, func() error {
		t.Fatal("fn must not run without the lock")
		return nil
	})
	assert.ErrorIs(t, err, ErrLockTimeout)
}

func TestWithLock_ReleasesOnError(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(getLockQuery).WillReturnRows(lockResult(1))
	mock.ExpectQuery(releaseLockQuery).WillReturnRows(lockResult(1))

	boom := errors.New("boom")
	err := NewAdvisoryLock(db, "x").WithLock(context.Background(), TimeoutShort, func() error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithLock_ReleasesOnPanic(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(getLockQuery).WillReturnRows(lockResult(1))
	mock.ExpectQuery(releaseLockQuery).WillReturnRows(lockResult(1))

	l := NewAdvisoryLock(db, "x")
	assert.Panics(t, func() {
		_ = l.WithLock(context.Background(), TimeoutShort, func() error {
			panic("fn failed")
		})
	})
	assert.False(t, l.held)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithLock_ReleaseErrorCombined(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(getLockQuery).WillReturnRows(lockResult(1))
	mock.ExpectQuery(releaseLockQuery).WillReturnError(errors.New("release failed"))

	boom := errors.New("boom")
	err := NewAdvisoryLock(db, "x").WithLock(context.Background(), TimeoutShort, func() error {
		return boom
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "release failed")
}

func TestGenerateReportLockName(t *testing.T) {
	assert.Equal(t, "dq:report:abc123", GenerateReportLockName("abc123"))
	assert.Equal(t, "dq:report:a_b_c", GenerateReportLockName("a b;c"))

	token := strings.Repeat("f", 48)
	name := GenerateReportLockName(token)
	assert.Equal(t, "dq:report:"+token, name)
	assert.LessOrEqual(t, len(name), MaxLockNameLength)

	long := GenerateReportLockName(strings.Repeat("a", 100))
	assert.Len(t, long, MaxLockNameLength)

	assert.Equal(t, "dq:report:a_b_c", NewReportLock(nil, "a b;c").LockName())
}

func TestIsReportLocked(t *testing.T) {
	t.Run("free", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(getLockQuery).WithArgs("dq:report:tok", TimeoutImmediate).WillReturnRows(lockResult(1))
		mock.ExpectQuery(releaseLockQuery).WithArgs("dq:report:tok").WillReturnRows(lockResult(1))

		locked, err := IsReportLocked(context.Background(), db, "tok")
		require.NoError(t, err)
		assert.False(t, locked)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("held elsewhere", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(getLockQuery).WillReturnRows(lockResult(0))

		locked, err := IsReportLocked(context.Background(), db, "tok")
		require.NoError(t, err)
		assert.True(t, locked)
	})
}

// TestReportLock_MySQL runs against a real server when
// DQPROFILE_TEST_MYSQL_DSN is set.
func TestReportLock_MySQL(t *testing.T) {
	dsn := os.Getenv("DQPROFILE_TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("DQPROFILE_TEST_MYSQL_DSN not set")
	}

	db, err := sql.Open("mysql", dsn)
	require.NoError(t, err)
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		t.Skipf("MySQL test server not available: %v", err)
	}

	first, err := db.Conn(ctx)
	require.NoError(t, err)
	defer first.Close()
	second, err := db.Conn(ctx)
	require.NoError(t, err)
	defer second.Close()

	token := "locktest" + time.Now().Format("150405.000")
	holder := NewReportLock(first, token)
	acquired, err := holder.TryAcquire(ctx)
	require.NoError(t, err)
	require.True(t, acquired)

	locked, err := IsReportLocked(ctx, second, token)
	require.NoError(t, err)
	assert.True(t, locked)

	_, err = holder.ReleaseLock(ctx)
	require.NoError(t, err)

	locked, err = IsReportLocked(ctx, second, token)
	require.NoError(t, err)
	assert.False(t, locked)
}
