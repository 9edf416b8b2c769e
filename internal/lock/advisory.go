// Package lock serializes writers of the same report with MySQL advisory locks.
package lock

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/multierr"
)

// ErrLockTimeout is returned when another session holds the lock past the
// acquisition timeout.
var ErrLockTimeout = errors.New("lock acquisition timed out")

// Acquisition timeouts in seconds.
const (
	TimeoutImmediate = 0
	TimeoutShort     = 1
	TimeoutMedium    = 10
	// MySQL treats negative values as an infinite wait.
	TimeoutInfinite  = -1
)

// MaxLockNameLength is the longest name GET_LOCK accepts.
const MaxLockNameLength = 64

const reportLockPrefix = "dq:report:"

// Querier is satisfied by *sql.DB, *sql.Conn and *sql.Tx. Advisory locks
// belong to a session, so callers that need the lock to cover later
// statements should pass a *sql.Conn and run those statements on it.
type Querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// AdvisoryLock is a named GET_LOCK lock.
type AdvisoryLock struct {
	q        Querier
	lockName string
	held     bool
}

// NewAdvisoryLock creates a lock named lockName. Nothing is acquired yet.
func NewAdvisoryLock(q Querier, lockName string) *AdvisoryLock {
	return &AdvisoryLock{q: q, lockName: lockName}
}

// AcquireLock waits up to timeoutSeconds for the lock. It returns false
// without error when the timeout expires.
//
// GET_LOCK returns 1 on success, 0 on timeout and NULL on error.
func (a *AdvisoryLock) AcquireLock(ctx context.Context, timeoutSeconds int) (bool, error) {
	if a.held {
		return true, nil
	}

	var result sql.NullInt64
	if err := a.q.QueryRowContext(ctx, "SELECT GET_LOCK(?, ?)", a.lockName, timeoutSeconds).Scan(&result); err != nil {
		return false, fmt.Errorf("failed to execute GET_LOCK: %w", err)
	}
	if !result.Valid {
		return false, fmt.Errorf("GET_LOCK returned NULL for lock %q", a.lockName)
	}

	switch result.Int64 {
	case 1:
		a.held = true
		return true, nil
	case 0:
		return false, nil
	default:
		return false, fmt.Errorf("unexpected GET_LOCK return value: %d", result.Int64)
	}
}

// ReleaseLock releases a held lock. It reports false when the lock was not
// held by this session.
//
// RELEASE_LOCK returns 1 on success, 0 when another session owns the lock
// and NULL when no such lock exists.
func (a *AdvisoryLock) ReleaseLock(ctx context.Context) (bool, error) {
	if !a.held {
		return false, nil
	}

	var result sql.NullInt64
	if err := a.q.QueryRowContext(ctx, "SELECT RELEASE_LOCK(?)", a.lockName).Scan(&result); err != nil {
		return false, fmt.Errorf("failed to execute RELEASE_LOCK: %w", err)
	}
	a.held = false

	if !result.Valid {
		return false, fmt.Errorf("RELEASE_LOCK returned NULL for lock %q", a.lockName)
	}
	switch result.Int64 {
	case 1:
		return true, nil
	case 0:
		return false, nil
	default:
		return false, fmt.Errorf("unexpected RELEASE_LOCK return value: %d", result.Int64)
	}
}

// LockName returns the name passed to GET_LOCK.
func (a *AdvisoryLock) LockName() string {
	return a.lockName
}

// TryAcquire attempts the lock without waiting.
func (a *AdvisoryLock) TryAcquire(ctx context.Context) (bool, error) {
	return a.AcquireLock(ctx, TimeoutImmediate)
}

// WithLock runs fn while holding the lock. The lock is released even if fn
// panics; a release failure is combined with fn's error.
func (a *AdvisoryLock) WithLock(ctx context.Context, timeoutSeconds int, fn func() error) (err error) {
	acquired, err := a.AcquireLock(ctx, timeoutSeconds)
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !acquired {
		return fmt.Errorf("%w: lock %q is held by another session", ErrLockTimeout, a.lockName)
	}

	defer func() {
		// ctx may already be canceled; the release still has to reach the server.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, releaseErr := a.ReleaseLock(releaseCtx); releaseErr != nil {
			err = multierr.Append(err, releaseErr)
		}
	}()

	return fn()
}

// GenerateReportLockName derives the lock name for a report token.
// Characters outside [a-zA-Z0-9_-] become underscores and the result is cut
// to MaxLockNameLength.
func GenerateReportLockName(token string) string {
	sanitized := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			return r
		}
		return '_'
	}, token)

	name := reportLockPrefix + sanitized
	if len(name) > MaxLockNameLength {
		name = name[:MaxLockNameLength]
	}
	return name
}

// NewReportLock creates the advisory lock guarding writes of one report.
func NewReportLock(q Querier, token string) *AdvisoryLock {
	return NewAdvisoryLock(q, GenerateReportLockName(token))
}

// IsReportLocked reports whether another session is writing the report.
// The answer can change as soon as it is returned.
func IsReportLocked(ctx context.Context, q Querier, token string) (bool, error) {
	l := NewReportLock(q, token)
	acquired, err := l.TryAcquire(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check lock for report %q: %w", token, err)
	}
	if !acquired {
		return true, nil
	}
	if _, err := l.ReleaseLock(ctx); err != nil {
		return false, err
	}
	return false, nil
}
